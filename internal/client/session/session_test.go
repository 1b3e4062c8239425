package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abejanet/abejanet/internal/client/credstore"
	"github.com/abejanet/abejanet/internal/core/domain"
)

// failingStore injects storage failures per operation.
type failingStore struct {
	inner     credstore.Store
	getErr    error
	setErr    error
	removeErr error
}

func (s *failingStore) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.inner.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.inner.Set(ctx, key, value)
}

func (s *failingStore) Remove(ctx context.Context, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	return s.inner.Remove(ctx, key)
}

func newManager(store credstore.Store) *Manager {
	return NewManager(store, zerolog.Nop())
}

func TestManager_InitialStateIsUnknown(t *testing.T) {
	m := newManager(credstore.NewMemoryStore())
	if got := m.State().Status; got != StatusUnknown {
		t.Fatalf("expected StatusUnknown before Initialize, got %v", got)
	}
}

func TestManager_Initialize_EmptyStore(t *testing.T) {
	m := newManager(credstore.NewMemoryStore())
	m.Initialize(context.Background())

	st := m.State()
	if st.Status != StatusAnonymous {
		t.Fatalf("expected StatusAnonymous, got %v", st.Status)
	}
	if st.Token != "" || st.Role != "" {
		t.Fatalf("expected empty token/role, got %+v", st)
	}
}

func TestManager_Initialize_PartialCredentials(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	_ = store.Set(ctx, credstore.KeyAccessToken, "tok")
	// no role stored

	m := newManager(store)
	m.Initialize(ctx)

	if got := m.State().Status; got != StatusAnonymous {
		t.Fatalf("token without role must resolve to anonymous, got %v", got)
	}
}

func TestManager_Initialize_StorageFailureFailsClosed(t *testing.T) {
	store := &failingStore{inner: credstore.NewMemoryStore(), getErr: errors.New("disk gone")}
	m := newManager(store)
	m.Initialize(context.Background())

	if got := m.State().Status; got != StatusAnonymous {
		t.Fatalf("storage failure must fail closed, got %v", got)
	}
}

func TestManager_Login_RestartRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()

	m := newManager(store)
	m.Initialize(ctx)
	if err := m.Login(ctx, "tok-abc", domain.RoleAdmin); err != nil {
		t.Fatalf("Login: %v", err)
	}

	before := m.State()
	if before.Status != StatusAuthenticated || before.Token != "tok-abc" || before.Role != domain.RoleAdmin {
		t.Fatalf("unexpected state after login: %+v", before)
	}

	// Simulated restart: fresh manager over the same store.
	m2 := newManager(store)
	m2.Initialize(ctx)
	if after := m2.State(); after != before {
		t.Fatalf("state did not survive restart: before=%+v after=%+v", before, after)
	}
}

func TestManager_Login_PersistFailureStillAuthenticates(t *testing.T) {
	store := &failingStore{inner: credstore.NewMemoryStore(), setErr: errors.New("write failed")}
	m := newManager(store)

	err := m.Login(context.Background(), "tok", domain.RoleUser)
	if err == nil {
		t.Fatalf("expected persistence error to be reported")
	}
	if got := m.State().Status; got != StatusAuthenticated {
		t.Fatalf("in-memory login must succeed despite storage failure, got %v", got)
	}
}

func TestManager_Logout_ClearsStoreAndState(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	m := newManager(store)
	_ = m.Login(ctx, "tok", domain.RoleAdmin)

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := store.Get(ctx, credstore.KeyAccessToken); !errors.Is(err, credstore.ErrNotFound) {
		t.Fatalf("accessToken still present after logout")
	}
	if _, err := store.Get(ctx, credstore.KeyUserRole); !errors.Is(err, credstore.ErrNotFound) {
		t.Fatalf("userRole still present after logout")
	}
	st := m.State()
	if st.Status != StatusAnonymous || st.Token != "" || st.Role != "" {
		t.Fatalf("unexpected state after logout: %+v", st)
	}
}

func TestManager_Logout_RemovalFailureStillResets(t *testing.T) {
	store := &failingStore{inner: credstore.NewMemoryStore(), removeErr: errors.New("remove failed")}
	m := newManager(store)
	_ = m.Login(context.Background(), "tok", domain.RoleUser)

	if err := m.Logout(context.Background()); err == nil {
		t.Fatalf("expected removal error to be reported")
	}
	if got := m.State().Status; got != StatusAnonymous {
		t.Fatalf("logout must reset state regardless of storage failures, got %v", got)
	}
}

// gatedStore stalls the first Get until released, simulating slow storage
// I/O during Initialize.
type gatedStore struct {
	credstore.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *gatedStore) Get(ctx context.Context, key string) (string, error) {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return s.Store.Get(ctx, key)
}

func TestManager_SlowInitializeDoesNotClobberLogin(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	gated := &gatedStore{
		Store:   store,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := newManager(gated)

	initDone := make(chan struct{})
	go func() {
		m.Initialize(ctx)
		close(initDone)
	}()
	<-gated.entered // Initialize is now stalled mid-read over an empty store

	loginDone := make(chan struct{})
	go func() {
		_ = m.Login(ctx, "tok", domain.RoleAdmin)
		close(loginDone)
	}()

	// Let the login queue up behind the stalled Initialize, then unblock.
	time.Sleep(50 * time.Millisecond)
	close(gated.release)
	<-initDone
	<-loginDone

	// The login ran after the stale read resolved, so it must win: memory
	// and store agree, and a restart restores the same session.
	st := m.State()
	if st.Status != StatusAuthenticated || st.Token != "tok" || st.Role != domain.RoleAdmin {
		t.Fatalf("login clobbered by slow initialize: %+v", st)
	}
	if tok, err := store.Get(ctx, credstore.KeyAccessToken); err != nil || tok != "tok" {
		t.Fatalf("store out of sync with memory: token=%q err=%v", tok, err)
	}

	m2 := newManager(store)
	m2.Initialize(ctx)
	if after := m2.State(); after != st {
		t.Fatalf("restart round-trip broken: before=%+v after=%+v", st, after)
	}
}

func TestManager_Subscribe_SynchronousNotification(t *testing.T) {
	ctx := context.Background()
	m := newManager(credstore.NewMemoryStore())

	var seen []State
	cancel := m.Subscribe(func(st State) { seen = append(seen, st) })

	m.Initialize(ctx)
	_ = m.Login(ctx, "tok", domain.RoleAdmin)
	_ = m.Logout(ctx)

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(seen))
	}
	if seen[0].Status != StatusAnonymous || seen[1].Status != StatusAuthenticated || seen[2].Status != StatusAnonymous {
		t.Fatalf("unexpected notification sequence: %+v", seen)
	}

	cancel()
	_ = m.Login(ctx, "tok2", domain.RoleUser)
	if len(seen) != 3 {
		t.Fatalf("cancelled subscriber still notified")
	}
}
