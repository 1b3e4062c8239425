// Package navigate decides which top-level section the client must show
// for a given authentication state and current location, and issues
// redirects when they disagree. It replaces ad hoc path-prefix checks with
// an explicit state machine over enumerated location sections.
package navigate

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abejanet/abejanet/internal/client/session"
	"github.com/abejanet/abejanet/internal/core/domain"
)

// Section is the enumerated category of the current location.
type Section int

const (
	// SectionOther covers the root and any route outside the known groups.
	SectionOther Section = iota
	// SectionAuth is the unauthenticated group (login, registration).
	SectionAuth
	// SectionAdmin is the administrator group.
	SectionAdmin
	// SectionUser is the standard-user group.
	SectionUser
)

// Route group targets, matching the app's route layout.
const (
	LoginRoute     = "/(auth)/login"
	AdminHomeRoute = "/(admin)"
	UserHomeRoute  = "/(user)"
)

// Classify maps a route path to its section by its first segment.
func Classify(route string) Section {
	seg := strings.TrimPrefix(route, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	switch seg {
	case "(auth)":
		return SectionAuth
	case "(admin)":
		return SectionAdmin
	case "(user)":
		return SectionUser
	default:
		return SectionOther
	}
}

// Action is what the client must do for the current (state, location) pair.
type Action int

const (
	// ActionNone: the location already matches the state.
	ActionNone Action = iota
	// ActionShowLoading: auth state is still unresolved; render a
	// placeholder and do not navigate.
	ActionShowLoading
	// ActionRedirect: replace the current location with Decision.Target.
	ActionRedirect
)

// Decision is the outcome of one evaluation.
type Decision struct {
	Action Action
	Target string
}

// Evaluate runs the routing state machine. It is pure: calling it twice
// with the same inputs yields the same decision, and a redirect decision
// followed by the location actually changing yields ActionNone.
func Evaluate(st session.State, loc Section) Decision {
	switch st.Status {
	case session.StatusUnknown:
		return Decision{Action: ActionShowLoading}

	case session.StatusAnonymous:
		if loc == SectionAuth {
			return Decision{Action: ActionNone}
		}
		return Decision{Action: ActionRedirect, Target: LoginRoute}

	case session.StatusAuthenticated:
		switch st.Role {
		case domain.RoleAdmin:
			if loc == SectionAdmin {
				return Decision{Action: ActionNone}
			}
			return Decision{Action: ActionRedirect, Target: AdminHomeRoute}
		case domain.RoleUser:
			if loc == SectionUser {
				return Decision{Action: ActionNone}
			}
			return Decision{Action: ActionRedirect, Target: UserHomeRoute}
		default:
			// Authenticated with a role this build does not understand:
			// navigating anywhere could loop, so stay put.
			return Decision{Action: ActionNone}
		}
	}
	return Decision{Action: ActionNone}
}

// Navigator performs the actual location replacement.
type Navigator interface {
	Replace(route string)
}

// Director observes session state and the current location, re-evaluating
// on every change of either and redirecting through its Navigator.
type Director struct {
	nav Navigator
	log zerolog.Logger

	mu    sync.Mutex
	state session.State
	loc   Section
}

func NewDirector(nav Navigator, log zerolog.Logger) *Director {
	return &Director{nav: nav, log: log}
}

// Apply feeds a new session state into the director. Wire it as a session
// manager subscriber.
func (d *Director) Apply(st session.State) {
	d.mu.Lock()
	d.state = st
	d.mu.Unlock()
	d.evaluate()
}

// SetLocation records a location change (including the one caused by a
// redirect) and re-evaluates.
func (d *Director) SetLocation(route string) {
	d.mu.Lock()
	d.loc = Classify(route)
	d.mu.Unlock()
	d.evaluate()
}

// Location returns the section the director currently believes is shown.
func (d *Director) Location() Section {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loc
}

func (d *Director) evaluate() {
	d.mu.Lock()
	st, loc := d.state, d.loc
	d.mu.Unlock()

	decision := Evaluate(st, loc)
	switch decision.Action {
	case ActionShowLoading:
		d.log.Debug().Msg("navigate: auth state unresolved, holding")
	case ActionRedirect:
		d.log.Info().Str("target", decision.Target).Msg("navigate: redirecting")
		d.nav.Replace(decision.Target)
		// The redirect lands us in the target section; record it so the
		// next evaluation is a no-op.
		d.mu.Lock()
		d.loc = Classify(decision.Target)
		d.mu.Unlock()
	case ActionNone:
		if st.Status == session.StatusAuthenticated && !st.Role.Known() {
			d.log.Warn().Str("role", string(st.Role)).Msg("navigate: unrecognized role, staying put")
		}
	}
}
