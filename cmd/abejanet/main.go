// Command abejanet is a small terminal client for the AbejaNet API. It
// drives the same session layer the mobile app uses: credentials persist in
// a local store, and the route director decides which section a device
// showing this session would land on.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/abejanet/abejanet/internal/client/apiclient"
	"github.com/abejanet/abejanet/internal/client/credstore"
	"github.com/abejanet/abejanet/internal/client/navigate"
	"github.com/abejanet/abejanet/internal/client/session"
	"github.com/abejanet/abejanet/pkg/logger"
)

const usage = `usage: abejanet <command> [args]

commands:
  set-api <url>            set the API base URL
  login <email> <password> authenticate and store the session
  whoami                   show the current session
  section [route]          show where the route director sends this session
  logout                   clear the stored session
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	log := logger.Init(logger.Options{Level: "warn", Pretty: true, Output: os.Stderr})

	store, err := openStore()
	if err != nil {
		fatal("open credential store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	mgr := session.NewManager(store, log)
	client := apiclient.New(store, log)

	switch os.Args[1] {
	case "set-api":
		if len(os.Args) != 3 {
			fatal("usage: abejanet set-api <url>")
		}
		if err := client.SetBaseURL(ctx, os.Args[2]); err != nil {
			fatal("set api url: %v", err)
		}
		color.Green("API base URL set to %s", os.Args[2])

	case "login":
		if len(os.Args) != 4 {
			fatal("usage: abejanet login <email> <password>")
		}
		result, err := client.Login(ctx, os.Args[2], os.Args[3])
		if err != nil {
			fatal("login: %v", err)
		}
		if err := mgr.Login(ctx, result.Token, result.User.Role); err != nil {
			color.Yellow("warning: session not persisted, it will not survive restart: %v", err)
		}
		color.Green("logged in as %s (%s)", result.User.Email, result.User.Role)
		printDecision(mgr.State(), navigate.LoginRoute)

	case "whoami":
		mgr.Initialize(ctx)
		st := mgr.State()
		if st.Status != session.StatusAuthenticated {
			color.Yellow("not logged in")
			return
		}
		color.Green("authenticated, role %s", st.Role)
		fmt.Printf("token: %s...\n", head(st.Token, 16))

	case "section":
		mgr.Initialize(ctx)
		route := "/"
		if len(os.Args) > 2 {
			route = os.Args[2]
		}
		printDecision(mgr.State(), route)

	case "logout":
		mgr.Initialize(ctx)
		if err := mgr.Logout(ctx); err != nil {
			color.Yellow("warning: stored session only partially cleared: %v", err)
		}
		color.Green("logged out")
		printDecision(mgr.State(), "/")

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func openStore() (*credstore.SQLiteStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return credstore.NewSQLiteStore(filepath.Join(dir, "abejanet", "credentials.db"))
}

func printDecision(st session.State, route string) {
	decision := navigate.Evaluate(st, navigate.Classify(route))
	switch decision.Action {
	case navigate.ActionShowLoading:
		fmt.Println("section: resolving session...")
	case navigate.ActionRedirect:
		fmt.Printf("section: %s\n", decision.Target)
	default:
		fmt.Printf("section: %s (already there)\n", route)
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func fatal(format string, args ...any) {
	color.Red(format, args...)
	os.Exit(1)
}
