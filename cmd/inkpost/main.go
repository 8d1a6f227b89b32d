package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/inkpost/inkpost/internal/client"
	"github.com/inkpost/inkpost/internal/session"
)

const usage = `usage: inkpost <command> [flags]

commands:
  signup  -email -password -username   register and start a session
  login   -email -password             authenticate and start a session
  logout                               end the current session
  status                               show the current session state
  posts                                fetch the protected feed

environment:
  INKPOST_SERVER  server base URL (default http://localhost:8080)
  INKPOST_DB      session database path (default ~/.inkpost/session.db)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "inkpost: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	ctx := context.Background()

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := session.NewManager(ctx, store)
	gate := session.NewGate(sessions)
	api := client.New(serverURL(), sessions)

	switch command {
	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		username := fs.String("username", "", "display name")
		fs.Parse(args)

		if decision := gate.Admit(session.ViewGuestOnly); !decision.Allowed {
			return fmt.Errorf("already logged in, see %s", decision.Redirect)
		}

		if err := api.Signup(ctx, *email, *password, *username); err != nil {
			return err
		}
		fmt.Println("signed up and logged in")

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		fs.Parse(args)

		if decision := gate.Admit(session.ViewGuestOnly); !decision.Allowed {
			return fmt.Errorf("already logged in, see %s", decision.Redirect)
		}

		if err := api.Login(ctx, *email, *password); err != nil {
			return err
		}
		fmt.Println("logged in")

	case "logout":
		api.Logout(ctx)
		fmt.Println("logged out")

	case "status":
		if gate.IsAuthenticated() {
			fmt.Println("authenticated")
		} else {
			fmt.Println("anonymous")
		}

	case "posts":
		if decision := gate.Admit(session.ViewProtected); !decision.Allowed {
			return fmt.Errorf("not logged in, see %s", decision.Redirect)
		}

		feed, err := api.Posts(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("posts for %s:\n", feed.Username)
		if len(feed.Posts) == 0 {
			fmt.Println("  (no posts yet)")
		}
		for _, post := range feed.Posts {
			fmt.Printf("  - %s\n", post)
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

func serverURL() string {
	if v := os.Getenv("INKPOST_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func sessionDBPath() (string, error) {
	if v := os.Getenv("INKPOST_DB"); v != "" {
		return v, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".inkpost", "session.db"), nil
}

func openStore() (session.Store, func(), error) {
	path, err := sessionDBPath()
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create session dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open session db: %w", err)
	}

	store, err := session.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return store, func() { db.Close() }, nil
}
