// devtoken issues a session token for local development, so the my and
// assigned-to-me views can be tried without the real sign-in service.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bugtrail/bugtrail/internal/auth"
	"github.com/bugtrail/bugtrail/internal/config"
	"github.com/bugtrail/bugtrail/internal/domain"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var (
		user   domain.User
		cookie bool
	)
	flagSet := pflag.NewFlagSet("devtoken", pflag.ContinueOnError)
	flagSet.StringVar(&user.ID, "user-id", "", "user id (required)")
	flagSet.StringVar(&user.Name, "name", "", "display name")
	flagSet.StringVar(&user.Email, "email", "", "email address")
	flagSet.BoolVar(&cookie, "cookie", false, "print a Cookie header instead of the bare token")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if user.ID == "" {
		return errors.New("--user-id is required")
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	token, expiresAt, err := tokens.GenerateToken(user)
	if err != nil {
		return err
	}

	if cookie {
		fmt.Fprintf(stdout, "Cookie: %s=%s\n", cfg.Auth.SessionCookie, token)
	} else {
		fmt.Fprintln(stdout, token)
	}
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
	return nil
}
