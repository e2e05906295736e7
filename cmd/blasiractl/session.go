package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amasbarry223/blasira-admin/internal/apiclient"
	"github.com/amasbarry223/blasira-admin/internal/auth"
	"github.com/amasbarry223/blasira-admin/internal/token"
)

const defaultCleanupInterval = 5 * time.Minute

// promptFunc fills in whatever is missing from creds.
type promptFunc func(ctx context.Context, creds *auth.Credentials) error

func huhPrompt(ctx context.Context, creds *auth.Credentials) error {
	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s requis", field)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Téléphone").
				Placeholder("+223 70 00 00 00").
				Value(&creds.Phone).
				Validate(required("téléphone")),
			huh.NewInput().
				Title("Mot de passe").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(required("mot de passe")),
		).Title("Connexion Blasira Admin"),
	)
	return form.RunWithContext(ctx)
}

type loginError struct {
	err       error
	remaining int
}

func (e *loginError) Error() string {
	return fmt.Sprintf("%s (tentatives restantes : %d)", loginFailureMessage(e.err), e.remaining)
}

func (e *loginError) Unwrap() error { return e.err }

// loginFailureMessage: a 401 on login means bad credentials, not an expired session.
func loginFailureMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Kind == apiclient.KindHTTP &&
		(apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
		return "Téléphone ou mot de passe incorrect."
	}
	return userMessage(err)
}

func newLoginCmd(c *cli) *cobra.Command {
	var (
		creds auth.Credentials
		force bool
	)

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in with a phone number and password",
		Long:        "Sign in to the Blasira API. Without --password an interactive form is shown and failed attempts can be retried until the account is locked out.",
		Args:        cobra.NoArgs,
		Annotations: route("/login"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if force {
				if err := c.app.auth.Logout(ctx); err != nil {
					return err
				}
			}
			return c.guarded(cmd, func() error {
				return c.runLogin(ctx, c.out, creds, creds.Password == "")
			})
		},
	}

	cmd.Flags().StringVar(&creds.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&force, "force", false, "sign out first if a session is active")
	return cmd
}

// runLogin runs the attempt loop next to the limiter's cleanup timer.
func (c *cli) runLogin(ctx context.Context, w io.Writer, creds auth.Credentials, interactive bool) error {
	interval := c.app.conf.RateLimit.CleanupInterval
	if interval <= 0 {
		interval = defaultCleanupInterval
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.app.limiter.Run(gctx, interval)
	})
	g.Go(func() error {
		defer stop()
		return c.loginLoop(gctx, w, creds, interactive)
	})
	return g.Wait()
}

func (c *cli) loginLoop(ctx context.Context, w io.Writer, creds auth.Credentials, interactive bool) error {
	for {
		if interactive {
			if err := c.prompt(ctx, &creds); err != nil {
				return err
			}
		}

		result, err := c.app.login.Login(ctx, creds)
		if err == nil {
			expiry, _ := c.app.tokens.Expiry(ctx)
			fmt.Fprintf(w, "Connecté. Session valable jusqu'au %s\n", expiry.Local().Format("02/01/2006 15:04"))
			return nil
		}

		var lockout *auth.LockoutError
		switch {
		case errors.As(err, &lockout):
			return fmt.Errorf("trop de tentatives, réessayez après %s: %w", lockout.Until.Local().Format("15:04"), err)
		case errors.Is(err, token.ErrTokenExpired):
			return fmt.Errorf("le serveur a renvoyé une session déjà expirée: %w", err)
		case errors.Is(err, auth.ErrMissingPhone), errors.Is(err, auth.ErrMissingSecrets):
			if !interactive {
				return err
			}
		case !interactive:
			return &loginError{err: err, remaining: result.RemainingAttempts}
		default:
			fmt.Fprintln(c.errOut, (&loginError{err: err, remaining: result.RemainingAttempts}).Error())
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		creds.Password = ""
	}
}

func newLogoutCmd(c *cli) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.login.Logout(cmd.Context()); err != nil {
				return err
			}
			if purge {
				if err := c.app.persistent.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("purge local state: %w", err)
				}
			}
			fmt.Fprintln(c.out, "Déconnecté.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "also wipe every value kept in the local state file")
	return cmd
}

func newSignupCmd(c *cli) *cobra.Command {
	var req auth.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.login.Signup(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Compte créé. Vous pouvez maintenant vous connecter.")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	return cmd
}

type sessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	APIURL        string     `json:"apiUrl"`
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"status"},
		Short:   "Show the local session state",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWhoami(cmd.Context(), c.out)
		},
	}
}

func (c *cli) runWhoami(ctx context.Context, w io.Writer) error {
	s := sessionStatus{
		Authenticated: c.app.auth.IsAuthenticated(ctx),
		APIURL:        c.conf.API.BaseURL,
	}
	if expiry, ok := c.app.tokens.Expiry(ctx); ok {
		s.ExpiresAt = &expiry
	}

	if c.opts.jsonOutput {
		return printJSON(w, s)
	}

	state := "non connecté"
	if s.Authenticated {
		state = "connecté"
	}
	fmt.Fprintf(w, "API:     %s\nSession: %s\n", s.APIURL, state)
	if s.ExpiresAt != nil {
		fmt.Fprintf(w, "Expire:  %s\n", s.ExpiresAt.Local().Format(time.RFC3339))
	}
	return nil
}
