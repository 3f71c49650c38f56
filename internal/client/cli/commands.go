package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rentwheels/marketplace/internal/client/api"
	"github.com/rentwheels/marketplace/internal/client/session"
)

func (a *App) registerCmd() *cobra.Command {
	var req api.RegisterRequest
	var password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Username == "" {
				return errors.New("--username is required")
			}
			pw, err := a.password(password)
			if err != nil {
				return err
			}
			req.Password = pw

			resp, err := a.NewClient(a.apiURL).Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			cmd.Printf("registered %s (%s)\n", resp.User.Username, resp.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	cmd.Flags().StringVar(&req.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&req.Role, "role", "", "role, server default when empty")
	cmd.Flags().StringVar(&req.CompanyID, "company-id", "", "rental company reference")
	return cmd
}

func (a *App) loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--username is required")
			}
			pw, err := a.password(password)
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(store *session.Store, _ Client) error {
				sess, err := store.Login(cmd.Context(), username, pw)
				if err != nil {
					if api.IsUnauthorized(err) {
						return errors.New("invalid credentials")
					}
					return err
				}
				cmd.Printf("logged in as %s (%s)\n", sess.Username, sess.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(store *session.Store, _ Client) error {
				store.Logout(cmd.Context())
				cmd.Println("logged out")
				return nil
			})
		},
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(store *session.Store, client Client) error {
				sess, ok := store.Current()
				if !ok {
					cmd.Println("not logged in")
					return nil
				}
				if offline {
					cmd.Printf("%s (%s)\n", sess.Username, sess.Role)
					return nil
				}

				user, err := client.Me(cmd.Context(), sess.Token)
				if err != nil {
					if api.IsUnauthorized(err) {
						store.Logout(cmd.Context())
						return fmt.Errorf("session expired, please log in again")
					}
					return err
				}
				cmd.Printf("%s (%s)\n", user.Username, user.Role)
				if user.CompanyID != "" {
					cmd.Printf("company: %s\n", user.CompanyID)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "print the stored session without asking the API")
	return cmd
}
