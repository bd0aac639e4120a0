package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torneoops/matchday/internal/core/ports"
)

func loginCmd() *cobra.Command {
	var email, password, contextToken string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the tournament API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.session.Login(cmd.Context(), ports.LoginInput{
				Email:        email,
				Password:     password,
				ContextToken: contextToken,
			}); err != nil {
				return err
			}
			st := a.session.CurrentState()
			fmt.Printf("Signed in as %s %s (%s)\n", st.User.FirstName, st.User.LastName, st.User.Role)
			fmt.Printf("Landing route: %s\n", a.routes.Current())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&contextToken, "context-token", "", "optional token-scoped re-authentication credential")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			a.session.Logout(cmd.Context(), !quiet)
			fmt.Println("Session cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "skip the sign-out notification")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			st := a.session.CurrentState()
			if !st.Authenticated {
				fmt.Println("Not signed in.")
				return nil
			}
			fmt.Printf("%s %s <%s>\n", st.User.FirstName, st.User.LastName, st.User.Email)
			fmt.Printf("Role: %s\n", st.User.Role)
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	var in ports.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not sign in)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			outcome, err := a.session.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Account %s created for %s. Check your inbox for a verification code.\n", outcome.UserID, outcome.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Role, "role", "team", "account role (superadmin, league, team, official)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func verifyCmd() *cobra.Command {
	var email, code string
	var autoLogin, autoRedirect bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm a one-time verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			token, err := a.session.VerifyCode(cmd.Context(), email, code, autoRedirect, autoLogin)
			if err != nil {
				return err
			}
			if autoLogin {
				st := a.session.CurrentState()
				fmt.Printf("Verified and signed in as %s.\n", st.User.Email)
				return nil
			}
			fmt.Printf("Verified. Token issued: %s\n", token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&code, "code", "", "one-time code")
	cmd.Flags().BoolVar(&autoLogin, "login", false, "adopt the issued token as the current session")
	cmd.Flags().BoolVar(&autoRedirect, "redirect", true, "move to the role landing route after signing in")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func resendCodeCmd() *cobra.Command {
	var email, template string

	cmd := &cobra.Command{
		Use:   "resend-code",
		Short: "Request a fresh one-time verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.session.ResendCode(cmd.Context(), email, template)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&template, "template", "verification", "mail template type")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func resetPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Start a password reset",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.session.ResetPassword(cmd.Context(), email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
