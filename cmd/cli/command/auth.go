package command

import (
	"fmt"

	"yamdb/cmd/cli/authentication"
	"yamdb/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Sign up, request a confirmation code, obtain and forget an access token.`,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new account; a confirmation code is mailed to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.SignupRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")

		resp, err := client.NewHTTPClient(apiURL).Signup(&req)
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		fmt.Println("✓", resp.Message)
		fmt.Printf("Username: %s\nEmail: %s\n", resp.Username, resp.Email)
		return nil
	},
}

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Mail a new confirmation code",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.SignupRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")

		resp, err := client.NewHTTPClient(apiURL).RequestCode(&req)
		if err != nil {
			return fmt.Errorf("could not request a code: %w", err)
		}
		fmt.Println("✓", resp.Message)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Exchange a confirmation code for an access token and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.TokenRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.ConfirmationCode, _ = cmd.Flags().GetString("code")

		resp, err := client.NewHTTPClient(apiURL).Token(&req)
		if err != nil {
			return fmt.Errorf("token exchange failed: %w", err)
		}

		if err := authentication.StoreTokens(&authentication.StoredCredentials{
			AccessToken: resp.Token,
			Username:    req.Username,
			APIURL:      apiURL,
		}); err != nil {
			return fmt.Errorf("could not store token: %w", err)
		}

		fmt.Println("✓ Logged in as", req.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the profile of the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		me, err := c.Me()
		if err != nil {
			return err
		}
		fmt.Printf("Username: %s\nEmail: %s\nRole: %s\n", me.Username, me.Email, me.Role)
		if me.Bio != "" {
			fmt.Printf("Bio: %s\n", me.Bio)
		}
		return nil
	},
}

func init() {
	authCmd.AddCommand(signupCmd, codeCmd, tokenCmd, logoutCmd, whoamiCmd)

	for _, cmd := range []*cobra.Command{signupCmd, codeCmd} {
		cmd.Flags().StringP("username", "u", "", "Username")
		cmd.Flags().StringP("email", "e", "", "Email address")
		cmd.MarkFlagRequired("username")
		cmd.MarkFlagRequired("email")
	}

	tokenCmd.Flags().StringP("username", "u", "", "Username")
	tokenCmd.Flags().StringP("code", "c", "", "Confirmation code from the email")
	tokenCmd.MarkFlagRequired("username")
	tokenCmd.MarkFlagRequired("code")
}
