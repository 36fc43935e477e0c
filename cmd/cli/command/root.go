package command

// root.go defines the root command and global flags of yamdb-cli.

import (
	"fmt"
	"os"

	"yamdb/cmd/cli/authentication"
	"yamdb/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yamdb-cli",
	Short: "yamdb-cli - command line client for the YaMDb review API",
	Long: `yamdb-cli talks to a YaMDb API server. With it you can:
- sign up and exchange a mailed confirmation code for an access token
- browse titles with their average rating
- read, post and delete reviews and comments

Use "yamdb-cli [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("YAMDB_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")

	rootCmd.AddCommand(authCmd, titleCmd, reviewCmd, commentCmd)
}

// GetClient returns an anonymous client for public reads. A stored token is
// left off so that an expired one cannot turn a readable route into a 401.
func GetClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL)
}

// GetAuthenticatedClient returns a client carrying the stored access token.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.AccessToken)
	return c, nil
}
