package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/pkg/tcclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store TeamCity credentials",
		Long: `Verify an access token against a TeamCity server and store the host and
token in the configuration file. Missing values are prompted for; the token
prompt does not echo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			host := viper.GetString("host")
			token := viper.GetString("token")

			if host == "" {
				reader := bufio.NewReader(os.Stdin)
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "TeamCity host: ")
				host, _ = reader.ReadString('\n')
				host = strings.TrimSpace(host)
			}

			host = tcclient.NormalizeHost(host)
			if host == "" {
				return constants.ErrNoHostConfigured
			}

			if token == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Access token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout())

				token = strings.TrimSpace(string(byteToken))
				if token == "" {
					return constants.ErrTokenPromptCancelled
				}
			}

			viper.Set("host", host)
			viper.Set("token", token)

			client, err := CreateClient()
			if err != nil {
				return err
			}

			info, err := client.GetServerInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to verify token: %w", err)
			}

			err = saveConfigStruct(loadConfig())
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s (TeamCity %s)\n", host, info.Version)

			return nil
		},
	}
}
