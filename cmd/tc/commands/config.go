package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/tcapi/internal/constants"
)

// ConfigDirName is the directory under $HOME holding config.yml.
const ConfigDirName = ".tc"

// Config represents the CLI configuration file.
type Config struct {
	Host        string `json:"host,omitempty"        yaml:"host,omitempty"`
	Token       string `json:"token,omitempty"       yaml:"token,omitempty"`
	APIVersion  string `json:"api-version,omitempty" yaml:"api-version,omitempty"`
	Output      string `json:"output,omitempty"      yaml:"output,omitempty"`
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the tc configuration stored in $HOME/.tc/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with the token masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Token != "" {
				config.Token = constants.MaskedSecret
			}

			structured, err := writeStructured(cmd.OutOrStdout(), config)
			if structured || err != nil {
				return err
			}

			return renderTable(cmd.OutOrStdout(), []string{"Property", "Value"}, [][]string{
				{"Host", orNotAvailable(config.Host)},
				{"Token", orNotAvailable(config.Token)},
				{"API Version", orNotAvailable(config.APIVersion)},
				{"Output", orNotAvailable(config.Output)},
				{"Concurrency", strconv.Itoa(config.Concurrency)},
				{"Config File", orNotAvailable(viper.ConfigFileUsed())},
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set one of host, token, api-version, output or concurrency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "host":
		config.Host = value
	case "token":
		config.Token = value
	case "api-version":
		config.APIVersion = value
	case "output":
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			config.Output = value
		default:
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, value)
		}
	case "concurrency":
		concurrency, err := strconv.Atoi(value)
		if err != nil || concurrency <= 0 {
			return fmt.Errorf("%w: %s", constants.ErrInvalidConcurrency, value)
		}

		config.Concurrency = concurrency
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// loadConfig returns the effective configuration.
func loadConfig() *Config {
	return &Config{
		Host:        viper.GetString("host"),
		Token:       viper.GetString("token"),
		APIVersion:  viper.GetString("api-version"),
		Output:      viper.GetString("output"),
		Concurrency: viper.GetInt("concurrency"),
	}
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ConfigDirName)

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	return writeConfigFile(configFile, config)
}

func writeConfigFile(configFile string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
