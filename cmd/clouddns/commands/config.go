package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/clouddns/internal/constants"
)

// ConfigDirName is the directory under $HOME holding config.yml.
const ConfigDirName = ".clouddns"

// Config represents the CLI configuration file.
type Config struct {
	Project     string  `json:"project,omitempty"      yaml:"project,omitempty"`
	Zone        string  `json:"zone,omitempty"         yaml:"zone,omitempty"`
	Endpoint    string  `json:"endpoint,omitempty"     yaml:"endpoint,omitempty"`
	Credentials string  `json:"credentials,omitempty"  yaml:"credentials,omitempty"`
	Output      string  `json:"output,omitempty"       yaml:"output,omitempty"`
	Retry       int     `json:"retry,omitempty"        yaml:"retry,omitempty"`
	Rate        float64 `json:"rate,omitempty"         yaml:"rate,omitempty"`
	NATSURL     string  `json:"nats_url,omitempty"     yaml:"nats_url,omitempty"`
	NATSSubject string  `json:"nats_subject,omitempty" yaml:"nats_subject,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and edit the clouddns CLI configuration file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration, including flags and CLOUDDNS_* environment variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			tab := propertyTable()
			tab.append("Project", orNotAvailable(config.Project))
			tab.append("Zone", orNotAvailable(config.Zone))
			tab.append("Endpoint", orNotAvailable(config.Endpoint))
			tab.append("Credentials", orNotAvailable(config.Credentials))
			tab.append("Output", orNotAvailable(config.Output))
			tab.append("Retry", itoa(config.Retry))
			tab.append("Rate", strconv.FormatFloat(config.Rate, 'f', -1, 64))
			tab.append("NATS URL", orNotAvailable(config.NATSURL))
			tab.append("NATS Subject", orNotAvailable(config.NATSSubject))

			return render(cmd, config, tab)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value: project, zone, endpoint, credentials, output, retry, rate, nats_url or nats_subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := config.set(args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", args[0], args[1])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := config.set(args[0], "")
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

// set assigns key; an empty value clears it.
func (c *Config) set(key, value string) error {
	switch key {
	case "project":
		c.Project = value
	case "zone":
		c.Zone = value
	case "endpoint":
		c.Endpoint = value
	case "credentials":
		c.Credentials = value
	case "output":
		switch value {
		case "", constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			c.Output = value
		default:
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutputType, value)
		}
	case "retry":
		retry, err := parseOptionalInt(value)
		if err != nil {
			return fmt.Errorf("invalid retry count %q: %w", value, err)
		}

		c.Retry = retry
	case "rate":
		limit, err := parseOptionalFloat(value)
		if err != nil {
			return fmt.Errorf("invalid rate %q: %w", value, err)
		}

		c.Rate = limit
	case "nats_url":
		c.NATSURL = value
	case "nats_subject":
		c.NATSSubject = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func parseOptionalInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	return strconv.Atoi(value)
}

func parseOptionalFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}

	return strconv.ParseFloat(value, 64)
}

// loadConfig returns the effective configuration.
func loadConfig() *Config {
	return &Config{
		Project:     viper.GetString("project"),
		Zone:        viper.GetString("zone"),
		Endpoint:    viper.GetString("endpoint"),
		Credentials: viper.GetString("credentials"),
		Output:      viper.GetString("output"),
		Retry:       viper.GetInt("retry"),
		Rate:        viper.GetFloat64("rate"),
		NATSURL:     viper.GetString("nats_url"),
		NATSSubject: viper.GetString("nats_subject"),
	}
}

// configFilePath returns the file config is written to: --config, the file
// viper read, or ~/.clouddns/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.GetString("config"); configFile != "" {
		return configFile, nil
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, "config.yml"), nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
