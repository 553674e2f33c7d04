package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/clouddns/internal/constants"
)

// flagKeys maps viper keys to the global flags bound to them. Keys use
// underscores so CLOUDDNS_NATS_URL and friends resolve through AutomaticEnv.
var flagKeys = map[string]string{
	"config":       "config",
	"project":      "project",
	"zone":         "zone",
	"endpoint":     "endpoint",
	"credentials":  "credentials",
	"access_token": "access-token",
	"output":       "output",
	"verbose":      "verbose",
	"http2":        "http2",
	"retry":        "retry",
	"rate":         "rate",
	"burst":        "burst",
	"nats_url":     "nats-url",
	"nats_subject": "nats-subject",
}

// NewRootCommand creates the clouddns command tree with its global flags
// bound to viper.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clouddns",
		Short: "Cloud DNS API CLI",
		Long: `A command-line interface for the Cloud DNS API.

This CLI lists and edits managed zones, record sets, changes, DNSSEC keys,
zone operations and DNS policies of a project.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.clouddns/config.yml)")
	flags.StringP("project", "p", "", "project ID")
	flags.StringP("zone", "z", "", "managed zone name")
	flags.String("endpoint", "", "API endpoint (default "+constants.DefaultEndpoint+")")
	flags.String("credentials", "", "service account or authorized user credentials file")
	flags.String("access-token", "", "access token to use instead of credentials ('-' to read from the terminal)")
	flags.StringP("output", "o", "", "output format (table, json, yaml); defaults to table on a terminal and json otherwise")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.Bool("http2", false, "use HTTP/2 with connection health checks")
	flags.Int("retry", 0, "retry failed requests up to this many times")
	flags.Float64("rate", 0, "limit requests per second (0 for no limit)")
	flags.Int("burst", 1, "burst size for --rate")
	flags.String("nats-url", "", "send requests through a NATS gateway at this URL")
	flags.String("nats-subject", constants.DefaultNATSSubject, "subject the NATS gateway listens on")

	// Bind flags to viper
	for key, flag := range flagKeys {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	// Add commands
	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewProjectCommand())
	rootCmd.AddCommand(NewZonesCommand())
	rootCmd.AddCommand(NewRecordSetsCommand())
	rootCmd.AddCommand(NewChangesCommand())
	rootCmd.AddCommand(NewDNSKeysCommand())
	rootCmd.AddCommand(NewOperationsCommand())
	rootCmd.AddCommand(NewPoliciesCommand())
	rootCmd.AddCommand(NewGatewayCommand())

	return rootCmd
}

// InitConfig reads the config file and CLOUDDNS_* environment variables.
func InitConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.clouddns/config.yml
		viper.AddConfigPath(filepath.Join(home, ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("CLOUDDNS")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
