package commands

import (
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clouddns/internal/constants"
)

// VersionInfo is the output of the version command.
type VersionInfo struct {
	Version        string `json:"version"         yaml:"version"`
	Commit         string `json:"commit"          yaml:"commit"`
	Built          string `json:"built"           yaml:"built"`
	LibraryVersion string `json:"library_version" yaml:"library_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the clouddns CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:        version,
				Commit:         commit,
				Built:          date,
				LibraryVersion: constants.Version,
			}

			tab := propertyTable()
			tab.append("Version", version)
			tab.append("Commit", commit)
			tab.append("Built", date)
			tab.append("Library", constants.Version)

			return render(cmd, info, tab)
		},
	}
}
