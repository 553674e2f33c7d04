package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewProjectCommand creates the project command group.
func NewProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect the project",
		Long:  "Display the Cloud DNS view of the project and its quotas",
	}

	cmd.AddCommand(newProjectGetCommand())

	return cmd
}

func newProjectGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Get project quotas",
		Long:  "Display the project's Cloud DNS quotas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			project, err := client.Projects().Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			tab := propertyTable()
			tab.append("ID", project.ID)
			tab.append("Number", orNotAvailable(project.Number))

			if quota := project.Quota; quota != nil {
				tab.append("Managed Zones", itoa(quota.ManagedZones))
				tab.append("Record Sets per Zone", itoa(quota.RrsetsPerManagedZone))
				tab.append("Additions per Change", itoa(quota.RrsetAdditionsPerChange))
				tab.append("Deletions per Change", itoa(quota.RrsetDeletionsPerChange))
				tab.append("Records per Record Set", itoa(quota.ResourceRecordsPerRrset))
				tab.append("DNS Keys per Zone", itoa(quota.DNSKeysPerManagedZone))
				tab.append("Policies", itoa(quota.Policies))
			}

			return render(cmd, project, tab)
		},
	}
}
