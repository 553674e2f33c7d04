package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// NewOperationsCommand creates the zone operations command group.
func NewOperationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"operation", "ops"},
		Short:   "Inspect zone operations",
		Long:    "List and inspect long-running operations on a managed zone",
	}

	cmd.AddCommand(newOperationsListCommand())
	cmd.AddCommand(newOperationsGetCommand())

	return cmd
}

func newOperationsListCommand() *cobra.Command {
	var (
		flags  listFlags
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operations",
		Long:  "List the operations performed on a managed zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := resolveZone()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			opts := flags.options()
			opts.SortBy = sortBy

			operations, err := collectPages(ctx, opts, flags.allPages,
				func(ctx context.Context, opts *clouddns.ListOptions) ([]clouddns.Operation, *string, error) {
					page, err := client.ManagedZoneOperations().List(ctx, zone, opts)
					if err != nil {
						return nil, nil, err
					}

					return page.Operations, page.NextPageToken, nil
				})
			if err != nil {
				return fmt.Errorf("failed to list operations: %w", err)
			}

			tab := &table{headers: []string{"ID", "Type", "Status", "Start Time", "User"}}
			for _, operation := range operations {
				tab.append(operation.ID, orNotAvailable(operation.Type), title(operation.Status),
					orNotAvailable(operation.StartTime), orNotAvailable(operation.User))
			}

			return render(cmd, operations, tab)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "sort order (startTime or id)")

	return cmd
}

func newOperationsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get OPERATION_ID",
		Short: "Get operation details",
		Long:  "Display a zone operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := resolveZone()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			operation, err := client.ManagedZoneOperations().Get(ctx, zone, args[0])
			if err != nil {
				return fmt.Errorf("failed to get operation: %w", err)
			}

			tab := propertyTable()
			tab.append("ID", operation.ID)
			tab.append("Type", orNotAvailable(operation.Type))
			tab.append("Status", title(operation.Status))
			tab.append("Start Time", orNotAvailable(operation.StartTime))
			tab.append("User", orNotAvailable(operation.User))

			return render(cmd, operation, tab)
		},
	}
}
