package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// NewRecordSetsCommand creates the record sets command group. Every
// subcommand works on the zone named by --zone.
func NewRecordSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rrsets",
		Aliases: []string{"records", "record-sets"},
		Short:   "Manage resource record sets",
		Long:    "List and edit the resource record sets of a managed zone",
	}

	cmd.AddCommand(newRecordSetsListCommand())
	cmd.AddCommand(newRecordSetsGetCommand())
	cmd.AddCommand(newRecordSetsCreateCommand())
	cmd.AddCommand(newRecordSetsDeleteCommand())

	return cmd
}

// recordArgs requires NAME and TYPE.
func recordArgs(_ *cobra.Command, args []string) error {
	if len(args) != 2 || args[0] == "" || args[1] == "" {
		return constants.ErrRecordRequired
	}

	return nil
}

func newRecordSetsListCommand() *cobra.Command {
	var (
		flags      listFlags
		name       string
		recordType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List record sets",
		Long:  "List the record sets of a managed zone, optionally filtered by name and type",
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
			opts.Name = name
			opts.Type = recordType

			rrsets, err := collectPages(ctx, opts, flags.allPages,
				func(ctx context.Context, opts *clouddns.ListOptions) ([]clouddns.ResourceRecordSet, *string, error) {
					page, err := client.ResourceRecordSets().List(ctx, zone, opts)
					if err != nil {
						return nil, nil, err
					}

					return page.Rrsets, page.NextPageToken, nil
				})
			if err != nil {
				return fmt.Errorf("failed to list record sets: %w", err)
			}

			tab := &table{headers: []string{"Name", "Type", "TTL", "Data"}}
			for _, rrset := range rrsets {
				tab.append(rrset.Name, rrset.Type, itoa(rrset.TTL), truncate(joinOrNone(rrset.Rrdatas)))
			}

			return render(cmd, rrsets, tab)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "only list record sets with this fully qualified name")
	cmd.Flags().StringVar(&recordType, "type", "", "only list record sets of this type (requires --name)")

	return cmd
}

func rrsetTable(rrset *clouddns.ResourceRecordSet) *table {
	tab := propertyTable()
	tab.append("Name", rrset.Name)
	tab.append("Type", rrset.Type)
	tab.append("TTL", itoa(rrset.TTL))

	for _, data := range rrset.Rrdatas {
		tab.append("Data", data)
	}

	return tab
}

func newRecordSetsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME TYPE",
		Short: "Get a record set",
		Long:  "Display a record set of a managed zone",
		Args:  recordArgs,
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

			rrset, err := client.ResourceRecordSets().Get(ctx, zone, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get record set: %w", err)
			}

			return render(cmd, rrset, rrsetTable(rrset))
		},
	}
}

func newRecordSetsCreateCommand() *cobra.Command {
	var (
		ttl     int
		rrdatas []string
	)

	cmd := &cobra.Command{
		Use:   "create NAME TYPE",
		Short: "Create a record set",
		Long:  "Create a record set in a managed zone",
		Args:  recordArgs,
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

			rrset, err := client.ResourceRecordSets().Create(ctx, zone, &clouddns.ResourceRecordSet{
				Name:    args[0],
				Type:    args[1],
				TTL:     ttl,
				Rrdatas: rrdatas,
			})
			if err != nil {
				return fmt.Errorf("failed to create record set: %w", err)
			}

			return render(cmd, rrset, rrsetTable(rrset))
		},
	}

	cmd.Flags().IntVar(&ttl, "ttl", 300, "time to live in seconds")
	cmd.Flags().StringSliceVar(&rrdatas, "rrdata", nil, "record data; repeat for multiple values")
	_ = cmd.MarkFlagRequired("rrdata")

	return cmd
}

func newRecordSetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME TYPE",
		Short: "Delete a record set",
		Long:  "Delete a record set from a managed zone",
		Args:  recordArgs,
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

			err = client.ResourceRecordSets().Delete(ctx, zone, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to delete record set: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Record set %s %s deleted\n", args[0], args[1])

			return nil
		},
	}
}
