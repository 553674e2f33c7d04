package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// NewZonesCommand creates the managed zones command group.
func NewZonesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zones",
		Aliases: []string{"zone", "managed-zones"},
		Short:   "Manage managed zones",
		Long:    "List, inspect, create and delete Cloud DNS managed zones",
	}

	cmd.AddCommand(newZonesListCommand())
	cmd.AddCommand(newZonesGetCommand())
	cmd.AddCommand(newZonesCreateCommand())
	cmd.AddCommand(newZonesDeleteCommand())

	return cmd
}

func newZonesListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed zones",
		Long:  "List the managed zones of the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			zones, err := collectPages(ctx, flags.options(), flags.allPages,
				func(ctx context.Context, opts *clouddns.ListOptions) ([]clouddns.ManagedZone, *string, error) {
					page, err := client.ManagedZones().List(ctx, opts)
					if err != nil {
						return nil, nil, err
					}

					return page.ManagedZones, page.NextPageToken, nil
				})
			if err != nil {
				return fmt.Errorf("failed to list managed zones: %w", err)
			}

			tab := &table{headers: []string{"Name", "DNS Name", "Visibility", "Description"}}
			for _, zone := range zones {
				tab.append(zone.Name, zone.DNSName, orNotAvailable(zone.Visibility), truncate(zone.Description))
			}

			return render(cmd, zones, tab)
		},
	}

	flags.register(cmd)

	return cmd
}

func newZonesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ZONE",
		Short: "Get managed zone details",
		Long:  "Display detailed information about a specific managed zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			zone, err := client.ManagedZones().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get managed zone: %w", err)
			}

			return render(cmd, zone, zoneTable(zone))
		},
	}
}

func zoneTable(zone *clouddns.ManagedZone) *table {
	tab := propertyTable()
	tab.append("Name", zone.Name)
	tab.append("ID", orNotAvailable(zone.ID))
	tab.append("DNS Name", zone.DNSName)
	tab.append("Description", orNotAvailable(zone.Description))
	tab.append("Visibility", orNotAvailable(zone.Visibility))
	tab.append("Name Servers", joinOrNone(zone.NameServers))
	tab.append("Created", orNotAvailable(zone.CreationTime))

	dnssec := ""
	if zone.DNSSecConfig != nil {
		dnssec = zone.DNSSecConfig.State
	}

	tab.append("DNSSEC", title(dnssec))

	return tab
}

func newZonesCreateCommand() *cobra.Command {
	var (
		dnsName     string
		description string
		visibility  string
		labels      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a managed zone",
		Long:  "Create a managed zone serving --dns-name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			zone, err := client.ManagedZones().Create(ctx, &clouddns.ManagedZone{
				Name:        args[0],
				DNSName:     dnsName,
				Description: description,
				Visibility:  visibility,
				Labels:      labels,
			})
			if err != nil {
				return fmt.Errorf("failed to create managed zone: %w", err)
			}

			return render(cmd, zone, zoneTable(zone))
		},
	}

	cmd.Flags().StringVar(&dnsName, "dns-name", "", "DNS name of the zone, e.g. example.com.")
	cmd.Flags().StringVar(&description, "description", "", "zone description")
	cmd.Flags().StringVar(&visibility, "visibility", "public", "zone visibility (public or private)")
	cmd.Flags().StringToStringVar(&labels, "label", nil, "labels as key=value")
	_ = cmd.MarkFlagRequired("dns-name")

	return cmd
}

func newZonesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ZONE",
		Short: "Delete a managed zone",
		Long:  "Delete an empty managed zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			err = client.ManagedZones().Delete(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete managed zone: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Managed zone %s deleted\n", args[0])

			return nil
		},
	}
}
