package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// NewPoliciesCommand creates the DNS policies command group.
func NewPoliciesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "policies",
		Aliases: []string{"policy"},
		Short:   "Manage DNS policies",
		Long:    "List, inspect and delete DNS server policies of the project",
	}

	cmd.AddCommand(newPoliciesListCommand())
	cmd.AddCommand(newPoliciesGetCommand())
	cmd.AddCommand(newPoliciesDeleteCommand())

	return cmd
}

func newPoliciesListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List policies",
		Long:  "List the DNS policies of the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			policies, err := collectPages(ctx, flags.options(), flags.allPages,
				func(ctx context.Context, opts *clouddns.ListOptions) ([]clouddns.Policy, *string, error) {
					page, err := client.Policies().List(ctx, opts)
					if err != nil {
						return nil, nil, err
					}

					return page.Policies, page.NextPageToken, nil
				})
			if err != nil {
				return fmt.Errorf("failed to list policies: %w", err)
			}

			tab := &table{headers: []string{"Name", "Inbound Forwarding", "Logging", "Networks"}}
			for _, policy := range policies {
				tab.append(policy.Name, yesNo(policy.EnableInboundForwarding), yesNo(policy.EnableLogging),
					itoa(len(policy.Networks)))
			}

			return render(cmd, policies, tab)
		},
	}

	flags.register(cmd)

	return cmd
}

func newPoliciesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get POLICY",
		Short: "Get policy details",
		Long:  "Display a DNS policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			policy, err := client.Policies().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get policy: %w", err)
			}

			tab := propertyTable()
			tab.append("Name", policy.Name)
			tab.append("ID", orNotAvailable(policy.ID))
			tab.append("Description", orNotAvailable(policy.Description))
			tab.append("Inbound Forwarding", yesNo(policy.EnableInboundForwarding))
			tab.append("Logging", yesNo(policy.EnableLogging))

			for _, network := range policy.Networks {
				tab.append("Network", network.NetworkURL)
			}

			return render(cmd, policy, tab)
		},
	}
}

func newPoliciesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete POLICY",
		Short: "Delete a policy",
		Long:  "Delete a DNS policy that is not bound to any network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			err = client.Policies().Delete(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete policy: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Policy %s deleted\n", args[0])

			return nil
		},
	}
}
