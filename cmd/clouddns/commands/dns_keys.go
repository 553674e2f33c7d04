package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// NewDNSKeysCommand creates the DNSSEC keys command group.
func NewDNSKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keys",
		Aliases: []string{"dns-keys", "key"},
		Short:   "Inspect DNSSEC keys",
		Long:    "List and inspect the DNSSEC signing keys of a managed zone",
	}

	cmd.AddCommand(newDNSKeysListCommand())
	cmd.AddCommand(newDNSKeysGetCommand())

	return cmd
}

func newDNSKeysListCommand() *cobra.Command {
	var (
		flags      listFlags
		digestType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List DNSSEC keys",
		Long:  "List the DNSSEC keys of a managed zone",
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
			opts.DigestType = digestType

			keys, err := collectPages(ctx, opts, flags.allPages,
				func(ctx context.Context, opts *clouddns.ListOptions) ([]clouddns.DNSKey, *string, error) {
					page, err := client.DNSKeys().List(ctx, zone, opts)
					if err != nil {
						return nil, nil, err
					}

					return page.DNSKeys, page.NextPageToken, nil
				})
			if err != nil {
				return fmt.Errorf("failed to list DNS keys: %w", err)
			}

			tab := &table{headers: []string{"ID", "Type", "Algorithm", "Key Tag", "Active"}}
			for _, key := range keys {
				tab.append(key.ID, key.Type, key.Algorithm, itoa(key.KeyTag), yesNo(key.IsActive))
			}

			return render(cmd, keys, tab)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&digestType, "digest-type", "", "digest type to compute (sha1, sha256, sha384)")

	return cmd
}

func newDNSKeysGetCommand() *cobra.Command {
	var digestType string

	cmd := &cobra.Command{
		Use:   "get KEY_ID",
		Short: "Get DNSSEC key details",
		Long:  "Display a DNSSEC key and its digests",
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

			key, err := client.DNSKeys().Get(ctx, zone, args[0])
			if err != nil {
				return fmt.Errorf("failed to get DNS key: %w", err)
			}

			tab := propertyTable()
			tab.append("ID", key.ID)
			tab.append("Type", key.Type)
			tab.append("Algorithm", key.Algorithm)
			tab.append("Key Length", itoa(key.KeyLength))
			tab.append("Key Tag", itoa(key.KeyTag))
			tab.append("Active", yesNo(key.IsActive))
			tab.append("Created", orNotAvailable(key.CreationTime))

			for _, digest := range key.Digests {
				if digestType == "" || digest.Type == digestType {
					tab.append("Digest ("+digest.Type+")", digest.Digest)
				}
			}

			return render(cmd, key, tab)
		},
	}

	cmd.Flags().StringVar(&digestType, "digest-type", "", "only show digests of this type")

	return cmd
}
