package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// NewChangesCommand creates the changes command group.
func NewChangesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "changes",
		Aliases: []string{"change"},
		Short:   "Manage record set changes",
		Long:    "List, inspect and submit atomic record set changes of a managed zone",
	}

	cmd.AddCommand(newChangesListCommand())
	cmd.AddCommand(newChangesGetCommand())
	cmd.AddCommand(newChangesCreateCommand())

	return cmd
}

func newChangesListCommand() *cobra.Command {
	var (
		flags  listFlags
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List changes",
		Long:  "List the changes applied to a managed zone",
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

			changes, err := collectPages(ctx, opts, flags.allPages,
				func(ctx context.Context, opts *clouddns.ListOptions) ([]clouddns.Change, *string, error) {
					page, err := client.Changes().List(ctx, zone, opts)
					if err != nil {
						return nil, nil, err
					}

					return page.Changes, page.NextPageToken, nil
				})
			if err != nil {
				return fmt.Errorf("failed to list changes: %w", err)
			}

			tab := &table{headers: []string{"ID", "Status", "Start Time", "Additions", "Deletions"}}
			for _, change := range changes {
				tab.append(change.ID, title(string(change.Status)), orNotAvailable(change.StartTime),
					itoa(len(change.Additions)), itoa(len(change.Deletions)))
			}

			return render(cmd, changes, tab)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "sort order (changeSequence)")

	return cmd
}

func changeTable(change *clouddns.Change) *table {
	tab := propertyTable()
	tab.append("ID", orNotAvailable(change.ID))
	tab.append("Status", title(string(change.Status)))
	tab.append("Start Time", orNotAvailable(change.StartTime))

	for _, rrset := range change.Additions {
		tab.append("Addition", describeRecordSet(rrset))
	}

	for _, rrset := range change.Deletions {
		tab.append("Deletion", describeRecordSet(rrset))
	}

	return tab
}

func describeRecordSet(rrset clouddns.ResourceRecordSet) string {
	return truncate(fmt.Sprintf("%s %s %d %s", rrset.Name, rrset.Type, rrset.TTL, strings.Join(rrset.Rrdatas, " ")))
}

func newChangesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CHANGE_ID",
		Short: "Get change details",
		Long:  "Display the record sets added and deleted by a change",
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

			change, err := client.Changes().Get(ctx, zone, args[0])
			if err != nil {
				return fmt.Errorf("failed to get change: %w", err)
			}

			return render(cmd, change, changeTable(change))
		},
	}
}

// loadChange reads a change from a YAML or JSON file.
func loadChange(path string) (*clouddns.Change, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read change file: %w", err)
	}

	var change clouddns.Change

	err = yaml.Unmarshal(data, &change)
	if err != nil {
		return nil, fmt.Errorf("failed to parse change file: %w", err)
	}

	return &change, nil
}

func newChangesCreateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a change",
		Long: `Submit an atomic change read from a YAML or JSON file, for example:

  additions:
    - name: www.example.com.
      type: A
      ttl: 300
      rrdatas: [192.0.2.10]
  deletions:
    - name: www.example.com.
      type: A
      ttl: 300
      rrdatas: [192.0.2.1]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := resolveZone()
			if err != nil {
				return err
			}

			change, err := loadChange(fromFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			client, cleanup, err := CreateClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			created, err := client.Changes().Create(ctx, zone, change)
			if err != nil {
				return fmt.Errorf("failed to create change: %w", err)
			}

			return render(cmd, created, changeTable(created))
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "file holding the change")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}
