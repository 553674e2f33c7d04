package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// listFlags are the paging flags shared by list commands.
type listFlags struct {
	maxResults int
	allPages   bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxResults, "max-results", 0, "maximum results per page")
	cmd.Flags().BoolVar(&f.allPages, "all", false, "fetch all pages")
}

func (f *listFlags) options() *clouddns.ListOptions {
	return &clouddns.ListOptions{MaxResults: f.maxResults}
}

// collectPages calls fetch with successive page tokens. Unless all is set
// only the first page is fetched.
func collectPages[T any](ctx context.Context, opts *clouddns.ListOptions, all bool,
	fetch func(ctx context.Context, opts *clouddns.ListOptions) ([]T, *string, error),
) ([]T, error) {
	var items []T

	for {
		page, next, err := fetch(ctx, opts)
		if err != nil {
			return nil, err
		}

		items = append(items, page...)

		if !all || next == nil || *next == "" {
			return items, nil
		}

		pageOpts := *opts
		pageOpts.PageToken = *next
		opts = &pageOpts
	}
}
