package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// ChangesClient implements clouddns.ChangesClient.
type ChangesClient struct {
	httpClient *http.Client
}

// NewChangesClient creates a new changes client.
func NewChangesClient(httpClient *http.Client) *ChangesClient {
	return &ChangesClient{
		httpClient: httpClient,
	}
}

// List implements clouddns.ChangesClient.List.
func (c *ChangesClient) List(ctx context.Context, zone string, opts *clouddns.ListOptions) (*clouddns.ChangesListResponse, error) {
	var list clouddns.ChangesListResponse

	err := c.httpClient.Get(ctx, withQuery(zoneRoute(zone, "changes"), opts), &list)
	if err != nil {
		return nil, fmt.Errorf("listing changes in %s: %w", zone, err)
	}

	return &list, nil
}

// Get implements clouddns.ChangesClient.Get.
func (c *ChangesClient) Get(ctx context.Context, zone, changeID string) (*clouddns.Change, error) {
	var change clouddns.Change

	err := c.httpClient.Get(ctx, zoneRoute(zone, "changes", changeID), &change)
	if err != nil {
		return nil, fmt.Errorf("getting change %s: %w", changeID, err)
	}

	return &change, nil
}

// Create implements clouddns.ChangesClient.Create. Additions and deletions
// are applied atomically.
func (c *ChangesClient) Create(ctx context.Context, zone string, change *clouddns.Change) (*clouddns.Change, error) {
	var created clouddns.Change

	err := c.httpClient.Post(ctx, zoneRoute(zone, "changes"), change, &created)
	if err != nil {
		return nil, fmt.Errorf("creating change in %s: %w", zone, err)
	}

	return &created, nil
}
