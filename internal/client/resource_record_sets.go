package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// ResourceRecordSetsClient implements clouddns.ResourceRecordSetsClient.
type ResourceRecordSetsClient struct {
	httpClient *http.Client
}

// NewResourceRecordSetsClient creates a new record sets client.
func NewResourceRecordSetsClient(httpClient *http.Client) *ResourceRecordSetsClient {
	return &ResourceRecordSetsClient{
		httpClient: httpClient,
	}
}

// List implements clouddns.ResourceRecordSetsClient.List. opts.Name and
// opts.Type filter the result.
func (c *ResourceRecordSetsClient) List(ctx context.Context, zone string, opts *clouddns.ListOptions) (*clouddns.ResourceRecordSetsListResponse, error) {
	var list clouddns.ResourceRecordSetsListResponse

	err := c.httpClient.Get(ctx, withQuery(zoneRoute(zone, "rrsets"), opts), &list)
	if err != nil {
		return nil, fmt.Errorf("listing record sets in %s: %w", zone, err)
	}

	return &list, nil
}

// Get implements clouddns.ResourceRecordSetsClient.Get.
func (c *ResourceRecordSetsClient) Get(ctx context.Context, zone, name, recordType string) (*clouddns.ResourceRecordSet, error) {
	var rrset clouddns.ResourceRecordSet

	err := c.httpClient.Get(ctx, zoneRoute(zone, "rrsets", name, recordType), &rrset)
	if err != nil {
		return nil, fmt.Errorf("getting record set %s %s: %w", name, recordType, err)
	}

	return &rrset, nil
}

// Create implements clouddns.ResourceRecordSetsClient.Create.
func (c *ResourceRecordSetsClient) Create(ctx context.Context, zone string, rrset *clouddns.ResourceRecordSet) (*clouddns.ResourceRecordSet, error) {
	var created clouddns.ResourceRecordSet

	err := c.httpClient.Post(ctx, zoneRoute(zone, "rrsets"), rrset, &created)
	if err != nil {
		return nil, fmt.Errorf("creating record set: %w", err)
	}

	return &created, nil
}

// Patch implements clouddns.ResourceRecordSetsClient.Patch.
func (c *ResourceRecordSetsClient) Patch(ctx context.Context, zone, name, recordType string, rrset *clouddns.ResourceRecordSet) (*clouddns.ResourceRecordSet, error) {
	var patched clouddns.ResourceRecordSet

	err := c.httpClient.Patch(ctx, zoneRoute(zone, "rrsets", name, recordType), rrset, &patched)
	if err != nil {
		return nil, fmt.Errorf("patching record set %s %s: %w", name, recordType, err)
	}

	return &patched, nil
}

// Delete implements clouddns.ResourceRecordSetsClient.Delete.
func (c *ResourceRecordSetsClient) Delete(ctx context.Context, zone, name, recordType string) error {
	err := c.httpClient.Delete(ctx, zoneRoute(zone, "rrsets", name, recordType), nil)
	if err != nil {
		return fmt.Errorf("deleting record set %s %s: %w", name, recordType, err)
	}

	return nil
}
