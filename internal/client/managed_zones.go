package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// ManagedZonesClient implements clouddns.ManagedZonesClient.
type ManagedZonesClient struct {
	httpClient *http.Client
}

// NewManagedZonesClient creates a new managed zones client.
func NewManagedZonesClient(httpClient *http.Client) *ManagedZonesClient {
	return &ManagedZonesClient{
		httpClient: httpClient,
	}
}

// List implements clouddns.ManagedZonesClient.List.
func (c *ManagedZonesClient) List(ctx context.Context, opts *clouddns.ListOptions) (*clouddns.ManagedZonesListResponse, error) {
	var list clouddns.ManagedZonesListResponse

	err := c.httpClient.Get(ctx, withQuery(route("managedZones"), opts), &list)
	if err != nil {
		return nil, fmt.Errorf("listing managed zones: %w", err)
	}

	return &list, nil
}

// Get implements clouddns.ManagedZonesClient.Get.
func (c *ManagedZonesClient) Get(ctx context.Context, zone string) (*clouddns.ManagedZone, error) {
	var managedZone clouddns.ManagedZone

	err := c.httpClient.Get(ctx, zoneRoute(zone), &managedZone)
	if err != nil {
		return nil, fmt.Errorf("getting managed zone %s: %w", zone, err)
	}

	return &managedZone, nil
}

// Create implements clouddns.ManagedZonesClient.Create.
func (c *ManagedZonesClient) Create(ctx context.Context, zone *clouddns.ManagedZone) (*clouddns.ManagedZone, error) {
	var created clouddns.ManagedZone

	err := c.httpClient.Post(ctx, route("managedZones"), zone, &created)
	if err != nil {
		return nil, fmt.Errorf("creating managed zone: %w", err)
	}

	return &created, nil
}

// Patch implements clouddns.ManagedZonesClient.Patch.
func (c *ManagedZonesClient) Patch(ctx context.Context, zone string, patch *clouddns.ManagedZone) (*clouddns.Operation, error) {
	var operation clouddns.Operation

	err := c.httpClient.Patch(ctx, zoneRoute(zone), patch, &operation)
	if err != nil {
		return nil, fmt.Errorf("patching managed zone %s: %w", zone, err)
	}

	return &operation, nil
}

// Update implements clouddns.ManagedZonesClient.Update.
func (c *ManagedZonesClient) Update(ctx context.Context, zone string, replacement *clouddns.ManagedZone) (*clouddns.Operation, error) {
	var operation clouddns.Operation

	err := c.httpClient.Put(ctx, zoneRoute(zone), replacement, &operation)
	if err != nil {
		return nil, fmt.Errorf("updating managed zone %s: %w", zone, err)
	}

	return &operation, nil
}

// Delete implements clouddns.ManagedZonesClient.Delete.
func (c *ManagedZonesClient) Delete(ctx context.Context, zone string) error {
	err := c.httpClient.Delete(ctx, zoneRoute(zone), nil)
	if err != nil {
		return fmt.Errorf("deleting managed zone %s: %w", zone, err)
	}

	return nil
}
