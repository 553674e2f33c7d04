package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// ManagedZoneOperationsClient implements clouddns.ManagedZoneOperationsClient.
type ManagedZoneOperationsClient struct {
	httpClient *http.Client
}

// NewManagedZoneOperationsClient creates a new operations client.
func NewManagedZoneOperationsClient(httpClient *http.Client) *ManagedZoneOperationsClient {
	return &ManagedZoneOperationsClient{
		httpClient: httpClient,
	}
}

// List implements clouddns.ManagedZoneOperationsClient.List.
func (c *ManagedZoneOperationsClient) List(ctx context.Context, zone string, opts *clouddns.ListOptions) (*clouddns.ManagedZoneOperationsListResponse, error) {
	var list clouddns.ManagedZoneOperationsListResponse

	err := c.httpClient.Get(ctx, withQuery(zoneRoute(zone, "operations"), opts), &list)
	if err != nil {
		return nil, fmt.Errorf("listing operations in %s: %w", zone, err)
	}

	return &list, nil
}

// Get implements clouddns.ManagedZoneOperationsClient.Get.
func (c *ManagedZoneOperationsClient) Get(ctx context.Context, zone, operationID string) (*clouddns.Operation, error) {
	var operation clouddns.Operation

	err := c.httpClient.Get(ctx, zoneRoute(zone, "operations", operationID), &operation)
	if err != nil {
		return nil, fmt.Errorf("getting operation %s: %w", operationID, err)
	}

	return &operation, nil
}
