package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// DNSKeysClient implements clouddns.DNSKeysClient.
type DNSKeysClient struct {
	httpClient *http.Client
}

// NewDNSKeysClient creates a new DNS keys client.
func NewDNSKeysClient(httpClient *http.Client) *DNSKeysClient {
	return &DNSKeysClient{
		httpClient: httpClient,
	}
}

// List implements clouddns.DNSKeysClient.List.
func (c *DNSKeysClient) List(ctx context.Context, zone string, opts *clouddns.ListOptions) (*clouddns.DNSKeysListResponse, error) {
	var list clouddns.DNSKeysListResponse

	err := c.httpClient.Get(ctx, withQuery(zoneRoute(zone, "dnsKeys"), opts), &list)
	if err != nil {
		return nil, fmt.Errorf("listing dns keys in %s: %w", zone, err)
	}

	return &list, nil
}

// Get implements clouddns.DNSKeysClient.Get.
func (c *DNSKeysClient) Get(ctx context.Context, zone, keyID string) (*clouddns.DNSKey, error) {
	var key clouddns.DNSKey

	err := c.httpClient.Get(ctx, zoneRoute(zone, "dnsKeys", keyID), &key)
	if err != nil {
		return nil, fmt.Errorf("getting dns key %s: %w", keyID, err)
	}

	return &key, nil
}
