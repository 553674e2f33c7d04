package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// PoliciesClient implements clouddns.PoliciesClient.
type PoliciesClient struct {
	httpClient *http.Client
}

// NewPoliciesClient creates a new policies client.
func NewPoliciesClient(httpClient *http.Client) *PoliciesClient {
	return &PoliciesClient{
		httpClient: httpClient,
	}
}

// List implements clouddns.PoliciesClient.List.
func (c *PoliciesClient) List(ctx context.Context, opts *clouddns.ListOptions) (*clouddns.PoliciesListResponse, error) {
	var list clouddns.PoliciesListResponse

	err := c.httpClient.Get(ctx, withQuery(route("policies"), opts), &list)
	if err != nil {
		return nil, fmt.Errorf("listing policies: %w", err)
	}

	return &list, nil
}

// Get implements clouddns.PoliciesClient.Get.
func (c *PoliciesClient) Get(ctx context.Context, policy string) (*clouddns.Policy, error) {
	var result clouddns.Policy

	err := c.httpClient.Get(ctx, route("policies", policy), &result)
	if err != nil {
		return nil, fmt.Errorf("getting policy %s: %w", policy, err)
	}

	return &result, nil
}

// Create implements clouddns.PoliciesClient.Create.
func (c *PoliciesClient) Create(ctx context.Context, policy *clouddns.Policy) (*clouddns.Policy, error) {
	var created clouddns.Policy

	err := c.httpClient.Post(ctx, route("policies"), policy, &created)
	if err != nil {
		return nil, fmt.Errorf("creating policy: %w", err)
	}

	return &created, nil
}

// Patch implements clouddns.PoliciesClient.Patch.
func (c *PoliciesClient) Patch(ctx context.Context, policy string, patch *clouddns.Policy) (*clouddns.PolicyPatchResponse, error) {
	var result clouddns.PolicyPatchResponse

	err := c.httpClient.Patch(ctx, route("policies", policy), patch, &result)
	if err != nil {
		return nil, fmt.Errorf("patching policy %s: %w", policy, err)
	}

	return &result, nil
}

// Delete implements clouddns.PoliciesClient.Delete.
func (c *PoliciesClient) Delete(ctx context.Context, policy string) error {
	err := c.httpClient.Delete(ctx, route("policies", policy), nil)
	if err != nil {
		return fmt.Errorf("deleting policy %s: %w", policy, err)
	}

	return nil
}
