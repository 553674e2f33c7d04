package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// ProjectsClient implements clouddns.ProjectsClient.
type ProjectsClient struct {
	httpClient *http.Client
}

// NewProjectsClient creates a new projects client.
func NewProjectsClient(httpClient *http.Client) *ProjectsClient {
	return &ProjectsClient{
		httpClient: httpClient,
	}
}

// Get implements clouddns.ProjectsClient.Get. The project resource is the
// base URL itself.
func (c *ProjectsClient) Get(ctx context.Context) (*clouddns.Project, error) {
	project, err := http.Fetch[clouddns.Project](ctx, c.httpClient, "")
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}

	return project, nil
}
