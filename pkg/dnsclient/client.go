package dnsclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/clouddns/internal/client"
	"github.com/fivetwenty-io/clouddns/internal/constants"
	internalhttp "github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/internal/mux"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
	"github.com/fivetwenty-io/clouddns/pkg/credentials"
	"github.com/fivetwenty-io/clouddns/pkg/transport"
)

// ErrRelativeEndpoint is returned when Config.Endpoint has no scheme or host.
var ErrRelativeEndpoint = errors.New("endpoint must be an absolute URL")

// New creates a Cloud DNS client for config.ProjectID.
//
// When config.TokenProvider is nil, application default credentials are
// looked up once, here; when config.Transport is nil, a transport.NewHTTP
// client with default settings is used. The returned client must be closed.
func New(ctx context.Context, config *clouddns.Config) (clouddns.Client, error) {
	if config == nil {
		return nil, clouddns.ErrConfigRequired
	}

	if config.ProjectID == "" {
		return nil, clouddns.ErrProjectIDRequired
	}

	baseURL, err := BaseURL(config.Endpoint, config.ProjectID)
	if err != nil {
		return nil, err
	}

	provider := config.TokenProvider
	if provider == nil {
		err = ctx.Err()
		if err != nil {
			return nil, fmt.Errorf("finding default credentials: %w", err)
		}

		provider, err = credentials.FindDefault()
		if err != nil {
			return nil, fmt.Errorf("finding default credentials: %w", err)
		}
	}

	doer := config.Transport
	if doer == nil {
		doer = transport.NewHTTP(transport.DefaultHTTPConfig())
	}

	logger := config.Logger
	if logger == nil {
		logger = clouddns.NopLogger{}
	}

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{constants.ScopeReadWrite}
	}

	handle := mux.New(doer,
		mux.WithCapacity(config.QueueCapacity),
		mux.WithMaxInFlight(config.MaxInFlight),
		mux.WithLogger(logger),
	)

	logger.Debug("Cloud DNS client created", map[string]interface{}{
		"project":  config.ProjectID,
		"base_url": baseURL.String(),
	})

	return client.New(handle, client.Options{
		BaseURL:   baseURL,
		ProjectID: config.ProjectID,
		Provider:  provider,
		Scopes:    scopes,
		Logger:    logger,
		HTTPOptions: []internalhttp.Option{
			internalhttp.WithLogger(logger),
			internalhttp.WithDebug(config.Debug),
			internalhttp.WithUserAgent(config.UserAgent),
			internalhttp.WithInterceptors(config.Interceptors),
		},
	}), nil
}

// NewWithToken creates a client that authenticates with a fixed access token.
func NewWithToken(ctx context.Context, projectID, accessToken string) (clouddns.Client, error) {
	return New(ctx, &clouddns.Config{
		ProjectID:     projectID,
		TokenProvider: credentials.NewStaticProvider(accessToken),
	})
}

// NewWithCredentialsFile creates a client from a service account key or
// authorized user credentials file.
func NewWithCredentialsFile(ctx context.Context, projectID, path string) (clouddns.Client, error) {
	provider, err := credentials.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	return New(ctx, &clouddns.Config{
		ProjectID:     projectID,
		TokenProvider: provider,
	})
}

// BaseURL returns the URL every route of projectID is resolved against:
// <endpoint>/dns/v1/projects/<projectID>/. An empty endpoint means the
// public Cloud DNS API.
func BaseURL(endpoint, projectID string) (*url.URL, error) {
	if projectID == "" {
		return nil, clouddns.ErrProjectIDRequired
	}

	if endpoint == "" {
		endpoint = constants.DefaultEndpoint
	}

	raw := strings.TrimSuffix(endpoint, "/") + constants.APIVersionPath + url.PathEscape(projectID) + "/"

	base, err := url.Parse(raw)
	if err != nil {
		return nil, &clouddns.URLError{Route: raw, Cause: err}
	}

	if !base.IsAbs() || base.Host == "" {
		return nil, &clouddns.URLError{Route: raw, Cause: ErrRelativeEndpoint}
	}

	return base, nil
}
