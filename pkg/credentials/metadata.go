package credentials

import (
	"net/http"
	"net/url"
	"os"
	"strings"
)

const (
	metadataHostEnv     = "GCE_METADATA_HOST"
	defaultMetadataHost = "169.254.169.254"
	defaultAccount      = "default"
)

// MetadataProvider obtains tokens for a service account attached to a GCE
// instance, GKE node or Cloud Run service from the metadata server.
type MetadataProvider struct {
	cachingExchange

	host    string
	account string
}

// NewMetadataProvider returns a provider for the instance's default service
// account. The metadata host honours GCE_METADATA_HOST.
func NewMetadataProvider() *MetadataProvider {
	return NewMetadataProviderForAccount(defaultAccount)
}

// NewMetadataProviderForAccount returns a provider for a named service
// account attached to the instance.
func NewMetadataProviderForAccount(account string) *MetadataProvider {
	host := os.Getenv(metadataHostEnv)
	if host == "" {
		host = defaultMetadataHost
	}

	provider := &MetadataProvider{
		host:    host,
		account: account,
	}
	provider.cachingExchange = cachingExchange{
		cache: newTokenCache(),
		build: provider.buildRequest,
	}

	return provider
}

func (p *MetadataProvider) buildRequest(scopes []string) (*TokenRequest, error) {
	endpoint := url.URL{
		Scheme: "http",
		Host:   p.host,
		Path:   "/computeMetadata/v1/instance/service-accounts/" + p.account + "/token",
	}

	if len(scopes) > 0 {
		endpoint.RawQuery = url.Values{"scopes": {strings.Join(scopes, ",")}}.Encode()
	}

	return &TokenRequest{
		Method: http.MethodGet,
		URL:    endpoint.String(),
		Header: http.Header{"Metadata-Flavor": {"Google"}},
	}, nil
}
