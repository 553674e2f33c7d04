package client

import (
	"net/url"
	"strings"

	"github.com/fivetwenty-io/clouddns/internal/auth"
	"github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/internal/mux"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
	"github.com/fivetwenty-io/clouddns/pkg/credentials"
)

// Options is everything needed to assemble a Client on top of a
// multiplexer handle.
type Options struct {
	BaseURL     *url.URL
	ProjectID   string
	Provider    credentials.Provider
	Scopes      []string
	Logger      clouddns.Logger
	HTTPOptions []http.Option
}

// Client implements the clouddns.Client interface.
type Client struct {
	handle     *mux.Handle
	httpClient *http.Client
	options    Options

	// Resource clients
	managedZones          clouddns.ManagedZonesClient
	resourceRecordSets    clouddns.ResourceRecordSetsClient
	changes               clouddns.ChangesClient
	dnsKeys               clouddns.DNSKeysClient
	managedZoneOperations clouddns.ManagedZoneOperationsClient
	policies              clouddns.PoliciesClient
	projects              clouddns.ProjectsClient
}

// New assembles a client on handle. The client owns handle and closes it
// on Close.
func New(handle *mux.Handle, options Options) *Client {
	if options.Logger == nil {
		options.Logger = clouddns.NopLogger{}
	}

	resolver := auth.NewResolver(options.Provider, handle, options.Scopes, options.Logger)
	httpClient := http.NewClient(options.BaseURL, handle, resolver, options.HTTPOptions...)

	client := &Client{
		handle:     handle,
		httpClient: httpClient,
		options:    options,
	}

	client.initializeResourceClients()

	return client
}

func (c *Client) initializeResourceClients() {
	c.managedZones = NewManagedZonesClient(c.httpClient)
	c.resourceRecordSets = NewResourceRecordSetsClient(c.httpClient)
	c.changes = NewChangesClient(c.httpClient)
	c.dnsKeys = NewDNSKeysClient(c.httpClient)
	c.managedZoneOperations = NewManagedZoneOperationsClient(c.httpClient)
	c.policies = NewPoliciesClient(c.httpClient)
	c.projects = NewProjectsClient(c.httpClient)
}

// ProjectID implements clouddns.Client.ProjectID.
func (c *Client) ProjectID() string {
	return c.options.ProjectID
}

// Clone implements clouddns.Client.Clone. The clone shares the request
// queue and transport and must be closed separately.
func (c *Client) Clone() clouddns.Client {
	return New(c.handle.Clone(), c.options)
}

// Close implements clouddns.Client.Close.
func (c *Client) Close() error {
	return c.handle.Close()
}

// Resource client accessors

// ManagedZones implements clouddns.Client.ManagedZones.
func (c *Client) ManagedZones() clouddns.ManagedZonesClient {
	return c.managedZones
}

// ResourceRecordSets implements clouddns.Client.ResourceRecordSets.
func (c *Client) ResourceRecordSets() clouddns.ResourceRecordSetsClient {
	return c.resourceRecordSets
}

// Changes implements clouddns.Client.Changes.
func (c *Client) Changes() clouddns.ChangesClient {
	return c.changes
}

// DNSKeys implements clouddns.Client.DNSKeys.
func (c *Client) DNSKeys() clouddns.DNSKeysClient {
	return c.dnsKeys
}

// ManagedZoneOperations implements clouddns.Client.ManagedZoneOperations.
func (c *Client) ManagedZoneOperations() clouddns.ManagedZoneOperationsClient {
	return c.managedZoneOperations
}

// Policies implements clouddns.Client.Policies.
func (c *Client) Policies() clouddns.PoliciesClient {
	return c.policies
}

// Projects implements clouddns.Client.Projects.
func (c *Client) Projects() clouddns.ProjectsClient {
	return c.projects
}

// route joins escaped path segments.
func route(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}

	return strings.Join(escaped, "/")
}

// zoneRoute builds a route below managedZones/{zone}.
func zoneRoute(zone string, segments ...string) string {
	return route(append([]string{"managedZones", zone}, segments...)...)
}

// withQuery appends list options to a route.
func withQuery(path string, opts *clouddns.ListOptions) string {
	query := opts.Values().Encode()
	if query == "" {
		return path
	}

	return path + "?" + query
}
