package clouddns_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

func TestListOptions_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     *clouddns.ListOptions
		expected url.Values
	}{
		{"nil", nil, url.Values{}},
		{"empty", &clouddns.ListOptions{}, url.Values{}},
		{
			"record set filters",
			&clouddns.ListOptions{MaxResults: 50, PageToken: "next", Name: "www.example.com.", Type: "A"},
			url.Values{
				"maxResults": {"50"},
				"pageToken":  {"next"},
				"name":       {"www.example.com."},
				"type":       {"A"},
			},
		},
		{"sort", &clouddns.ListOptions{SortBy: "changeSequence"}, url.Values{"sortBy": {"changeSequence"}}},
		{"digest", &clouddns.ListOptions{DigestType: "sha256"}, url.Values{"digestType": {"sha256"}}},
		{"negative max results is ignored", &clouddns.ListOptions{MaxResults: -1}, url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.opts.Values())
		})
	}
}

func TestResourceRecordSet_JSON(t *testing.T) {
	t.Parallel()

	var rrset clouddns.ResourceRecordSet

	err := json.Unmarshal([]byte(`{
		"kind": "dns#resourceRecordSet",
		"name": "www.example.com.",
		"type": "A",
		"ttl": 300,
		"rrdatas": ["192.0.2.1", "192.0.2.2"]
	}`), &rrset)
	require.NoError(t, err)

	assert.Equal(t, "www.example.com.", rrset.Name)
	assert.Equal(t, "A", rrset.Type)
	assert.Equal(t, 300, rrset.TTL)
	assert.Equal(t, []string{"192.0.2.1", "192.0.2.2"}, rrset.Rrdatas)
}

func boolPtr(v bool) *bool { return &v }

// roundTrip encodes in, decodes into a fresh value of the same type and
// returns it.
func roundTrip[T any](t *testing.T, in T) T {
	t.Helper()

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(data, &out))

	return out
}

func TestTypes_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	rrset := clouddns.ResourceRecordSet{
		Kind:             "dns#resourceRecordSet",
		Name:             "www.example.com.",
		Type:             "A",
		TTL:              300,
		Rrdatas:          []string{"192.0.2.1", "192.0.2.2"},
		SignatureRrdatas: []string{"A 8 3 300 20260101000000 20250101000000 12345 example.com. c2ln"},
	}

	zone := clouddns.ManagedZone{
		Kind:          "dns#managedZone",
		ID:            "4242",
		Name:          "example-zone",
		DNSName:       "example.com.",
		Description:   "primary zone",
		NameServers:   []string{"ns-cloud-a1.googledomains.com.", "ns-cloud-a2.googledomains.com."},
		NameServerSet: "default",
		CreationTime:  "2026-01-01T00:00:00.000Z",
		Visibility:    "private",
		Labels:        map[string]string{"env": "prod", "team": "dns"},
		DNSSecConfig: &clouddns.DNSSecConfig{
			Kind:  "dns#managedZoneDnsSecConfig",
			State: "on",
			DefaultKeySpecs: []clouddns.DNSKeySpec{
				{Kind: "dns#dnsKeySpec", KeyType: "keySigning", Algorithm: "rsasha256", KeyLength: 2048},
				{KeyType: "zoneSigning", Algorithm: "rsasha256", KeyLength: 1024},
			},
			NonExistence: "nsec3",
		},
		PrivateVisibilityConfig: &clouddns.PrivateVisibilityConfig{
			Networks: []clouddns.NetworkRef{{Kind: "dns#managedZonePrivateVisibilityConfigNetwork", NetworkURL: "https://www.googleapis.com/compute/v1/projects/p/global/networks/default"}},
		},
		ForwardingConfig: &clouddns.ForwardingConfig{
			TargetNameServers: []clouddns.TargetNameServer{
				{IPv4Address: "10.0.0.53", ForwardingPath: "private"},
				{IPv6Address: "fd00::53"},
			},
		},
		PeeringConfig: &clouddns.PeeringConfig{
			TargetNetwork: &clouddns.NetworkRef{NetworkURL: "https://www.googleapis.com/compute/v1/projects/other/global/networks/shared"},
		},
	}

	change := clouddns.Change{
		Kind:      "dns#change",
		ID:        "17",
		Additions: []clouddns.ResourceRecordSet{rrset},
		Deletions: []clouddns.ResourceRecordSet{{Name: "www.example.com.", Type: "A", TTL: 60, Rrdatas: []string{"192.0.2.9"}}},
		StartTime: "2026-01-01T00:00:00.000Z",
		Status:    clouddns.ChangeStatusDone,
		IsServing: boolPtr(false),
	}

	policy := clouddns.Policy{
		Kind:                    "dns#policy",
		ID:                      "99",
		Name:                    "corp-policy",
		Description:             "inbound forwarding for corp",
		EnableInboundForwarding: true,
		EnableLogging:           true,
		Networks:                []clouddns.NetworkRef{{NetworkURL: "https://www.googleapis.com/compute/v1/projects/p/global/networks/corp"}},
		AlternativeNameServerConfig: &clouddns.AlternativeNameServerConfig{
			TargetNameServers: []clouddns.TargetNameServer{{IPv4Address: "10.1.0.53"}},
		},
	}

	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{"resource record set", func(t *testing.T) { assert.Equal(t, rrset, roundTrip(t, rrset)) }},
		{"managed zone", func(t *testing.T) { assert.Equal(t, zone, roundTrip(t, zone)) }},
		{"change", func(t *testing.T) { assert.Equal(t, change, roundTrip(t, change)) }},
		{"policy", func(t *testing.T) { assert.Equal(t, policy, roundTrip(t, policy)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t)
		})
	}
}

func TestListResponses_NextPageToken(t *testing.T) {
	t.Parallel()

	var page clouddns.ManagedZonesListResponse

	require.NoError(t, json.Unmarshal([]byte(`{"managedZones":[],"nextPageToken":"abc"}`), &page))
	require.NotNil(t, page.NextPageToken)
	assert.Equal(t, "abc", *page.NextPageToken)

	var last clouddns.ManagedZonesListResponse

	require.NoError(t, json.Unmarshal([]byte(`{"managedZones":[]}`), &last))
	assert.Nil(t, last.NextPageToken)
}
