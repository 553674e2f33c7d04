package clouddns

import (
	"net/url"
	"strconv"
)

// ResponseHeader carries the operation id the API attaches to mutating calls.
type ResponseHeader struct {
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`
}

// ListOptions are the common query parameters of list calls.
type ListOptions struct {
	MaxResults int
	PageToken  string
	// Name and Type filter record set listings.
	Name string
	Type string
	// SortBy applies to operation and change listings.
	SortBy string
	// DigestType selects the digests returned with DNS keys.
	DigestType string
}

// Values encodes the options as query parameters.
func (o *ListOptions) Values() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	if o.MaxResults > 0 {
		values.Set("maxResults", strconv.Itoa(o.MaxResults))
	}

	if o.PageToken != "" {
		values.Set("pageToken", o.PageToken)
	}

	if o.Name != "" {
		values.Set("name", o.Name)
	}

	if o.Type != "" {
		values.Set("type", o.Type)
	}

	if o.SortBy != "" {
		values.Set("sortBy", o.SortBy)
	}

	if o.DigestType != "" {
		values.Set("digestType", o.DigestType)
	}

	return values
}

// ResourceRecordSet is a unit of data returned to DNS resolvers.
type ResourceRecordSet struct {
	Kind             string   `json:"kind,omitempty"             yaml:"kind,omitempty"`
	Name             string   `json:"name"                       yaml:"name"                       validate:"required"`
	Type             string   `json:"type"                       yaml:"type"                       validate:"required"`
	TTL              int      `json:"ttl,omitempty"              yaml:"ttl,omitempty"`
	Rrdatas          []string `json:"rrdatas,omitempty"          yaml:"rrdatas,omitempty"`
	SignatureRrdatas []string `json:"signatureRrdatas,omitempty" yaml:"signatureRrdatas,omitempty"`
}

// ResourceRecordSetsListResponse is one page of record sets.
type ResourceRecordSetsListResponse struct {
	Kind          string              `json:"kind,omitempty"   yaml:"kind,omitempty"`
	Header        *ResponseHeader     `json:"header,omitempty" yaml:"header,omitempty"`
	Rrsets        []ResourceRecordSet `json:"rrsets"           yaml:"rrsets"           validate:"dive"`
	NextPageToken *string             `json:"nextPageToken"    yaml:"nextPageToken"`
}

// ChangeStatus is the state of a change batch.
type ChangeStatus string

// Change statuses.
const (
	ChangeStatusPending ChangeStatus = "pending"
	ChangeStatusDone    ChangeStatus = "done"
)

// Change is an atomic update to a zone's record sets.
type Change struct {
	Kind      string              `json:"kind,omitempty"      yaml:"kind,omitempty"`
	ID        string              `json:"id,omitempty"        yaml:"id,omitempty"`
	Additions []ResourceRecordSet `json:"additions,omitempty" yaml:"additions,omitempty" validate:"dive"`
	Deletions []ResourceRecordSet `json:"deletions,omitempty" yaml:"deletions,omitempty" validate:"dive"`
	StartTime string              `json:"startTime,omitempty" yaml:"startTime,omitempty"`
	Status    ChangeStatus        `json:"status,omitempty"    yaml:"status,omitempty"`
	IsServing *bool               `json:"isServing,omitempty" yaml:"isServing,omitempty"`
}

// ChangesListResponse is one page of changes.
type ChangesListResponse struct {
	Kind          string          `json:"kind,omitempty"   yaml:"kind,omitempty"`
	Header        *ResponseHeader `json:"header,omitempty" yaml:"header,omitempty"`
	Changes       []Change        `json:"changes"          yaml:"changes"          validate:"dive"`
	NextPageToken *string         `json:"nextPageToken"    yaml:"nextPageToken"`
}

// DNSKeyDigest is a cryptographic hash of a DNSKEY resource record.
type DNSKeyDigest struct {
	Type   string `json:"type"   yaml:"type"`
	Digest string `json:"digest" yaml:"digest"`
}

// DNSKey is a DNSSEC signing key.
type DNSKey struct {
	Kind         string         `json:"kind,omitempty"        yaml:"kind,omitempty"`
	ID           string         `json:"id"                    yaml:"id"                    validate:"required"`
	Algorithm    string         `json:"algorithm"             yaml:"algorithm"`
	KeyLength    int            `json:"keyLength"             yaml:"keyLength"`
	PublicKey    string         `json:"publicKey,omitempty"   yaml:"publicKey,omitempty"`
	CreationTime string         `json:"creationTime"          yaml:"creationTime"`
	IsActive     bool           `json:"isActive"              yaml:"isActive"`
	Type         string         `json:"type"                  yaml:"type"`
	KeyTag       int            `json:"keyTag"                yaml:"keyTag"`
	Digests      []DNSKeyDigest `json:"digests,omitempty"     yaml:"digests,omitempty"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
}

// DNSKeysListResponse is one page of DNS keys.
type DNSKeysListResponse struct {
	Kind          string          `json:"kind,omitempty"   yaml:"kind,omitempty"`
	Header        *ResponseHeader `json:"header,omitempty" yaml:"header,omitempty"`
	DNSKeys       []DNSKey        `json:"dnsKeys"          yaml:"dnsKeys"          validate:"dive"`
	NextPageToken *string         `json:"nextPageToken"    yaml:"nextPageToken"`
}

// DNSKeySpec describes a key DNSSEC may generate.
type DNSKeySpec struct {
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	KeyType   string `json:"keyType"        yaml:"keyType"`
	Algorithm string `json:"algorithm"      yaml:"algorithm"`
	KeyLength int    `json:"keyLength"      yaml:"keyLength"`
}

// DNSSecConfig is a zone's DNSSEC configuration.
type DNSSecConfig struct {
	Kind            string       `json:"kind,omitempty"            yaml:"kind,omitempty"`
	State           string       `json:"state,omitempty"           yaml:"state,omitempty"`
	DefaultKeySpecs []DNSKeySpec `json:"defaultKeySpecs,omitempty" yaml:"defaultKeySpecs,omitempty"`
	NonExistence    string       `json:"nonExistence,omitempty"    yaml:"nonExistence,omitempty"`
}

// NetworkRef names a VPC network by URL.
type NetworkRef struct {
	Kind       string `json:"kind,omitempty" yaml:"kind,omitempty"`
	NetworkURL string `json:"networkUrl"     yaml:"networkUrl"`
}

// PrivateVisibilityConfig lists networks a private zone is visible to.
type PrivateVisibilityConfig struct {
	Kind     string       `json:"kind,omitempty"     yaml:"kind,omitempty"`
	Networks []NetworkRef `json:"networks,omitempty" yaml:"networks,omitempty"`
}

// TargetNameServer is a forwarding or alternative name server.
type TargetNameServer struct {
	Kind           string `json:"kind,omitempty"           yaml:"kind,omitempty"`
	IPv4Address    string `json:"ipv4Address,omitempty"    yaml:"ipv4Address,omitempty"`
	IPv6Address    string `json:"ipv6Address,omitempty"    yaml:"ipv6Address,omitempty"`
	ForwardingPath string `json:"forwardingPath,omitempty" yaml:"forwardingPath,omitempty"`
}

// ForwardingConfig lists the name servers a forwarding zone sends queries to.
type ForwardingConfig struct {
	Kind              string             `json:"kind,omitempty"              yaml:"kind,omitempty"`
	TargetNameServers []TargetNameServer `json:"targetNameServers,omitempty" yaml:"targetNameServers,omitempty"`
}

// PeeringConfig names the network a peering zone peers with.
type PeeringConfig struct {
	Kind          string      `json:"kind,omitempty"          yaml:"kind,omitempty"`
	TargetNetwork *NetworkRef `json:"targetNetwork,omitempty" yaml:"targetNetwork,omitempty"`
}

// ManagedZone is a zone of records hosted by Cloud DNS.
type ManagedZone struct {
	Kind                    string                   `json:"kind,omitempty"                    yaml:"kind,omitempty"`
	ID                      string                   `json:"id,omitempty"                      yaml:"id,omitempty"`
	Name                    string                   `json:"name"                              yaml:"name"                              validate:"required"`
	DNSName                 string                   `json:"dnsName"                           yaml:"dnsName"`
	Description             string                   `json:"description,omitempty"             yaml:"description,omitempty"`
	NameServers             []string                 `json:"nameServers,omitempty"             yaml:"nameServers,omitempty"`
	NameServerSet           string                   `json:"nameServerSet,omitempty"           yaml:"nameServerSet,omitempty"`
	CreationTime            string                   `json:"creationTime,omitempty"            yaml:"creationTime,omitempty"`
	Visibility              string                   `json:"visibility,omitempty"              yaml:"visibility,omitempty"`
	Labels                  map[string]string        `json:"labels,omitempty"                  yaml:"labels,omitempty"`
	DNSSecConfig            *DNSSecConfig            `json:"dnssecConfig,omitempty"            yaml:"dnssecConfig,omitempty"`
	PrivateVisibilityConfig *PrivateVisibilityConfig `json:"privateVisibilityConfig,omitempty" yaml:"privateVisibilityConfig,omitempty"`
	ForwardingConfig        *ForwardingConfig        `json:"forwardingConfig,omitempty"        yaml:"forwardingConfig,omitempty"`
	PeeringConfig           *PeeringConfig           `json:"peeringConfig,omitempty"           yaml:"peeringConfig,omitempty"`
}

// ManagedZonesListResponse is one page of managed zones.
type ManagedZonesListResponse struct {
	Kind          string          `json:"kind,omitempty"   yaml:"kind,omitempty"`
	Header        *ResponseHeader `json:"header,omitempty" yaml:"header,omitempty"`
	ManagedZones  []ManagedZone   `json:"managedZones"     yaml:"managedZones"     validate:"dive"`
	NextPageToken *string         `json:"nextPageToken"    yaml:"nextPageToken"`
}

// ZoneContext holds the before and after state of a zone operation.
type ZoneContext struct {
	OldValue *ManagedZone `json:"oldValue,omitempty" yaml:"oldValue,omitempty"`
	NewValue *ManagedZone `json:"newValue,omitempty" yaml:"newValue,omitempty"`
}

// DNSKeyContext holds the before and after state of a key operation.
type DNSKeyContext struct {
	OldValue *DNSKey `json:"oldValue,omitempty" yaml:"oldValue,omitempty"`
	NewValue *DNSKey `json:"newValue,omitempty" yaml:"newValue,omitempty"`
}

// Operation is a long-running mutation of a managed zone.
type Operation struct {
	Kind          string         `json:"kind,omitempty"          yaml:"kind,omitempty"`
	ID            string         `json:"id"                      yaml:"id"                      validate:"required"`
	StartTime     string         `json:"startTime,omitempty"     yaml:"startTime,omitempty"`
	Status        string         `json:"status,omitempty"        yaml:"status,omitempty"`
	User          string         `json:"user,omitempty"          yaml:"user,omitempty"`
	Type          string         `json:"type,omitempty"          yaml:"type,omitempty"`
	ZoneContext   *ZoneContext   `json:"zoneContext,omitempty"   yaml:"zoneContext,omitempty"`
	DNSKeyContext *DNSKeyContext `json:"dnsKeyContext,omitempty" yaml:"dnsKeyContext,omitempty"`
}

// ManagedZoneOperationsListResponse is one page of operations.
type ManagedZoneOperationsListResponse struct {
	Kind          string          `json:"kind,omitempty"   yaml:"kind,omitempty"`
	Header        *ResponseHeader `json:"header,omitempty" yaml:"header,omitempty"`
	Operations    []Operation     `json:"operations"       yaml:"operations"       validate:"dive"`
	NextPageToken *string         `json:"nextPageToken"    yaml:"nextPageToken"`
}

// AlternativeNameServerConfig overrides the default resolver of a policy.
type AlternativeNameServerConfig struct {
	Kind              string             `json:"kind,omitempty"              yaml:"kind,omitempty"`
	TargetNameServers []TargetNameServer `json:"targetNameServers,omitempty" yaml:"targetNameServers,omitempty"`
}

// Policy is a set of resolver settings applied to VPC networks.
type Policy struct {
	Kind                        string                       `json:"kind,omitempty"                        yaml:"kind,omitempty"`
	ID                          string                       `json:"id,omitempty"                          yaml:"id,omitempty"`
	Name                        string                       `json:"name"                                  yaml:"name"                                  validate:"required"`
	Description                 string                       `json:"description,omitempty"                 yaml:"description,omitempty"`
	EnableInboundForwarding     bool                         `json:"enableInboundForwarding,omitempty"     yaml:"enableInboundForwarding,omitempty"`
	EnableLogging               bool                         `json:"enableLogging,omitempty"               yaml:"enableLogging,omitempty"`
	Networks                    []NetworkRef                 `json:"networks,omitempty"                    yaml:"networks,omitempty"`
	AlternativeNameServerConfig *AlternativeNameServerConfig `json:"alternativeNameServerConfig,omitempty" yaml:"alternativeNameServerConfig,omitempty"`
}

// PoliciesListResponse is one page of policies.
type PoliciesListResponse struct {
	Kind          string          `json:"kind,omitempty"   yaml:"kind,omitempty"`
	Header        *ResponseHeader `json:"header,omitempty" yaml:"header,omitempty"`
	Policies      []Policy        `json:"policies"         yaml:"policies"         validate:"dive"`
	NextPageToken *string         `json:"nextPageToken"    yaml:"nextPageToken"`
}

// PolicyPatchResponse is returned by policy patches.
type PolicyPatchResponse struct {
	Header *ResponseHeader `json:"header,omitempty" yaml:"header,omitempty"`
	Policy *Policy         `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// Quota lists the project's Cloud DNS limits.
type Quota struct {
	Kind                            string       `json:"kind,omitempty"                  yaml:"kind,omitempty"`
	ManagedZones                    int          `json:"managedZones"                    yaml:"managedZones"`
	RrsetsPerManagedZone            int          `json:"rrsetsPerManagedZone"            yaml:"rrsetsPerManagedZone"`
	RrsetAdditionsPerChange         int          `json:"rrsetAdditionsPerChange"         yaml:"rrsetAdditionsPerChange"`
	RrsetDeletionsPerChange         int          `json:"rrsetDeletionsPerChange"         yaml:"rrsetDeletionsPerChange"`
	TotalRrdataSizePerChange        int          `json:"totalRrdataSizePerChange"        yaml:"totalRrdataSizePerChange"`
	ResourceRecordsPerRrset         int          `json:"resourceRecordsPerRrset"         yaml:"resourceRecordsPerRrset"`
	DNSKeysPerManagedZone           int          `json:"dnsKeysPerManagedZone"           yaml:"dnsKeysPerManagedZone"`
	NetworksPerManagedZone          int          `json:"networksPerManagedZone"          yaml:"networksPerManagedZone"`
	ManagedZonesPerNetwork          int          `json:"managedZonesPerNetwork"          yaml:"managedZonesPerNetwork"`
	Policies                        int          `json:"policies"                        yaml:"policies"`
	NetworksPerPolicy               int          `json:"networksPerPolicy"               yaml:"networksPerPolicy"`
	TargetNameServersPerPolicy      int          `json:"targetNameServersPerPolicy"      yaml:"targetNameServersPerPolicy"`
	TargetNameServersPerManagedZone int          `json:"targetNameServersPerManagedZone" yaml:"targetNameServersPerManagedZone"`
	WhitelistedKeySpecs             []DNSKeySpec `json:"whitelistedKeySpecs,omitempty"   yaml:"whitelistedKeySpecs,omitempty"`
}

// Project is the Cloud DNS view of a project.
type Project struct {
	Kind   string `json:"kind,omitempty"   yaml:"kind,omitempty"`
	ID     string `json:"id"               yaml:"id"               validate:"required"`
	Number string `json:"number,omitempty" yaml:"number,omitempty"`
	Quota  *Quota `json:"quota,omitempty"  yaml:"quota,omitempty"`
}
