package constants

import "errors"

// CLI configuration errors.
var (
	ErrProjectNotSet     = errors.New("no project set, use --project or 'clouddns config set project <id>'")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrInvalidOutputType = errors.New("invalid output format")
)

// Required argument errors.
var (
	ErrZoneRequired   = errors.New("--zone flag is required")
	ErrRecordRequired = errors.New("record name and type are required")
)

// Gateway errors.
var (
	ErrNATSURLRequired = errors.New("--nats-url is required to run the gateway")
)
