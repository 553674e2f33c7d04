package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"cloud.google.com/go/compute/metadata"
)

const (
	credentialsEnv      = "GOOGLE_APPLICATION_CREDENTIALS"
	typeServiceAccount  = "service_account"
	typeAuthorizedUser  = "authorized_user"
	wellKnownFileName   = "application_default_credentials.json"
	gcloudConfigDirName = "gcloud"
)

// FromJSON builds a provider from a credentials file, dispatching on its
// "type" field.
func FromJSON(data []byte) (Provider, error) {
	var header struct {
		Type string `json:"type"`
	}

	err := json.Unmarshal(data, &header)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	switch header.Type {
	case typeServiceAccount:
		return NewServiceAccountProvider(data)
	case typeAuthorizedUser:
		return NewAuthorizedUserProvider(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCredentialsType, header.Type)
	}
}

// FromFile reads a credentials file and builds a provider from it.
func FromFile(path string) (Provider, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	return FromJSON(data)
}

// Finder locates application default credentials. Its fields exist so the
// lookup can be tested without touching the real environment.
type Finder struct {
	Getenv  func(string) string
	HomeDir func() (string, error)
	OnGCE   func() bool
}

// FindDefault looks up application default credentials in the usual order:
// GOOGLE_APPLICATION_CREDENTIALS, the gcloud well-known file, then the GCE
// metadata server. The result is meant to be passed explicitly to the client
// constructor.
func FindDefault() (Provider, error) {
	finder := Finder{
		Getenv:  os.Getenv,
		HomeDir: os.UserHomeDir,
		OnGCE:   metadata.OnGCE,
	}

	return finder.Find()
}

// Find runs the lookup.
func (f Finder) Find() (Provider, error) {
	if path := f.Getenv(credentialsEnv); path != "" {
		provider, err := FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", credentialsEnv, err)
		}

		return provider, nil
	}

	wellKnown, err := f.wellKnownFile()
	if err == nil {
		provider, ferr := FromFile(wellKnown)
		if ferr == nil {
			return provider, nil
		}

		if !errors.Is(ferr, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", wellKnown, ferr)
		}
	}

	if f.OnGCE != nil && f.OnGCE() {
		return NewMetadataProvider(), nil
	}

	return nil, ErrNoDefaultCredentials
}

func (f Finder) wellKnownFile() (string, error) {
	if runtime.GOOS == "windows" {
		appData := f.Getenv("APPDATA")
		if appData == "" {
			return "", ErrNoDefaultCredentials
		}

		return filepath.Join(appData, gcloudConfigDirName, wellKnownFileName), nil
	}

	if configDir := f.Getenv("CLOUDSDK_CONFIG"); configDir != "" {
		return filepath.Join(configDir, wellKnownFileName), nil
	}

	home, err := f.HomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}

	return filepath.Join(home, ".config", gcloudConfigDirName, wellKnownFileName), nil
}
