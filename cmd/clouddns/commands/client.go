package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
	"github.com/fivetwenty-io/clouddns/pkg/credentials"
	"github.com/fivetwenty-io/clouddns/pkg/dnsclient"
	"github.com/fivetwenty-io/clouddns/pkg/transport"
)

// readSecret reads a secret from the terminal without echoing it.
var readSecret = func() (string, error) {
	_, _ = fmt.Fprint(os.Stderr, "Access token: ")

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))

	_, _ = fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("failed to read access token: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

// newHTTPClient builds the HTTP stack selected by the global flags.
func newHTTPClient(logger clouddns.Logger) (*http.Client, error) {
	var (
		httpClient *http.Client
		err        error
	)

	if viper.GetBool("http2") {
		httpClient, err = transport.NewHTTP2(transport.DefaultHTTP2Config())
		if err != nil {
			return nil, err
		}
	} else {
		httpClient = transport.NewHTTP(transport.DefaultHTTPConfig())
	}

	if retries := viper.GetInt("retry"); retries > 0 {
		httpClient = transport.NewRetrying(httpClient, transport.RetryConfig{
			RetryMax: retries,
			Logger:   logger,
		})
	}

	return httpClient, nil
}

// newHTTPDoer returns the HTTP stack, rate limited when --rate is set.
func newHTTPDoer(logger clouddns.Logger) (clouddns.Doer, error) {
	httpClient, err := newHTTPClient(logger)
	if err != nil {
		return nil, err
	}

	return rateLimited(httpClient), nil
}

func rateLimited(doer clouddns.Doer) clouddns.Doer {
	limit := viper.GetFloat64("rate")
	if limit <= 0 {
		return doer
	}

	return transport.NewRateLimited(doer, rate.Limit(limit), viper.GetInt("burst"))
}

// newTransport builds the Doer selected by the global flags. The returned
// cleanup releases a NATS connection if one was opened.
func newTransport(logger clouddns.Logger) (clouddns.Doer, func(), error) {
	natsURL := viper.GetString("nats_url")
	if natsURL == "" {
		doer, err := newHTTPDoer(logger)

		return doer, func() {}, err
	}

	conn, err := nats.Connect(natsURL, nats.Name("clouddns-cli"))
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	doer := transport.NewNATS(conn, transport.NATSConfig{Subject: viper.GetString("nats_subject")})

	return rateLimited(doer), conn.Close, nil
}

// newTokenProvider returns nil when application default credentials should
// be looked up by the client constructor.
func newTokenProvider() (credentials.Provider, error) {
	if token := viper.GetString("access_token"); token != "" {
		if token == "-" {
			secret, err := readSecret()
			if err != nil {
				return nil, err
			}

			token = secret
		}

		return credentials.NewStaticProvider(token), nil
	}

	if path := viper.GetString("credentials"); path != "" {
		provider, err := credentials.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}

		return provider, nil
	}

	return nil, nil
}

// CreateClient builds a client from the global flags and config file. The
// returned cleanup closes the client and its transport.
func CreateClient(ctx context.Context, cmd *cobra.Command) (clouddns.Client, func(), error) {
	project := viper.GetString("project")
	if project == "" {
		return nil, nil, constants.ErrProjectNotSet
	}

	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

	provider, err := newTokenProvider()
	if err != nil {
		return nil, nil, err
	}

	doer, closeTransport, err := newTransport(logger)
	if err != nil {
		return nil, nil, err
	}

	client, err := dnsclient.New(ctx, &clouddns.Config{
		ProjectID:     project,
		Endpoint:      viper.GetString("endpoint"),
		Transport:     doer,
		TokenProvider: provider,
		UserAgent:     "clouddns-cli/" + constants.Version,
		Logger:        logger,
		Debug:         viper.GetBool("verbose"),
	})
	if err != nil {
		closeTransport()

		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, func() {
		_ = client.Close()

		closeTransport()
	}, nil
}
