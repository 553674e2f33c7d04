package commands

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/dnsclient"
	"github.com/fivetwenty-io/clouddns/pkg/transport"
)

// NewGatewayCommand creates the gateway command, the server side of
// --nats-url.
func NewGatewayCommand() *cobra.Command {
	var (
		queue       string
		allowHosts  []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Relay API requests received over NATS",
		Long: `Subscribe to the NATS subject and execute the HTTP requests published on it.

Run the gateway on a host with network access to the Cloud DNS API, then point
other clients at it with --nats-url. Requests already carry their bearer token;
the gateway holds no credentials. Only the API host, the OAuth token host, the
host of --endpoint and hosts named with --allow-host are reached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			natsURL := viper.GetString("nats_url")
			if natsURL == "" {
				return constants.ErrNATSURLRequired
			}

			logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

			doer, err := newHTTPDoer(logger)
			if err != nil {
				return err
			}

			conn, err := nats.Connect(natsURL, nats.Name("clouddns-gateway"))
			if err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}
			defer conn.Close()

			cfg, err := gatewayConfig(allowHosts, concurrency)
			if err != nil {
				return err
			}

			gateway, err := transport.ServeNATS(conn, viper.GetString("nats_subject"), queue, doer, cfg)
			if err != nil {
				return err
			}

			logger.Info("Gateway listening", map[string]interface{}{
				"url":     conn.ConnectedUrl(),
				"subject": gateway.Subject(),
				"queue":   queue,
				"hosts":   cfg.AllowedHosts,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			logger.Info("Gateway stopping", nil)

			err = gateway.Drain()
			if err != nil {
				return fmt.Errorf("failed to drain gateway: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&queue, "queue", "clouddns-gateway", "queue group shared by gateway replicas")
	cmd.Flags().StringSliceVar(&allowHosts, "allow-host", nil, "additional host the gateway may reach; repeat for multiple")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultGatewayConcurrency, "upstream requests run at once")

	return cmd
}

// gatewayConfig allows the default hosts, the --endpoint host and extra.
// A plain-HTTP --endpoint permits plain-HTTP targets.
func gatewayConfig(extra []string, concurrency int) (transport.GatewayConfig, error) {
	cfg := transport.GatewayConfig{
		AllowedHosts:  append(transport.DefaultGatewayHosts(), extra...),
		MaxConcurrent: concurrency,
	}

	if endpoint := viper.GetString("endpoint"); endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" {
			return cfg, fmt.Errorf("%w: %s", dnsclient.ErrRelativeEndpoint, endpoint)
		}

		cfg.AllowedHosts = append(cfg.AllowedHosts, u.Host)
		cfg.AllowHTTP = u.Scheme == "http"
	}

	return cfg, nil
}
