// Package dnsclient provides the primary entry point for constructing a
// Cloud DNS API client that implements the clouddns.Client interface.
//
// It layers transport selection, credential lookup and the shared request
// queue on top of the resource interfaces and types defined in the clouddns
// package. Most applications import dnsclient to build a client, then use
// the returned clouddns.Client to reach the resource clients: ManagedZones(),
// ResourceRecordSets(), Changes(), and so on.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/clouddns/pkg/clouddns"
//	  "github.com/fivetwenty-io/clouddns/pkg/dnsclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Application default credentials.
//	  cli, err := dnsclient.New(ctx, &clouddns.Config{ProjectID: "my-project"})
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  zones, err := cli.ManagedZones().List(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  for _, z := range zones.ManagedZones {
//	    log.Println(z.Name, z.DNSName)
//	  }
//	}
//
// Credentials
//
// A credentials.Provider never talks to the network itself: token requests it
// needs are sent through the same transport and queue as API calls. Pass one
// explicitly (credentials.FromFile, credentials.NewMetadataProvider,
// credentials.NewStaticProvider) or leave Config.TokenProvider nil to run the
// application default credentials lookup once at construction.
//
// Transport
//
// Config.Transport accepts any clouddns.Doer. The transport package offers a
// tuned *http.Client, HTTP/2 with health checks, retries with backoff, rate
// limiting and a NATS request/reply bridge; they compose by wrapping.
//
// Concurrency
//
// A client is safe for concurrent use. Requests queue in FIFO order (1024 by
// default) and at most Config.MaxInFlight run at once; when the queue is
// full callers wait. Clone returns a second handle on the same queue; the
// queue shuts down when every handle has been closed.
package dnsclient
