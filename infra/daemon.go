package infra

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-game-panel/apperror"
	"github.com/tnqbao/gau-game-panel/config"
	"github.com/tnqbao/gau-game-panel/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const daemonDetailsPath = "/v1/server"

// maxDaemonBody caps how much of a daemon response is read.
const maxDaemonBody = 1 << 20

// NodeResolver looks up a node's connection settings.
type NodeResolver interface {
	GetByID(ctx context.Context, id uint) (*entity.Node, error)
}

// DetailsRequest carries everything needed for one status call to a daemon.
type DetailsRequest struct {
	NodeID     uint
	ServerUUID uuid.UUID
	Credential string
}

type DaemonClient struct {
	nodes   NodeResolver
	timeout time.Duration
	tracer  trace.Tracer

	// per node, keyed by node id
	clients sync.Map
}

type nodeHTTPClient struct {
	caCertificate string
	client        *http.Client
}

func InitDaemonClient(cfg *config.EnvConfig, nodes NodeResolver) *DaemonClient {
	return NewDaemonClient(nodes, cfg.Daemon.RequestTimeout)
}

func NewDaemonClient(nodes NodeResolver, timeout time.Duration) *DaemonClient {
	return &DaemonClient{
		nodes:   nodes,
		timeout: timeout,
		tracer:  otel.Tracer("daemon-client"),
	}
}

// FetchDetails asks the node's daemon for the live details of one server and
// returns the payload exactly as received.
func (d *DaemonClient) FetchDetails(ctx context.Context, req DetailsRequest) (json.RawMessage, error) {
	node, err := d.nodes.GetByID(ctx, req.NodeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, fmt.Sprintf("failed to resolve node %d", req.NodeID))
	}

	ctx, span := d.tracer.Start(ctx, "daemon.FetchDetails",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int64("node.id", int64(req.NodeID)),
			attribute.String("server.uuid", req.ServerUUID.String()),
		),
	)
	defer span.End()

	raw, err := d.fetch(ctx, node, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return raw, nil
}

func (d *DaemonClient) fetch(ctx context.Context, node *entity.Node, req DetailsRequest) (json.RawMessage, error) {
	client, err := d.clientFor(node)
	if err != nil {
		return nil, apperror.DaemonUnreachable(err.Error(), err)
	}

	url := strings.TrimRight(node.DaemonBaseURL(), "/") + daemonDetailsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperror.DaemonUnreachable(err.Error(), err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+req.Credential)
	httpReq.Header.Set("X-Access-Server", req.ServerUUID.String())
	httpReq.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, apperror.DaemonUnreachable(err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDaemonBody+1))
	if err != nil {
		return nil, apperror.DaemonUnreachable(err.Error(), err)
	}
	if len(body) > maxDaemonBody {
		return nil, apperror.DaemonUnreachable(fmt.Sprintf("daemon response exceeds %d bytes", maxDaemonBody), nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.DaemonUnreachable(
			fmt.Sprintf("daemon returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	if !json.Valid(body) {
		return nil, apperror.DaemonUnreachable("daemon returned an invalid JSON body", nil)
	}

	return json.RawMessage(body), nil
}

// clientFor returns an HTTP client trusting the node's CA certificate when one
// is configured. Clients are rebuilt when the certificate changes.
func (d *DaemonClient) clientFor(node *entity.Node) (*http.Client, error) {
	if cached, ok := d.clients.Load(node.ID); ok {
		c := cached.(*nodeHTTPClient)
		if c.caCertificate == node.CACertificate {
			return c.client, nil
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if node.CACertificate != "" {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(node.CACertificate)) {
			return nil, fmt.Errorf("node %d has an unreadable CA certificate", node.ID)
		}
		transport.TLSClientConfig = &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		}
	}

	client := &http.Client{
		Timeout:   d.timeout,
		Transport: transport,
	}
	d.clients.Store(node.ID, &nodeHTTPClient{caCertificate: node.CACertificate, client: client})
	return client, nil
}
