package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/snapformstudio/storefront-backend/pkg/config"
	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
	"github.com/snapformstudio/storefront-backend/pkg/metrics"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

var (
	errDomainRequired = errors.New("shopify store domain is required")
	errTokenRequired  = errors.New("shopify storefront token is required")
	errLoggerRequired = errors.New("shopify logger is required")
)

// Client speaks the Storefront GraphQL API with centralized auth, logging,
// metrics, and error mapping.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *logger.Logger
	metrics    *metrics.StorefrontMetrics
}

// NewClient initializes the Storefront API wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.ShopifyConfig, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return nil, errDomainRequired
	}
	token := strings.TrimSpace(cfg.StorefrontToken)
	if token == "" {
		return nil, errTokenRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint(),
		token:      token,
		logger:     logg,
		metrics:    m,
	}

	logg.Info(ctx, "shopify storefront client initialized")
	return c, nil
}

// Endpoint reports the GraphQL endpoint in use.
func (c *Client) Endpoint() string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// do executes a GraphQL operation and decodes the data payload into dest.
func (c *Client) do(ctx context.Context, op, query string, variables map[string]any, dest any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build graphql request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	c.log(ctx, "request", op, nil)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveGatewayDuration(op, time.Since(start))
	if err != nil {
		c.metrics.IncGatewayFailure(op)
		mapped := c.mapTransportError(err, op)
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return mapped
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncGatewayFailure(op)
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("read %s response", op))
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.IncGatewayFailure(op)
		c.log(ctx, "error", op, map[string]any{"status": resp.StatusCode})
		return pkgerrors.New(pkgerrors.CodeRemote, fmt.Sprintf("shopify %s failed", op)).
			WithDetails(map[string]any{"remote_code": remoteCodeForStatus(resp.StatusCode)})
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		c.metrics.IncGatewayFailure(op)
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, fmt.Sprintf("decode %s response", op)).
			WithDetails(map[string]any{"remote_code": "MALFORMED_RESPONSE"})
	}

	if len(envelope.Errors) > 0 {
		c.metrics.IncGatewayFailure(op)
		first := envelope.Errors[0]
		code := first.Extensions.Code
		if code == "" {
			code = "GRAPHQL_ERROR"
		}
		c.log(ctx, "error", op, map[string]any{"error": first.Message, "remote_code": code})
		return pkgerrors.New(pkgerrors.CodeRemote, fmt.Sprintf("shopify %s rejected: %s", op, first.Message)).
			WithDetails(map[string]any{"remote_code": code})
	}

	if dest != nil {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			c.metrics.IncGatewayFailure(op)
			return pkgerrors.Wrap(pkgerrors.CodeRemote, err, fmt.Sprintf("decode %s data", op)).
				WithDetails(map[string]any{"remote_code": "MALFORMED_RESPONSE"})
		}
	}

	c.metrics.IncGatewaySuccess(op)
	c.log(ctx, "response", op, nil)
	return nil
}

// mapTransportError distinguishes timeouts (remote-side budget exhausted)
// from plain connectivity failures.
func (c *Client) mapTransportError(err error, op string) error {
	var timeout interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, fmt.Sprintf("shopify %s timed out", op)).
			WithDetails(map[string]any{"remote_code": "TIMEOUT"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("shopify %s transport failed", op))
}

func remoteCodeForStatus(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return "THROTTLED"
	case http.StatusPaymentRequired:
		return "SHOP_SUSPENDED"
	default:
		return fmt.Sprintf("HTTP_%d", status)
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("shopify %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("shopify %s", phase))
	}
}
