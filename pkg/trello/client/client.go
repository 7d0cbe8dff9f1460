package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/trello-client/pkg/trello/errors"
	"github.com/diwise/trello-client/pkg/trello/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL string = "https://api.trello.com/1"

func Debug(enabled string) func(*trelloClient) {
	return func(c *trelloClient) {
		c.debug = (enabled == "true")
	}
}

// Credentials makes the client authenticate every request with an API key and
// a member token, sent as the key and token query parameters.
func Credentials(key, token string) func(*trelloClient) {
	return func(c *trelloClient) {
		c.key = key
		c.token = token
	}
}

// NewClient returns a transport that talks JSON over HTTP to the service
// rooted at baseURL, e.g. https://api.trello.com/1.
func NewClient(baseURL string, options ...func(*trelloClient)) types.Transport {
	c := &trelloClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		debug:   false,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

const (
	TraceAttributeRequestPath string = "request-path"
)

var tracer = otel.Tracer("trello-client")

type trelloClient struct {
	baseURL    string
	key        string
	token      string
	debug      bool
	httpClient *http.Client
}

func (c *trelloClient) Get(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
	var err error

	ctx, span := tracer.Start(ctx, "get-resource",
		trace.WithAttributes(attribute.String(TraceAttributeRequestPath, path)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := c.call(ctx, http.MethodGet, path, queryOptions, nil, http.StatusOK)
	return body, err
}

func (c *trelloClient) Post(ctx context.Context, path string, payload types.Payload) ([]byte, error) {
	var err error

	ctx, span := tracer.Start(ctx, "post-resource",
		trace.WithAttributes(attribute.String(TraceAttributeRequestPath, path)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := c.callWithPayload(ctx, http.MethodPost, path, payload, http.StatusOK, http.StatusCreated)
	return body, err
}

func (c *trelloClient) Put(ctx context.Context, path string, payload types.Payload) ([]byte, error) {
	var err error

	ctx, span := tracer.Start(ctx, "put-resource",
		trace.WithAttributes(attribute.String(TraceAttributeRequestPath, path)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := c.callWithPayload(ctx, http.MethodPut, path, payload, http.StatusOK)
	return body, err
}

func (c *trelloClient) Delete(ctx context.Context, path string) error {
	var err error

	ctx, span := tracer.Start(ctx, "delete-resource",
		trace.WithAttributes(attribute.String(TraceAttributeRequestPath, path)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	_, err = c.call(ctx, http.MethodDelete, path, nil, nil, http.StatusOK, http.StatusNoContent)
	return err
}

func (c *trelloClient) callWithPayload(ctx context.Context, method, path string, payload types.Payload, accepted ...int) ([]byte, error) {
	if payload == nil {
		payload = types.Payload{}
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, &errors.TransportError{
			Method: method, Path: path,
			Err: fmt.Errorf("failed to marshal payload: %s (%w)", err.Error(), errors.ErrRequest),
		}
	}

	return c.call(ctx, method, path, nil, bytes.NewBuffer(b), accepted...)
}

func (c *trelloClient) call(ctx context.Context, method, path string, queryOptions map[string]string, body io.Reader, accepted ...int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, queryOptions), body)
	if err != nil {
		return nil, &errors.TransportError{
			Method: method, Path: path,
			Err: fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrRequest),
		}
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.TransportError{
			Method: method, Path: path,
			Err: fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest),
		}
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.TransportError{
			Method: method, Path: path, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse),
		}
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusNotFound {
			reqbytes, _ := httputil.DumpRequest(req, false)
			respbytes, _ := httputil.DumpResponse(resp, false)

			logging.GetFromContext(ctx).Error("request failed", "request", redact(string(reqbytes)), "response", string(respbytes))
		}
	}

	for _, code := range accepted {
		if resp.StatusCode == code {
			return respBody, nil
		}
	}

	return nil, errors.NewErrorFromResponse(method, path, resp.StatusCode, respBody)
}

func (c *trelloClient) endpoint(path string, queryOptions map[string]string) string {
	params := url.Values{}

	for k, v := range queryOptions {
		params.Set(k, v)
	}

	if c.key != "" {
		params.Set("key", c.key)
	}

	if c.token != "" {
		params.Set("token", c.token)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if len(params) == 0 {
		return c.baseURL + path
	}

	return c.baseURL + path + "?" + params.Encode()
}

// redact hides credentials in dumped requests.
func redact(dump string) string {
	first, rest, found := strings.Cut(dump, "\n")
	if !found {
		rest = ""
	}

	fields := strings.Fields(first)
	if len(fields) < 2 {
		return dump
	}

	u, err := url.Parse(fields[1])
	if err != nil {
		return dump
	}

	q := u.Query()
	for _, secret := range []string{"key", "token"} {
		if q.Has(secret) {
			q.Set(secret, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	fields[1] = u.String()

	return strings.Join(fields, " ") + "\n" + rest
}
