package lastfm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/imroc/req/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/jfmyers9/lfm/pkg/lastfm"

	// maxErrorBody bounds the response body kept on a TransportError.
	maxErrorBody = 512
)

// Call outcomes reported to metrics and traces.
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeAPI       = "api_error"
	outcomeDecode    = "decode_error"
)

// execute sends one request and returns the normalized JSON payload.
//
// It handles:
// - GET with query parameters, POST with a form-encoded body
// - Transport failures and non-2xx statuses (*TransportError)
// - JSON parsing with field normalization
// - Remote error payloads (*APIError)
//
// No retries are attempted.
func (c *Client) execute(ctx context.Context, verb string, params map[string]string) (map[string]any, error) {
	method := params["method"]

	ctx, span := otel.Tracer(tracerName).Start(ctx, "lastfm."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("lastfm.method", method),
			attribute.String("http.request.method", verb),
		),
	)
	defer span.End()

	start := time.Now()
	payload, status, err := c.roundTrip(ctx, verb, method, params)
	elapsed := time.Since(start)

	outcome := outcomeOK
	if err != nil {
		outcome = classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(
		attribute.Int("http.response.status_code", status),
		attribute.String("lastfm.outcome", outcome),
	)
	c.metrics.observe(method, outcome, elapsed)

	c.logger.Debug().
		Str("method", method).
		Str("verb", verb).
		Int("status", status).
		Dur("elapsed", elapsed).
		Str("outcome", outcome).
		Msg("Last.fm call")

	return payload, err
}

func (c *Client) roundTrip(ctx context.Context, verb, method string, params map[string]string) (map[string]any, int, error) {
	r := c.http.R().SetContext(ctx)

	var (
		resp *req.Response
		err  error
	)
	switch verb {
	case http.MethodPost:
		resp, err = r.SetFormData(params).Post(c.baseURL)
	case http.MethodGet, "":
		resp, err = r.SetQueryParams(params).Get(c.baseURL)
	default:
		return nil, 0, &InvalidOperationError{Method: method, Reason: "unsupported HTTP verb " + verb}
	}
	if err != nil {
		return nil, 0, &TransportError{Method: method, Err: err}
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Method: method, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &TransportError{
			Method:     method,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	payload, err := parsePayload(body)
	if err != nil {
		return nil, resp.StatusCode, &DecodeError{Method: method, Err: err}
	}

	if apiErr := payloadError(payload); apiErr != nil {
		return nil, resp.StatusCode, apiErr
	}

	return payload, resp.StatusCode, nil
}

// parsePayload decodes a response body into a normalized object. An empty
// body yields an empty payload.
func parsePayload(body []byte) (map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]any{}, nil
	}

	v, err := decodeNormalized(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
}

// payloadError extracts the remote error carried by payload, if any.
func payloadError(payload map[string]any) *APIError {
	code, ok := payload["error"]
	if !ok {
		return nil
	}

	apiErr := &APIError{
		Code:    intValue(code),
		Message: stringValue(payload["message"]),
		Links:   []string{},
	}
	for _, link := range listValue(payload["links"]) {
		if s := stringValue(link); s != "" {
			apiErr.Links = append(apiErr.Links, s)
		}
	}
	return apiErr
}

func classify(err error) string {
	switch err.(type) {
	case *TransportError:
		return outcomeTransport
	case *APIError:
		return outcomeAPI
	default:
		return outcomeDecode
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
