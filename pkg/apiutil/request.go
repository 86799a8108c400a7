package apiutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/geep/geep-go-sdk/pkg/instutil"
	"github.com/geep/geep-go-sdk/pkg/logutil"
	"github.com/geep/geep-go-sdk/pkg/textutil"
)

// Method is an HTTP method supported by the gateway.
type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

// DefaultTimeout applies when RequestOptions leaves Timeout unset.
const DefaultTimeout = 10 * time.Second

// RequestOptions carries the optional parts of a gateway request.
type RequestOptions struct {
	Body    map[string]any
	Headers map[string]string
	Cookies map[string]string
	Timeout time.Duration
}

// Request issues a single HTTP call and returns the parsed JSON object.
// Every failure class collapses into *RequestError; nothing is retried.
// Each call owns its own client, scoped to the call's lifetime.
func Request(ctx context.Context, url string, method Method, opts *RequestOptions) (map[string]any, error) {
	raw, err := do(ctx, url, method, opts)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	err = json.Unmarshal(raw, &result)
	if err != nil {
		instutil.CountRequest(string(method), "parse_error")
		return nil, requestErrorf(err, "expected a JSON object from %s: %v", url, err)
	}

	instutil.CountRequest(string(method), "success")
	return result, nil
}

// RequestList is Request for endpoints returning a JSON array of objects.
func RequestList(ctx context.Context, url string, method Method, opts *RequestOptions) ([]map[string]any, error) {
	raw, err := do(ctx, url, method, opts)
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	err = json.Unmarshal(raw, &result)
	if err != nil {
		instutil.CountRequest(string(method), "parse_error")
		return nil, requestErrorf(err, "expected a JSON array from %s: %v", url, err)
	}

	instutil.CountRequest(string(method), "success")
	return result, nil
}

func do(ctx context.Context, url string, method Method, opts *RequestOptions) (json.RawMessage, error) {
	log := logutil.Get(ctx)

	if opts == nil {
		opts = &RequestOptions{}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var body io.Reader
	switch method {
	case MethodGet:
	case MethodPost:
		log.Debug("issuing POST request", "url", url, "body", logutil.PrettyPrint(opts.Body))

		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, requestErrorf(err, "encode request body for %s: %v", url, err)
		}
		body = bytes.NewReader(encoded)
	default:
		return nil, requestErrorf(nil, "unsupported HTTP method %q for %s", method, url)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), url, body)
	if err != nil {
		return nil, requestErrorf(err, "build request for %s: %v", url, err)
	}

	if method == MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	for name, value := range opts.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	client := &http.Client{Timeout: timeout}
	defer client.CloseIdleConnections()

	resp, err := client.Do(req)
	if err != nil {
		log.Error("HTTP request error", "url", url, "error", err)
		instutil.CountRequest(string(method), "transport_error")
		return nil, requestErrorf(err, "HTTP request error: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", "url", url, "error", err)
		instutil.CountRequest(string(method), "transport_error")
		return nil, requestErrorf(err, "read response body from %s: %v", url, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Error("HTTP status error", "url", url, "status", resp.StatusCode)
		instutil.CountRequest(string(method), "status_error")
		return nil, requestErrorf(nil, "HTTP status error: %d %s", resp.StatusCode, textSample(raw))
	}

	if !json.Valid(raw) {
		// One repair attempt on the raw text before giving up, the
		// usual cause being stray control characters in the payload.
		log.Warn("response failed JSON parsing, retrying with sanitised text",
			"url", url, "sample", textSample(raw))

		sanitised := textutil.EnsureJSONParsable(string(raw))
		if !json.Valid([]byte(sanitised)) {
			log.Error("failed to decode HTTP response", "url", url, "sample", textSample(raw))
			instutil.CountRequest(string(method), "parse_error")
			return nil, requestErrorf(nil, "JSON decode error for %s (text sample: %s)", url, textSample(raw))
		}
		raw = []byte(sanitised)
	}

	return raw, nil
}

func textSample(raw []byte) string {
	const max = 300
	if len(raw) > max {
		return fmt.Sprintf("%q", raw[:max])
	}
	return fmt.Sprintf("%q", raw)
}
