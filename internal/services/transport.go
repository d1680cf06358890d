package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// TransportRequest describes a single outbound exchange.
type TransportRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// TransportResponse is the uninterpreted result of an exchange.
type TransportResponse struct {
	StatusCode int
	Body       string
	Header     http.Header
}

// Transport performs one request/response exchange. It never retries and
// never turns transport failures into domain errors.
type Transport interface {
	Send(ctx context.Context, req TransportRequest) (*TransportResponse, error)
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns a transport using client, or http.DefaultClient.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{Client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, in TransportRequest) (*TransportResponse, error) {
	method := in.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if in.Body != "" {
		body = strings.NewReader(in.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, in.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range in.Headers {
		req.Header.Set(k, v)
	}
	if in.Body != "" {
		// Go strings are UTF-8, so len is the byte length.
		req.ContentLength = int64(len(in.Body))
		req.Header.Set("Content-Length", strconv.Itoa(len(in.Body)))
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &TransportResponse{StatusCode: resp.StatusCode, Body: string(raw), Header: resp.Header}, nil
}
