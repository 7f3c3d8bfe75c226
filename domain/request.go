package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"

	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeJSON           = "application/json"
)

type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Form is an ordered list of key/value pairs. Unlike url.Values it keeps
// insertion order when encoded.
type Form []Field

func (f Form) Add(key, value string) Form {
	return append(f, Field{Key: key, Value: value})
}

func (f Form) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

func (f Form) Keys() []string {
	keys := make([]string, 0, len(f))
	for _, field := range f {
		keys = append(keys, field.Key)
	}
	return keys
}

// Encode returns the form in x-www-form-urlencoded format
func (f Form) Encode() string {
	parts := make([]string, 0, len(f))
	for _, field := range f {
		parts = append(parts, url.QueryEscape(field.Key)+"="+url.QueryEscape(field.Value))
	}
	return strings.Join(parts, "&")
}

// Request is a fully materialised HTTP request built from descriptors
type Request struct {
	Method  string            `json:"method" yaml:"method"`
	BaseURL string            `json:"base_url" yaml:"base_url"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query   Form              `json:"query,omitempty" yaml:"query,omitempty"`
	Body    Form              `json:"body,omitempty" yaml:"body,omitempty"`
}

// FullURL joins the base url, the path and the query string. Only the base
// url is parsed; the path is kept as given and escaped where it is not a
// valid escaped path, e.g. "/checks/50%off".
func (r *Request) FullURL() (string, error) {
	base, path := r.BaseURL, r.URL
	if base == "" {
		base, path = r.URL, ""
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", base, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("invalid url %q: must be absolute", base)
	}

	if path != "" {
		path, rawQuery, _ := strings.Cut(path, "?")
		joined := strings.TrimRight(u.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
		if unescaped, err := url.PathUnescape(joined); err == nil {
			u.Path, u.RawPath = unescaped, joined
		} else {
			u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
			u.RawPath = ""
		}
		u.RawQuery = joinQuery(u.RawQuery, rawQuery)
	}

	if len(r.Query) > 0 {
		u.RawQuery = joinQuery(u.RawQuery, r.Query.Encode())
	}
	return u.String(), nil
}

func joinQuery(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "&" + b
}

// EncodedBody returns the form-encoded body, empty when there are no body
// fields
func (r *Request) EncodedBody() string {
	return r.Body.Encode()
}

func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	fullURL, err := r.FullURL()
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(r.Body) > 0 {
		body = strings.NewReader(r.EncodedBody())
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// Masked returns a copy with the given header values hidden, for printing
func (r *Request) Masked(secretHeaders ...string) *Request {
	cp := *r
	cp.Headers = make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		cp.Headers[k] = v
	}
	for _, h := range secretHeaders {
		if _, ok := cp.Headers[h]; ok {
			cp.Headers[h] = "********"
		}
	}
	return &cp
}

// Response is the raw API response handed back to the caller
type Response struct {
	StatusCode int         `json:"status_code" yaml:"status_code"`
	Headers    http.Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       []byte      `json:"-" yaml:"-"`
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the response body. An empty body decodes to nil.
func (r *Response) JSON() (interface{}, error) {
	if len(r.Body) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	return v, nil
}

// ItemResult is the outcome of executing a node for a single input item
type ItemResult struct {
	Index    int         `json:"index" yaml:"index"`
	Response *Response   `json:"response,omitempty" yaml:"response,omitempty"`
	JSON     interface{} `json:"json,omitempty" yaml:"json,omitempty"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
}
