package domain

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goto/truora/pkg/evaluator"
	"github.com/goto/truora/pkg/slices"
)

const (
	VariableParameter   = "parameter"
	VariableCredentials = "credentials"

	AuthenticateTypeGeneric = "generic"
)

// Authenticate describes how credential values are injected into every
// outgoing request. Values may be templates over $credentials.
type Authenticate struct {
	Type    string            `json:"type" yaml:"type"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query   map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
}

// ResolveHeaders renders the header templates with the given credential data
func (a *Authenticate) ResolveHeaders(data map[string]interface{}) (map[string]string, error) {
	return resolveMap(a.Headers, map[string]interface{}{VariableCredentials: data})
}

// ResolveQuery renders the query templates with the given credential data
func (a *Authenticate) ResolveQuery(data map[string]interface{}) (map[string]string, error) {
	return resolveMap(a.Query, map[string]interface{}{VariableCredentials: data})
}

type CredentialTest struct {
	Request RoutingRequest `json:"request" yaml:"request"`
}

// CredentialType is the declarative definition of a credential: the
// fields a user fills, how they authenticate requests and how they are
// verified
type CredentialType struct {
	Name             string          `json:"name" yaml:"name"`
	DisplayName      string          `json:"displayName" yaml:"displayName"`
	DocumentationURL string          `json:"documentationUrl,omitempty" yaml:"documentationUrl,omitempty"`
	Properties       []*Property     `json:"properties" yaml:"properties"`
	Authenticate     *Authenticate   `json:"authenticate,omitempty" yaml:"authenticate,omitempty"`
	Test             *CredentialTest `json:"test,omitempty" yaml:"test,omitempty"`
}

// SecretProperties returns the sorted names of properties marked as password
func (t *CredentialType) SecretProperties() []string {
	var names []string
	for _, p := range t.Properties {
		if p.IsSecret() {
			names = append(names, p.Name)
		}
	}
	return slices.GenericsStandardizeSlice(names)
}

// TestRequest builds the verification request for the given credential data
func (t *CredentialType) TestRequest(data map[string]interface{}) (*Request, error) {
	if t.Test == nil {
		return nil, fmt.Errorf("%w: %q", ErrCredentialTestNotSupported, t.Name)
	}

	vars := map[string]interface{}{VariableCredentials: data}
	baseURL, err := evaluator.Resolve(t.Test.Request.BaseURL, vars)
	if err != nil {
		return nil, fmt.Errorf("resolving base url: %w", err)
	}
	path, err := evaluator.Resolve(t.Test.Request.URL, vars)
	if err != nil {
		return nil, fmt.Errorf("resolving url: %w", err)
	}

	method := t.Test.Request.Method
	if method == "" {
		method = http.MethodGet
	}

	req := &Request{
		Method:  method,
		BaseURL: baseURL,
		URL:     path,
		Headers: map[string]string{},
	}
	if t.Authenticate != nil {
		headers, err := t.Authenticate.ResolveHeaders(data)
		if err != nil {
			return nil, fmt.Errorf("resolving authentication headers: %w", err)
		}
		req.Headers = headers

		query, err := t.Authenticate.ResolveQuery(data)
		if err != nil {
			return nil, fmt.Errorf("resolving authentication query: %w", err)
		}
		for _, k := range slices.GenericsMapKeys(query) {
			req.Query = req.Query.Add(k, query[k])
		}
	}

	return req, nil
}

// Credential is a stored, named set of values for a credential type
type Credential struct {
	Name      string                 `json:"name" yaml:"name"`
	Type      string                 `json:"type" yaml:"type"`
	Data      map[string]interface{} `json:"data" yaml:"data"`
	CreatedAt time.Time              `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time              `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func (c *Credential) GetName() string {
	if c == nil {
		return ""
	}
	return c.Name
}

func (c *Credential) Validate() error {
	if c == nil {
		return ErrCredentialRequired
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCredentialRecord)
	}
	if c.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidCredentialRecord)
	}
	return nil
}

// ResolvedCredential holds validated credential data with defaults applied
// and the authentication it produces
type ResolvedCredential struct {
	Type    string
	Data    map[string]interface{}
	Headers map[string]string
	Query   map[string]string
}

type CredentialTestResult struct {
	Valid      bool   `json:"valid" yaml:"valid"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
}

func resolveMap(templates map[string]string, vars map[string]interface{}) (map[string]string, error) {
	result := make(map[string]string, len(templates))
	for k, v := range templates {
		resolved, err := evaluator.Resolve(v, vars)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		result[k] = resolved
	}
	return result, nil
}
