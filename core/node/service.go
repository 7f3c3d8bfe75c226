package node

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/goto/truora/domain"
	"github.com/goto/truora/pkg/evaluator"
	"github.com/goto/truora/pkg/log"
	"github.com/goto/truora/pkg/slices"
	"github.com/imdario/mergo"
)

//go:generate mockery --name=credentialService --exported --with-expecter
type credentialService interface {
	Resolve(ctx context.Context, cred *domain.Credential) (*domain.ResolvedCredential, error)
}

//go:generate mockery --name=HTTPClient --exported --with-expecter
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Service turns node parameters into HTTP requests by interpreting the
// routing directives of the node description, and executes them
type Service struct {
	registry          *Registry
	credentialService credentialService
	httpClient        HTTPClient
	logger            log.Logger
}

type ServiceDeps struct {
	Registry          *Registry
	CredentialService credentialService
	HTTPClient        HTTPClient
	Logger            log.Logger
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		registry:          deps.Registry,
		credentialService: deps.CredentialService,
		httpClient:        deps.HTTPClient,
		logger:            deps.Logger,
	}
}

// BuildRequest validates params against the node form and materialises
// the request of the selected operation. No network call is made.
func (s *Service) BuildRequest(ctx context.Context, nodeName string, cred *domain.Credential, params domain.Parameters) (*domain.Request, error) {
	node, err := s.registry.GetNode(nodeName)
	if err != nil {
		return nil, err
	}
	params = node.WithDefaults(params)

	operation, err := s.selectOperation(node, params)
	if err != nil {
		return nil, err
	}

	visible := node.VisibleProperties(params)
	if err := validateProperties(visible, params); err != nil {
		return nil, err
	}

	resolved, err := s.resolveCredential(ctx, node, cred)
	if err != nil {
		return nil, err
	}

	vars := map[string]interface{}{
		domain.VariableParameter:   map[string]interface{}(params),
		domain.VariableCredentials: map[string]interface{}{},
	}
	if resolved != nil {
		vars[domain.VariableCredentials] = resolved.Data
	}

	req, err := buildBaseRequest(node.RequestDefaults, operation.Routing.Request, vars)
	if err != nil {
		return nil, err
	}
	if resolved != nil {
		if err := mergo.Merge(&req.Headers, resolved.Headers, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging authentication headers: %w", err)
		}
		for _, k := range slices.GenericsMapKeys(resolved.Query) {
			req.Query = req.Query.Add(k, resolved.Query[k])
		}
	}

	// field values only see their own form, never the credential data
	fieldVars := map[string]interface{}{
		domain.VariableParameter: map[string]interface{}(params),
	}
	for _, p := range visible {
		if p.Routing == nil || p.Routing.Send == nil {
			continue
		}
		value := params[p.Name]
		if p.IsEmpty(value) {
			continue
		}
		str, err := propertyValue(p, value, fieldVars)
		if err != nil {
			return nil, err
		}

		switch p.Routing.Send.Type {
		case domain.SendTypeBody:
			req.Body = req.Body.Add(p.Routing.Send.Property, str)
		case domain.SendTypeQuery:
			req.Query = req.Query.Add(p.Routing.Send.Property, str)
		default:
			return nil, fmt.Errorf("property %q: unsupported send type %q", p.Name, p.Routing.Send.Type)
		}
	}

	return req, nil
}

// Execute builds and sends the request for a single item. Non-2xx
// responses are returned together with a *domain.HTTPError.
func (s *Service) Execute(ctx context.Context, nodeName string, cred *domain.Credential, params domain.Parameters) (*domain.Response, error) {
	ctx = log.WithValue(ctx, log.KeyExecutionID, uuid.New().String())
	ctx = log.WithValue(ctx, log.KeyNode, nodeName)
	if op, ok := params[domain.PropertyNameOperation].(string); ok {
		ctx = log.WithValue(ctx, log.KeyOperation, op)
	}

	req, err := s.BuildRequest(ctx, nodeName, cred, params)
	if err != nil {
		return nil, err
	}
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "sending request", "method", req.Method, "url", httpReq.URL.String())
	res, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Error(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	response := &domain.Response{
		StatusCode: res.StatusCode,
		Headers:    res.Header,
		Body:       body,
	}
	if !response.IsSuccess() {
		s.logger.Warn(ctx, "request returned non-success status", "status", res.StatusCode)
		return response, &domain.HTTPError{StatusCode: res.StatusCode, Body: string(body)}
	}

	s.logger.Info(ctx, "request succeeded", "status", res.StatusCode)
	return response, nil
}

// ExecuteItems runs the node once per item, in order. With continueOnFail
// a failed item is recorded in its result and execution moves on,
// otherwise the first error stops the run.
func (s *Service) ExecuteItems(ctx context.Context, nodeName string, cred *domain.Credential, items []domain.Parameters, continueOnFail bool) ([]*domain.ItemResult, error) {
	results := make([]*domain.ItemResult, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := &domain.ItemResult{Index: i}
		res, err := s.Execute(ctx, nodeName, cred, item)
		result.Response = res
		if err == nil {
			result.JSON, err = res.JSON()
		}
		if err != nil {
			if !continueOnFail {
				return results, fmt.Errorf("item %d: %w", i, err)
			}
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) selectOperation(node *domain.NodeDescription, params domain.Parameters) (*domain.PropertyOption, error) {
	var resourceProp, operationProp *domain.Property
	for _, p := range node.Properties {
		switch p.Name {
		case domain.PropertyNameResource:
			resourceProp = p
		case domain.PropertyNameOperation:
			if p.IsVisible(params) {
				operationProp = p
			}
		}
	}

	if resourceProp != nil {
		resource := evaluator.Stringify(params[domain.PropertyNameResource])
		if _, ok := resourceProp.Option(resource); !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownResource, resource)
		}
	}

	operation := evaluator.Stringify(params[domain.PropertyNameOperation])
	if operationProp == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOperation, operation)
	}
	option, ok := operationProp.Option(operation)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOperation, operation)
	}
	if option.Routing == nil || option.Routing.Request == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrMissingRoutingRequest, operation)
	}
	return option, nil
}

func (s *Service) resolveCredential(ctx context.Context, node *domain.NodeDescription, cred *domain.Credential) (*domain.ResolvedCredential, error) {
	required, ok := node.RequiredCredential()
	if !ok && cred == nil {
		return nil, nil
	}
	if cred == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrCredentialRequired, required)
	}
	if ok && cred.Type != required {
		return nil, fmt.Errorf("%w: expected %q, got %q", domain.ErrCredentialTypeMismatch, required, cred.Type)
	}

	resolved, err := s.credentialService.Resolve(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("resolving credential %q: %w", cred.Name, err)
	}
	return resolved, nil
}

func validateProperties(properties []*domain.Property, params domain.Parameters) error {
	for _, p := range properties {
		value := params[p.Name]
		if p.IsEmpty(value) {
			if p.Required {
				return &domain.FieldValidationError{Field: p.Name, DisplayName: p.DisplayName, Err: domain.ErrRequiredField}
			}
			continue
		}
		switch p.Type {
		case domain.PropertyTypeOptions:
			if _, ok := p.Option(evaluator.Stringify(value)); !ok {
				return &domain.FieldValidationError{
					Field:       p.Name,
					DisplayName: p.DisplayName,
					Err:         fmt.Errorf("%w: %q", domain.ErrInvalidOptionValue, evaluator.Stringify(value)),
				}
			}
		case domain.PropertyTypeBoolean:
			if str, ok := value.(string); ok && !p.NoDataExpression && evaluator.IsTemplate(str) {
				// checked once resolved
				continue
			}
			if _, err := parseBool(p, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseBool accepts bool values and their string forms ("true", "0", ...)
func parseBool(p *domain.Property, value interface{}) (bool, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	if str, ok := value.(string); ok {
		if b, err := strconv.ParseBool(str); err == nil {
			return b, nil
		}
	}
	return false, &domain.FieldValidationError{
		Field:       p.Name,
		DisplayName: p.DisplayName,
		Err:         fmt.Errorf("%w: %q", domain.ErrInvalidBooleanValue, evaluator.Stringify(value)),
	}
}

// buildBaseRequest applies the operation routing on top of the node
// request defaults
func buildBaseRequest(defaults, operation *domain.RoutingRequest, vars map[string]interface{}) (*domain.Request, error) {
	if defaults == nil {
		defaults = &domain.RoutingRequest{}
	}

	method := operation.Method
	if method == "" {
		method = defaults.Method
	}
	if method == "" {
		method = http.MethodGet
	}

	baseURL := operation.BaseURL
	if baseURL == "" {
		baseURL = defaults.BaseURL
	}
	baseURL, err := evaluator.Resolve(baseURL, vars)
	if err != nil {
		return nil, fmt.Errorf("resolving base url: %w", err)
	}

	path, err := evaluator.Resolve(operation.URL, vars)
	if err != nil {
		return nil, fmt.Errorf("resolving url: %w", err)
	}

	headers := map[string]string{}
	for _, source := range []map[string]string{defaults.Headers, operation.Headers} {
		resolved, err := resolveHeaders(source, vars)
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(&headers, resolved, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging headers: %w", err)
		}
	}

	return &domain.Request{
		Method:  method,
		BaseURL: baseURL,
		URL:     path,
		Headers: headers,
	}, nil
}

func resolveHeaders(headers map[string]string, vars map[string]interface{}) (map[string]string, error) {
	result := make(map[string]string, len(headers))
	for k, v := range headers {
		resolved, err := evaluator.Resolve(v, vars)
		if err != nil {
			return nil, fmt.Errorf("resolving header %q: %w", k, err)
		}
		result[k] = resolved
	}
	return result, nil
}

// propertyValue renders a parameter value for the wire. String values
// starting with "=" are expressions unless the property disallows them.
// Booleans are always sent as "true" or "false".
func propertyValue(p *domain.Property, value interface{}, vars map[string]interface{}) (string, error) {
	if str, ok := value.(string); ok && !p.NoDataExpression && evaluator.IsTemplate(str) {
		resolved, err := evaluator.Resolve(str, vars)
		if err != nil {
			return "", fmt.Errorf("resolving %q: %w", p.Name, err)
		}
		value = resolved
	}

	if p.Type == domain.PropertyTypeBoolean {
		b, err := parseBool(p, value)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	}
	return evaluator.Stringify(value), nil
}
