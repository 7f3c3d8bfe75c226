package credential

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/goto/truora/domain"
	"github.com/goto/truora/pkg/diff"
	"github.com/goto/truora/pkg/log"
)

const (
	AuditKeyCreate = "credential.create"
	AuditKeyUpdate = "credential.update"
	AuditKeyDelete = "credential.delete"
)

// Type is a credential type plugin
type Type interface {
	GetType() string
	Descriptor() *domain.CredentialType
	// ParseAndValidate decodes raw data, fills defaults and validates it,
	// returning the normalized data
	ParseAndValidate(data map[string]interface{}) (map[string]interface{}, error)
}

//go:generate mockery --name=repository --exported --with-expecter
type repository interface {
	Create(context.Context, *domain.Credential) error
	Update(context.Context, *domain.Credential) error
	Find(context.Context) ([]*domain.Credential, error)
	GetByName(ctx context.Context, name string) (*domain.Credential, error)
	Delete(ctx context.Context, name string) error
}

//go:generate mockery --name=auditLogger --exported --with-expecter
type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

//go:generate mockery --name=HTTPClient --exported --with-expecter
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Service manages stored credentials and verifies them against their APIs
type Service struct {
	repository  repository
	types       map[string]Type
	crypto      domain.Crypto
	httpClient  HTTPClient
	auditLogger auditLogger
	logger      log.Logger
}

type ServiceDeps struct {
	Repository  repository
	Types       []Type
	Crypto      domain.Crypto
	HTTPClient  HTTPClient
	AuditLogger auditLogger
	Logger      log.Logger
}

func NewService(deps ServiceDeps) *Service {
	types := make(map[string]Type, len(deps.Types))
	for _, t := range deps.Types {
		types[t.GetType()] = t
	}
	return &Service{
		repository:  deps.Repository,
		types:       types,
		crypto:      deps.Crypto,
		httpClient:  deps.HTTPClient,
		auditLogger: deps.AuditLogger,
		logger:      deps.Logger,
	}
}

func (s *Service) GetType(name string) (Type, error) {
	t, ok := s.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrCredentialTypeNotFound, name)
	}
	return t, nil
}

// GetTypes returns the descriptors of all registered credential types
// sorted by name
func (s *Service) GetTypes() []*domain.CredentialType {
	result := make([]*domain.CredentialType, 0, len(s.types))
	for _, t := range s.types {
		result = append(result, t.Descriptor())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Create validates the credential, encrypts its secret fields and stores it
func (s *Service) Create(ctx context.Context, cred *domain.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}
	t, err := s.GetType(cred.Type)
	if err != nil {
		return err
	}

	data, err := t.ParseAndValidate(cred.Data)
	if err != nil {
		return fmt.Errorf("invalid %s credential: %w", cred.Type, err)
	}

	encrypted, err := s.encrypt(t.Descriptor(), data)
	if err != nil {
		return fmt.Errorf("unable to encrypt credential: %w", err)
	}

	now := time.Now()
	record := &domain.Credential{
		Name:      cred.Name,
		Type:      cred.Type,
		Data:      encrypted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.Create(ctx, record); err != nil {
		return fmt.Errorf("creating credential: %w", err)
	}
	s.logger.Info(ctx, "credential created", "name", cred.Name, "type", cred.Type)
	s.audit(ctx, AuditKeyCreate, map[string]interface{}{"name": cred.Name, "type": cred.Type})

	cred.CreatedAt = now
	cred.UpdatedAt = now
	return nil
}

// Update replaces the data of an existing credential
func (s *Service) Update(ctx context.Context, cred *domain.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}
	existing, err := s.repository.GetByName(ctx, cred.Name)
	if err != nil {
		return fmt.Errorf("getting credential: %w", err)
	}
	if existing.Type != cred.Type {
		return fmt.Errorf("%w: cannot change type from %q to %q", domain.ErrInvalidCredentialRecord, existing.Type, cred.Type)
	}

	t, err := s.GetType(cred.Type)
	if err != nil {
		return err
	}
	data, err := t.ParseAndValidate(cred.Data)
	if err != nil {
		return fmt.Errorf("invalid %s credential: %w", cred.Type, err)
	}
	previous, err := s.decrypt(t.Descriptor(), existing.Data)
	if err != nil {
		return fmt.Errorf("unable to decrypt credential %q: %w", cred.Name, err)
	}
	changelog, err := diff.GetChangelog(previous, data, t.Descriptor().SecretProperties()...)
	if err != nil {
		return fmt.Errorf("computing changelog: %w", err)
	}

	encrypted, err := s.encrypt(t.Descriptor(), data)
	if err != nil {
		return fmt.Errorf("unable to encrypt credential: %w", err)
	}

	existing.Data = encrypted
	existing.UpdatedAt = time.Now()
	if err := s.repository.Update(ctx, existing); err != nil {
		return fmt.Errorf("updating credential: %w", err)
	}
	s.logger.Info(ctx, "credential updated", "name", cred.Name, "type", cred.Type, "changes", len(changelog))
	s.audit(ctx, AuditKeyUpdate, map[string]interface{}{"name": cred.Name, "type": cred.Type, "changes": changelog})
	return nil
}

// Find returns stored credentials with secret fields left encrypted
func (s *Service) Find(ctx context.Context) ([]*domain.Credential, error) {
	return s.repository.Find(ctx)
}

// Get returns a stored credential with its secret fields decrypted
func (s *Service) Get(ctx context.Context, name string) (*domain.Credential, error) {
	cred, err := s.repository.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	t, err := s.GetType(cred.Type)
	if err != nil {
		return nil, err
	}

	data, err := s.decrypt(t.Descriptor(), cred.Data)
	if err != nil {
		return nil, fmt.Errorf("unable to decrypt credential %q: %w", name, err)
	}
	cred.Data = data
	return cred, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repository.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.Info(ctx, "credential deleted", "name", name)
	s.audit(ctx, AuditKeyDelete, map[string]interface{}{"name": name})
	return nil
}

// Resolve validates a decrypted credential and computes the
// authentication it injects into requests
func (s *Service) Resolve(ctx context.Context, cred *domain.Credential) (*domain.ResolvedCredential, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	t, err := s.GetType(cred.Type)
	if err != nil {
		return nil, err
	}

	data, err := t.ParseAndValidate(cred.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid %s credential: %w", cred.Type, err)
	}

	resolved := &domain.ResolvedCredential{
		Type:    cred.Type,
		Data:    data,
		Headers: map[string]string{},
		Query:   map[string]string{},
	}
	if auth := t.Descriptor().Authenticate; auth != nil {
		if resolved.Headers, err = auth.ResolveHeaders(data); err != nil {
			return nil, fmt.Errorf("resolving authentication headers: %w", err)
		}
		if resolved.Query, err = auth.ResolveQuery(data); err != nil {
			return nil, fmt.Errorf("resolving authentication query: %w", err)
		}
	}
	return resolved, nil
}

// Test sends the credential type's verification request. A 200 or 204
// response means the credential is valid; any other status is reported
// as domain.ErrInvalidCredentials. Network errors are returned as is.
func (s *Service) Test(ctx context.Context, cred *domain.Credential) (*domain.CredentialTestResult, error) {
	ctx = log.WithValue(ctx, log.KeyCredential, cred.GetName())
	resolved, err := s.Resolve(ctx, cred)
	if err != nil {
		return nil, err
	}
	t, err := s.GetType(resolved.Type)
	if err != nil {
		return nil, err
	}

	req, err := t.Descriptor().TestRequest(resolved.Data)
	if err != nil {
		return nil, err
	}
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "testing credential", "method", req.Method, "url", httpReq.URL.String())
	res, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	result := &domain.CredentialTestResult{StatusCode: res.StatusCode}
	switch res.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		result.Valid = true
		result.Message = "connection tested successfully"
		s.logger.Info(ctx, "credential is valid", "status", res.StatusCode)
		return result, nil
	default:
		result.Message = string(body)
		s.logger.Warn(ctx, "credential is invalid", "status", res.StatusCode)
		return result, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, &domain.HTTPError{StatusCode: res.StatusCode, Body: string(body)})
	}
}

func (s *Service) audit(ctx context.Context, action string, data map[string]interface{}) {
	if s.auditLogger == nil {
		return
	}
	if err := s.auditLogger.Log(ctx, action, data); err != nil {
		s.logger.Error(ctx, "failed to record audit log", "action", action, "error", err)
	}
}

func (s *Service) encrypt(ct *domain.CredentialType, data map[string]interface{}) (map[string]interface{}, error) {
	return s.transformSecrets(ct, data, func(v string) (string, error) {
		if s.crypto == nil {
			return "", errors.New("no encryptor configured")
		}
		return s.crypto.Encrypt(v)
	})
}

func (s *Service) decrypt(ct *domain.CredentialType, data map[string]interface{}) (map[string]interface{}, error) {
	return s.transformSecrets(ct, data, func(v string) (string, error) {
		if s.crypto == nil {
			return "", errors.New("no decryptor configured")
		}
		return s.crypto.Decrypt(v)
	})
}

func (s *Service) transformSecrets(ct *domain.CredentialType, data map[string]interface{}, fn func(string) (string, error)) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(data))
	for k, v := range data {
		result[k] = v
	}
	for _, name := range ct.SecretProperties() {
		value, ok := result[name].(string)
		if !ok || value == "" {
			continue
		}
		transformed, err := fn(value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		result[name] = transformed
	}
	return result, nil
}
