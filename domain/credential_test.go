package domain_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goto/truora/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialType_TestRequest(t *testing.T) {
	ct := &domain.CredentialType{
		Name: "exampleApi",
		Properties: []*domain.Property{
			{Name: "apiKey", TypeOptions: &domain.TypeOptions{Password: true}},
			{Name: "baseUrl"},
		},
		Authenticate: &domain.Authenticate{
			Type:    domain.AuthenticateTypeGeneric,
			Headers: map[string]string{"X-Api-Key": "={{$credentials.apiKey}}"},
			Query:   map[string]string{"tenant": "={{$credentials.tenant}}"},
		},
		Test: &domain.CredentialTest{
			Request: domain.RoutingRequest{
				BaseURL: "={{$credentials.baseUrl}}",
				URL:     "/checks",
			},
		},
	}

	req, err := ct.TestRequest(map[string]interface{}{
		"apiKey":  "key",
		"baseUrl": "https://example.com/v1",
		"tenant":  "acme",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, map[string]string{"X-Api-Key": "key"}, req.Headers)
	fullURL, err := req.FullURL()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1/checks?tenant=acme", fullURL)
	assert.Equal(t, []string{"apiKey"}, ct.SecretProperties())

	t.Run("credential type without test", func(t *testing.T) {
		_, err := (&domain.CredentialType{Name: "x"}).TestRequest(nil)
		assert.ErrorIs(t, err, domain.ErrCredentialTestNotSupported)
	})
}

func TestCredential_Validate(t *testing.T) {
	var nilCred *domain.Credential
	assert.ErrorIs(t, nilCred.Validate(), domain.ErrCredentialRequired)
	assert.ErrorIs(t, (&domain.Credential{Type: "truoraApi"}).Validate(), domain.ErrInvalidCredentialRecord)
	assert.ErrorIs(t, (&domain.Credential{Name: "prod"}).Validate(), domain.ErrInvalidCredentialRecord)
	assert.NoError(t, (&domain.Credential{Name: "prod", Type: "truoraApi"}).Validate())
}

func TestFieldValidationError(t *testing.T) {
	err := error(&domain.FieldValidationError{Field: "nationalId", DisplayName: "National ID", Err: domain.ErrRequiredField})

	assert.EqualError(t, err, "National ID (nationalId): required field is empty")
	assert.ErrorIs(t, err, domain.ErrRequiredField)

	var fieldErr *domain.FieldValidationError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "nationalId", fieldErr.Field)
}
