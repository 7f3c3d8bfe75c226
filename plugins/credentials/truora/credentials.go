package truora

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goto/truora/domain"
	"github.com/invopop/jsonschema"
	defaults "github.com/mcuadros/go-defaults"
	"github.com/mitchellh/mapstructure"
)

const (
	TypeName = "truoraApi"

	HeaderAPIKey   = "Truora-API-Key"
	DefaultBaseURL = "https://api.checks.truora.com/v1"

	documentationURL = "https://dev.truora.com/checks/authentication/"
)

type Credentials struct {
	APIKey  string `mapstructure:"apiKey" json:"apiKey" yaml:"apiKey" validate:"required" jsonschema:"title=API Key,description=Truora API key without any prefix"`
	BaseURL string `mapstructure:"baseUrl" json:"baseUrl,omitempty" yaml:"baseUrl,omitempty" validate:"required,url" default:"https://api.checks.truora.com/v1" jsonschema:"title=Base URL,default=https://api.checks.truora.com/v1"`
}

func (c Credentials) toMap() map[string]interface{} {
	return map[string]interface{}{
		"apiKey":  c.APIKey,
		"baseUrl": c.BaseURL,
	}
}

// CredentialType is the Truora API credential
type CredentialType struct {
	validator *validator.Validate
}

func NewCredentialType(v *validator.Validate) *CredentialType {
	if v == nil {
		v = validator.New()
	}
	return &CredentialType{validator: v}
}

func (t *CredentialType) GetType() string {
	return TypeName
}

// Parse decodes raw credential data, fills the default base url and
// validates the result
func (t *CredentialType) Parse(data map[string]interface{}) (*Credentials, error) {
	var creds Credentials
	if err := mapstructure.Decode(data, &creds); err != nil {
		return nil, fmt.Errorf("unable to decode credentials: %w", err)
	}
	defaults.SetDefaults(&creds)

	if err := t.validator.Struct(creds); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCredentialRecord, err)
	}
	return &creds, nil
}

// ParseAndValidate returns the normalized credential data
func (t *CredentialType) ParseAndValidate(data map[string]interface{}) (map[string]interface{}, error) {
	creds, err := t.Parse(data)
	if err != nil {
		return nil, err
	}
	return creds.toMap(), nil
}

// JSONSchema returns the JSON schema of the credential fields
func (t *CredentialType) JSONSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&Credentials{})

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return b, nil
}

func (t *CredentialType) Descriptor() *domain.CredentialType {
	return &domain.CredentialType{
		Name:             TypeName,
		DisplayName:      "Truora API",
		DocumentationURL: documentationURL,
		Properties: []*domain.Property{
			{
				DisplayName: "API Key",
				Name:        "apiKey",
				Type:        domain.PropertyTypeString,
				Default:     "",
				Required:    true,
				Description: "Your Truora API key. Include only the key value without any prefix.",
				TypeOptions: &domain.TypeOptions{Password: true},
			},
			{
				DisplayName: "Base URL",
				Name:        "baseUrl",
				Type:        domain.PropertyTypeString,
				Default:     DefaultBaseURL,
				Description: "Base URL for the Truora API. Change this if you use a different Truora service (e.g. validations or signals).",
			},
		},
		Authenticate: &domain.Authenticate{
			Type: domain.AuthenticateTypeGeneric,
			Headers: map[string]string{
				HeaderAPIKey: "={{$credentials.apiKey}}",
			},
		},
		Test: &domain.CredentialTest{
			Request: domain.RoutingRequest{
				BaseURL: "={{$credentials.baseUrl}}",
				Method:  "GET",
				URL:     "/checks",
			},
		},
	}
}
