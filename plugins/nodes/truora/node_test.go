package truora_test

import (
	"net/http"
	"testing"

	"github.com/goto/truora/domain"
	credentials "github.com/goto/truora/plugins/credentials/truora"
	"github.com/goto/truora/plugins/nodes/truora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findProperty(t *testing.T, n *domain.NodeDescription, name string) *domain.Property {
	t.Helper()
	for _, p := range n.Properties {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("property %q not found", name)
	return nil
}

func TestNewNode(t *testing.T) {
	n := truora.NewNode()

	assert.Equal(t, truora.NodeName, n.Name)
	name, ok := n.RequiredCredential()
	assert.True(t, ok)
	assert.Equal(t, credentials.TypeName, name)
	require.NotNil(t, n.RequestDefaults)
	assert.Equal(t, "={{$credentials.baseUrl}}", n.RequestDefaults.BaseURL)
	assert.Equal(t, domain.ContentTypeFormURLEncoded, n.RequestDefaults.Headers[domain.HeaderContentType])
}

func TestOperations(t *testing.T) {
	n := truora.NewNode()
	operation := findProperty(t, n, domain.PropertyNameOperation)

	testCases := []struct {
		value          string
		expectedMethod string
		expectedURL    string
	}{
		{truora.OperationCreate, http.MethodPost, "/checks"},
		{truora.OperationGet, http.MethodGet, "=/checks/{{$parameter.checkId}}"},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			option, ok := operation.Option(tc.value)
			require.True(t, ok)
			require.NotNil(t, option.Routing)
			require.NotNil(t, option.Routing.Request)
			assert.Equal(t, tc.expectedMethod, option.Routing.Request.Method)
			assert.Equal(t, tc.expectedURL, option.Routing.Request.URL)
		})
	}
}

func TestFieldCatalog(t *testing.T) {
	n := truora.NewNode()

	t.Run("should show create fields in catalog order", func(t *testing.T) {
		params := n.WithDefaults(domain.Parameters{"operation": truora.OperationCreate})

		var names []string
		for _, p := range n.VisibleProperties(params) {
			names = append(names, p.Name)
		}

		assert.Equal(t, []string{
			"resource", "operation", "nationalId", "country", "checkType",
			"dateOfBirth", "userAuthorized", "forceCreation", "customInput",
		}, names)
	})

	t.Run("should show only check id for get", func(t *testing.T) {
		params := n.WithDefaults(domain.Parameters{"operation": truora.OperationGet})

		var names []string
		for _, p := range n.VisibleProperties(params) {
			names = append(names, p.Name)
		}

		assert.Equal(t, []string{"resource", "operation", "checkId"}, names)
	})

	t.Run("check id has no send routing", func(t *testing.T) {
		assert.Nil(t, findProperty(t, n, "checkId").Routing)
	})

	t.Run("should route create fields into the body", func(t *testing.T) {
		expected := map[string]string{
			"nationalId":     "national_id",
			"country":        "country",
			"checkType":      "type",
			"dateOfBirth":    "date_of_birth",
			"userAuthorized": "user_authorized",
			"forceCreation":  "force_creation",
			"customInput":    "custom_input",
		}
		for name, key := range expected {
			p := findProperty(t, n, name)
			require.NotNil(t, p.Routing, name)
			require.NotNil(t, p.Routing.Send, name)
			assert.Equal(t, domain.SendTypeBody, p.Routing.Send.Type, name)
			assert.Equal(t, key, p.Routing.Send.Property, name)
		}
	})

	t.Run("should declare enumerations and defaults", func(t *testing.T) {
		country := findProperty(t, n, "country")
		assert.Equal(t, "CO", country.Default)
		var countries []string
		for _, o := range country.Options {
			countries = append(countries, o.Value)
		}
		assert.Equal(t, truora.Countries, countries)

		checkType := findProperty(t, n, "checkType")
		assert.Equal(t, "person", checkType.Default)
		var types []string
		for _, o := range checkType.Options {
			types = append(types, o.Value)
		}
		assert.Equal(t, truora.CheckTypes, types)

		assert.Equal(t, true, findProperty(t, n, "userAuthorized").Default)
		assert.Equal(t, true, findProperty(t, n, "forceCreation").Default)
		assert.True(t, findProperty(t, n, "nationalId").Required)
		assert.True(t, findProperty(t, n, "checkId").Required)
	})
}

func TestSubtitle(t *testing.T) {
	n := truora.NewNode()

	actual, err := n.ResolveSubtitle(domain.Parameters{"operation": truora.OperationGet})

	require.NoError(t, err)
	assert.Equal(t, "get: backgroundCheck", actual)
}
