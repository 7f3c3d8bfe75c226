package truora

import (
	"net/http"

	"github.com/goto/truora/domain"
	credentials "github.com/goto/truora/plugins/credentials/truora"
)

const (
	NodeName = "truora"

	ResourceBackgroundCheck = "backgroundCheck"

	OperationCreate = "create"
	OperationGet    = "get"
)

var (
	Countries  = []string{"ALL", "BR", "CO", "CL", "CR", "MX", "PE"}
	CheckTypes = []string{"person", "vehicle", "company"}
)

// NewNode returns the Truora node description
func NewNode() *domain.NodeDescription {
	properties := []*domain.Property{
		{
			DisplayName:      "Resource",
			Name:             domain.PropertyNameResource,
			Type:             domain.PropertyTypeOptions,
			NoDataExpression: true,
			Options: []domain.PropertyOption{
				{Name: "Background Check", Value: ResourceBackgroundCheck},
			},
			Default: ResourceBackgroundCheck,
		},
	}
	properties = append(properties, backgroundCheckOperations()...)
	properties = append(properties, backgroundCheckFields()...)

	return &domain.NodeDescription{
		DisplayName: "Truora",
		Name:        NodeName,
		Icon:        "file:truora.svg",
		Group:       []string{"transform"},
		Version:     1,
		Subtitle:    `={{$parameter["operation"] + ": " + $parameter["resource"]}}`,
		Description: "Interact with the Truora background check API",
		Defaults:    domain.NodeDefaults{Name: "Truora"},
		Credentials: []domain.NodeCredential{
			{Name: credentials.TypeName, Required: true},
		},
		RequestDefaults: &domain.RoutingRequest{
			BaseURL: "={{$credentials.baseUrl}}",
			Headers: map[string]string{
				domain.HeaderContentType: domain.ContentTypeFormURLEncoded,
				domain.HeaderAccept:      domain.ContentTypeJSON,
			},
		},
		Properties: properties,
	}
}

func showFor(operations ...string) *domain.DisplayOptions {
	return &domain.DisplayOptions{
		Show: map[string][]string{
			domain.PropertyNameResource:  {ResourceBackgroundCheck},
			domain.PropertyNameOperation: operations,
		},
	}
}

func sendBody(property string) *domain.Routing {
	return &domain.Routing{
		Send: &domain.RoutingSend{Type: domain.SendTypeBody, Property: property},
	}
}

func backgroundCheckOperations() []*domain.Property {
	return []*domain.Property{
		{
			DisplayName:      "Operation",
			Name:             domain.PropertyNameOperation,
			Type:             domain.PropertyTypeOptions,
			NoDataExpression: true,
			DisplayOptions: &domain.DisplayOptions{
				Show: map[string][]string{
					domain.PropertyNameResource: {ResourceBackgroundCheck},
				},
			},
			Options: []domain.PropertyOption{
				{
					Name:        "Create",
					Value:       OperationCreate,
					Description: "Create a new background check",
					Action:      "Create a background check",
					Routing: &domain.Routing{
						Request: &domain.RoutingRequest{Method: http.MethodPost, URL: "/checks"},
					},
				},
				{
					Name:        "Get",
					Value:       OperationGet,
					Description: "Retrieve the details of an existing background check",
					Action:      "Get a background check",
					Routing: &domain.Routing{
						Request: &domain.RoutingRequest{Method: http.MethodGet, URL: "=/checks/{{$parameter.checkId}}"},
					},
				},
			},
			Default: OperationCreate,
		},
	}
}

func backgroundCheckFields() []*domain.Property {
	countryOptions := []domain.PropertyOption{
		{Name: "All (International)", Value: "ALL"},
		{Name: "Brazil", Value: "BR"},
		{Name: "Colombia", Value: "CO"},
		{Name: "Chile", Value: "CL"},
		{Name: "Costa Rica", Value: "CR"},
		{Name: "Mexico", Value: "MX"},
		{Name: "Peru", Value: "PE"},
	}
	typeOptions := []domain.PropertyOption{
		{Name: "Person", Value: "person"},
		{Name: "Vehicle", Value: "vehicle"},
		{Name: "Company", Value: "company"},
	}

	return []*domain.Property{
		// create
		{
			DisplayName:    "National ID",
			Name:           "nationalId",
			Type:           domain.PropertyTypeString,
			Default:        "",
			Required:       true,
			Description:    "The national ID of the person, vehicle, or company to check. Numbers only.",
			DisplayOptions: showFor(OperationCreate),
			Routing:        sendBody("national_id"),
		},
		{
			DisplayName:    "Country",
			Name:           "country",
			Type:           domain.PropertyTypeOptions,
			Default:        "CO",
			Options:        countryOptions,
			Description:    "Country where the check should be performed.",
			DisplayOptions: showFor(OperationCreate),
			Routing:        sendBody("country"),
		},
		{
			DisplayName:    "Type",
			Name:           "checkType",
			Type:           domain.PropertyTypeOptions,
			Default:        "person",
			Options:        typeOptions,
			Description:    "Type of check to perform.",
			DisplayOptions: showFor(OperationCreate),
			Routing:        sendBody("type"),
		},
		{
			DisplayName:    "Date of Birth",
			Name:           "dateOfBirth",
			Type:           domain.PropertyTypeString,
			Default:        "",
			Placeholder:    "YYYY-MM-DD",
			Description:    "For background checks in Brazil, provide the date of birth in ISO format.",
			DisplayOptions: showFor(OperationCreate),
			Routing:        sendBody("date_of_birth"),
		},
		{
			DisplayName:    "User Authorized",
			Name:           "userAuthorized",
			Type:           domain.PropertyTypeBoolean,
			Default:        true,
			Description:    "Indicates that you have the authorization of the person to be checked.",
			DisplayOptions: showFor(OperationCreate),
			Routing:        sendBody("user_authorized"),
		},
		{
			DisplayName:    "Force Creation",
			Name:           "forceCreation",
			Type:           domain.PropertyTypeBoolean,
			Default:        true,
			Description:    "Force the creation of a new check instead of searching for a previous one.",
			DisplayOptions: showFor(OperationCreate),
			Routing:        sendBody("force_creation"),
		},
		{
			DisplayName:    "Custom Input",
			Name:           "customInput",
			Type:           domain.PropertyTypeString,
			Default:        "",
			Description:    "Optional free-form input (up to 128 characters) to include additional information.",
			DisplayOptions: showFor(OperationCreate),
			Routing:        sendBody("custom_input"),
		},
		// get
		{
			DisplayName:    "Check ID",
			Name:           "checkId",
			Type:           domain.PropertyTypeString,
			Default:        "",
			Required:       true,
			Description:    "Unique identifier of the background check to retrieve.",
			DisplayOptions: showFor(OperationGet),
			// only used to build the operation url
			Routing: nil,
		},
	}
}
