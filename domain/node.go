package domain

import (
	"github.com/goto/truora/pkg/evaluator"
	"github.com/goto/truora/pkg/slices"
)

const (
	PropertyNameResource  = "resource"
	PropertyNameOperation = "operation"
)

type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeNumber  PropertyType = "number"
	PropertyTypeBoolean PropertyType = "boolean"
	PropertyTypeOptions PropertyType = "options"
)

type SendType string

const (
	SendTypeBody  SendType = "body"
	SendTypeQuery SendType = "query"
)

// Parameters holds the values a user filled into a node form, keyed by
// property name
type Parameters map[string]interface{}

// Copy returns a shallow copy so callers can fill defaults without
// touching the caller's map
func (p Parameters) Copy() Parameters {
	cp := make(Parameters, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

// RoutingRequest describes the HTTP request an operation or node issues.
// URL and BaseURL may be templates, e.g. "=/checks/{{$parameter.checkId}}".
type RoutingRequest struct {
	Method  string            `json:"method,omitempty" yaml:"method,omitempty"`
	BaseURL string            `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	URL     string            `json:"url,omitempty" yaml:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// RoutingSend tells where a property value goes in the outgoing request
type RoutingSend struct {
	Type     SendType `json:"type" yaml:"type"`
	Property string   `json:"property" yaml:"property"`
}

type Routing struct {
	Request *RoutingRequest `json:"request,omitempty" yaml:"request,omitempty"`
	Send    *RoutingSend    `json:"send,omitempty" yaml:"send,omitempty"`
}

// DisplayOptions.Show maps a property name to the values that make the
// owning property visible. All entries must match.
type DisplayOptions struct {
	Show map[string][]string `json:"show,omitempty" yaml:"show,omitempty"`
}

type TypeOptions struct {
	Password bool `json:"password,omitempty" yaml:"password,omitempty"`
}

type PropertyOption struct {
	Name        string   `json:"name" yaml:"name"`
	Value       string   `json:"value" yaml:"value"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Action      string   `json:"action,omitempty" yaml:"action,omitempty"`
	Routing     *Routing `json:"routing,omitempty" yaml:"routing,omitempty"`
}

// Property is a single form field of a node or a credential type
type Property struct {
	DisplayName      string           `json:"displayName" yaml:"displayName"`
	Name             string           `json:"name" yaml:"name"`
	Type             PropertyType     `json:"type" yaml:"type"`
	Default          interface{}      `json:"default" yaml:"default"`
	Required         bool             `json:"required,omitempty" yaml:"required,omitempty"`
	NoDataExpression bool             `json:"noDataExpression,omitempty" yaml:"noDataExpression,omitempty"`
	Description      string           `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder      string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options          []PropertyOption `json:"options,omitempty" yaml:"options,omitempty"`
	TypeOptions      *TypeOptions     `json:"typeOptions,omitempty" yaml:"typeOptions,omitempty"`
	DisplayOptions   *DisplayOptions  `json:"displayOptions,omitempty" yaml:"displayOptions,omitempty"`
	Routing          *Routing         `json:"routing,omitempty" yaml:"routing,omitempty"`
}

// IsVisible evaluates the display conditions of the property against the
// current parameter values
func (p *Property) IsVisible(params Parameters) bool {
	if p.DisplayOptions == nil || len(p.DisplayOptions.Show) == 0 {
		return true
	}

	for name, allowed := range p.DisplayOptions.Show {
		if !slices.GenericsSliceContainsOne(allowed, evaluator.Stringify(params[name])) {
			return false
		}
	}
	return true
}

func (p *Property) IsSecret() bool {
	return p.TypeOptions != nil && p.TypeOptions.Password
}

// IsEmpty reports whether v counts as "not filled" for this property.
// A false boolean is a filled value.
func (p *Property) IsEmpty(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	default:
		return false
	}
}

// Option returns the option with the given value
func (p *Property) Option(value string) (*PropertyOption, bool) {
	for i := range p.Options {
		if p.Options[i].Value == value {
			return &p.Options[i], true
		}
	}
	return nil, false
}

type NodeDefaults struct {
	Name string `json:"name" yaml:"name"`
}

type NodeCredential struct {
	Name     string `json:"name" yaml:"name"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// NodeDescription is the declarative definition of a node: its form and
// how form values are routed into HTTP requests
type NodeDescription struct {
	DisplayName     string           `json:"displayName" yaml:"displayName"`
	Name            string           `json:"name" yaml:"name"`
	Icon            string           `json:"icon,omitempty" yaml:"icon,omitempty"`
	Group           []string         `json:"group" yaml:"group"`
	Version         int              `json:"version" yaml:"version"`
	Subtitle        string           `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Description     string           `json:"description" yaml:"description"`
	Defaults        NodeDefaults     `json:"defaults" yaml:"defaults"`
	Credentials     []NodeCredential `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	RequestDefaults *RoutingRequest  `json:"requestDefaults,omitempty" yaml:"requestDefaults,omitempty"`
	Properties      []*Property      `json:"properties" yaml:"properties"`
}

// WithDefaults returns a copy of params where every unset or nil top level
// property holds its default value
func (n *NodeDescription) WithDefaults(params Parameters) Parameters {
	result := params.Copy()
	for _, p := range n.Properties {
		if result[p.Name] != nil || p.Default == nil {
			continue
		}
		result[p.Name] = p.Default
	}
	return result
}

// VisibleProperties returns the properties shown for the given parameters,
// in declaration order
func (n *NodeDescription) VisibleProperties(params Parameters) []*Property {
	var visible []*Property
	for _, p := range n.Properties {
		if p.IsVisible(params) {
			visible = append(visible, p)
		}
	}
	return visible
}

// RequiredCredential returns the first credential type marked as required
func (n *NodeDescription) RequiredCredential() (string, bool) {
	for _, c := range n.Credentials {
		if c.Required {
			return c.Name, true
		}
	}
	return "", false
}

// ResolveSubtitle renders the subtitle template shown under the node name
func (n *NodeDescription) ResolveSubtitle(params Parameters) (string, error) {
	return evaluator.Resolve(n.Subtitle, map[string]interface{}{
		VariableParameter: map[string]interface{}(n.WithDefaults(params)),
	})
}
