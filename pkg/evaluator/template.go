package evaluator

import (
	"fmt"
	"strings"
)

const (
	expressionPrefix = "="
	openDelimiter    = "{{"
	closeDelimiter   = "}}"
)

// IsTemplate reports whether the value is an expression template, i.e.
// it starts with "=".
func IsTemplate(value string) bool {
	return strings.HasPrefix(value, expressionPrefix)
}

// Resolve renders a descriptor value. Plain values are returned as is.
// Templates have the "=" prefix stripped and each {{ expression }}
// segment replaced with its evaluated value.
//
//	=/checks/{{$parameter.checkId}}      -> /checks/abc-123
//	={{$credentials.baseUrl}}            -> https://api.checks.truora.com/v1
func Resolve(value string, vars map[string]interface{}) (string, error) {
	if !IsTemplate(value) {
		return value, nil
	}

	rest := strings.TrimPrefix(value, expressionPrefix)
	var b strings.Builder
	for {
		start := strings.Index(rest, openDelimiter)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], closeDelimiter)
		if end < 0 {
			return "", fmt.Errorf("unterminated expression in %q", value)
		}
		end += start

		b.WriteString(rest[:start])
		exp := strings.TrimSpace(rest[start+len(openDelimiter) : end])
		result, err := Expression(exp).EvaluateWithVars(vars)
		if err != nil {
			return "", err
		}
		b.WriteString(Stringify(result))

		rest = rest[end+len(closeDelimiter):]
	}

	return b.String(), nil
}

// Stringify formats an evaluated value the way it is placed into URLs,
// headers and form bodies. nil becomes an empty string.
func Stringify(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if value {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", value)
	}
}
