package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func printFormatted(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q, use %s or %s", format, formatYAML, formatJSON)
	}
}

// printBody prints a JSON response body indented, or as is when it is not
// valid JSON
func printBody(w io.Writer, body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		_, err := fmt.Fprintln(w, string(body))
		return err
	}
	return printFormatted(w, formatJSON, v)
}
