package diff

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wI2L/jsondiff"
)

const maskedValue = "********"

type PatchOp struct {
	Op       string      `json:"op" yaml:"op"`
	Path     string      `json:"path" yaml:"path"`
	NewValue interface{} `json:"new_value,omitempty" yaml:"new_value,omitempty"`
	OldValue interface{} `json:"old_value,omitempty" yaml:"old_value,omitempty"`
}

// GetChangelog returns the JSON patch turning a into b, with the old value
// of every replaced or removed path. Values under the top level keys in
// masked are reported as "********".
func GetChangelog(a, b interface{}, masked ...string) ([]PatchOp, error) {
	jsonA, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	jsonB, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}

	patch, err := jsondiff.CompareJSON(jsonA, jsonB)
	if err != nil {
		return nil, err
	}

	var original interface{}
	if err := json.Unmarshal(jsonA, &original); err != nil {
		return nil, err
	}

	changelog := make([]PatchOp, 0, len(patch))
	for _, op := range patch {
		patchOp := PatchOp{
			Op:       op.Type,
			Path:     op.Path,
			NewValue: op.Value,
		}
		if op.Type == "remove" || op.Type == "replace" {
			if patchOp.OldValue, err = valueAt(original, op.Path); err != nil {
				return nil, err
			}
		}
		if isMasked(op.Path, masked) {
			if patchOp.NewValue != nil {
				patchOp.NewValue = maskedValue
			}
			if patchOp.OldValue != nil {
				patchOp.OldValue = maskedValue
			}
		}
		changelog = append(changelog, patchOp)
	}
	return changelog, nil
}

func isMasked(path string, masked []string) bool {
	parts := parseJSONPointer(path)
	if len(parts) == 0 {
		return false
	}
	for _, m := range masked {
		if parts[0] == m {
			return true
		}
	}
	return false
}

func valueAt(original interface{}, path string) (interface{}, error) {
	current := original
	for _, part := range parseJSONPointer(path) {
		switch curr := current.(type) {
		case map[string]interface{}:
			current = curr[part]
		case []interface{}:
			index, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid array index: %s", part)
			}
			if index < 0 || index >= len(curr) {
				return nil, fmt.Errorf("index out of range: %d", index)
			}
			current = curr[index]
		default:
			return nil, fmt.Errorf("invalid path: %s", path)
		}
	}
	return current, nil
}

// parseJSONPointer splits an RFC 6901 pointer into unescaped tokens
func parseJSONPointer(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i := range parts {
		parts[i] = strings.ReplaceAll(parts[i], "~1", "/")
		parts[i] = strings.ReplaceAll(parts[i], "~0", "~")
	}
	return parts
}
