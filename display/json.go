package display

import (
	"encoding/json"
)

// MarshalJSON marshals JSON with two-space indentation. Output stays stable
// across runs so reports can be diffed.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
