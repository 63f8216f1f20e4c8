package ai

import (
	"encoding/json"
	"strings"
)

func valueOrDefault(value string, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func valueOrDefaultInt(value int, def int) int {
	if value <= 0 {
		return def
	}
	return value
}

// toMap converts a view into the generic map genai function responses carry.
func toMap(v interface{}) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
