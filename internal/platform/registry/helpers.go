package registry

import (
	"fmt"
	"time"
)

// Typed accessors for ports.ToolConfig.Custom. Each returns the default
// when the map is nil, the key is missing or the value has the wrong type.

// GetStringConfig returns a non-empty string value or the default.
func GetStringConfig(custom map[string]any, key, defaultValue string) string {
	if val, ok := custom[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// GetIntConfig accepts int, int64 and float64 (JSON and YAML numbers).
func GetIntConfig(custom map[string]any, key string, defaultValue int) int {
	switch val := custom[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// GetBoolConfig returns a bool value or the default.
func GetBoolConfig(custom map[string]any, key string, defaultValue bool) bool {
	if val, ok := custom[key].(bool); ok {
		return val
	}
	return defaultValue
}

// GetDurationConfig accepts time.Duration, integer nanoseconds or a
// string parsed with time.ParseDuration.
func GetDurationConfig(custom map[string]any, key string, defaultValue time.Duration) time.Duration {
	switch val := custom[key].(type) {
	case time.Duration:
		return val
	case int64:
		return time.Duration(val)
	case float64:
		return time.Duration(val)
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetSliceConfig accepts []string or a []any made only of strings.
func GetSliceConfig(custom map[string]any, key string, defaultValue []string) []string {
	switch val := custom[key].(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultValue
			}
			out = append(out, s)
		}
		return out
	}
	return defaultValue
}

// ValidatePositiveInt returns an error when value <= 0.
func ValidatePositiveInt(fieldName string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", fieldName, value)
	}
	return nil
}
