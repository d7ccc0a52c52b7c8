package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseProperties parses key=value pairs. Values that read as a bool or a
// finite number are typed accordingly; anything else stays a string. Quote a
// value ("'42'") to force a string.
func ParseProperties(pairs []string) (map[string]any, error) {
	props := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q: expected key=value", pair)
		}
		props[key] = parseValue(raw)
	}
	return props, nil
}

func parseValue(raw string) any {
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		return raw[1 : len(raw)-1]
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.ContainsAny(raw, "xXpP_nN") {
		return f
	}
	return raw
}
