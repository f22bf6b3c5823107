package tools

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Args are the named arguments of one call, as decoded from JSON or the CLI.
// Values arriving from the CLI are strings and are converted on access.
type Args map[string]any

func missingArg(name string) *ToolError {
	return &ToolError{Text: fmt.Sprintf("Error: missing required argument '%s'", name)}
}

func wrongType(name, typ string) *ToolError {
	return &ToolError{Text: fmt.Sprintf("Error: argument '%s' must be %s", name, typ)}
}

// RequireString returns a required string argument
func (a Args) RequireString(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", missingArg(name)
	}

	s, ok := v.(string)
	if !ok {
		return "", wrongType(name, "a string")
	}

	return s, nil
}

// String returns an optional string argument; absent, null and "" yield def
func (a Args) String(name, def string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}

	s, ok := v.(string)
	if !ok {
		return "", wrongType(name, "a string")
	}

	if s == "" {
		return def, nil
	}

	return s, nil
}

// Bool returns an optional boolean argument
func (a Args) Bool(name string, def bool) (bool, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}

	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, wrongType(name, "a boolean")
		}

		return parsed, nil
	default:
		return false, wrongType(name, "a boolean")
	}
}

// Int returns an optional integer argument. JSON numbers must be whole.
func (a Args) Int(name string, def int) (int, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}

	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, wrongType(name, "an integer")
		}

		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, wrongType(name, "an integer")
		}

		return parsed, nil
	default:
		return 0, wrongType(name, "an integer")
	}
}

// ParseKeyValues builds Args from "key=value" pairs
func ParseKeyValues(pairs []string) (Args, error) {
	args := make(Args, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, expected key=value", pair)
		}

		args[key] = value
	}

	return args, nil
}
