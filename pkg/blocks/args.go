package blocks

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Args holds the positional arguments of a block invocation.
// Hosts pass strings, numbers or booleans depending on the placeholder and
// on what the user dropped into the slot, so accessors coerce.
type Args []any

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a)
}

// Raw returns argument i, or nil if it is missing.
func (a Args) Raw(i int) any {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// String returns argument i as a string. Missing arguments are "".
func (a Args) String(i int) string {
	switch v := a.Raw(i).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Number returns argument i as a number. Missing or non-numeric arguments
// are 0, matching how the host casts text in number slots.
func (a Args) Number(i int) float64 {
	switch v := a.Raw(i).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ParseArgs converts command-line style words into Args, keeping numbers as
// numbers so handlers see what a host would send.
func ParseArgs(words []string) Args {
	args := make(Args, len(words))
	for i, w := range words {
		if f, err := strconv.ParseFloat(w, 64); err == nil {
			args[i] = f
			continue
		}
		args[i] = w
	}
	return args
}
