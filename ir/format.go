package ir

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
)

// formatAny renders an arbitrary literal for the untyped Field* family.
// It covers the literal kinds that actually reach a structural query
// (strings, the built-in numeric kinds, bools, and timestamps) and
// falls back to fmt's default verb for anything else.
func formatAny(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return strconv.Quote(x.Format(time.RFC3339))
	case []byte:
		return strconv.Quote(base64.StdEncoding.EncodeToString(x))
	default:
		return fmt.Sprintf("%v", x)
	}
}
