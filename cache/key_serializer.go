package cache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// KeySeparator delimits cache key segments.
const KeySeparator = "::"

// KeySerializer builds a cache key from a method name plus its arguments.
// It must produce stable keys across calls and processes.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// defaultKeySerializer joins the method name and arguments with
// KeySeparator. Basic types are formatted directly; anything else falls back
// to JSON so that structured arguments still serialize deterministically.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

func (s *defaultKeySerializer) SerializeKey(method string, args ...any) string {
	if len(args) == 0 {
		return method
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, method)
	for _, arg := range args {
		parts = append(parts, s.serializeValue(arg))
	}
	return strings.Join(parts, KeySeparator)
}

func (s *defaultKeySerializer) serializeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%v", val)
	case []string:
		return "[" + strings.Join(val, ",") + "]"
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%T", v)
		}
		return "json:" + string(data)
	}
}
