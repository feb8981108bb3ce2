package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the declared type of a document field.
type Kind int

const (
	KindMixed Kind = iota
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	default:
		return "Mixed"
	}
}

// CastError reports a value that cannot be converted to its field's kind.
type CastError struct {
	Field string
	Kind  Kind
	Value any
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to %s failed for value %v at path %q", e.Kind, e.Value, e.Field)
}

var (
	errNotString = errors.New("not a string")
	errNotNumber = errors.New("not a number")
)

// Schema maps the declared fields of a resource to their kinds.
type Schema map[string]Kind

// Cast keeps the declared keys of fields and converts their values to the
// declared kinds. Strings accept numbers and booleans; numbers accept numeric
// strings and booleans. An empty string cast to a number becomes null.
func (s Schema) Cast(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		kind, ok := s[k]
		if !ok {
			continue
		}
		cv, err := castValue(kind, v)
		if err != nil {
			return nil, &CastError{Field: k, Kind: kind, Value: v}
		}
		out[k] = cv
	}
	return out, nil
}

func castValue(kind Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case KindString:
		switch x := v.(type) {
		case string:
			return x, nil
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(x), nil
		}
		return nil, errNotString
	case KindNumber:
		switch x := v.(type) {
		case float64:
			return x, nil
		case bool:
			if x {
				return 1.0, nil
			}
			return 0.0, nil
		case string:
			s := strings.TrimSpace(x)
			if s == "" {
				return nil, nil
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, errNotNumber
			}
			return f, nil
		}
		return nil, errNotNumber
	default:
		return v, nil
	}
}

// decodeCast decodes a JSON object and casts it with s. The raw "_id" key is
// returned separately when it is a string.
func decodeCast(b []byte, s Schema) (map[string]any, string, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, "", err
	}
	id, _ := raw["_id"].(string)
	fields, err := s.Cast(raw)
	if err != nil {
		return nil, "", err
	}
	return fields, id, nil
}

func stringField(fields map[string]any, key string) *string {
	if v, ok := fields[key].(string); ok {
		return &v
	}
	return nil
}

func numberField(fields map[string]any, key string) *float64 {
	if v, ok := fields[key].(float64); ok {
		return &v
	}
	return nil
}
