package flowfmt

import (
	"github.com/wiredump/flowfmt/strutil"
)

// TextFields is the whitelist of fields whose byte string values are decoded
// to text by NormalizeText. A nil entry marks a leaf field to decode, a
// non-nil entry recurses into the named substructure.
type TextFields map[string]TextFields

// DefaultTextFields names the fields that must be text from format (0, 18)
// on: the record discriminant, identifiers, the request line format and the
// error message. Everything else, raw body content in particular, keeps its
// byte representation.
func DefaultTextFields() TextFields {
	return TextFields{
		"type":    nil,
		"id":      nil,
		"request": {"first_line_format": nil},
		"error":   {"msg": nil},
	}
}

// NormalizeText returns a copy of the record with every mapping key decoded
// to text and the whitelisted field values decoded from byte strings to
// text. All other values pass through untouched. The input record is not
// modified.
func NormalizeText(r Record, fields TextFields) Record {
	if r == nil {
		return nil
	}
	out := Record(textKeysMap(r))
	applyTextFields(out, fields)
	return out
}

func textKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case Record:
		return textKeysMap(t)
	case map[string]interface{}:
		return textKeysMap(t)
	case map[interface{}]interface{}:
		// Some decoders keep keys untyped. This is the only place where
		// byte-era keys can still surface, decode them here.
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[strutil.AlwaysText(k)] = textKeys(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = textKeys(e)
		}
		return out
	default:
		return v
	}
}

func textKeysMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = textKeys(v)
	}
	return out
}

func applyTextFields(m map[string]interface{}, fields TextFields) {
	for name, nested := range fields {
		v, ok := m[name]
		if !ok || v == nil {
			continue
		}
		if nested == nil {
			m[name] = strutil.AlwaysText(v)
			continue
		}
		if sub, ok := v.(map[string]interface{}); ok {
			applyTextFields(sub, nested)
		}
	}
}
