// Package strutil holds the string encoding primitives consumed by the rest
// of the repository.
package strutil

import "fmt"

// AlwaysText returns the text form of a value that may be either a byte
// string or text. Byte strings pass through byte for byte, so content that
// is not valid UTF-8 survives a decode/encode round trip.
func AlwaysText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
