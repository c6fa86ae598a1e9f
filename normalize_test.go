package flowfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTextWhitelist(t *testing.T) {
	rec := Record{
		"type": []byte("http"),
		"id":   []byte("d0f7c923"),
		"request": map[string]interface{}{
			"first_line_format": []byte("relative"),
			"content":           []byte{0xff, 0xfe, 0x00},
		},
		"response": map[string]interface{}{
			"msg":     []byte("OK"),
			"content": []byte("hello"),
		},
		"error": map[string]interface{}{
			"msg": []byte("connection reset"),
		},
	}

	out := NormalizeText(rec, DefaultTextFields())

	require.Equal(t, "http", out["type"])
	require.Equal(t, "d0f7c923", out["id"])

	req := out["request"].(map[string]interface{})
	require.Equal(t, "relative", req["first_line_format"])
	// Sibling byte values stay byte values.
	require.Equal(t, []byte{0xff, 0xfe, 0x00}, req["content"])

	resp := out["response"].(map[string]interface{})
	require.Equal(t, []byte("OK"), resp["msg"])
	require.Equal(t, []byte("hello"), resp["content"])

	errSub := out["error"].(map[string]interface{})
	require.Equal(t, "connection reset", errSub["msg"])

	// The input record is untouched.
	require.Equal(t, []byte("http"), rec["type"])
	require.Equal(t, []byte("relative"), rec["request"].(map[string]interface{})["first_line_format"])
}

func TestNormalizeTextOptionalSubstructures(t *testing.T) {
	rec := Record{
		"type":  "http",
		"error": nil,
	}
	out := NormalizeText(rec, DefaultTextFields())
	require.Equal(t, "http", out["type"])
	require.Nil(t, out["error"])
}

func TestNormalizeTextUntypedKeys(t *testing.T) {
	rec := Record{
		"error": map[interface{}]interface{}{
			"msg":  []byte("boom"),
			"code": 54,
		},
	}
	out := NormalizeText(rec, DefaultTextFields())

	errSub, ok := out["error"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "boom", errSub["msg"])
	require.Equal(t, 54, errSub["code"])
}

func TestNormalizeTextNil(t *testing.T) {
	require.Nil(t, NormalizeText(nil, DefaultTextFields()))
}
