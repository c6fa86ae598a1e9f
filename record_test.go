package flowfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordCloneIsDeep(t *testing.T) {
	original := Record{
		"version": []interface{}{0, 14},
		"request": map[string]interface{}{
			"content": []byte("body"),
			"headers": []interface{}{
				[]interface{}{[]byte("Host"), []byte("example.com")},
			},
		},
		"response": nil,
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone["version"] = 10
	req := clone["request"].(map[string]interface{})
	req["content"].([]byte)[0] = 'X'
	req["extra"] = true

	require.Equal(t, []interface{}{0, 14}, original["version"])
	origReq := original["request"].(map[string]interface{})
	require.Equal(t, []byte("body"), origReq["content"])
	_, ok := origReq["extra"]
	require.False(t, ok)
}

func TestRecordCloneNil(t *testing.T) {
	var r Record
	require.Nil(t, r.Clone())
}

func TestAsRecord(t *testing.T) {
	r, ok := AsRecord(map[string]interface{}{"id": "x"})
	require.True(t, ok)
	require.Equal(t, "x", r["id"])

	r, ok = AsRecord(Record{"id": "y"})
	require.True(t, ok)
	require.Equal(t, "y", r["id"])

	_, ok = AsRecord("not a record")
	require.False(t, ok)
	_, ok = AsRecord(nil)
	require.False(t, ok)
}

func TestAsRecordAliasesInput(t *testing.T) {
	m := map[string]interface{}{"id": "x"}
	r, ok := AsRecord(m)
	require.True(t, ok)
	r["id"] = "changed"
	require.Equal(t, "changed", m["id"])
}
