package flowfmt

// Record is a single deserialized flow: a mapping from field name to value,
// with nested client_conn, server_conn and request substructures and
// optional response and error substructures. The server connection may hold
// an optional via substructure of the same shape, representing an upstream
// proxy hop.
type Record map[string]interface{}

// Clone returns a deep copy of this record. Converters transform a clone so
// that the record passed in by the caller is never modified.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case Record:
		return t.Clone()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[interface{}]interface{}, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []byte:
		out := make([]byte, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// AsRecord interprets a nested value as a record. Deserializers differ on
// the map type they produce, so both the named and the plain map form are
// accepted. The returned record aliases the input, mutations write through.
func AsRecord(v interface{}) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, true
	case map[string]interface{}:
		return Record(t), true
	}
	return nil, false
}
