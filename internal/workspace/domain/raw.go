package domain

// RawRecord is a loosely-typed record as returned by the workspace API.
// Accessors never panic; missing or mistyped fields read as zero values.
type RawRecord map[string]interface{}

// String returns the string value at key, or "" if absent or not a string.
func (r RawRecord) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the bool value at key, or false if absent or not a bool.
func (r RawRecord) Bool(key string) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	return false
}

// Int returns the numeric value at key as an int. JSON numbers decode as
// float64, so both forms are accepted.
func (r RawRecord) Int(key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Map returns the nested object at key, or nil if absent or not an object.
func (r RawRecord) Map(key string) RawRecord {
	switch v := r[key].(type) {
	case map[string]interface{}:
		return RawRecord(v)
	case RawRecord:
		return v
	}
	return nil
}

// List returns the array of objects at key. Non-object elements are skipped.
func (r RawRecord) List(key string) []RawRecord {
	items, ok := r[key].([]interface{})
	if !ok {
		return nil
	}
	var out []RawRecord
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, RawRecord(m))
		}
	}
	return out
}

// StringList returns the array of strings at key. Non-string elements are skipped.
func (r RawRecord) StringList(key string) []string {
	items, ok := r[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
