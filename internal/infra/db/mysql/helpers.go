package mysql

import "encoding/json"

// List and map fields are stored as JSON text columns. Decoding tolerates
// malformed column content by degrading to empty values instead of failing a
// whole read.

func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeStrings(raw string) []string {
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return []string{}
	}
	return v
}

func encodeMap(v map[string]string) string {
	if v == nil {
		v = map[string]string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func decodeMap(raw string) map[string]string {
	var v map[string]string
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return map[string]string{}
	}
	return v
}
