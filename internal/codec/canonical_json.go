package codec

import "encoding/json"

// CanonicalJSON returns the UTF-8 bytes of v serialized as JSON with object
// keys sorted ascending and no insignificant whitespace. encoding/json
// already marshals Go maps with sorted keys; round-tripping through
// map[string]interface{}/[]interface{} forces the same ordering onto
// whatever struct shape v started as, which is what makes two semantically
// equal values hash identically regardless of struct field order.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
