package value

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// jsonMapEntry mirrors MapEntry for JSON transport; Map values are encoded
// as a JSON array of {key, value} objects rather than a JSON object, since
// encoding/json does not guarantee object key order on decode and the
// declaration order of a Map is an observable part of its identity.
type jsonMapEntry struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// Array and Map are deliberately not tagged omitempty: encoding/json treats
// a zero-length slice as empty and would drop the field entirely, losing the
// discriminant that tells an empty array apart from an empty map (and from
// neither being set at all).
type jsonValue struct {
	Text    *string        `json:"text,omitempty"`
	Number  *string        `json:"number,omitempty"`
	Boolean *bool          `json:"boolean,omitempty"`
	Array   []Value        `json:"array"`
	Map     []jsonMapEntry `json:"map"`
}

// MarshalJSON renders the Value as one of {"text":...} / {"number":...} /
// {"boolean":...} / {"array":[...]} / {"map":[{"key":...,"value":...}]}.
// Numbers are carried as decimal strings so values beyond int64 range survive
// the round trip without loss of precision.
func (v Value) MarshalJSON() ([]byte, error) {
	var jv jsonValue
	switch v.Kind {
	case KindText:
		jv.Text = &v.Text
	case KindNumber:
		s := v.Number.String()
		jv.Number = &s
	case KindBoolean:
		jv.Boolean = &v.Boolean
	case KindArray:
		jv.Array = v.Array
		if jv.Array == nil {
			jv.Array = []Value{}
		}
	case KindMap:
		entries := make([]jsonMapEntry, len(v.Map))
		for i, e := range v.Map {
			entries[i] = jsonMapEntry{Key: e.Key, Value: e.Value}
		}
		jv.Map = entries
		if jv.Map == nil {
			jv.Map = []jsonMapEntry{}
		}
	default:
		return nil, fmt.Errorf("value: unknown kind %v", v.Kind)
	}
	return json.Marshal(jv)
}

// UnmarshalJSON parses the JSON shape produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	switch {
	case jv.Text != nil:
		*v = Text(*jv.Text)
	case jv.Number != nil:
		n, ok := new(big.Int).SetString(*jv.Number, 10)
		if !ok {
			return fmt.Errorf("value: invalid number literal %q", *jv.Number)
		}
		*v = Number(Int128FromBigInt(n))
	case jv.Boolean != nil:
		*v = Boolean(*jv.Boolean)
	case jv.Array != nil:
		*v = Array(jv.Array...)
	case jv.Map != nil:
		entries := make([]MapEntry, len(jv.Map))
		for i, e := range jv.Map {
			entries[i] = MapEntry{Key: e.Key, Value: e.Value}
		}
		*v = Map(entries...)
	default:
		return fmt.Errorf("value: JSON object matches no known variant")
	}
	return nil
}
