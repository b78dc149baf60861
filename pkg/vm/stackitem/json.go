package stackitem

import "encoding/json"

type jsonItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements the json.Marshaler interface. The value is the
// Micheline JSON of the readable data node.
func (i *Item) MarshalJSON() ([]byte, error) {
	v, err := json.Marshal(i.ToNode())
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonItem{Type: i.typ.String(), Value: v})
}
