package models

import "encoding/json"

// OptionalString membedakan field JSON yang tidak dikirim dari field
// yang dikirim sebagai null atau string kosong. Dipakai untuk dueDate
// pada partial update: absen berarti jangan ubah, null/"" berarti kosongkan.
type OptionalString struct {
	Present bool
	Value   string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Present = true
	if string(b) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == "" {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
