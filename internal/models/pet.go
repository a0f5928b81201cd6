package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesUnknown Species = "unknown"
)

// ParseSpecies maps free-form input onto dog, cat or unknown.
func ParseSpecies(s string) Species {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dog", "狗", "狗狗":
		return SpeciesDog
	case "cat", "貓", "貓咪":
		return SpeciesCat
	}
	return SpeciesUnknown
}

func (s Species) Known() bool {
	return s == SpeciesDog || s == SpeciesCat
}

func (s *Species) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseSpecies(raw)
	return nil
}

// Measure is an optional age or weight. Clients send numbers, numeric strings
// or descriptive text such as "3個月"; text that is not numeric is kept for
// display only.
type Measure struct {
	Value *float64
	Text  string
}

func NewMeasure(v float64) Measure {
	return Measure{Value: &v}
}

func (m Measure) IsZero() bool {
	return m.Value == nil && m.Text == ""
}

// String renders the measure for prompts; empty when unset.
func (m Measure) String() string {
	if m.Value != nil {
		return strconv.FormatFloat(*m.Value, 'f', -1, 64)
	}
	return m.Text
}

func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Measure{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*m = NewMeasure(v)
			return nil
		}
		*m = Measure{Text: s}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = NewMeasure(v)
	return nil
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if m.Value != nil {
		return json.Marshal(*m.Value)
	}
	if m.Text != "" {
		return json.Marshal(m.Text)
	}
	return []byte("null"), nil
}

// PetProfile is supplied per request and never persisted.
type PetProfile struct {
	Species Species `json:"species"`
	Age     Measure `json:"age"`
	Weight  Measure `json:"weight"`
}
