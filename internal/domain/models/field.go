package models

// FieldKind distinguishes numeric inputs from date inputs.
type FieldKind string

const (
	FieldNumber FieldKind = "number"
	FieldDate   FieldKind = "date"
)

// FieldSpec declares a writable input field.
type FieldSpec struct {
	Key   string
	Label string
	Icon  string
	Min   float64
	Max   float64
	Step  float64
	Unit  string
	Kind  FieldKind
}

// FieldState is the externally visible state of a registered field.
type FieldState struct {
	Key      string    `json:"key"`
	UniqueID string    `json:"unique_id"`
	Label    string    `json:"label"`
	Icon     string    `json:"icon,omitempty"`
	Kind     FieldKind `json:"kind"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Step     float64   `json:"step"`
	Unit     string    `json:"unit,omitempty"`
	Value    float64   `json:"value"`
	Text     string    `json:"text,omitempty"`
}
