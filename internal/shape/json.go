package shape

import "encoding/json"

type shapeJSON struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Label       *Label     `json:"label,omitempty"`
	Coordinates []Snapshot `json:"coordinates"`
}

// MarshalJSON encodes the shape with its full coordinate history.
func (s Shape) MarshalJSON() ([]byte, error) {
	out := shapeJSON{
		ID:          s.ID,
		Kind:        s.Kind,
		Coordinates: s.history,
	}
	if s.Textual() {
		label := s.Label
		out.Label = &label
	}
	if out.Coordinates == nil {
		out.Coordinates = []Snapshot{}
	}
	return json.Marshal(out)
}

// MarshalJSON encodes the document as an array of shapes in z-order.
func (d Document) MarshalJSON() ([]byte, error) {
	shapes := make([]Shape, 0, d.Len())
	for s := range d.All() {
		shapes = append(shapes, s)
	}
	return json.Marshal(shapes)
}
