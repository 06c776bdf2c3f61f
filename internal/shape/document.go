package shape

import (
	"iter"
	"slices"
)

// Document is the ordered collection of committed shapes. Insertion order is
// the z-order: later shapes draw on top and are hit first.
//
// The zero value is an empty document. Put and Delete never modify the
// receiver.
type Document struct {
	order  []string
	shapes map[string]Shape
}

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{shapes: make(map[string]Shape)}
}

// Len returns the number of shapes.
func (d Document) Len() int { return len(d.order) }

// Get returns the shape with the given id.
func (d Document) Get(id string) (Shape, bool) {
	s, ok := d.shapes[id]
	return s, ok
}

// Has reports whether id is in the document.
func (d Document) Has(id string) bool {
	_, ok := d.shapes[id]
	return ok
}

// Put returns a document containing s. A shape that is already present keeps
// its position; a new one is placed on top. Putting an empty shape removes it.
func (d Document) Put(s Shape) Document {
	if s.Empty() {
		return d.Delete(s.ID)
	}

	out := d.clone()
	if _, ok := out.shapes[s.ID]; !ok {
		out.order = append(out.order, s.ID)
	}
	out.shapes[s.ID] = s
	return out
}

// Delete returns a document without the shape id.
func (d Document) Delete(id string) Document {
	if !d.Has(id) {
		return d
	}
	out := d.clone()
	delete(out.shapes, id)
	out.order = slices.DeleteFunc(out.order, func(other string) bool { return other == id })
	return out
}

// IDs returns shape ids in insertion order.
func (d Document) IDs() []string {
	return slices.Clone(d.order)
}

// All yields shapes bottom to top.
func (d Document) All() iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		for _, id := range d.order {
			if !yield(d.shapes[id]) {
				return
			}
		}
	}
}

// Backward yields shapes top to bottom.
func (d Document) Backward() iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		for i := len(d.order) - 1; i >= 0; i-- {
			if !yield(d.shapes[d.order[i]]) {
				return
			}
		}
	}
}

func (d Document) clone() Document {
	out := Document{
		order:  slices.Clone(d.order),
		shapes: make(map[string]Shape, len(d.shapes)+1),
	}
	for id, s := range d.shapes {
		out.shapes[id] = s
	}
	return out
}
