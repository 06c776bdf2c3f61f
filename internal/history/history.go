// Package history implements undo and redo over a shape.Document.
//
// The Manager keeps two stacks. The active-shapes stack records which shape
// was most recently committed or modified and is the ordering source for
// undo. The redo stack holds the snapshots undo removed, tagged with enough
// identity to put them back.
package history

import (
	"slices"

	"github.com/inamate/sketch/internal/shape"
)

// Entry is one undone snapshot, with the identity needed to restore it.
type Entry struct {
	ShapeID  string
	Kind     shape.Kind
	Label    shape.Label
	Snapshot shape.Snapshot
}

// Option configures a Manager.
type Option func(*Manager)

// WithClearRedoOnCommit makes every new commit discard the redo stack.
// By default redo entries survive new edits.
func WithClearRedoOnCommit(clear bool) Option {
	return func(m *Manager) {
		m.clearRedoOnCommit = clear
	}
}

// Manager owns the active-shapes and redo stacks. It is not safe for
// concurrent use; the engine that owns it serialises access.
type Manager struct {
	active []string
	redo   []Entry

	clearRedoOnCommit bool
}

// New returns an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Commit records that the shape id was created or modified.
func (m *Manager) Commit(id string) {
	m.active = append(m.active, id)
	if m.clearRedoOnCommit {
		m.redo = m.redo[:0]
	}
}

// Undo reverses the most recent commit that still has a shape in doc.
// It reports false, and returns doc unchanged, when there is nothing to undo.
func (m *Manager) Undo(doc shape.Document) (shape.Document, bool) {
	if doc.Len() == 0 {
		return doc, false
	}

	for len(m.active) > 0 {
		id := m.active[len(m.active)-1]
		m.active = m.active[:len(m.active)-1]

		s, ok := doc.Get(id)
		if !ok {
			continue
		}

		var removed shape.Snapshot
		if s.Kind == shape.KindPen {
			// The stroke is a single snapshot: stash all of it.
			removed = s.Current()
			doc = doc.Delete(id)
		} else {
			s, removed = s.WithoutLast()
			doc = doc.Put(s)
		}

		m.redo = append(m.redo, Entry{
			ShapeID:  id,
			Kind:     s.Kind,
			Label:    s.Label,
			Snapshot: removed,
		})
		return doc, true
	}
	return doc, false
}

// Redo re-applies the most recently undone entry.
// It reports false, and returns doc unchanged, when the redo stack is empty.
func (m *Manager) Redo(doc shape.Document) (shape.Document, bool) {
	if len(m.redo) == 0 {
		return doc, false
	}
	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]

	s, ok := doc.Get(e.ShapeID)
	if ok {
		// Pen strokes replace their sole snapshot, other kinds append.
		s = s.WithSnapshot(e.Snapshot)
	} else {
		s = shape.New(e.ShapeID, e.Snapshot)
		s.Label = e.Label
	}

	m.active = append(m.active, e.ShapeID)
	return doc.Put(s), true
}

// CanUndo reports whether Undo would change doc.
func (m *Manager) CanUndo(doc shape.Document) bool {
	if doc.Len() == 0 {
		return false
	}
	for _, id := range slices.Backward(m.active) {
		if doc.Has(id) {
			return true
		}
	}
	return false
}

// CanRedo reports whether the redo stack has an entry.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Active returns a copy of the active-shapes stack, oldest first.
func (m *Manager) Active() []string { return slices.Clone(m.active) }

// RedoEntries returns a copy of the redo stack, oldest first.
func (m *Manager) RedoEntries() []Entry { return slices.Clone(m.redo) }

// Reset empties both stacks.
func (m *Manager) Reset() {
	m.active = nil
	m.redo = nil
}
