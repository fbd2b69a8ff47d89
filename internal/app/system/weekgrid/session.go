package weekgrid

// EditSession tracks which cell, if any, is being edited inline. There is no
// draft buffer: text commits straight into the model as it arrives, so the
// only state is the active index plus the text the cell held when editing
// began (kept so Cancel can put it back).
//
// A session belongs to one Model and, like the model, is not safe for
// concurrent use.
type EditSession struct {
	m        *Model
	active   int
	editing  bool
	original string
}

// SessionState is what a renderer needs to draw the grid in edit mode.
type SessionState struct {
	Editing bool
	Index   int
}

// NewEditSession opens a session in the Viewing state over m.
func NewEditSession(m *Model) *EditSession {
	return &EditSession{m: m}
}

// Model returns the grid the session edits.
func (s *EditSession) Model() *Model { return s.m }

// Active returns the index being edited and whether any is.
func (s *EditSession) Active() (int, bool) {
	return s.active, s.editing
}

// State returns a copy of the session state for rendering.
func (s *EditSession) State() SessionState {
	return SessionState{Editing: s.editing, Index: s.active}
}

// Select moves the session to Editing(index). Selecting while another cell is
// being edited switches directly to the new cell; the previous cell keeps
// whatever text was committed into it.
func (s *EditSession) Select(index int) error {
	text, err := s.m.CellText(index)
	if err != nil {
		return err
	}
	if s.editing && s.active == index {
		return nil
	}
	s.active = index
	s.editing = true
	s.original = text
	return nil
}

// Commit writes text into the cell at index. Committing to a cell other than
// the active one selects it first.
func (s *EditSession) Commit(index int, text string) error {
	if !s.editing || s.active != index {
		if err := s.Select(index); err != nil {
			return err
		}
	}
	return s.m.SetCellText(index, text)
}

// Blur returns the session to Viewing. The committed text stays in the model.
func (s *EditSession) Blur() {
	s.editing = false
	s.active = 0
	s.original = ""
}

// Cancel restores the text the active cell held when it was selected and
// returns to Viewing. It is a no-op while Viewing.
func (s *EditSession) Cancel() {
	if !s.editing {
		return
	}
	// A reflow since Select can leave the index out of range; nothing to restore then.
	_ = s.m.SetCellText(s.active, s.original)
	s.Blur()
}

// Rebind attaches the session to a different model and resets it to Viewing.
func (s *EditSession) Rebind(m *Model) {
	s.m = m
	s.Blur()
}
