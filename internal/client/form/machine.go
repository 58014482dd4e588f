// Package form governs the create-vs-edit-vs-closed lifecycle of the
// editing surface and the draft it holds, including the pending attachment
// binding and the in-flight submit guard.
package form

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/recipedeck/internal/client/models"
	"github.com/dmitrijs2005/recipedeck/internal/common"
)

type State int

const (
	Closed State = iota
	OpenCreate
	OpenEdit
)

// defaultCookingTime seeds new drafts, matching the form's historical
// default of one hour.
const defaultCookingTime = 60

// RecordWriter is the slice of the collection controller the form needs.
type RecordWriter interface {
	Create(ctx context.Context, draft *models.Draft) error
	Update(ctx context.Context, id string, draft *models.Draft) error
}

// Machine holds at most one open draft at a time. A submit transitions to
// Closed only on success; failures keep the machine open with the draft
// preserved so no user input is silently lost.
type Machine struct {
	writer RecordWriter

	mu       sync.Mutex
	state    State
	recordID string
	draft    *models.Draft
	inFlight bool
}

func NewMachine(writer RecordWriter) *Machine {
	return &Machine{writer: writer}
}

// Snapshot is the form state exposed to the presentation layer. Draft is a
// copy; mutate through the setters.
type Snapshot struct {
	State    State
	RecordID string
	Draft    *models.Draft
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{State: m.state, RecordID: m.recordID}
	if m.draft != nil {
		d := *m.draft
		s.Draft = &d
	}
	return s
}

// OpenCreate opens the form with an empty draft. Any previously open draft
// is discarded.
func (m *Machine) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = OpenCreate
	m.recordID = ""
	m.draft = &models.Draft{CookingTime: defaultCookingTime}
	m.inFlight = false
}

// OpenEdit opens the form seeded from the record's fields. The attachment
// binding starts as unchanged: the prior image is remote state and is never
// re-populated into the draft as a local file.
func (m *Machine) OpenEdit(rec *models.Recipe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = OpenEdit
	m.recordID = rec.ID
	m.draft = models.DraftFromRecipe(rec)
	m.inFlight = false
}

func (m *Machine) edit(fn func(d *models.Draft)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Closed || m.draft == nil {
		return common.ErrFormClosed
	}
	fn(m.draft)
	return nil
}

func (m *Machine) SetTitle(v string) error { return m.edit(func(d *models.Draft) { d.Title = v }) }

func (m *Machine) SetDescription(v string) error {
	return m.edit(func(d *models.Draft) { d.Description = v })
}

func (m *Machine) SetInstructions(v string) error {
	return m.edit(func(d *models.Draft) { d.Instructions = v })
}

func (m *Machine) SetCookingTime(minutes int) error {
	return m.edit(func(d *models.Draft) { d.CookingTime = minutes })
}

// SelectFile binds a local file to the draft, replacing any previously
// pending handle. The file is not transmitted until the draft is submitted.
func (m *Machine) SelectFile(h *models.FileHandle) error {
	return m.edit(func(d *models.Draft) {
		d.PendingFile = h
		d.FileState = models.FileSelected
	})
}

// ClearFile drops any pending selection and marks the attachment as
// explicitly cleared, which on submit erases an existing remote image.
// This is distinct from never having chosen a file, which leaves an
// existing image untouched.
func (m *Machine) ClearFile() error {
	return m.edit(func(d *models.Draft) {
		d.PendingFile = nil
		d.FileState = models.FileCleared
	})
}

// Submit validates the draft and runs the create or update through the
// writer. While one submit is in flight for this draft, further submits are
// refused with common.ErrSubmitInFlight; unrelated operations are not
// blocked. The machine closes only on success.
func (m *Machine) Submit(ctx context.Context) error {
	m.mu.Lock()
	if m.state == Closed || m.draft == nil {
		m.mu.Unlock()
		return common.ErrFormClosed
	}
	if m.inFlight {
		m.mu.Unlock()
		return common.ErrSubmitInFlight
	}
	if err := m.draft.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	draft := m.draft
	state := m.state
	recordID := m.recordID
	m.inFlight = true
	m.mu.Unlock()

	var err error
	if state == OpenEdit {
		err = m.writer.Update(ctx, recordID, draft)
	} else {
		err = m.writer.Create(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.draft != draft {
		// The draft was cancelled or replaced while the write was in
		// flight; the flag belongs to the new draft now.
		return err
	}
	m.inFlight = false
	if err != nil {
		// Stay open, draft intact; the caller surfaces the message.
		return err
	}
	m.state = Closed
	m.recordID = ""
	m.draft = nil
	return nil
}

// Cancel discards the draft unconditionally and closes the form.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Closed
	m.recordID = ""
	m.draft = nil
}
