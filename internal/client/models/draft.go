package models

import "github.com/go-playground/validator/v10"

// FileState describes what should happen to a record's attachment when the
// enclosing draft is submitted.
type FileState int

const (
	// FileUnchanged: no file chosen; an existing remote attachment, if any,
	// must be left untouched by the write.
	FileUnchanged FileState = iota
	// FileSelected: a local file is pending and travels with the write.
	FileSelected
	// FileCleared: the user explicitly removed the attachment; the write
	// must erase any existing remote attachment.
	FileCleared
)

// Draft is the in-progress, not-yet-persisted edit buffer for a recipe.
// BasedOnID set means edit mode; empty means create mode.
type Draft struct {
	Title        string `validate:"required"`
	Description  string
	Instructions string
	CookingTime  int `validate:"required,gt=0"`

	FileState   FileState
	PendingFile *FileHandle

	BasedOnID string
}

var draftValidate = validator.New()

// Validate checks the draft against its field constraints: a title is
// required and the cooking time must be a positive number of minutes.
func (d *Draft) Validate() error {
	return draftValidate.Struct(d)
}

// Fields returns the write payload for this draft.
func (d *Draft) Fields() RecipeFields {
	return RecipeFields{
		Title:        d.Title,
		Description:  d.Description,
		Instructions: d.Instructions,
		CookingTime:  d.CookingTime,
	}
}

// DraftFromRecipe seeds an edit draft from a persisted record. The file
// state starts as FileUnchanged: the prior image is remote state, not a
// local file handle, so it is never re-populated into the draft.
func DraftFromRecipe(r *Recipe) *Draft {
	return &Draft{
		Title:        r.Title,
		Description:  r.Description,
		Instructions: r.Instructions,
		CookingTime:  r.CookingTime,
		FileState:    FileUnchanged,
		BasedOnID:    r.ID,
	}
}
