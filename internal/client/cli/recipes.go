package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/recipedeck/internal/client/form"
	"github.com/dmitrijs2005/recipedeck/internal/client/models"
	"github.com/dmitrijs2005/recipedeck/internal/common"
	"github.com/dmitrijs2005/recipedeck/internal/filex"
)

func (a *App) list(ctx context.Context) {
	if err := a.requireLogin(); err != nil {
		a.printf("%v: please login first\n", err)
		return
	}
	if err := a.collection.Refresh(ctx); err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	renderRecipes(a.out, a.collection.Snapshot())
}

// renderRecipes prints the collection newest-first with 1-based indexes
// that the edit/delete commands accept.
func renderRecipes(w io.Writer, records []models.Recipe) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No recipes yet. Get started with 'new'.")
		return
	}
	for i, r := range records {
		marker := " "
		if r.Attachment != nil {
			marker = "*"
		}
		fmt.Fprintf(w, "%3d. %s %s (%d min, by %s)\n", i+1, marker, r.Title, r.CookingTime, r.AuthorName)
		if r.Description != "" {
			fmt.Fprintf(w, "      %s\n", r.Description)
		}
	}
}

// recordAt resolves a 1-based index from the current snapshot.
func (a *App) recordAt(args []string) (*models.Recipe, error) {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		raw, err = GetSimpleText(a.reader, "Enter recipe number", a.out)
		if err != nil {
			return nil, err
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("not a number: %s", raw)
	}
	records := a.collection.Snapshot()
	if n < 1 || n > len(records) {
		return nil, common.ErrNotFound
	}
	rec := records[n-1]
	return &rec, nil
}

// ownRecord reports whether the record belongs to the current user. This is
// a display convenience only; the backend enforces authorization on its own.
func (a *App) ownRecord(rec *models.Recipe) bool {
	s := a.session.Snapshot()
	return s.User != nil && s.User.ID == rec.AuthorID
}

func (a *App) newRecipe(ctx context.Context) {
	if err := a.requireLogin(); err != nil {
		a.printf("%v: please login first\n", err)
		return
	}
	a.form.OpenCreate()
	if err := a.promptDraftFields(); err != nil {
		a.printf("error: %v\n", err)
		a.form.Cancel()
		return
	}
	a.submit(ctx)
}

func (a *App) editRecipe(ctx context.Context, args []string) {
	if err := a.requireLogin(); err != nil {
		a.printf("%v: please login first\n", err)
		return
	}
	rec, err := a.recordAt(args)
	if err != nil {
		a.printf("error: %v\n", err)
		return
	}
	if !a.ownRecord(rec) {
		a.printf("You can only edit your own recipes\n")
		return
	}
	a.form.OpenEdit(rec)
	if err := a.promptDraftFields(); err != nil {
		a.printf("error: %v\n", err)
		a.form.Cancel()
		return
	}
	a.submit(ctx)
}

// promptDraftFields walks the user through the draft fields. An empty
// answer keeps the current value, so editing only what changed is cheap.
func (a *App) promptDraftFields() error {
	s := a.form.Snapshot()
	if s.State == form.Closed {
		return common.ErrFormClosed
	}
	d := s.Draft

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", d.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		if err := a.form.SetTitle(title); err != nil {
			return err
		}
	}

	description, err := GetSimpleText(a.reader, fmt.Sprintf("Description [%s]", d.Description), a.out)
	if err != nil {
		return err
	}
	if description != "" {
		if err := a.form.SetDescription(description); err != nil {
			return err
		}
	}

	instructions, err := GetMultiline(a.reader, "Instructions (empty to keep current)", a.out)
	if err != nil {
		return err
	}
	if instructions != "" {
		if err := a.form.SetInstructions(instructions); err != nil {
			return err
		}
	}

	cookingTime, err := GetSimpleText(a.reader, fmt.Sprintf("Cooking time in minutes [%d]", d.CookingTime), a.out)
	if err != nil {
		return err
	}
	if cookingTime != "" {
		minutes, err := strconv.Atoi(cookingTime)
		if err != nil {
			return fmt.Errorf("not a number: %s", cookingTime)
		}
		if err := a.form.SetCookingTime(minutes); err != nil {
			return err
		}
	}

	return a.promptImage()
}

// promptImage handles the three attachment answers: keep as is, remove the
// existing image, or pick a new file.
func (a *App) promptImage() error {
	answer, err := GetSimpleText(a.reader, "Image path (Enter=keep current, '-'=remove)", a.out)
	if err != nil {
		return err
	}
	switch answer {
	case "":
		return nil
	case "-":
		return a.form.ClearFile()
	default:
		name, contentType, data, err := filex.Read(answer)
		if err != nil {
			return err
		}
		return a.form.SelectFile(&models.FileHandle{Name: name, ContentType: contentType, Data: data})
	}
}

func (a *App) submit(ctx context.Context) {
	err := a.form.Submit(ctx)
	switch {
	case err == nil:
		a.printf("Saved\n")
		renderRecipes(a.out, a.collection.Snapshot())
	case errors.Is(err, common.ErrFormClosed):
		a.printf("Nothing to submit\n")
	case errors.Is(err, common.ErrSubmitInFlight):
		a.printf("A save is already in progress\n")
	default:
		a.printf("Save failed: %v\n", err)
		a.printf("Your draft is kept: 'submit' to retry, 'cancel' to discard\n")
	}
}

func (a *App) cancel() {
	a.form.Cancel()
	a.printf("Draft discarded\n")
}

func (a *App) deleteRecipe(ctx context.Context, args []string) {
	if err := a.requireLogin(); err != nil {
		a.printf("%v: please login first\n", err)
		return
	}
	rec, err := a.recordAt(args)
	if err != nil {
		a.printf("error: %v\n", err)
		return
	}
	if !a.ownRecord(rec) {
		a.printf("You can only delete your own recipes\n")
		return
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %q? This cannot be undone", rec.Title), a.out)
	if err != nil {
		a.printf("error: %v\n", err)
		return
	}
	if !ok {
		a.printf("Kept\n")
		return
	}

	if err := a.collection.Delete(ctx, rec.ID); err != nil {
		a.printf("Delete failed: %v\n", err)
		return
	}
	a.printf("Deleted\n")
}
