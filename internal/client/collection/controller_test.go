package collection

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dmitrijs2005/recipedeck/internal/client/api"
	"github.com/dmitrijs2005/recipedeck/internal/client/models"
	"github.com/dmitrijs2005/recipedeck/internal/common"
	"github.com/dmitrijs2005/recipedeck/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	api.Client

	mu      sync.Mutex
	listFns []func() ([]models.Recipe, error)

	createFn func(fields models.RecipeFields, file *models.FileHandle) (*models.Recipe, error)
	updateFn func(id string, fields models.RecipeFields, fileState models.FileState, file *models.FileHandle) (*models.Recipe, error)
	deleteFn func(id string) error
}

// ListRecords pops the next queued behavior, so tests can script successive
// listings (e.g. the refresh that follows a write).
func (f *fakeClient) ListRecords(ctx context.Context) ([]models.Recipe, error) {
	f.mu.Lock()
	fn := f.listFns[0]
	if len(f.listFns) > 1 {
		f.listFns = f.listFns[1:]
	}
	f.mu.Unlock()
	return fn()
}

func (f *fakeClient) CreateRecord(ctx context.Context, fields models.RecipeFields, file *models.FileHandle) (*models.Recipe, error) {
	return f.createFn(fields, file)
}

func (f *fakeClient) UpdateRecord(ctx context.Context, id string, fields models.RecipeFields, fileState models.FileState, file *models.FileHandle) (*models.Recipe, error) {
	return f.updateFn(id, fields, fileState, file)
}

func (f *fakeClient) DeleteRecord(ctx context.Context, id string) error {
	return f.deleteFn(id)
}

func listOf(records ...models.Recipe) func() ([]models.Recipe, error) {
	return func() ([]models.Recipe, error) { return records, nil }
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRefresh_ReplacesCollection(t *testing.T) {
	client := &fakeClient{listFns: []func() ([]models.Recipe, error){
		listOf(models.Recipe{ID: "r2", Title: "Pie"}, models.Recipe{ID: "r1", Title: "Soup"}),
	}}
	c := NewController(client, testLogger())

	require.NoError(t, c.Refresh(context.Background()))
	got := c.Snapshot()
	require.Len(t, got, 2)
	require.Equal(t, "r2", got[0].ID)
}

func TestRefresh_FailureLeavesCollectionUntouched(t *testing.T) {
	client := &fakeClient{listFns: []func() ([]models.Recipe, error){
		listOf(models.Recipe{ID: "r1"}),
		func() ([]models.Recipe, error) { return nil, &api.Error{Kind: api.ErrRead} },
	}}
	c := NewController(client, testLogger())
	require.NoError(t, c.Refresh(context.Background()))

	err := c.Refresh(context.Background())
	require.ErrorIs(t, err, api.ErrRead)
	require.Len(t, c.Snapshot(), 1, "failed refresh must not clear the cache")
}

// Two overlapping refreshes: the first-initiated resolves after the
// second-initiated. The final collection must match the second's data.
func TestRefresh_LastInitiatedWins(t *testing.T) {
	firstEntered := make(chan struct{})
	firstGate := make(chan struct{})

	client := &fakeClient{listFns: []func() ([]models.Recipe, error){
		func() ([]models.Recipe, error) {
			close(firstEntered)
			<-firstGate // stall the first listing until the second applied
			return []models.Recipe{{ID: "stale"}}, nil
		},
		func() ([]models.Recipe, error) {
			return []models.Recipe{{ID: "fresh"}}, nil
		},
	}}
	c := NewController(client, testLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.NoError(t, c.Refresh(context.Background()))
	}()

	<-firstEntered // first refresh is in flight with the older sequence
	require.NoError(t, c.Refresh(context.Background()))

	close(firstGate)
	wg.Wait()

	got := c.Snapshot()
	require.Len(t, got, 1)
	require.Equal(t, "fresh", got[0].ID, "stale in-flight response must be discarded")
}

func TestCreate_RefreshesWithAuthoritativeRecord(t *testing.T) {
	created := models.Recipe{ID: "server-id", Title: "Soup", CookingTime: 20, AuthorID: "u1"}
	client := &fakeClient{
		createFn: func(fields models.RecipeFields, file *models.FileHandle) (*models.Recipe, error) {
			require.Equal(t, "Soup", fields.Title)
			require.Nil(t, file)
			return &created, nil
		},
		listFns: []func() ([]models.Recipe, error){listOf(created)},
	}
	c := NewController(client, testLogger())

	draft := &models.Draft{Title: "Soup", CookingTime: 20}
	require.NoError(t, c.Create(context.Background(), draft))

	got := c.Snapshot()
	require.Len(t, got, 1)
	require.Equal(t, "server-id", got[0].ID)
	require.Equal(t, "u1", got[0].AuthorID)
}

func TestCreate_FailureLeavesCollectionAndDraftIntact(t *testing.T) {
	client := &fakeClient{
		createFn: func(fields models.RecipeFields, file *models.FileHandle) (*models.Recipe, error) {
			return nil, &api.Error{Kind: api.ErrWrite, Message: "validation rejected"}
		},
		listFns: []func() ([]models.Recipe, error){listOf()},
	}
	c := NewController(client, testLogger())

	draft := &models.Draft{
		Title:       "Soup",
		CookingTime: 20,
		FileState:   models.FileSelected,
		PendingFile: &models.FileHandle{Name: "x.jpg", Data: []byte("img")},
	}
	err := c.Create(context.Background(), draft)
	require.ErrorIs(t, err, api.ErrWrite)
	require.Empty(t, c.Snapshot())
	require.Equal(t, "Soup", draft.Title)
	require.NotNil(t, draft.PendingFile, "pending file must survive a failed submit")
}

// A listing failure after the backend confirmed the write must not be
// reported as a write failure: the caller would keep the draft open and a
// retry would create a duplicate record.
func TestCreate_RefreshFailureDoesNotFailTheWrite(t *testing.T) {
	created := models.Recipe{ID: "server-id", Title: "Soup", CookingTime: 20}
	creates := 0
	client := &fakeClient{
		createFn: func(fields models.RecipeFields, file *models.FileHandle) (*models.Recipe, error) {
			creates++
			return &created, nil
		},
		listFns: []func() ([]models.Recipe, error){
			func() ([]models.Recipe, error) { return nil, &api.Error{Kind: api.ErrRead, Message: "transient listing failure"} },
			listOf(created),
		},
	}
	c := NewController(client, testLogger())

	draft := &models.Draft{Title: "Soup", CookingTime: 20}
	require.NoError(t, c.Create(context.Background(), draft), "confirmed write must count as success")
	require.Equal(t, 1, creates)
	require.Empty(t, c.Snapshot(), "failed reconciliation leaves the cache as it was")

	// The next listing catches the collection up.
	require.NoError(t, c.Refresh(context.Background()))
	got := c.Snapshot()
	require.Len(t, got, 1)
	require.Equal(t, "server-id", got[0].ID)
}

func TestDelete_RefreshFailureDoesNotFailTheDelete(t *testing.T) {
	client := &fakeClient{
		deleteFn: func(id string) error { return nil },
		listFns: []func() ([]models.Recipe, error){
			listOf(models.Recipe{ID: "r1"}),
			func() ([]models.Recipe, error) { return nil, &api.Error{Kind: api.ErrRead} },
		},
	}
	c := NewController(client, testLogger())
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.Delete(context.Background(), "r1"), "confirmed delete must count as success")
}

func TestUpdate_ForwardsFileState(t *testing.T) {
	var gotState models.FileState
	updated := models.Recipe{ID: "r1", Title: "Soup v2", CookingTime: 25,
		Attachment: &models.AttachmentRef{ThumbnailURL: "http://img/old.jpg"}}
	client := &fakeClient{
		updateFn: func(id string, fields models.RecipeFields, fileState models.FileState, file *models.FileHandle) (*models.Recipe, error) {
			gotState = fileState
			require.Equal(t, "r1", id)
			require.Nil(t, file)
			return &updated, nil
		},
		listFns: []func() ([]models.Recipe, error){listOf(updated)},
	}
	c := NewController(client, testLogger())

	draft := &models.Draft{Title: "Soup v2", CookingTime: 25, BasedOnID: "r1"}
	require.NoError(t, c.Update(context.Background(), "r1", draft))

	require.Equal(t, models.FileUnchanged, gotState)
	got := c.Snapshot()
	require.NotNil(t, got[0].Attachment, "existing attachment preserved after refresh")
	require.Equal(t, "http://img/old.jpg", got[0].Attachment.ThumbnailURL)
}

func TestDelete_RemovesRecordViaRefresh(t *testing.T) {
	client := &fakeClient{
		deleteFn: func(id string) error {
			require.Equal(t, "r1", id)
			return nil
		},
		listFns: []func() ([]models.Recipe, error){listOf()},
	}
	c := NewController(client, testLogger())

	require.NoError(t, c.Delete(context.Background(), "r1"))
	require.Empty(t, c.Snapshot())
}

func TestDelete_FailureLeavesCollectionUntouched(t *testing.T) {
	client := &fakeClient{
		listFns: []func() ([]models.Recipe, error){listOf(models.Recipe{ID: "r1"})},
		deleteFn: func(id string) error {
			return &api.Error{Kind: api.ErrWrite, Message: "authorization denied"}
		},
	}
	c := NewController(client, testLogger())
	require.NoError(t, c.Refresh(context.Background()))

	err := c.Delete(context.Background(), "r1")
	require.ErrorIs(t, err, api.ErrWrite)
	require.Len(t, c.Snapshot(), 1)
}

func TestFind(t *testing.T) {
	client := &fakeClient{listFns: []func() ([]models.Recipe, error){
		listOf(models.Recipe{ID: "r1", Title: "Soup"}),
	}}
	c := NewController(client, testLogger())
	require.NoError(t, c.Refresh(context.Background()))

	rec, err := c.Find("r1")
	require.NoError(t, err)
	require.Equal(t, "Soup", rec.Title)

	_, err = c.Find("missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}
