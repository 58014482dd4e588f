// Package api defines the contract with the remote record backend and its
// HTTP implementation. Every component takes a Client as an explicitly
// constructed dependency; there is no package-level singleton.
package api

import (
	"context"

	"github.com/dmitrijs2005/recipedeck/internal/client/models"
)

// Client is the remote collaborator: authentication, identity, record CRUD
// and a liveness probe. All methods honor context cancellation/timeouts.
//
// The attachment rules follow the draft's file state:
//   - CreateRecord sends the file when one is given, nothing otherwise.
//   - UpdateRecord with models.FileUnchanged omits the attachment field
//     entirely so an existing remote image is left untouched;
//     models.FileCleared sends an explicit removal; models.FileSelected
//     sends the new file.
type Client interface {
	Close() error

	Authenticate(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password, name string) error
	// CurrentIdentity returns (nil, nil) when the backend reports no active
	// session; a non-nil error means the query itself failed.
	CurrentIdentity(ctx context.Context) (*models.UserIdentity, error)
	InvalidateSession(ctx context.Context) error

	ListRecords(ctx context.Context) ([]models.Recipe, error)
	CreateRecord(ctx context.Context, fields models.RecipeFields, file *models.FileHandle) (*models.Recipe, error)
	UpdateRecord(ctx context.Context, id string, fields models.RecipeFields, fileState models.FileState, file *models.FileHandle) (*models.Recipe, error)
	DeleteRecord(ctx context.Context, id string) error

	HealthCheck(ctx context.Context) error

	// SetToken installs a bearer token (restored or freshly issued);
	// an empty token clears it.
	SetToken(token string)
	Token() string
}
