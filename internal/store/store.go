// Package store defines the remote record collaborator: a hosted database
// that owns persistence for application records. The tracker talks to this
// interface only, so tests run against an in-memory fake.
package store

import (
	"context"

	"github.com/CesarValbuena2725/JobTrackr/internal/models"
)

type ApplicationRepository interface {
	// ListByOwner returns every record owned by ownerID, most recently
	// applied first. No records is an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Application, error)

	// Insert persists a new record and returns it with its assigned id.
	Insert(ctx context.Context, app models.Application) (*models.Application, error)

	// Update overwrites the payload fields of the record matched by id. The
	// owner is not re-stamped.
	Update(ctx context.Context, id string, d models.Draft) (*models.Application, error)

	// Delete removes the record; deleting an id that does not exist is an
	// error surfaced to the caller.
	Delete(ctx context.Context, id string) error
}
