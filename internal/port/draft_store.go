package port

import (
	"context"

	"github.com/google/uuid"

	"facturas/internal/draft"
)

// DraftStore keeps editing sessions between requests. Update runs fn while
// holding the session exclusively; fn's changes are saved only if it
// returns nil.
type DraftStore interface {
	Create(ctx context.Context, s *draft.Session) error
	Get(ctx context.Context, id uuid.UUID) (*draft.Session, error)
	Update(ctx context.Context, id uuid.UUID, fn func(s *draft.Session) error) (*draft.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
