// Package domain contains the entities of the sighting registry and the
// invariants they enforce. It has no dependencies on the storage or transport
// layers; repo, service and handler all import it.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Auditable is embedded by every entity.
// CreatedAt is stamped once at insertion, LastModifiedAt on every later write.
// A deleted entity is never physically removed; read paths skip it.
type Auditable struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	LastModifiedAt *time.Time
	IsDeleted      bool
}

func newAuditable() Auditable {
	return Auditable{ID: uuid.New()}
}

// MarkDeleted flags the entity as soft-deleted. The repo stamps
// LastModifiedAt when the change is written.
func (a *Auditable) MarkDeleted() {
	a.IsDeleted = true
}
