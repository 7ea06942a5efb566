// Package service holds the business logic of the sighting registry. Every
// operation is a handler registered with the dispatcher against one request
// type; writes run inside a single repo.Tx.
package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// missing rewrites a not-found error from a lookup so callers see which
// entity was absent. Any other error passes through unchanged.
func missing(err error, entity string, id uuid.UUID) error {
	return notFoundAs(err, fmt.Sprintf("%s %s does not exist", entity, id))
}

func notFoundAs(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	}
	return err
}

// nonNil returns an empty slice for nil so callers can encode it as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
