package service

import (
	"github.com/cliptube/cliptube/internal/domain"
)

// assertOwner is the ownership guard applied before every mutation of an
// owned resource. Callers must confirm existence first so that not-found is
// reported before forbidden: 400 invalid-id, then 404, then 403, then the
// mutation. The owner reference always comes from the stored record, never
// from the request.
func assertOwner(resourceOwnerID, callerID string) error {
	if resourceOwnerID != callerID {
		return domain.ErrForbidden
	}
	return nil
}
