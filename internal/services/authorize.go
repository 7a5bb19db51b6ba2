package services

import (
	"github.com/localnerve/shoutbase/internal/types"
)

// AuthorizeOwner is the single ownership decision applied by every mutating
// space/review operation: the verified context user must be the entity owner.
func AuthorizeOwner(entityOwnerID, contextUserID uint64) error {
	if entityOwnerID != contextUserID {
		return types.NewForbiddenError("You are not authorized to modify this resource")
	}
	return nil
}
