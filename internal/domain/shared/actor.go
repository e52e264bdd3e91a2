package shared

import "github.com/google/uuid"

// Actor identifies the authenticated user performing an operation
type Actor struct {
	ID          uuid.UUID
	Username    string
	Permissions []string
}

// HasPermission returns true if the actor holds the given permission
func (a Actor) HasPermission(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// PermissionStockAdjust gates manual stock adjustments
const PermissionStockAdjust = "inventory:adjust"
