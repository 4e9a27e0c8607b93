package lifecycle

import (
	"errors"
	"time"

	"fieldops-api/internal/cache"
	"fieldops-api/internal/models"

	"gorm.io/gorm"
)

// directory caches user-role lookups so every assignment guard does not hit
// the users table. Positive lookups only; roles never change in-scope, so a
// short TTL is plenty.
var directory = cache.NewSimpleCache[string, models.UserRole]()

const directoryTTL = 30 * time.Second

// ResetDirectory clears the role cache. Used by tests that rebuild the
// backing store between cases.
func ResetDirectory() {
	directory.Clear()
}

func (c *Controller) roleOf(userID string) (models.UserRole, error) {
	if userID == "" {
		return "", ErrNotFound
	}
	if role, ok := directory.Get(userID); ok {
		return role, nil
	}
	var user models.User
	if err := c.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	directory.Set(user.ID, user.Role, directoryTTL)
	return user.Role, nil
}

// requireTechnician validates that id references an existing user holding
// the technician role.
func (c *Controller) requireTechnician(id string) error {
	role, err := c.roleOf(id)
	if err != nil {
		return err
	}
	if role != models.RoleTechnician {
		return ErrNotFound
	}
	return nil
}

// requireAdmin validates that the acting user holds the admin role.
func (c *Controller) requireAdmin(id string) error {
	role, err := c.roleOf(id)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return &ValidationError{Field: "actorAdminId", Reason: "actor is not an admin"}
	}
	return nil
}
