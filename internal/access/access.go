// Package access decides which projects a caller may see or act on.
package access

import (
	"context"
	"errors"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

// ProjectGetter resolves a live project with its developer list loaded.
type ProjectGetter interface {
	Get(ctx context.Context, id uint) (*models.Project, error)
}

// CanAccessProject reports whether the user may access the project. Admins
// always may; managers only their own projects; developers only projects they
// are a member of. A missing project or an unknown role denies.
func CanAccessProject(ctx context.Context, projects ProjectGetter, projectID, userID uint, role types.Role) (bool, error) {
	if role == types.RoleAdmin {
		return true, nil
	}

	project, err := projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	switch role {
	case types.RoleManager:
		return project.ManagerID == userID, nil
	case types.RoleDeveloper:
		for _, dev := range project.Developers {
			if dev.ID == userID {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, nil
	}
}
