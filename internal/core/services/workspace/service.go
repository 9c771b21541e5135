package workspace

import "gitlab.com/docforge.net/internal/domain"

// IWorkspaceManager hands out isolated per-job directories
type IWorkspaceManager interface {
	// Acquire creates a fresh, uniquely named directory under the base root
	Acquire() (*domain.Workspace, error)

	// Release removes the directory; failures are logged, never returned
	Release(ws *domain.Workspace)
}
