package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

var _ IWorkspaceManager = (*Manager)(nil)

// GaugeObserver tracks how many workspaces are alive
type GaugeObserver interface {
	AddActiveWorkspaces(delta float64)
}

// Manager creates and removes job workspaces under a shared base root
type Manager struct {
	baseDir  string
	prefix   string
	logger   primary.Logger
	observer GaugeObserver

	mu   sync.Mutex
	live map[string]bool
}

func NewManager(baseDir, prefix string, logger primary.Logger) *Manager {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "docforge")
	}
	if prefix == "" {
		prefix = "docforge-"
	}
	return &Manager{
		baseDir: baseDir,
		prefix:  prefix,
		logger:  logger,
		live:    make(map[string]bool),
	}
}

// SetObserver attaches a metrics observer
func (m *Manager) SetObserver(o GaugeObserver) {
	m.observer = o
}

// BaseDir returns the shared root all workspaces live under
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Prefix returns the directory name prefix of every workspace
func (m *Manager) Prefix() string {
	return m.prefix
}

// Acquire creates a workspace named prefix + 32 random hex characters.
// os.Mkdir fails on an existing name, so a collision is an error and never a reuse.
func (m *Manager) Acquire() (*domain.Workspace, error) {
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		m.logger.Error("Failed to create workspace root", "dir", m.baseDir, "error", err)
		return nil, fmt.Errorf("%w: failed to create workspace root: %w", errs.ErrWorkspace, err)
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	dir := filepath.Join(m.baseDir, m.prefix+suffix)
	if err := os.Mkdir(dir, 0o700); err != nil {
		m.logger.Error("Failed to create workspace", "dir", dir, "error", err)
		return nil, fmt.Errorf("%w: failed to create workspace directory: %w", errs.ErrWorkspace, err)
	}

	m.mu.Lock()
	m.live[dir] = true
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.AddActiveWorkspaces(1)
	}
	m.logger.Debug("Created workspace", "dir", dir)
	return &domain.Workspace{Path: dir, CreatedAt: time.Now()}, nil
}

// Release removes the workspace. Only workspaces handed out by this manager and not yet
// released are removed; anything else is a no-op.
func (m *Manager) Release(ws *domain.Workspace) {
	if ws == nil || ws.Path == "" {
		return
	}

	m.mu.Lock()
	if !m.live[ws.Path] {
		m.mu.Unlock()
		return
	}
	delete(m.live, ws.Path)
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.AddActiveWorkspaces(-1)
	}

	if err := os.RemoveAll(ws.Path); err != nil {
		m.logger.Warn("Failed to clean up workspace", "dir", ws.Path, "error", err)
		return
	}
	m.logger.Debug("Cleaned up workspace", "dir", ws.Path)
}

// Sweep removes workspace directories under the base root last modified before cutoff that
// this manager is not currently holding. They are left behind by crashed processes.
func (m *Manager) Sweep(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: failed to list workspace root: %w", errs.ErrWorkspace, err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), m.prefix) {
			continue
		}
		dir := filepath.Join(m.baseDir, entry.Name())

		m.mu.Lock()
		held := m.live[dir]
		m.mu.Unlock()
		if held {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("Failed to sweep workspace", "dir", dir, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
