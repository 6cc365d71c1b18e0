package tempfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/orbitads/orbit/backend/internal/logger"
)

// Manager handles scratch files on local ephemeral storage
type Manager struct {
	baseDir     string
	logger      logger.Logger
	permissions os.FileMode
}

// Config represents the configuration for the workspace manager
type Config struct {
	BaseDir     string
	Permissions os.FileMode
}

// NewManager creates a new workspace manager
func NewManager(config *Config, logger logger.Logger) (*Manager, error) {
	if config.Permissions == 0 {
		config.Permissions = 0o755
	}
	if err := os.MkdirAll(config.BaseDir, config.Permissions); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	return &Manager{
		baseDir:     config.BaseDir,
		logger:      logger,
		permissions: config.Permissions,
	}, nil
}

// BaseDir returns the workspace directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Create returns a unique scratch path without creating the file.
// Uniqueness comes from the timestamp plus a random token, so concurrent
// jobs never collide on scratch paths.
func (m *Manager) Create(ext string) string {
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
	return filepath.Join(m.baseDir, name)
}

// Stage copies sourcePath into the workspace under a unique name
func (m *Manager) Stage(sourcePath string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file %s: %w", sourcePath, err)
	}
	defer src.Close()

	dstPath := m.Create(filepath.Ext(sourcePath))
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file %s: %w", dstPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to stage %s: %w", sourcePath, err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to stage %s: %w", sourcePath, err)
	}

	m.logger.LogDebug("Staged scratch file", map[string]interface{}{
		"source": sourcePath,
		"path":   dstPath,
	})

	return dstPath, nil
}

// Remove deletes a scratch file if present
func (m *Manager) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return m.logger.LogErrorf(err, "Failed to remove scratch file: path=%s", path)
	}
	return nil
}

// Sweep removes workspace files older than maxAge by modification time.
// Eligibility is purely mtime-based, so files owned by in-flight jobs are
// left alone as long as maxAge exceeds any realistic single-file job.
func (m *Manager) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read workspace directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.baseDir, entry.Name())
		if err := os.Remove(path); err != nil {
			m.logger.LogErrorf(err, "Failed to sweep stale file: path=%s", path)
			continue
		}
		removed++
	}

	if removed > 0 {
		m.logger.LogInfo("Swept stale workspace files", map[string]interface{}{
			"removed": removed,
			"maxAge":  maxAge.String(),
		})
	}

	return removed, nil
}

// StartSweeper runs Sweep on a fixed interval until ctx is done
func (m *Manager) StartSweeper(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.Sweep(maxAge); err != nil {
					m.logger.LogError(err, "Workspace sweep failed")
				}
			}
		}
	}()
}
