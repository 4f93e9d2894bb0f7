// Package localdir manages the writable output root export artifacts are
// saved under. One root serves every entry of a run; the chosen path is
// persisted so later runs (and retries) reuse it without re-prompting.
package localdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelderman/listforge/internal/service"
)

// settingKey is where the chosen root path is persisted.
const settingKey = "export.output_root"

// Root is a verified writable directory.
type Root struct {
	path string
}

// Open verifies that path exists (creating it if needed) and is writable,
// and returns it as an output root.
func Open(path string) (*Root, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("output root path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}

	// Probe writability up front so a bad root fails the run before any
	// artifact is fetched.
	probe, err := os.CreateTemp(abs, ".listforge-probe-*")
	if err != nil {
		return nil, fmt.Errorf("output root is not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return &Root{path: abs}, nil
}

// Load restores the persisted root, if any. Returns nil without error when
// no root has been chosen yet or the persisted path no longer works.
func Load(ctx context.Context, store service.Storage) (*Root, error) {
	path, err := store.GetSetting(ctx, settingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load output root setting: %w", err)
	}
	if path == "" {
		return nil, nil
	}

	root, err := Open(path)
	if err != nil {
		// A stale path (moved disk, deleted folder) means re-prompting,
		// not failing.
		return nil, nil //nolint:nilerr // stale root falls back to prompting
	}
	return root, nil
}

// Persist saves the root's path for future runs.
func (r *Root) Persist(ctx context.Context, store service.Storage) error {
	if err := store.SetSetting(ctx, settingKey, r.path); err != nil {
		return fmt.Errorf("failed to persist output root: %w", err)
	}
	return nil
}

// Path returns the root's absolute path.
func (r *Root) Path() string {
	return r.path
}

// EnsureDir creates folder (which may be nested) under the root and
// returns its absolute path. Folder templates use forward slashes; they
// are normalized for the host platform here.
func (r *Root) EnsureDir(folder string) (string, error) {
	dir := filepath.Join(r.path, filepath.FromSlash(folder))
	// A bare prefix compare would accept siblings like "out-evil" next to
	// an "out" root, so the root must be matched as a whole path element.
	if dir != r.path && !strings.HasPrefix(dir, r.path+string(os.PathSeparator)) {
		return "", fmt.Errorf("folder %q escapes the output root", folder)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", folder, err)
	}
	return dir, nil
}

// WriteFile atomically writes data under folder/filename, replacing any
// existing file, and returns the absolute path written. The write goes to
// a temp file in the same directory first so a crash never leaves a
// half-written artifact at the final name.
func (r *Root) WriteFile(folder, filename string, data []byte) (string, error) {
	dir, err := r.EnsureDir(folder)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, filename+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}

	final := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to replace %q: %w", filename, err)
	}

	return final, nil
}
