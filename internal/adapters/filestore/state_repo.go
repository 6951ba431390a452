// Package filestore persists dashboard state as one JSON file per session.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/core/state"
)

const fileSuffix = "." + state.RecordName + ".json"

// StateRepository implements ports.StateRepository on a directory.
// Session ids must already be validated as safe file name components.
type StateRepository struct {
	dir string
}

// NewStateRepository creates dir if needed.
func NewStateRepository(dir string) (*StateRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	return &StateRepository{dir: dir}, nil
}

// Path returns the file backing session.
func (r *StateRepository) Path(session string) string {
	return filepath.Join(r.dir, session+fileSuffix)
}

func (r *StateRepository) Load(_ context.Context, session string) (state.PersistedState, error) {
	raw, err := os.ReadFile(r.Path(session))
	if errors.Is(err, fs.ErrNotExist) {
		return state.PersistedState{}, ports.ErrNotFound
	}
	if err != nil {
		return state.PersistedState{}, fmt.Errorf("read state %s: %w", session, err)
	}
	return state.DecodePersisted(raw)
}

// Save writes to a temp file in the same directory and renames it over the
// previous record, so readers never see a partial file.
func (r *StateRepository) Save(_ context.Context, session string, p state.PersistedState) error {
	raw, err := p.Encode()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, session+".*.tmp")
	if err != nil {
		return fmt.Errorf("write state %s: %w", session, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write state %s: %w", session, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state %s: %w", session, err)
	}
	if err := os.Rename(tmp.Name(), r.Path(session)); err != nil {
		return fmt.Errorf("write state %s: %w", session, err)
	}
	return nil
}

func (r *StateRepository) Delete(_ context.Context, session string) error {
	err := os.Remove(r.Path(session))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete state %s: %w", session, err)
	}
	return nil
}

// Ping checks that the directory is still there.
func (r *StateRepository) Ping(context.Context) error {
	fi, err := os.Stat(r.dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", r.dir)
	}
	return nil
}
