// Package persistence saves and loads world and player state as JSON
// files under a per-world data directory, writing atomically (temp
// file + rename) and guarding every file with an xxhash64 checksum
// sidecar so silent disk corruption surfaces as a load error instead
// of a corrupted world.
package persistence

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/jmdejong/dezl/world"
)

// LoaderError categorizes why a load failed: MissingResource means the
// file simply doesn't exist yet (a new world or new player), while
// InvalidResource means it exists but couldn't be read back (bad JSON,
// checksum mismatch).
type LoaderError struct {
	Missing bool
	Err     error
}

func (e *LoaderError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing resource: %v", e.Err)
	}
	return fmt.Sprintf("invalid resource: %v", e.Err)
}

func (e *LoaderError) Unwrap() error { return e.Err }

func missingResource(err error) error { return &LoaderError{Missing: true, Err: err} }
func invalidResource(err error) error { return &LoaderError{Missing: false, Err: err} }

// ErrNoDataHome is returned when neither XDG_DATA_HOME nor HOME is set,
// so no default save directory could be resolved.
var ErrNoDataHome = errors.New("could not determine a data directory: neither XDG_DATA_HOME nor HOME is set")

// Storage is the interface the game server uses to load and save world
// and player state, so an alternative backend can be substituted in
// tests.
type Storage interface {
	LoadWorld() (world.Save, error)
	LoadPlayer(id world.PlayerID) (world.PlayerSave, error)
	SaveWorld(state world.Save) error
	SavePlayer(id world.PlayerID, state world.PlayerSave) error
}

// FileStorage persists world state as JSON files under directory.
type FileStorage struct {
	directory string
}

// DefaultSaveDir resolves the save directory for worldName following
// the XDG base directory convention, falling back to ~/.dezl/saves.
func DefaultSaveDir(worldName string) (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "dezl", "saves", worldName), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".dezl", "saves", worldName), nil
	}
	return "", ErrNoDataHome
}

// NewFileStorage resolves the default save directory for worldName.
func NewFileStorage(worldName string) (*FileStorage, error) {
	dir, err := DefaultSaveDir(worldName)
	if err != nil {
		return nil, err
	}
	return &FileStorage{directory: dir}, nil
}

// NewFileStorageAt builds a FileStorage rooted at an explicit
// directory, bypassing XDG resolution (used by tests and the
// --data-dir CLI override).
func NewFileStorageAt(directory string) *FileStorage {
	return &FileStorage{directory: directory}
}

func (s *FileStorage) worldPath() string {
	return filepath.Join(s.directory, "world.save.json")
}

func (s *FileStorage) playerPath(id world.PlayerID) string {
	return filepath.Join(s.directory, "players", string(id)+".save.json")
}

func readChecked(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, missingResource(err)
		}
		return nil, invalidResource(err)
	}
	sum, err := os.ReadFile(path + ".sum")
	if err != nil {
		return nil, invalidResource(fmt.Errorf("reading checksum sidecar: %w", err))
	}
	want := string(sum)
	got := hex.EncodeToString(checksum(data))
	if want != got {
		return nil, invalidResource(fmt.Errorf("checksum mismatch for %s", path))
	}
	return data, nil
}

func checksum(data []byte) []byte {
	h := xxhash.New()
	h.Write(data)
	sum := h.Sum64()
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[7-i] = byte(sum)
		sum >>= 8
	}
	return out
}

// writeAtomic writes data to path via a temp file in the same
// directory followed by a rename, so a crash mid-write never leaves a
// half-written file at path. It also writes path+".sum" with data's
// xxhash64 checksum.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	temp := filepath.Join(dir, fmt.Sprintf("tempfile_%s_%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(temp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(temp, path); err != nil {
		return err
	}
	return os.WriteFile(path+".sum", []byte(hex.EncodeToString(checksum(data))), 0o644)
}

// LoadWorld loads the persisted world state.
func (s *FileStorage) LoadWorld() (world.Save, error) {
	data, err := readChecked(s.worldPath())
	if err != nil {
		return world.Save{}, err
	}
	var save world.Save
	if err := json.Unmarshal(data, &save); err != nil {
		return world.Save{}, invalidResource(err)
	}
	return save, nil
}

// LoadPlayer loads one player's persisted body.
func (s *FileStorage) LoadPlayer(id world.PlayerID) (world.PlayerSave, error) {
	data, err := readChecked(s.playerPath(id))
	if err != nil {
		return world.PlayerSave{}, err
	}
	var save world.PlayerSave
	if err := json.Unmarshal(data, &save); err != nil {
		return world.PlayerSave{}, invalidResource(err)
	}
	return save, nil
}

// SaveWorld atomically persists the world state.
func (s *FileStorage) SaveWorld(state world.Save) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return writeAtomic(s.worldPath(), data)
}

// SavePlayer atomically persists one player's body.
func (s *FileStorage) SavePlayer(id world.PlayerID, state world.PlayerSave) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return writeAtomic(s.playerPath(id), data)
}
