package command

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/benhook1013/fireengine/internal/game"
	"github.com/benhook1013/fireengine/internal/storage"
	"github.com/pixil98/go-errors"
)

type StorageBackend int

const (
	StorageBackendFile StorageBackend = iota
	StorageBackendBolt
)

func (b *StorageBackend) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "file":
		*b = StorageBackendFile
	case "bolt":
		*b = StorageBackendBolt
	default:
		return fmt.Errorf("unknown storage backend: %s", text)
	}
	return nil
}

const (
	playersCollection = "players"
	mapsCollection    = "maps"
	roomsCollection   = "rooms"
)

// StorageConfig selects where the world is kept. The file backend keeps one
// JSON file per record in a directory per collection under Path; the bolt
// backend keeps one bucket per collection in the database file at Path.
type StorageConfig struct {
	Backend StorageBackend `json:"backend"`
	Path    string         `json:"path"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.Path == "" {
		el.Add(fmt.Errorf("storage: path is required"))
	}

	return el.Err()
}

// BuildDictionary opens the stores. The returned closer, if not nil, must be
// closed once nothing writes to the dictionary any more.
func (c *StorageConfig) BuildDictionary() (*game.Dictionary, io.Closer, error) {
	switch c.Backend {
	case StorageBackendFile:
		dict, err := c.buildFileDictionary()
		return dict, nil, err
	case StorageBackendBolt:
		return c.buildBoltDictionary()
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %v", c.Backend)
	}
}

func (c *StorageConfig) buildFileDictionary() (*game.Dictionary, error) {
	dirs := map[string]string{}
	for _, name := range []string{playersCollection, mapsCollection, roomsCollection} {
		dir := filepath.Join(c.Path, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", name, err)
		}
		dirs[name] = dir
	}

	players, err := storage.NewFileStore[*game.Player](dirs[playersCollection])
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}
	maps, err := storage.NewFileStore[*game.MapSpec](dirs[mapsCollection])
	if err != nil {
		return nil, fmt.Errorf("creating map store: %w", err)
	}
	rooms, err := storage.NewFileStore[*game.RoomSpec](dirs[roomsCollection])
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}

	return &game.Dictionary{Players: players, Maps: maps, Rooms: rooms}, nil
}

func (c *StorageConfig) buildBoltDictionary() (*game.Dictionary, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.OpenBolt(c.Path)
	if err != nil {
		return nil, nil, err
	}

	players, err := storage.NewBoltStore[*game.Player](db, playersCollection)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("creating player store: %w", err)
	}
	maps, err := storage.NewBoltStore[*game.MapSpec](db, mapsCollection)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("creating map store: %w", err)
	}
	rooms, err := storage.NewBoltStore[*game.RoomSpec](db, roomsCollection)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("creating room store: %w", err)
	}

	return &game.Dictionary{Players: players, Maps: maps, Rooms: rooms}, db, nil
}
