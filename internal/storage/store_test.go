package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, path string, asset Asset[*mockStoreSpec]) {
	t.Helper()
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore_Load(t *testing.T) {
	valid := Asset[*mockStoreSpec]{Version: 1, Identifier: "item-1", Spec: &mockStoreSpec{Name: "First", Value: 1}}

	tests := map[string]struct {
		setup    func(t *testing.T, dir string)
		expErr   bool
		expCount int
	}{
		"empty directory": {
			setup: func(t *testing.T, dir string) {},
		},
		"valid assets": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "item-1.json"), valid)
				writeAsset(t, filepath.Join(dir, "item-2.json"), Asset[*mockStoreSpec]{Version: 1, Identifier: "item-2", Spec: &mockStoreSpec{Name: "Second"}})
			},
			expCount: 2,
		},
		"non json files ignored": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "item-1.json"), valid)
				_ = os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignore me"), 0644)
			},
			expCount: 1,
		},
		"invalid json": {
			setup: func(t *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{invalid json`), 0644)
			},
			expErr: true,
		},
		"missing version": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "test.json"), Asset[*mockStoreSpec]{Identifier: "test", Spec: &mockStoreSpec{}})
			},
			expErr: true,
		},
		"file name disagrees with id": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "item-9.json"), valid)
			},
			expErr: true,
		},
		"newer version refused": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "item-1.json"), Asset[*mockStoreSpec]{Version: AssetVersion + 1, Identifier: "item-1", Spec: &mockStoreSpec{}})
			},
			expErr: true,
		},
		"subdirectories ignored": {
			setup: func(t *testing.T, dir string) {
				sub := filepath.Join(dir, "archive")
				if err := os.Mkdir(sub, 0755); err != nil {
					t.Fatalf("failed to create subdir: %v", err)
				}
				writeAsset(t, filepath.Join(dir, "item-1.json"), valid)
				writeAsset(t, filepath.Join(sub, "item-1.json"), valid)
			},
			expCount: 1,
		},
		"leftover temp file ignored": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "item-1.json"), valid)
				_ = os.WriteFile(filepath.Join(dir, "item-2.json.tmp"), []byte(`{"version":`), 0644)
			},
			expCount: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			store, err := NewFileStore[*mockStoreSpec](dir)
			if tt.expErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record count", len(store.GetAll()), tt.expCount)
		})
	}
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestFileStore_SaveWritesAsset(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	if err := store.Save("test-id", &mockStoreSpec{Name: "TestItem", Value: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "test-id.json"))
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	var asset Asset[*mockStoreSpec]
	if err := json.Unmarshal(data, &asset); err != nil {
		t.Fatalf("failed to unmarshal saved data: %v", err)
	}
	testutil.AssertEqual(t, "asset version", asset.Version, uint(AssetVersion))
	testutil.AssertEqual(t, "asset id", asset.Identifier, "test-id")
	testutil.AssertEqual(t, "spec name", asset.Spec.Name, "TestItem")

	// A fresh store over the same directory sees the record.
	reopened, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error reopening store: %v", err)
	}
	testutil.AssertEqual(t, "reloaded value", reopened.Get("test-id").Value, 100)

	if err := store.Delete("test-id"); err != nil {
		t.Fatalf("unexpected error deleting: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "test-id.json")); !os.IsNotExist(err) {
		t.Errorf("expected asset file to be removed, stat err = %v", err)
	}
}

// storerFactories builds each backend over a fresh temp location so the same
// behavioural tests run against both.
var storerFactories = map[string]func(t *testing.T) Storer[*mockStoreSpec]{
	"file": func(t *testing.T) Storer[*mockStoreSpec] {
		s, err := NewFileStore[*mockStoreSpec](t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error creating file store: %v", err)
		}
		return s
	},
	"bolt": func(t *testing.T) Storer[*mockStoreSpec] {
		db, err := OpenBolt(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("unexpected error opening bolt: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		s, err := NewBoltStore[*mockStoreSpec](db, "mock")
		if err != nil {
			t.Fatalf("unexpected error creating bolt store: %v", err)
		}
		return s
	},
}

func TestStorer_Behaviour(t *testing.T) {
	tests := map[string]struct {
		ops      func(s Storer[*mockStoreSpec]) error
		expErr   bool
		expIds   map[string]int
		expEmpty []string
	}{
		"save then get": {
			ops: func(s Storer[*mockStoreSpec]) error {
				return s.Save("one", &mockStoreSpec{Name: "One", Value: 1})
			},
			expIds: map[string]int{"one": 1},
		},
		"save overwrites": {
			ops: func(s Storer[*mockStoreSpec]) error {
				if err := s.Save("one", &mockStoreSpec{Value: 1}); err != nil {
					return err
				}
				return s.Save("one", &mockStoreSpec{Value: 2})
			},
			expIds: map[string]int{"one": 2},
		},
		"delete removes": {
			ops: func(s Storer[*mockStoreSpec]) error {
				if err := s.Save("one", &mockStoreSpec{Value: 1}); err != nil {
					return err
				}
				if err := s.Save("two", &mockStoreSpec{Value: 2}); err != nil {
					return err
				}
				return s.Delete("one")
			},
			expIds:   map[string]int{"two": 2},
			expEmpty: []string{"one"},
		},
		"delete missing is not an error": {
			ops: func(s Storer[*mockStoreSpec]) error {
				return s.Delete("ghost")
			},
			expIds:   map[string]int{},
			expEmpty: []string{"ghost"},
		},
		"invalid identifier rejected": {
			ops: func(s Storer[*mockStoreSpec]) error {
				return s.Save("bad id", &mockStoreSpec{})
			},
			expErr:   true,
			expIds:   map[string]int{},
			expEmpty: []string{"bad id"},
		},
	}

	for backend, factory := range storerFactories {
		for name, tt := range tests {
			t.Run(backend+"/"+name, func(t *testing.T) {
				s := factory(t)
				err := tt.ops(s)
				if tt.expErr != (err != nil) {
					t.Fatalf("expected error %v, got %v", tt.expErr, err)
				}

				all := s.GetAll()
				testutil.AssertEqual(t, "record count", len(all), len(tt.expIds))
				for id, v := range tt.expIds {
					got := s.Get(id)
					if got == nil {
						t.Fatalf("expected record %q", id)
					}
					testutil.AssertEqual(t, id+" value", got.Value, v)
				}
				for _, id := range tt.expEmpty {
					if s.Get(id) != nil {
						t.Errorf("expected no record for %q", id)
					}
				}

				// GetAll hands out a copy.
				for k := range all {
					delete(all, k)
				}
				testutil.AssertEqual(t, "records after mutating copy", len(s.GetAll()), len(tt.expIds))
			})
		}
	}
}

func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")

	db, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("unexpected error opening bolt: %v", err)
	}
	s, err := NewBoltStore[*mockStoreSpec](db, "rooms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Save("r1", &mockStoreSpec{Name: "Square", Value: 7}); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}
	// Other buckets in the same file stay independent.
	other, err := NewBoltStore[*mockStoreSpec](db, "maps")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "other bucket count", len(other.GetAll()), 0)
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected error closing: %v", err)
	}

	db, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("unexpected error reopening bolt: %v", err)
	}
	defer func() { _ = db.Close() }()
	s, err = NewBoltStore[*mockStoreSpec](db, "rooms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s.Get("r1")
	if got == nil {
		t.Fatal("expected r1 after reopen")
	}
	testutil.AssertEqual(t, "name", got.Name, "Square")
	testutil.AssertEqual(t, "value", got.Value, 7)
}
