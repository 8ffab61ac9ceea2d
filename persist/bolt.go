package persist

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"preset-library/library"
)

// Snapshots is the durable-store collaborator: it persists the whole
// forest as one document and hands it back at startup.
type Snapshots interface {
	LoadSnapshot() ([]library.Entry, error)
	SaveSnapshot(entries []library.Entry) error
}

var bucketLibrary = []byte("library")
var keyForest = []byte("forest")

// storedEntry is the on-disk shape of a forest slot. The union is
// flattened into a type tag so the snapshot stays a plain JSON document.
type storedEntry struct {
	Type        string              `json:"type"` // "preset" | "folder"
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Adjustments library.Adjustments `json:"adjustments,omitempty"`
	Children    []library.Preset    `json:"children,omitempty"`
}

// Bolt persists forest snapshots in a bbolt database.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the snapshot database at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLibrary)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Close closes the underlying database.
func (b *Bolt) Close() error { return b.db.Close() }

// LoadSnapshot reads the persisted forest. A missing key yields an
// empty forest, not an error.
func (b *Bolt) LoadSnapshot() ([]library.Entry, error) {
	var raw []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketLibrary).Get(keyForest); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var stored []storedEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return fromStored(stored), nil
}

// SaveSnapshot overwrites the persisted forest.
func (b *Bolt) SaveSnapshot(entries []library.Entry) error {
	raw, err := json.Marshal(toStored(entries))
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLibrary).Put(keyForest, raw)
	})
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func toStored(entries []library.Entry) []storedEntry {
	out := make([]storedEntry, 0, len(entries))
	for _, e := range entries {
		if e.Folder != nil {
			children := make([]library.Preset, len(e.Folder.Children))
			for i, c := range e.Folder.Children {
				children[i] = *c
			}
			out = append(out, storedEntry{
				Type: "folder", ID: e.Folder.ID, Name: e.Folder.Name, Children: children,
			})
			continue
		}
		out = append(out, storedEntry{
			Type: "preset", ID: e.Preset.ID, Name: e.Preset.Name, Adjustments: e.Preset.Adjustments,
		})
	}
	return out
}

func fromStored(stored []storedEntry) []library.Entry {
	out := make([]library.Entry, 0, len(stored))
	for _, se := range stored {
		if se.Type == "folder" {
			f := &library.Folder{ID: se.ID, Name: se.Name, Children: make([]*library.Preset, len(se.Children))}
			for i := range se.Children {
				c := se.Children[i]
				f.Children[i] = &c
			}
			out = append(out, library.Entry{Folder: f})
			continue
		}
		p := &library.Preset{ID: se.ID, Name: se.Name, Adjustments: se.Adjustments}
		out = append(out, library.Entry{Preset: p})
	}
	return out
}
