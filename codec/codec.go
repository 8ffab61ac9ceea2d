// Package codec reads and writes the portable preset document: a JSON
// file carrying presets and one-level folders, suitable for sharing
// between libraries. Preview images are regenerable and never part of
// the document.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"preset-library/library"
)

// DocumentVersion is the current portable document version.
const DocumentVersion = 1

var ErrMalformed = errors.New("malformed preset document")

// Document is the portable on-the-wire shape.
type Document struct {
	Version int        `json:"version"`
	Entries []DocEntry `json:"entries"`
}

// DocEntry is a tagged entry: a preset, or a folder whose children must
// themselves be presets.
type DocEntry struct {
	Type        string              `json:"type"` // "preset" | "folder"
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Adjustments library.Adjustments `json:"adjustments,omitempty"`
	Children    []DocEntry          `json:"children,omitempty"`
}

// Export serializes the given entries (folders include their children)
// into one portable document.
func Export(entries []library.Entry) ([]byte, error) {
	doc := Document{Version: DocumentVersion, Entries: make([]DocEntry, 0, len(entries))}
	for _, e := range entries {
		if e.Folder != nil {
			de := DocEntry{Type: "folder", ID: e.Folder.ID, Name: e.Folder.Name}
			for _, c := range e.Folder.Children {
				de.Children = append(de.Children, DocEntry{
					Type: "preset", ID: c.ID, Name: c.Name, Adjustments: c.Adjustments,
				})
			}
			doc.Entries = append(doc.Entries, de)
			continue
		}
		if e.Preset == nil {
			continue
		}
		doc.Entries = append(doc.Entries, DocEntry{
			Type: "preset", ID: e.Preset.ID, Name: e.Preset.Name, Adjustments: e.Preset.Adjustments,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Import parses a document into forest entries. Every id is reminted so
// a document can never collide with (or overwrite) local entries, and
// adjustments are filtered through the whitelist. Any structural
// problem aborts the whole import: either all entries come back, or
// none do.
func Import(data []byte, whitelist library.Whitelist) ([]library.Entry, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, doc.Version)
	}

	out := make([]library.Entry, 0, len(doc.Entries))
	for _, de := range doc.Entries {
		switch de.Type {
		case "preset":
			p, err := importPreset(de, whitelist)
			if err != nil {
				return nil, err
			}
			out = append(out, library.Entry{Preset: p})
		case "folder":
			if de.Name == "" {
				return nil, fmt.Errorf("%w: folder with empty name", ErrMalformed)
			}
			f := &library.Folder{ID: uuid.New().String(), Name: de.Name, Children: []*library.Preset{}}
			for _, ce := range de.Children {
				if ce.Type != "preset" {
					// Depth beyond one level is not representable.
					return nil, fmt.Errorf("%w: folder %q contains a non-preset entry", ErrMalformed, de.Name)
				}
				p, err := importPreset(ce, whitelist)
				if err != nil {
					return nil, err
				}
				f.Children = append(f.Children, p)
			}
			out = append(out, library.Entry{Folder: f})
		default:
			return nil, fmt.Errorf("%w: unknown entry type %q", ErrMalformed, de.Type)
		}
	}
	return out, nil
}

func importPreset(de DocEntry, whitelist library.Whitelist) (*library.Preset, error) {
	if de.Name == "" {
		return nil, fmt.Errorf("%w: preset with empty name", ErrMalformed)
	}
	if len(de.Children) > 0 {
		return nil, fmt.Errorf("%w: preset %q has children", ErrMalformed, de.Name)
	}
	return &library.Preset{
		ID:          uuid.New().String(),
		Name:        de.Name,
		Adjustments: whitelist.Filter(de.Adjustments),
	}, nil
}

// ExportFile writes the document for entries to path via fio.
func ExportFile(fio FileIO, path string, entries []library.Entry) error {
	data, err := Export(entries)
	if err != nil {
		return err
	}
	if err := fio.WriteBytes(path, data); err != nil {
		return fmt.Errorf("writing preset document: %w", err)
	}
	return nil
}

// ImportFile reads and parses the document at path via fio.
func ImportFile(fio FileIO, path string, whitelist library.Whitelist) ([]library.Entry, error) {
	data, err := fio.ReadBytes(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset document: %w", err)
	}
	return Import(data, whitelist)
}
