package codec_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"preset-library/codec"
	"preset-library/library"
)

func buildSample() (*library.Store, library.Folder, library.Preset, library.Preset) {
	s := library.NewStore(library.DefaultWhitelist())
	f := s.AddFolder("Portraits")
	warm := s.AddPreset("Warm", library.Adjustments{"exposure": 0.4, "temperature": 9}, f.ID)
	cool := s.AddPreset("Cool", library.Adjustments{"temperature": -12}, "")
	return s, f, warm, cool
}

func TestRoundTrip(t *testing.T) {
	s, f, warm, cool := buildSample()

	data, err := codec.Export(s.Entries())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if strings.Contains(string(data), "preview") {
		t.Fatal("document must not carry preview data")
	}

	entries, err := codec.Import(data, library.DefaultWhitelist())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Names, structure, and adjustments survive; ids are fresh.
	got := entries[0]
	if got.Folder == nil || got.Folder.Name != "Portraits" {
		t.Fatalf("expected Portraits folder first, got %+v", got)
	}
	if got.Folder.ID == f.ID {
		t.Fatal("folder id must be reminted")
	}
	children := got.Folder.Children
	if len(children) != 1 || children[0].Name != "Warm" {
		t.Fatalf("folder children mangled: %+v", children)
	}
	if children[0].ID == warm.ID {
		t.Fatal("child id must be reminted")
	}
	if children[0].Adjustments["exposure"] != 0.4 || children[0].Adjustments["temperature"] != 9 {
		t.Fatalf("child adjustments mangled: %v", children[0].Adjustments)
	}

	if entries[1].Preset == nil || entries[1].Preset.Name != "Cool" {
		t.Fatalf("expected Cool second, got %+v", entries[1])
	}
	if entries[1].Preset.ID == cool.ID {
		t.Fatal("preset id must be reminted")
	}
}

func TestImportAppendsInDocumentOrder(t *testing.T) {
	s, _, _, _ := buildSample()
	data, _ := codec.Export(s.Entries())

	target := library.NewStore(library.DefaultWhitelist())
	existing := target.AddPreset("Existing", nil, "")

	entries, err := codec.Import(data, library.DefaultWhitelist())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	target.Append(entries)

	all := target.Entries()
	if len(all) != 3 {
		t.Fatalf("expected 3 root entries, got %d", len(all))
	}
	if all[0].ID() != existing.ID {
		t.Fatal("existing entries must stay ahead of the import")
	}
	if all[1].Name() != "Portraits" || all[2].Name() != "Cool" {
		t.Fatalf("document order not preserved: %v, %v", all[1].Name(), all[2].Name())
	}
}

func TestImportFiltersWhitelist(t *testing.T) {
	doc := `{"version":1,"entries":[
		{"type":"preset","id":"x","name":"P","adjustments":{"exposure":1,"hacked":9}}
	]}`
	entries, err := codec.Import([]byte(doc), library.DefaultWhitelist())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	adj := entries[0].Preset.Adjustments
	if _, ok := adj["hacked"]; ok {
		t.Fatalf("non-whitelisted key imported: %v", adj)
	}
	if adj["exposure"] != 1 {
		t.Fatalf("whitelisted key lost: %v", adj)
	}
}

func TestImportMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"version":1,`,
		"bad version":       `{"version":7,"entries":[]}`,
		"unknown type":      `{"version":1,"entries":[{"type":"group","id":"a","name":"A"}]}`,
		"empty preset name": `{"version":1,"entries":[{"type":"preset","id":"a","name":""}]}`,
		"empty folder name": `{"version":1,"entries":[{"type":"folder","id":"a","name":""}]}`,
		"folder in folder": `{"version":1,"entries":[
			{"type":"folder","id":"a","name":"A","children":[
				{"type":"folder","id":"b","name":"B"}
			]}
		]}`,
		"preset with children": `{"version":1,"entries":[
			{"type":"preset","id":"a","name":"A","children":[
				{"type":"preset","id":"b","name":"B"}
			]}
		]}`,
	}
	for name, doc := range cases {
		if _, err := codec.Import([]byte(doc), library.DefaultWhitelist()); !errors.Is(err, codec.ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestExportImportFile(t *testing.T) {
	s, _, _, _ := buildSample()
	path := t.TempDir() + "/nested/presets.json"

	if err := codec.ExportFile(codec.OSFileIO{}, path, s.Entries()); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("temp file left behind")
	}

	entries, err := codec.ImportFile(codec.OSFileIO{}, path, library.DefaultWhitelist())
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestImportFileMissing(t *testing.T) {
	_, err := codec.ImportFile(codec.OSFileIO{}, t.TempDir()+"/nope.json", library.DefaultWhitelist())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
