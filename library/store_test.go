package library_test

import (
	"testing"

	"preset-library/library"
)

func newStore() *library.Store {
	return library.NewStore(library.DefaultWhitelist())
}

func rootIDs(t *testing.T, s *library.Store) []string {
	t.Helper()
	entries := s.Entries()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID()
	}
	return ids
}

func rootNames(s *library.Store) []string {
	entries := s.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestAddPresetFiltersWhitelist(t *testing.T) {
	s := newStore()
	p := s.AddPreset("Warm", library.Adjustments{
		"exposure":    0.5,
		"temperature": 12,
		"bogusKey":    99,
	}, "")

	if _, ok := p.Adjustments["bogusKey"]; ok {
		t.Fatalf("non-whitelisted key stored: %v", p.Adjustments)
	}
	if p.Adjustments["exposure"] != 0.5 || p.Adjustments["temperature"] != 12 {
		t.Fatalf("whitelisted keys lost: %v", p.Adjustments)
	}
	if p.ID == "" {
		t.Fatal("expected a fresh id")
	}
}

func TestAddPresetIntoFolder(t *testing.T) {
	s := newStore()
	f := s.AddFolder("Portraits")
	p := s.AddPreset("Warm", nil, f.ID)

	children, ok := s.FolderChildren(f.ID)
	if !ok || len(children) != 1 || children[0].ID != p.ID {
		t.Fatalf("expected Warm inside Portraits, got %+v", children)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 root entry, got %d", s.Len())
	}
}

func TestAddFolderGroupsAheadOfPresets(t *testing.T) {
	s := newStore()
	s.AddPreset("Loose", nil, "")
	f := s.AddFolder("Portraits")

	ids := rootIDs(t, s)
	if ids[0] != f.ID {
		t.Fatalf("folder should be inserted before the first root preset, got order %v", rootNames(s))
	}

	// A second folder lands after the first but still ahead of presets.
	g := s.AddFolder("Landscapes")
	ids = rootIDs(t, s)
	if ids[0] != f.ID || ids[1] != g.ID {
		t.Fatalf("unexpected root order: %v", rootNames(s))
	}
}

func TestUniqueIDsAfterAddDuplicateImportish(t *testing.T) {
	s := newStore()
	f := s.AddFolder("F")
	for i := 0; i < 5; i++ {
		s.AddPreset("P", nil, "")
		s.AddPreset("C", nil, f.ID)
	}
	for _, id := range rootIDs(t, s) {
		s.Duplicate(id)
	}

	seen := map[string]bool{}
	for _, e := range s.Entries() {
		if seen[e.ID()] {
			t.Fatalf("duplicate id %s", e.ID())
		}
		seen[e.ID()] = true
		if e.Folder != nil {
			for _, c := range e.Folder.Children {
				if seen[c.ID] {
					t.Fatalf("duplicate id %s", c.ID)
				}
				seen[c.ID] = true
			}
		}
	}
}

func TestRenameAnywhere(t *testing.T) {
	s := newStore()
	f := s.AddFolder("Portraits")
	nested := s.AddPreset("Warm", nil, f.ID)

	if !s.Rename(nested.ID, "Warmer") {
		t.Fatal("rename of nested preset failed")
	}
	children, _ := s.FolderChildren(f.ID)
	if children[0].Name != "Warmer" {
		t.Fatalf("expected Warmer, got %q", children[0].Name)
	}

	if !s.Rename(f.ID, "People") {
		t.Fatal("rename of folder failed")
	}
	e, _ := s.Find(f.ID)
	if e.Name() != "People" {
		t.Fatalf("expected People, got %q", e.Name())
	}

	if s.Rename("no-such-id", "X") {
		t.Fatal("rename of unknown id should be a no-op")
	}
	if s.Rename(f.ID, "") {
		t.Fatal("rename to empty name should be a no-op")
	}
}

func TestDeleteCascades(t *testing.T) {
	s := newStore()
	f := s.AddFolder("Portraits")
	a := s.AddPreset("A", nil, f.ID)
	b := s.AddPreset("B", nil, f.ID)
	loose := s.AddPreset("Loose", nil, "")

	if !s.Delete(f.ID) {
		t.Fatal("delete folder failed")
	}
	for _, id := range []string{f.ID, a.ID, b.ID} {
		if _, ok := s.Find(id); ok {
			t.Fatalf("id %s still findable after cascade delete", id)
		}
	}
	if _, ok := s.Find(loose.ID); !ok {
		t.Fatal("unrelated preset vanished")
	}

	if s.Delete("no-such-id") {
		t.Fatal("delete of unknown id should be a no-op")
	}
}

func TestDuplicateInsertsAfterSource(t *testing.T) {
	s := newStore()
	a := s.AddPreset("A", library.Adjustments{"exposure": 1}, "")
	s.AddPreset("B", nil, "")

	cp, ok := s.Duplicate(a.ID)
	if !ok {
		t.Fatal("duplicate failed")
	}
	if cp.Name != "A Copy" {
		t.Fatalf("expected name 'A Copy', got %q", cp.Name)
	}
	if cp.ID == a.ID {
		t.Fatal("duplicate must have a fresh id")
	}
	if cp.Adjustments["exposure"] != 1 {
		t.Fatalf("adjustments not copied: %v", cp.Adjustments)
	}

	ids := rootIDs(t, s)
	if ids[0] != a.ID || ids[1] != cp.ID {
		t.Fatalf("copy should sit immediately after source, got %v", rootNames(s))
	}

	f := s.AddFolder("F")
	if _, ok := s.Duplicate(f.ID); ok {
		t.Fatal("folders must not be duplicated")
	}
	if _, ok := s.Duplicate("no-such-id"); ok {
		t.Fatal("unknown id must not duplicate")
	}
}

func TestDuplicateInsideFolder(t *testing.T) {
	s := newStore()
	f := s.AddFolder("F")
	a := s.AddPreset("A", nil, f.ID)
	s.AddPreset("B", nil, f.ID)

	cp, ok := s.Duplicate(a.ID)
	if !ok {
		t.Fatal("duplicate failed")
	}
	children, _ := s.FolderChildren(f.ID)
	if len(children) != 3 || children[1].ID != cp.ID {
		t.Fatalf("copy should sit after source inside the folder: %+v", children)
	}
}

func TestOverwriteReplacesAdjustmentsInPlace(t *testing.T) {
	s := newStore()
	p := s.AddPreset("P", library.Adjustments{"exposure": 1, "contrast": 5}, "")

	got, ok := s.Overwrite(p.ID, library.Adjustments{"exposure": 2, "junk": 3})
	if !ok {
		t.Fatal("overwrite failed")
	}
	if got.Adjustments["exposure"] != 2 {
		t.Fatalf("expected exposure 2, got %v", got.Adjustments)
	}
	if _, there := got.Adjustments["contrast"]; there {
		t.Fatal("overwrite must replace the whole map, not merge")
	}
	if _, there := got.Adjustments["junk"]; there {
		t.Fatal("non-whitelisted key survived overwrite")
	}

	e, _ := s.Find(p.ID)
	if e.Preset.Adjustments["exposure"] != 2 {
		t.Fatalf("store not updated in place: %v", e.Preset.Adjustments)
	}

	if _, ok := s.Overwrite("no-such-id", nil); ok {
		t.Fatal("overwrite of unknown id should fail")
	}
	f := s.AddFolder("F")
	if _, ok := s.Overwrite(f.ID, nil); ok {
		t.Fatal("overwrite of a folder should fail")
	}
}

func TestMoveToFolderAndBack(t *testing.T) {
	s := newStore()
	f := s.AddFolder("Portraits")
	p := s.AddPreset("Cool", nil, "")

	if !s.MoveToFolder(p.ID, f.ID, "") {
		t.Fatal("move into folder failed")
	}
	children, _ := s.FolderChildren(f.ID)
	if len(children) != 1 || children[0].ID != p.ID {
		t.Fatalf("preset not in folder: %+v", children)
	}
	if s.Len() != 1 {
		t.Fatalf("expected only the folder at root, got %d entries", s.Len())
	}

	// Promote back to root.
	if !s.MoveToFolder(p.ID, "", "") {
		t.Fatal("promote to root failed")
	}
	children, _ = s.FolderChildren(f.ID)
	if len(children) != 0 {
		t.Fatalf("folder should be empty: %+v", children)
	}
	ids := rootIDs(t, s)
	if ids[len(ids)-1] != p.ID {
		t.Fatalf("promoted preset should append at root end: %v", rootNames(s))
	}
}

func TestMoveToFolderBeforeID(t *testing.T) {
	s := newStore()
	f := s.AddFolder("F")
	a := s.AddPreset("A", nil, f.ID)
	b := s.AddPreset("B", nil, f.ID)
	p := s.AddPreset("P", nil, "")

	if !s.MoveToFolder(p.ID, f.ID, b.ID) {
		t.Fatal("move before B failed")
	}
	children, _ := s.FolderChildren(f.ID)
	want := []string{a.ID, p.ID, b.ID}
	for i, id := range want {
		if children[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, children[i].ID)
		}
	}
}

func TestMoveToFolderNoOps(t *testing.T) {
	s := newStore()
	f := s.AddFolder("F")
	s.AddFolder("G")
	p := s.AddPreset("P", nil, "")

	if s.MoveToFolder(f.ID, "", "") {
		t.Fatal("moving a folder should be a no-op")
	}
	if s.MoveToFolder("no-such-id", f.ID, "") {
		t.Fatal("moving an unknown id should be a no-op")
	}
	if s.MoveToFolder(p.ID, "", "") {
		t.Fatal("same-container move without a position should be a no-op")
	}
	if s.MoveToFolder(p.ID, "no-such-folder", "") {
		t.Fatal("moving into an unknown folder should be a no-op")
	}
}

func TestReorderArrayMoveLaw(t *testing.T) {
	s := newStore()
	var ids []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, s.AddPreset(name, nil, "").ID)
	}

	// Move a forward onto d: entries strictly between shift left by one,
	// e keeps its place.
	if !s.Reorder(ids[0], ids[3]) {
		t.Fatal("reorder failed")
	}
	if got, want := rootNames(s), []string{"b", "c", "d", "a", "e"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Move e backward onto b.
	if !s.Reorder(ids[4], ids[1]) {
		t.Fatal("reorder failed")
	}
	if got, want := rootNames(s), []string{"e", "b", "c", "d", "a"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestReorderRequiresSameContainer(t *testing.T) {
	s := newStore()
	f := s.AddFolder("F")
	nested := s.AddPreset("N", nil, f.ID)
	root := s.AddPreset("R", nil, "")

	if s.Reorder(nested.ID, root.ID) {
		t.Fatal("cross-container reorder should be a no-op")
	}
	if s.Reorder(root.ID, root.ID) {
		t.Fatal("self reorder should be a no-op")
	}
}

func TestReorderWithinFolder(t *testing.T) {
	s := newStore()
	f := s.AddFolder("F")
	a := s.AddPreset("a", nil, f.ID)
	s.AddPreset("b", nil, f.ID)
	c := s.AddPreset("c", nil, f.ID)

	if !s.Reorder(a.ID, c.ID) {
		t.Fatal("reorder failed")
	}
	children, _ := s.FolderChildren(f.ID)
	var names []string
	for _, ch := range children {
		names = append(names, ch.Name)
	}
	if !equal(names, []string{"b", "c", "a"}) {
		t.Fatalf("expected [b c a], got %v", names)
	}
}

func TestSortAlphabetically(t *testing.T) {
	s := newStore()
	s.AddPreset("preset 10", nil, "")
	s.AddPreset("Preset 2", nil, "")
	f := s.AddFolder("zeta")
	s.AddFolder("Alpha")
	s.AddPreset("banana", nil, f.ID)
	s.AddPreset("Apple", nil, f.ID)

	s.SortAlphabetically()

	got := rootNames(s)
	want := []string{"Alpha", "zeta", "Preset 2", "preset 10"}
	if !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	children, _ := s.FolderChildren(f.ID)
	if children[0].Name != "Apple" || children[1].Name != "banana" {
		t.Fatalf("folder children not sorted: %+v", children)
	}
}

func TestNoFolderInFolderReachable(t *testing.T) {
	s := newStore()
	f := s.AddFolder("F")
	g := s.AddFolder("G")
	s.AddPreset("p", nil, f.ID)

	// Every mutation that could conceivably nest a folder must refuse.
	s.MoveToFolder(g.ID, f.ID, "")
	s.Reorder(g.ID, f.ID) // root reorder of two folders is fine
	for _, e := range s.Entries() {
		if e.Folder == nil {
			continue
		}
		for _, c := range e.Folder.Children {
			if c == nil {
				t.Fatal("nil child")
			}
		}
	}
	if children, _ := s.FolderChildren(f.ID); len(children) != 1 {
		t.Fatalf("folder F should hold exactly its one preset, got %d", len(children))
	}
}

// The end-to-end walk from the design discussion: folder, nested add,
// loose add, move in, cascade delete.
func TestScenario(t *testing.T) {
	s := newStore()

	portraits := s.AddFolder("Portraits")
	if names := rootNames(s); !equal(names, []string{"Portraits"}) {
		t.Fatalf("step 1: %v", names)
	}

	warm := s.AddPreset("Warm", nil, portraits.ID)
	children, _ := s.FolderChildren(portraits.ID)
	if len(children) != 1 || children[0].Name != "Warm" {
		t.Fatalf("step 2: %+v", children)
	}

	cool := s.AddPreset("Cool", nil, "")
	if names := rootNames(s); !equal(names, []string{"Portraits", "Cool"}) {
		t.Fatalf("step 3: %v", names)
	}

	if !s.MoveToFolder(cool.ID, portraits.ID, "") {
		t.Fatal("step 4: move failed")
	}
	children, _ = s.FolderChildren(portraits.ID)
	if len(children) != 2 || children[0].ID != warm.ID || children[1].ID != cool.ID {
		t.Fatalf("step 4: %+v", children)
	}
	if s.Len() != 1 {
		t.Fatalf("step 4: root should hold only the folder, got %d", s.Len())
	}

	s.Delete(portraits.ID)
	if s.Len() != 0 {
		t.Fatalf("step 5: root should be empty, got %v", rootNames(s))
	}
}

func TestEntriesReturnsDeepCopy(t *testing.T) {
	s := newStore()
	f := s.AddFolder("F")
	s.AddPreset("P", library.Adjustments{"exposure": 1}, f.ID)

	entries := s.Entries()
	entries[0].Folder.Name = "mutated"
	entries[0].Folder.Children[0].Adjustments["exposure"] = 99

	e, _ := s.Find(f.ID)
	if e.Folder.Name != "F" {
		t.Fatal("folder name aliased into caller copy")
	}
	if e.Folder.Children[0].Adjustments["exposure"] != 1 {
		t.Fatal("adjustments aliased into caller copy")
	}
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	s := newStore()
	count := 0
	s.SetOnChange(func() { count++ })

	p := s.AddPreset("P", nil, "")
	s.AddFolder("F")
	s.Rename(p.ID, "Q")
	s.Rename("missing", "X") // no-op, must not fire
	s.Delete(p.ID)
	s.Delete(p.ID) // already gone

	if count != 4 {
		t.Fatalf("expected 4 change notifications, got %d", count)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
