package library

import (
	"sync"

	"github.com/google/uuid"
)

// Store owns the canonical in-memory forest of presets and folders.
// All mutations go through it; unknown ids are silently ignored so a
// stale UI reference racing a delete never turns into an error.
type Store struct {
	mu        sync.RWMutex
	root      []Entry
	whitelist Whitelist
	onChange  func()
}

// NewStore creates an empty store. The whitelist decides which keys of
// an adjustment source are copyable into a preset.
func NewStore(whitelist Whitelist) *Store {
	return &Store{whitelist: whitelist}
}

// SetOnChange registers a hook fired after every successful mutation.
// The hook runs outside the store lock and must not block.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// location pins down where an id lives: a root slot, or a slot inside
// a folder's children.
type location struct {
	rootIdx  int
	folder   *Folder
	childIdx int
}

// locate finds id anywhere in the forest. Caller must hold the lock.
func (s *Store) locate(id string) (location, bool) {
	for i, e := range s.root {
		if e.ID() == id {
			return location{rootIdx: i, childIdx: -1}, true
		}
		if e.Folder != nil {
			for j, c := range e.Folder.Children {
				if c.ID == id {
					return location{rootIdx: i, folder: e.Folder, childIdx: j}, true
				}
			}
		}
	}
	return location{}, false
}

// folderByID returns the root folder with the given id. Caller must
// hold the lock.
func (s *Store) folderByID(id string) *Folder {
	for _, e := range s.root {
		if e.Folder != nil && e.Folder.ID == id {
			return e.Folder
		}
	}
	return nil
}

// Replace swaps the whole forest, typically with the durable snapshot
// at startup. It does not fire the change hook: loading is not a
// mutation that needs persisting back.
func (s *Store) Replace(entries []Entry) {
	s.mu.Lock()
	s.root = entries
	s.mu.Unlock()
}

// Entries returns a deep copy of the root forest.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.root))
	for i, e := range s.root {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of root-level entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.root)
}

// Find returns a copy of the entry with the given id, looking at the
// root and inside every folder.
func (s *Store) Find(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locate(id)
	if !ok {
		return Entry{}, false
	}
	if loc.folder != nil {
		return Entry{Preset: loc.folder.Children[loc.childIdx].clone()}, true
	}
	return s.root[loc.rootIdx].clone(), true
}

// FolderChildren returns copies of a folder's presets, in order.
func (s *Store) FolderChildren(folderID string) ([]Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.folderByID(folderID)
	if f == nil {
		return nil, false
	}
	out := make([]Preset, len(f.Children))
	for i, c := range f.Children {
		out[i] = *c.clone()
	}
	return out, true
}

// RootPresetIDs returns the ids of root-level presets (folders skipped).
func (s *Store) RootPresetIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, e := range s.root {
		if e.Preset != nil {
			ids = append(ids, e.Preset.ID)
		}
	}
	return ids
}

// AddPreset builds a preset from source filtered through the whitelist
// and appends it to the named folder, or to the root when folderID is
// empty or does not resolve to a folder. Returns a copy of the created
// preset.
func (s *Store) AddPreset(name string, source Adjustments, folderID string) Preset {
	p := &Preset{
		ID:          uuid.New().String(),
		Name:        name,
		Adjustments: s.whitelist.Filter(source),
	}

	s.mu.Lock()
	if f := s.folderByID(folderID); f != nil {
		f.Children = append(f.Children, p)
	} else {
		s.root = append(s.root, Entry{Preset: p})
	}
	s.mu.Unlock()

	s.notify()
	return *p.clone()
}

// AddFolder creates an empty folder. It is inserted just before the
// first root-level preset so folders stay grouped ahead of loose
// presets, or appended when no root preset exists.
func (s *Store) AddFolder(name string) Folder {
	f := &Folder{ID: uuid.New().String(), Name: name, Children: []*Preset{}}

	s.mu.Lock()
	at := len(s.root)
	for i, e := range s.root {
		if e.Preset != nil {
			at = i
			break
		}
	}
	s.root = append(s.root, Entry{})
	copy(s.root[at+1:], s.root[at:])
	s.root[at] = Entry{Folder: f}
	s.mu.Unlock()

	s.notify()
	return *f.clone()
}

// Rename changes the display name of whichever preset or folder matches
// id. Unknown ids and empty names are no-ops.
func (s *Store) Rename(id, newName string) bool {
	if newName == "" {
		return false
	}

	s.mu.Lock()
	loc, ok := s.locate(id)
	if ok {
		switch {
		case loc.folder != nil:
			loc.folder.Children[loc.childIdx].Name = newName
		case s.root[loc.rootIdx].Folder != nil:
			s.root[loc.rootIdx].Folder.Name = newName
		default:
			s.root[loc.rootIdx].Preset.Name = newName
		}
	}
	s.mu.Unlock()

	if ok {
		s.notify()
	}
	return ok
}

// Delete removes the matching preset or folder. Deleting a folder
// removes all of its children with it. Unknown ids are no-ops.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	loc, ok := s.locate(id)
	if ok {
		if loc.folder != nil {
			loc.folder.Children = deleteAt(loc.folder.Children, loc.childIdx)
		} else {
			s.root = deleteAt(s.root, loc.rootIdx)
		}
	}
	s.mu.Unlock()

	if ok {
		s.notify()
	}
	return ok
}

// Duplicate deep-copies the matching preset under a fresh id, with
// " Copy" appended to the name, inserted immediately after the source
// in the same container. Returns false if id is not a preset.
func (s *Store) Duplicate(id string) (Preset, bool) {
	s.mu.Lock()
	loc, ok := s.locate(id)
	if ok && loc.folder == nil && s.root[loc.rootIdx].Preset == nil {
		ok = false // folders are not duplicated
	}
	var cp *Preset
	if ok {
		if loc.folder != nil {
			cp = loc.folder.Children[loc.childIdx].clone()
			cp.ID = uuid.New().String()
			cp.Name += " Copy"
			loc.folder.Children = insertAt(loc.folder.Children, loc.childIdx+1, cp)
		} else {
			cp = s.root[loc.rootIdx].Preset.clone()
			cp.ID = uuid.New().String()
			cp.Name += " Copy"
			s.root = insertAt(s.root, loc.rootIdx+1, Entry{Preset: cp})
		}
	}
	s.mu.Unlock()

	if !ok {
		return Preset{}, false
	}
	s.notify()
	return *cp.clone(), true
}

// Overwrite replaces the matching preset's adjustments with source
// filtered through the whitelist, in place. Returns false if id is not
// a preset.
func (s *Store) Overwrite(id string, source Adjustments) (Preset, bool) {
	filtered := s.whitelist.Filter(source)

	s.mu.Lock()
	loc, ok := s.locate(id)
	var target *Preset
	if ok {
		switch {
		case loc.folder != nil:
			target = loc.folder.Children[loc.childIdx]
		case s.root[loc.rootIdx].Preset != nil:
			target = s.root[loc.rootIdx].Preset
		default:
			ok = false
		}
	}
	var name string
	if ok {
		target.Adjustments = filtered
		name = target.Name
	}
	s.mu.Unlock()

	if !ok {
		return Preset{}, false
	}
	s.notify()
	return *(&Preset{ID: id, Name: name, Adjustments: filtered}).clone(), true
}

// MoveToFolder relocates a preset into the target folder, or to the
// root when folderID is empty. The preset lands just before beforeID,
// or at the end when beforeID is empty or not in the target container.
// Folders cannot be moved into folders; moving within the same
// container with no position requested is a no-op.
func (s *Store) MoveToFolder(id, folderID, beforeID string) bool {
	s.mu.Lock()
	moved := s.moveLocked(id, folderID, beforeID)
	s.mu.Unlock()

	if moved {
		s.notify()
	}
	return moved
}

func (s *Store) moveLocked(id, folderID, beforeID string) bool {
	loc, ok := s.locate(id)
	if !ok {
		return false
	}
	if loc.folder == nil && s.root[loc.rootIdx].Preset == nil {
		return false // folders stay at root
	}

	sourceContainer := ""
	if loc.folder != nil {
		sourceContainer = loc.folder.ID
	}
	if sourceContainer == folderID && beforeID == "" {
		return false
	}

	var target *Folder
	if folderID != "" {
		target = s.folderByID(folderID)
		if target == nil {
			return false
		}
	}

	// Detach.
	var p *Preset
	if loc.folder != nil {
		p = loc.folder.Children[loc.childIdx]
		loc.folder.Children = deleteAt(loc.folder.Children, loc.childIdx)
	} else {
		p = s.root[loc.rootIdx].Preset
		s.root = deleteAt(s.root, loc.rootIdx)
	}

	// Reattach just before beforeID, or at the end.
	if target != nil {
		at := len(target.Children)
		for i, c := range target.Children {
			if c.ID == beforeID {
				at = i
				break
			}
		}
		target.Children = insertAt(target.Children, at, p)
	} else {
		at := len(s.root)
		for i, e := range s.root {
			if e.ID() == beforeID {
				at = i
				break
			}
		}
		s.root = insertAt(s.root, at, Entry{Preset: p})
	}
	return true
}

// Reorder moves activeID to the slot occupied by overID. Both ids must
// live in the same container; entries strictly between the two original
// positions shift by one, everything else keeps its place.
func (s *Store) Reorder(activeID, overID string) bool {
	s.mu.Lock()
	moved := s.reorderLocked(activeID, overID)
	s.mu.Unlock()

	if moved {
		s.notify()
	}
	return moved
}

func (s *Store) reorderLocked(activeID, overID string) bool {
	if activeID == overID {
		return false
	}
	a, okA := s.locate(activeID)
	b, okB := s.locate(overID)
	if !okA || !okB {
		return false
	}
	if a.folder != b.folder {
		return false
	}
	if a.folder != nil {
		a.folder.Children = arrayMove(a.folder.Children, a.childIdx, b.childIdx)
	} else {
		s.root = arrayMove(s.root, a.rootIdx, b.rootIdx)
	}
	return true
}

// SortAlphabetically resorts the root with folders first, then loose
// presets, both case-insensitively and numeric-aware; each folder's
// children are sorted the same way independently.
func (s *Store) SortAlphabetically() {
	s.mu.Lock()
	var folders, presets []Entry
	for _, e := range s.root {
		if e.Folder != nil {
			folders = append(folders, e)
		} else {
			presets = append(presets, e)
		}
	}
	sortEntries(folders)
	sortEntries(presets)
	s.root = append(folders, presets...)
	for _, e := range s.root {
		if e.Folder != nil {
			sortPresets(e.Folder.Children)
		}
	}
	s.mu.Unlock()

	s.notify()
}

// Append merges already-built entries (an import result) onto the end
// of the root, preserving their order.
func (s *Store) Append(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	s.mu.Lock()
	s.root = append(s.root, entries...)
	s.mu.Unlock()
	s.notify()
}

func deleteAt[T any](list []T, i int) []T {
	return append(list[:i], list[i+1:]...)
}

func insertAt[T any](list []T, i int, v T) []T {
	list = append(list, v)
	copy(list[i+1:], list[i:])
	list[i] = v
	return list
}

// arrayMove removes the element at from and reinserts it at to.
func arrayMove[T any](list []T, from, to int) []T {
	v := list[from]
	list = append(list[:from], list[from+1:]...)
	list = append(list, v)
	copy(list[to+1:], list[to:])
	list[to] = v
	return list
}
