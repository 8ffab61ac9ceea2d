package library

// DropKind says which store mutation a completed drag gesture maps to.
type DropKind int

const (
	DropNone DropKind = iota
	// DropPromote moves the active preset out of its folder to the root
	// (gesture ended outside any droppable region).
	DropPromote
	// DropIntoFolder appends the active preset to a folder.
	DropIntoFolder
	// DropReorder reorders active and over within their shared container.
	DropReorder
	// DropBefore moves the active preset into over's container, placed
	// just before over.
	DropBefore
)

// DropAction is the resolved outcome of a drag gesture. ExpandFolder
// names a folder the presentation layer should auto-expand, when the
// drop landed on a collapsed folder.
type DropAction struct {
	Kind         DropKind
	ActiveID     string
	TargetFolder string
	BeforeID     string
	ExpandFolder string
}

// ResolveDrop maps a finished drag gesture to a store mutation. It only
// reads the forest; applying the action is a separate step so callers
// can inspect it first. An empty overID means the gesture ended outside
// every droppable region.
func (s *Store) ResolveDrop(activeID, overID string) DropAction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active, ok := s.locate(activeID)
	if !ok {
		return DropAction{Kind: DropNone}
	}
	activeContainer := ""
	if active.folder != nil {
		activeContainer = active.folder.ID
	}

	if overID == "" {
		if activeContainer != "" {
			return DropAction{Kind: DropPromote, ActiveID: activeID}
		}
		return DropAction{Kind: DropNone}
	}
	if activeID == overID {
		return DropAction{Kind: DropNone}
	}

	over, ok := s.locate(overID)
	if !ok {
		return DropAction{Kind: DropNone}
	}

	if over.folder == nil && s.root[over.rootIdx].Folder != nil {
		if overID == activeContainer {
			return DropAction{Kind: DropNone}
		}
		return DropAction{
			Kind:         DropIntoFolder,
			ActiveID:     activeID,
			TargetFolder: overID,
			ExpandFolder: overID,
		}
	}

	overContainer := ""
	if over.folder != nil {
		overContainer = over.folder.ID
	}
	if overContainer == activeContainer {
		return DropAction{Kind: DropReorder, ActiveID: activeID, BeforeID: overID}
	}
	return DropAction{
		Kind:         DropBefore,
		ActiveID:     activeID,
		TargetFolder: overContainer,
		BeforeID:     overID,
	}
}

// ApplyDrop executes a resolved action against the store. It reports
// whether the forest changed.
func (s *Store) ApplyDrop(a DropAction) bool {
	switch a.Kind {
	case DropPromote:
		return s.MoveToFolder(a.ActiveID, "", "")
	case DropIntoFolder:
		return s.MoveToFolder(a.ActiveID, a.TargetFolder, "")
	case DropReorder:
		return s.Reorder(a.ActiveID, a.BeforeID)
	case DropBefore:
		return s.MoveToFolder(a.ActiveID, a.TargetFolder, a.BeforeID)
	}
	return false
}
