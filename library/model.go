package library

// Adjustments is a flat map of adjustment key to value. Only whitelisted
// keys are ever stored in a Preset; everything else is dropped at the
// point a Preset is created or overwritten.
type Adjustments map[string]float64

// Preset is a named, saved set of whitelisted adjustment values.
type Preset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Adjustments Adjustments `json:"adjustments"`
}

// Folder holds an ordered list of presets. Folders are one level deep:
// the Children type makes folder-in-folder unrepresentable.
type Folder struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Children []*Preset `json:"children"`
}

// Entry is one slot in the root forest. Exactly one of Preset / Folder
// is non-nil.
type Entry struct {
	Preset *Preset
	Folder *Folder
}

// ID returns the id of whichever variant is set.
func (e Entry) ID() string {
	if e.Folder != nil {
		return e.Folder.ID
	}
	if e.Preset != nil {
		return e.Preset.ID
	}
	return ""
}

// Name returns the display name of whichever variant is set.
func (e Entry) Name() string {
	if e.Folder != nil {
		return e.Folder.Name
	}
	if e.Preset != nil {
		return e.Preset.Name
	}
	return ""
}

// IsFolder reports whether the entry is a folder.
func (e Entry) IsFolder() bool { return e.Folder != nil }

func (p *Preset) clone() *Preset {
	cp := &Preset{ID: p.ID, Name: p.Name, Adjustments: make(Adjustments, len(p.Adjustments))}
	for k, v := range p.Adjustments {
		cp.Adjustments[k] = v
	}
	return cp
}

func (f *Folder) clone() *Folder {
	cf := &Folder{ID: f.ID, Name: f.Name, Children: make([]*Preset, len(f.Children))}
	for i, c := range f.Children {
		cf.Children[i] = c.clone()
	}
	return cf
}

func (e Entry) clone() Entry {
	if e.Folder != nil {
		return Entry{Folder: e.Folder.clone()}
	}
	return Entry{Preset: e.Preset.clone()}
}

// Whitelist is the set of adjustment keys eligible to be copied into a
// Preset. The adjustment engine owns the real list; DefaultWhitelist is
// a stand-in covering the common develop controls.
type Whitelist map[string]bool

// Filter returns a copy of src restricted to whitelisted keys.
func (w Whitelist) Filter(src Adjustments) Adjustments {
	out := make(Adjustments, len(src))
	for k, v := range src {
		if w[k] {
			out[k] = v
		}
	}
	return out
}

// DefaultWhitelist returns the built-in set of copyable adjustment keys.
func DefaultWhitelist() Whitelist {
	keys := []string{
		"exposure", "contrast", "highlights", "shadows", "whites", "blacks",
		"temperature", "tint", "vibrance", "saturation",
		"texture", "clarity", "dehaze",
		"sharpness", "noiseReduction", "colorNoiseReduction",
		"vignette", "grainAmount", "grainSize",
	}
	w := make(Whitelist, len(keys))
	for _, k := range keys {
		w[k] = true
	}
	return w
}
