package annotations

// NamesFile is the file name of the display-name document.
const NamesFile = "session-names.json"

// Names maps transcript ids to user-assigned display names. An id with no
// entry displays as itself.
type Names struct {
	doc *Document[map[string]string]
}

// NewNames opens the name map stored at path.
func NewNames(path string) *Names {
	return &Names{doc: NewDocument(path, func() map[string]string {
		return map[string]string{}
	})}
}

// Path returns the backing file.
func (n *Names) Path() string {
	return n.doc.Path()
}

// All returns the whole name map.
func (n *Names) All() map[string]string {
	return n.doc.Load()
}

// DisplayName returns the custom name for id, or id itself.
func (n *Names) DisplayName(id string) string {
	if name, ok := n.All()[id]; ok && name != "" {
		return name
	}
	return id
}

// Set assigns name to id, replacing any previous name.
func (n *Names) Set(id, name string) error {
	return n.doc.Update(func(names map[string]string) map[string]string {
		names[id] = name
		return names
	})
}

// Clear drops any custom name for id, so it displays as itself again.
func (n *Names) Clear(id string) error {
	return n.doc.Update(func(names map[string]string) map[string]string {
		delete(names, id)
		return names
	})
}
