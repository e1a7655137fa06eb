package annotations

// ArchivedFile is the file name of the archived-set document.
const ArchivedFile = "archived.json"

// Archive is the ordered set of archived transcript ids.
type Archive struct {
	doc *Document[[]string]
}

// NewArchive opens the archived set stored at path.
func NewArchive(path string) *Archive {
	return &Archive{doc: NewDocument(path, func() []string {
		return []string{}
	})}
}

// Path returns the backing file.
func (a *Archive) Path() string {
	return a.doc.Path()
}

// All returns archived ids in insertion order.
func (a *Archive) All() []string {
	return a.doc.Load()
}

// IsArchived reports whether id is in the set.
func (a *Archive) IsArchived(id string) bool {
	return indexOf(a.All(), id) >= 0
}

// Set archives or unarchives id. Archiving a present id and unarchiving an
// absent one leave the set unchanged; the document is rewritten either way.
func (a *Archive) Set(id string, archived bool) error {
	return a.doc.Update(func(ids []string) []string {
		idx := indexOf(ids, id)
		switch {
		case archived && idx < 0:
			ids = append(ids, id)
		case !archived && idx >= 0:
			ids = append(ids[:idx], ids[idx+1:]...)
		}
		return ids
	})
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
