package session

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// folderCollator orders folder names case-insensitively, matching the
// ordering the server uses for listings.
var folderCollator = collate.New(language.Und, collate.IgnoreCase)

// folderLess is the listing comparator: case-insensitive name ascending,
// ties broken by id so the order is total.
func folderLess(a, b *FolderRef) bool {
	switch folderCollator.CompareString(a.Name, b.Name) {
	case -1:
		return true
	case 1:
		return false
	}
	return a.ID < b.ID
}

func sortFolders(folders []FolderRef) {
	sort.SliceStable(folders, func(i, j int) bool {
		return folderLess(&folders[i], &folders[j])
	})
}

// applyListing replaces the cache wholesale from a fetched view.
func (s *SessionState) applyListing(view *FolderView) {
	s.Folders = append([]FolderRef(nil), view.Folders...)
	s.Files = append([]FileRef(nil), view.Files...)
}

// insertFolder adds a confirmed folder, keeping sort order.
func (s *SessionState) insertFolder(ref FolderRef) {
	s.Folders = append(s.Folders, ref)
	sortFolders(s.Folders)
}

// replaceFolder swaps in a renamed folder ref and re-sorts. Unknown ids are
// ignored; the folder may have been deleted or the listing replaced since
// the rename was issued.
func (s *SessionState) replaceFolder(ref FolderRef) {
	for i := range s.Folders {
		if s.Folders[i].ID == ref.ID {
			s.Folders[i] = ref
			sortFolders(s.Folders)
			return
		}
	}
}

// removeFolder drops a folder from the cache by id.
func (s *SessionState) removeFolder(id string) {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			s.Folders = append(s.Folders[:i], s.Folders[i+1:]...)
			return
		}
	}
}

// insertFile prepends an uploaded file: newest first.
func (s *SessionState) insertFile(ref FileRef) {
	s.Files = append([]FileRef{ref}, s.Files...)
}

// removeFile drops a file from the cache by id.
func (s *SessionState) removeFile(id string) {
	for i := range s.Files {
		if s.Files[i].ID == id {
			s.Files = append(s.Files[:i], s.Files[i+1:]...)
			return
		}
	}
}

// folderByID returns the cached ref for a folder id, or nil.
func (s *SessionState) folderByID(id string) *FolderRef {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}
