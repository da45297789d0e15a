package session

// ViewMode selects which listing the UI presents.
type ViewMode int

const (
	// ModeBrowse shows the cached folder listing.
	ModeBrowse ViewMode = iota
	// ModeSearch shows search results.
	ModeSearch
)

// Item is one selectable row of the active listing.
type Item struct {
	Type     ItemType
	ID       string
	Name     string
	ParentID *string
	Folder   *FolderRef
	File     *FileRef
	Result   *SearchResult
}

// DisplayView is the render model derived from a SessionState. It is a pure
// projection: deriving it never mutates the state, and deriving it twice from
// the same state yields the same view.
type DisplayView struct {
	Mode        ViewMode
	Breadcrumb  []BreadcrumbItem
	Folders     []FolderRef
	Files       []FileRef
	Results     []SearchResult
	Total       int64
	Page        int
	Loading     bool
	Err         error
	SelectedIdx int
}

// ItemCount reports how many selectable rows the view has.
func (v DisplayView) ItemCount() int {
	if v.Mode == ModeSearch {
		return len(v.Results)
	}
	return len(v.Folders) + len(v.Files)
}

// ItemAt returns the row at index i, or false when i is out of range.
// In browse mode folders precede files.
func (v DisplayView) ItemAt(i int) (Item, bool) {
	if i < 0 {
		return Item{}, false
	}
	if v.Mode == ModeSearch {
		if i >= len(v.Results) {
			return Item{}, false
		}
		r := &v.Results[i]
		return Item{
			Type:     r.Type,
			ID:       r.ID,
			Name:     r.Name,
			ParentID: r.ParentID,
			Result:   r,
		}, true
	}
	if i < len(v.Folders) {
		f := &v.Folders[i]
		return Item{
			Type:     ItemFolder,
			ID:       f.ID,
			Name:     f.Name,
			ParentID: f.ParentID,
			Folder:   f,
		}, true
	}
	i -= len(v.Folders)
	if i >= len(v.Files) {
		return Item{}, false
	}
	f := &v.Files[i]
	return Item{
		Type: ItemFile,
		ID:   f.ID,
		Name: f.Name,
		File: f,
	}, true
}

// DerivedView projects the session state into the render model. Search mode
// wins whenever a search session is active, regardless of whether results
// have arrived yet.
func DerivedView(s *SessionState) DisplayView {
	if s.SearchActive {
		return DisplayView{
			Mode:        ModeSearch,
			Breadcrumb:  s.Breadcrumb,
			Results:     s.SearchResults,
			Total:       s.SearchTotal,
			Page:        s.SearchPage,
			Loading:     s.SearchLoading,
			Err:         s.SearchErr,
			SelectedIdx: s.SelectedIndex,
		}
	}
	return DisplayView{
		Mode:        ModeBrowse,
		Breadcrumb:  s.Breadcrumb,
		Folders:     s.Folders,
		Files:       s.Files,
		Loading:     s.Loading,
		Err:         s.NavErr,
		SelectedIdx: s.SelectedIndex,
	}
}
