package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/pratham-8123/vaultbox/internal/logging"
)

var statFn = os.Stat

// headerRows is the chrome above the listing (title, breadcrumb, search bar,
// separator); footerRows the status line below it.
const (
	headerRows = 4
	footerRows = 1
)

// Reducer applies actions to a SessionState. All state transitions live
// here; loaders and the UI only dispatch actions.
type Reducer struct {
	log *zap.Logger
}

func NewReducer() *Reducer {
	return &Reducer{log: logging.L()}
}

// Reduce applies one action to the state. Composite actions recurse through
// Reduce so every transition goes down the same path.
func (r *Reducer) Reduce(state *SessionState, action Action) (*SessionState, error) {
	switch a := action.(type) {

	// ===== NAVIGATION =====

	case NavigateToFolderAction:
		state.SearchInput = ""
		state.SearchFocused = false
		r.clearSearchSession(state)
		r.startBrowse(state, a.FolderID, state.SelectedUserID, true)
		return state, nil

	case SelectUserAction:
		if !state.Me.IsAdmin() {
			return state, nil
		}
		state.SearchInput = ""
		state.SearchFocused = false
		r.clearSearchSession(state)
		state.SelectedUserID = a.UserID
		r.startBrowse(state, nil, a.UserID, true)
		return state, nil

	case ClearSelectedUserAction:
		return r.Reduce(state, SelectUserAction{UserID: nil})

	case RefreshAction:
		// Keep the cursor where it is; the result handler clamps it.
		r.startBrowse(state, state.CurrentFolderID, state.SelectedUserID, false)
		return state, nil

	case BrowseResultAction:
		if a.Token != state.ActiveBrowseToken() {
			r.log.Debug("discarding stale browse result",
				zap.Int("token", a.Token),
				zap.Int("active", state.ActiveBrowseToken()))
			return state, nil
		}

		state.Loading = false

		if a.Err != nil {
			state.NavErr = a.Err
			// The listing still shows the last good position; point the
			// navigation fields back at it.
			state.CurrentFolderID = state.applied.folderID
			state.SelectedUserID = state.applied.userID
			return state, nil
		}

		state.NavErr = nil
		state.CurrentFolder = a.View.CurrentFolder
		state.Breadcrumb = append([]BreadcrumbItem(nil), a.View.Breadcrumb...)
		state.applyListing(&a.View)
		state.applied = navPosition{folderID: state.CurrentFolderID, userID: state.SelectedUserID}
		state.clampSelection()
		r.ensureSelectionVisible(state)
		return state, nil

	// ===== SEARCH =====

	case SearchFocusAction:
		state.SearchFocused = true
		return state, nil

	case SearchBlurAction:
		state.SearchFocused = false
		return state, nil

	case SearchCharAction:
		r.setSearchInput(state, state.SearchInput+string(a.Char))
		return state, nil

	case SearchBackspaceAction:
		if state.SearchInput == "" {
			return state, nil
		}
		runes := []rune(state.SearchInput)
		r.setSearchInput(state, string(runes[:len(runes)-1]))
		return state, nil

	case SetSearchInputAction:
		r.setSearchInput(state, a.Query)
		return state, nil

	case SearchCommitAction:
		if a.Gen != state.inputGen {
			return state, nil
		}
		state.debounceTimer = nil

		query := strings.TrimSpace(state.SearchInput)
		if utf8.RuneCountInString(query) < searchMinQueryRunes {
			return state, nil
		}

		r.startSearch(state, query)
		return state, nil

	case SearchResultsAction:
		if a.Seq != state.ActiveSearchSeq() {
			r.log.Debug("discarding stale search results",
				zap.Int("seq", a.Seq),
				zap.Int("active", state.ActiveSearchSeq()))
			return state, nil
		}

		state.SearchLoading = false

		if a.Err != nil {
			state.SearchErr = a.Err
			return state, nil
		}

		state.SearchErr = nil
		state.SearchResults = append([]SearchResult(nil), a.Page.Results...)
		state.SearchTotal = a.Page.TotalCount
		state.SearchPage = a.Page.Page
		state.clampSelection()
		r.ensureSelectionVisible(state)
		return state, nil

	case SearchClearAction:
		state.SearchInput = ""
		state.SearchFocused = false
		r.clearSearchSession(state)
		state.clampSelection()
		return state, nil

	// ===== MUTATIONS =====

	case CreateFolderAction:
		name := normalizeName(a.Name)
		if err := validateFolderName(name); err != nil {
			state.MutErr = err
			return state, nil
		}
		state.MutErr = nil
		state.Notice = ""

		mutator := state.Mutator
		dispatch := state.getDispatch()
		if mutator == nil || dispatch == nil {
			return state, nil
		}

		mutator.CreateFolder(CreateFolderMutation{
			Name:         name,
			ParentID:     state.CurrentFolderID,
			ListingToken: state.ActiveBrowseToken(),
			Callback:     func(res CreateFolderResultAction) { dispatch(res) },
		})
		return state, nil

	case CreateFolderResultAction:
		if a.Err != nil {
			state.MutErr = a.Err
			return state, nil
		}
		if a.ListingToken != state.ActiveBrowseToken() {
			// The listing was replaced while the request was in flight;
			// the new folder belongs to a view we no longer show.
			return state, nil
		}
		state.insertFolder(a.Ref)
		return state, nil

	case RenameFolderAction:
		name := normalizeName(a.NewName)
		if err := validateFolderName(name); err != nil {
			state.MutErr = err
			return state, nil
		}
		if cur := state.folderByID(a.FolderID); cur != nil && cur.Name == name {
			return state, nil
		}
		state.MutErr = nil
		state.Notice = ""

		mutator := state.Mutator
		dispatch := state.getDispatch()
		if mutator == nil || dispatch == nil {
			return state, nil
		}

		mutator.RenameFolder(RenameFolderMutation{
			FolderID: a.FolderID,
			Name:     name,
			Callback: func(res RenameFolderResultAction) { dispatch(res) },
		})
		return state, nil

	case RenameFolderResultAction:
		if a.Err != nil {
			state.MutErr = a.Err
			return state, nil
		}
		state.replaceFolder(a.Ref)
		for i := range state.SearchResults {
			if state.SearchResults[i].Type == ItemFolder && state.SearchResults[i].ID == a.Ref.ID {
				state.SearchResults[i].Name = a.Ref.Name
			}
		}
		return state, nil

	case DeleteFolderAction:
		mutator := state.Mutator
		dispatch := state.getDispatch()
		if mutator == nil || dispatch == nil {
			return state, nil
		}
		state.MutErr = nil
		state.Notice = ""
		mutator.DeleteFolder(DeleteMutation{
			ID: a.FolderID,
			Callback: func(id string, err error) {
				dispatch(DeleteFolderResultAction{FolderID: id, Err: err})
			},
		})
		return state, nil

	case DeleteFolderResultAction:
		if a.Err != nil {
			state.MutErr = a.Err
			return state, nil
		}
		state.removeFolder(a.FolderID)
		r.removeSearchResult(state, ItemFolder, a.FolderID)
		state.clampSelection()
		return state, nil

	case DeleteFileAction:
		mutator := state.Mutator
		dispatch := state.getDispatch()
		if mutator == nil || dispatch == nil {
			return state, nil
		}
		state.MutErr = nil
		state.Notice = ""
		mutator.DeleteFile(DeleteMutation{
			ID: a.FileID,
			Callback: func(id string, err error) {
				dispatch(DeleteFileResultAction{FileID: id, Err: err})
			},
		})
		return state, nil

	case DeleteFileResultAction:
		if a.Err != nil {
			state.MutErr = a.Err
			return state, nil
		}
		state.removeFile(a.FileID)
		r.removeSearchResult(state, ItemFile, a.FileID)
		state.clampSelection()
		return state, nil

	case UploadFileAction:
		path := strings.TrimSpace(a.Path)
		if path == "" {
			state.MutErr = &ValidationError{Message: "no file selected"}
			return state, nil
		}
		name := filepath.Base(path)

		info, err := statFn(path)
		if err != nil {
			state.MutErr = fmt.Errorf("reading %s: %w", path, err)
			return state, nil
		}
		if err := validateUpload(name, info.Size()); err != nil {
			state.MutErr = err
			return state, nil
		}
		state.MutErr = nil
		state.Notice = ""

		mutator := state.Mutator
		dispatch := state.getDispatch()
		if mutator == nil || dispatch == nil {
			return state, nil
		}

		state.Uploading = true
		mutator.UploadFile(UploadMutation{
			Path:         path,
			Name:         name,
			ParentID:     state.CurrentFolderID,
			ListingToken: state.ActiveBrowseToken(),
			Callback:     func(res UploadResultAction) { dispatch(res) },
		})
		return state, nil

	case UploadResultAction:
		state.Uploading = false
		if a.Err != nil {
			state.MutErr = a.Err
			return state, nil
		}
		if a.ListingToken != state.ActiveBrowseToken() {
			return state, nil
		}
		state.insertFile(a.Ref)
		return state, nil

	case DownloadFileAction:
		state.MutErr = nil
		downloader := state.Downloader
		dispatch := state.getDispatch()
		if downloader == nil || dispatch == nil {
			return state, nil
		}

		state.Notice = fmt.Sprintf("downloading %s…", a.Name)
		downloader.Start(DownloadRequest{
			FileID:   a.FileID,
			Name:     a.Name,
			Callback: func(res DownloadResultAction) { dispatch(res) },
		})
		return state, nil

	case DownloadResultAction:
		state.Notice = ""
		if a.Err != nil {
			state.MutErr = a.Err
			return state, nil
		}
		state.Notice = fmt.Sprintf("saved %s", a.Path)
		return state, nil

	// ===== ADMIN USER PICKER =====

	case LoadUsersAction:
		r.startUsersLoad(state)
		return state, nil

	case UsersResultAction:
		state.UsersLoading = false
		if a.Err != nil {
			state.UsersErr = a.Err
			return state, nil
		}
		state.UsersErr = nil
		state.Users = append([]User(nil), a.Users...)
		if state.UserPickerIndex > len(state.Users) {
			state.UserPickerIndex = len(state.Users)
		}
		return state, nil

	case UserPickerOpenAction:
		if !state.Me.IsAdmin() {
			return state, nil
		}
		state.UserPickerActive = true
		state.UserPickerIndex = 0
		if len(state.Users) == 0 {
			r.startUsersLoad(state)
		}
		return state, nil

	case UserPickerCloseAction:
		state.UserPickerActive = false
		return state, nil

	case UserPickerMoveAction:
		if !state.UserPickerActive {
			return state, nil
		}
		// Row 0 is "my storage"; users follow.
		idx := state.UserPickerIndex + a.Delta
		if idx < 0 {
			idx = 0
		}
		if idx > len(state.Users) {
			idx = len(state.Users)
		}
		state.UserPickerIndex = idx
		return state, nil

	case UserPickerChooseAction:
		if !state.UserPickerActive {
			return state, nil
		}
		idx := state.UserPickerIndex
		state.UserPickerActive = false
		if idx == 0 {
			return r.Reduce(state, SelectUserAction{UserID: nil})
		}
		if idx-1 >= len(state.Users) {
			return state, nil
		}
		id := state.Users[idx-1].ID
		return r.Reduce(state, SelectUserAction{UserID: &id})

	// ===== PROMPTS =====

	case PromptStartAction:
		state.Prompt = &Prompt{
			Kind:       a.Kind,
			Text:       a.Initial,
			TargetID:   a.TargetID,
			TargetName: a.TargetName,
		}
		return state, nil

	case PromptCharAction:
		if state.Prompt == nil {
			return state, nil
		}
		state.Prompt.Text += string(a.Char)
		return state, nil

	case PromptBackspaceAction:
		if state.Prompt == nil || state.Prompt.Text == "" {
			return state, nil
		}
		runes := []rune(state.Prompt.Text)
		state.Prompt.Text = string(runes[:len(runes)-1])
		return state, nil

	case PromptCancelAction:
		state.Prompt = nil
		return state, nil

	case PromptSubmitAction:
		p := state.Prompt
		if p == nil {
			return state, nil
		}
		state.Prompt = nil
		switch p.Kind {
		case PromptCreateFolder:
			return r.Reduce(state, CreateFolderAction{Name: p.Text})
		case PromptRenameFolder:
			return r.Reduce(state, RenameFolderAction{FolderID: p.TargetID, NewName: p.Text})
		case PromptUploadPath:
			return r.Reduce(state, UploadFileAction{Path: p.Text})
		}
		return state, nil

	// ===== SELECTION & VIEWPORT =====

	case CursorUpAction:
		if DerivedView(state).ItemCount() == 0 {
			return state, nil
		}
		if state.SelectedIndex > 0 {
			state.SelectedIndex--
		}
		r.ensureSelectionVisible(state)
		return state, nil

	case CursorDownAction:
		count := DerivedView(state).ItemCount()
		if count == 0 {
			return state, nil
		}
		if state.SelectedIndex < count-1 {
			state.SelectedIndex++
		}
		r.ensureSelectionVisible(state)
		return state, nil

	case CursorHomeAction:
		state.SelectedIndex = 0
		state.ScrollOffset = 0
		return state, nil

	case CursorEndAction:
		count := DerivedView(state).ItemCount()
		if count == 0 {
			return state, nil
		}
		state.SelectedIndex = count - 1
		r.ensureSelectionVisible(state)
		return state, nil

	case SelectIndexAction:
		count := DerivedView(state).ItemCount()
		if count == 0 || a.Index < 0 || a.Index >= count {
			return state, nil
		}
		state.SelectedIndex = a.Index
		r.ensureSelectionVisible(state)
		return state, nil

	case OpenSelectionAction:
		item, ok := DerivedView(state).ItemAt(state.SelectedIndex)
		if !ok || item.Type != ItemFolder {
			return state, nil
		}
		id := item.ID
		return r.Reduce(state, NavigateToFolderAction{FolderID: &id})

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		r.ensureSelectionVisible(state)
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		state.HelpVisible = false
		return state, nil

	case ResetAction:
		state.reset()
		return state, nil
	}

	return state, nil
}

// normalizeName canonicalizes user-entered names so comparisons against
// server-reported names are byte-stable.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// startBrowse issues an asynchronous folder fetch and marks the state as
// loading. The navigation fields move immediately; a failed fetch rolls them
// back in the result handler.
func (r *Reducer) startBrowse(state *SessionState, folderID, userID *string, resetSelection bool) {
	if loader := state.BrowseLoader; loader != nil && state.browseToken != 0 {
		loader.Cancel(state.browseToken)
	}

	token := state.nextBrowseToken()
	state.Loading = true
	state.NavErr = nil
	state.Notice = ""
	state.CurrentFolderID = folderID

	if resetSelection {
		state.SelectedIndex = 0
		state.ScrollOffset = 0
	}

	loader := state.BrowseLoader
	dispatch := state.getDispatch()
	if loader == nil || dispatch == nil {
		return
	}

	loader.Start(BrowseRequest{
		Token:    token,
		FolderID: folderID,
		UserID:   userID,
		Callback: func(res BrowseLoadResult) {
			dispatch(BrowseResultAction{Token: res.Token, View: res.View, Err: res.Err})
		},
	})
}

// setSearchInput records a keystroke generation and restarts the debounce
// window. An empty query drops out of search mode immediately; a query below
// the server minimum leaves whatever is on screen alone.
func (r *Reducer) setSearchInput(state *SessionState, query string) {
	state.SearchInput = query
	state.inputGen++
	state.cancelDebounce()

	trimmed := strings.TrimSpace(query)
	runes := utf8.RuneCountInString(trimmed)

	if runes == 0 {
		r.clearSearchSession(state)
		state.clampSelection()
		return
	}
	if runes < searchMinQueryRunes {
		return
	}

	dispatch := state.getDispatch()
	if dispatch == nil {
		return
	}

	gen := state.inputGen
	state.debounceTimer = time.AfterFunc(SearchDebounce, func() {
		dispatch(SearchCommitAction{Gen: gen})
	})
}

func (r *Reducer) startSearch(state *SessionState, query string) {
	if loader := state.SearchLoader; loader != nil && state.searchSeq != 0 {
		loader.Cancel(state.searchSeq)
	}

	seq := state.nextSearchSeq()
	state.SearchQuery = query
	state.SearchActive = true
	state.SearchLoading = true
	state.SearchErr = nil
	state.SelectedIndex = 0
	state.ScrollOffset = 0

	loader := state.SearchLoader
	dispatch := state.getDispatch()
	if loader == nil || dispatch == nil {
		return
	}

	loader.Start(SearchRequest{
		Seq:      seq,
		Query:    query,
		UserID:   state.SelectedUserID,
		Page:     0,
		PageSize: state.searchPageSize(),
		Callback: func(res SearchLoadResult) {
			dispatch(SearchResultsAction{Seq: res.Seq, Page: res.Page, Err: res.Err})
		},
	})
}

// clearSearchSession tears down the search session: pending debounce, the
// in-flight request, and the result slice. The raw input text is left to the
// caller.
func (r *Reducer) clearSearchSession(state *SessionState) {
	state.cancelDebounce()
	if loader := state.SearchLoader; loader != nil && state.searchSeq != 0 {
		loader.Cancel(state.searchSeq)
	}
	// Bump the sequence so an in-flight response that already escaped Cancel
	// is discarded on arrival.
	state.nextSearchSeq()

	state.SearchQuery = ""
	state.SearchActive = false
	state.SearchLoading = false
	state.SearchResults = nil
	state.SearchTotal = 0
	state.SearchPage = 0
	state.SearchErr = nil
}

func (r *Reducer) startUsersLoad(state *SessionState) {
	if !state.Me.IsAdmin() {
		return
	}

	state.UsersLoading = true
	state.UsersErr = nil

	loader := state.UsersLoader
	dispatch := state.getDispatch()
	if loader == nil || dispatch == nil {
		return
	}

	loader.Start(UsersRequest{
		Callback: func(users []User, err error) {
			dispatch(UsersResultAction{Users: users, Err: err})
		},
	})
}

func (r *Reducer) removeSearchResult(state *SessionState, typ ItemType, id string) {
	for i := range state.SearchResults {
		if state.SearchResults[i].Type == typ && state.SearchResults[i].ID == id {
			state.SearchResults = append(state.SearchResults[:i], state.SearchResults[i+1:]...)
			return
		}
	}
}

func (r *Reducer) ensureSelectionVisible(state *SessionState) {
	visible := state.ScreenHeight - headerRows - footerRows
	if visible < 1 {
		visible = 1
	}
	if state.SelectedIndex < state.ScrollOffset {
		state.ScrollOffset = state.SelectedIndex
	}
	if state.SelectedIndex >= state.ScrollOffset+visible {
		state.ScrollOffset = state.SelectedIndex - visible + 1
	}
	if state.ScrollOffset < 0 {
		state.ScrollOffset = 0
	}
}
