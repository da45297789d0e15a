package session

import (
	"time"
)

// SearchDebounce is the quiet period after the last keystroke before a
// search request is issued.
const SearchDebounce = 400 * time.Millisecond

// searchMinQueryRunes is the shortest query the server accepts.
const searchMinQueryRunes = 2

// PromptKind identifies what a text-entry prompt is collecting.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptCreateFolder
	PromptRenameFolder
	PromptUploadPath
)

// Prompt is a modal text-entry line owned by the session so the reducer can
// translate a submit into the matching mutation.
type Prompt struct {
	Kind       PromptKind
	Text       string
	TargetID   string // folder id for rename
	TargetName string // current name, shown in the prompt label
}

// navPosition is the last navigation state a browse fetch successfully
// applied. A failed fetch rolls back to it.
type navPosition struct {
	folderID *string
	userID   *string
}

// SessionState is the single source of truth for one authenticated session.
type SessionState struct {
	// Identity context; read-only.
	Me User

	// Navigation.
	CurrentFolderID *string
	CurrentFolder   *FolderRef
	Breadcrumb      []BreadcrumbItem
	SelectedUserID  *string
	Loading         bool
	NavErr          error

	// Listing cache for the current navigation position.
	Folders []FolderRef
	Files   []FileRef

	// Search session.
	SearchInput   string
	SearchQuery   string
	SearchActive  bool
	SearchLoading bool
	SearchFocused bool
	SearchResults []SearchResult
	SearchTotal   int64
	SearchPage    int
	SearchErr     error

	// Mutations.
	Uploading bool
	MutErr    error

	// Notice is a one-line status message ("saved report.txt"), cleared by
	// the next mutation or navigation.
	Notice string

	// Admin user picker.
	Users            []User
	UsersLoading     bool
	UsersErr         error
	UserPickerActive bool
	UserPickerIndex  int

	// Text-entry prompt; nil when no prompt is open.
	Prompt *Prompt

	HelpVisible bool

	// Selection & viewport.
	SelectedIndex int
	ScrollOffset  int
	ScreenWidth   int
	ScreenHeight  int

	// PageSize is sent with search requests; zero falls back to the
	// server default.
	PageSize int

	// Loaders; nil loaders make the matching operations inert, which the
	// tests rely on.
	BrowseLoader BrowseLoader
	SearchLoader SearchLoader
	UsersLoader  UsersLoader
	Mutator      Mutator
	Downloader   Downloader

	browseToken   int
	applied       navPosition
	searchSeq     int
	inputGen      int
	debounceTimer *time.Timer

	dispatchAction func(Action)
}

// NewSessionState creates the initial state for an authenticated user.
func NewSessionState(me User) *SessionState {
	return &SessionState{Me: me}
}

// SetDispatch installs the hook loaders use to feed result actions back
// into the event loop.
func (s *SessionState) SetDispatch(fn func(Action)) {
	s.dispatchAction = fn
}

func (s *SessionState) getDispatch() func(Action) {
	return s.dispatchAction
}

// ActiveBrowseToken returns the token of the latest issued browse fetch.
func (s *SessionState) ActiveBrowseToken() int {
	return s.browseToken
}

func (s *SessionState) nextBrowseToken() int {
	s.browseToken++
	return s.browseToken
}

// ActiveSearchSeq returns the sequence number of the latest issued search.
func (s *SessionState) ActiveSearchSeq() int {
	return s.searchSeq
}

func (s *SessionState) nextSearchSeq() int {
	s.searchSeq++
	return s.searchSeq
}

// PendingSearchGen returns the keystroke generation a scheduled debounce
// commit must present to be accepted.
func (s *SessionState) PendingSearchGen() int {
	return s.inputGen
}

// DebouncePending reports whether a search commit is currently scheduled.
func (s *SessionState) DebouncePending() bool {
	return s.debounceTimer != nil
}

func (s *SessionState) cancelDebounce() {
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}

// reset returns the state to its post-login shape, keeping identity, screen
// dimensions, loaders and the dispatch hook.
func (s *SessionState) reset() {
	s.cancelDebounce()
	*s = SessionState{
		Me:           s.Me,
		ScreenWidth:  s.ScreenWidth,
		ScreenHeight: s.ScreenHeight,
		PageSize:     s.PageSize,
		BrowseLoader: s.BrowseLoader,
		SearchLoader: s.SearchLoader,
		UsersLoader:  s.UsersLoader,
		Mutator:      s.Mutator,
		Downloader:   s.Downloader,

		dispatchAction: s.dispatchAction,
	}
}

func (s *SessionState) searchPageSize() int {
	return s.PageSize
}

func (s *SessionState) clampSelection() {
	count := DerivedView(s).ItemCount()
	if count == 0 {
		s.SelectedIndex = 0
		s.ScrollOffset = 0
		return
	}
	if s.SelectedIndex >= count {
		s.SelectedIndex = count - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	if s.ScrollOffset > s.SelectedIndex {
		s.ScrollOffset = s.SelectedIndex
	}
}
