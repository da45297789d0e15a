package session

// Action is the base interface for all state mutations.
type Action interface{}

// ===== NAVIGATION ACTIONS =====

// NavigateToFolderAction opens a folder. A nil FolderID means the root level.
type NavigateToFolderAction struct {
	FolderID *string
}

// SelectUserAction switches an admin's view to another user's storage.
// A nil UserID returns to the admin's own storage.
type SelectUserAction struct {
	UserID *string
}

// ClearSelectedUserAction returns an admin to their own storage root.
type ClearSelectedUserAction struct{}

// RefreshAction re-fetches the current navigation position.
type RefreshAction struct{}

// BrowseResultAction carries the outcome of an asynchronous browse fetch.
type BrowseResultAction struct {
	Token int
	View  FolderView
	Err   error
}

// ===== SEARCH ACTIONS =====

type SearchFocusAction struct{}
type SearchBlurAction struct{}
type SearchCharAction struct {
	Char rune
}
type SearchBackspaceAction struct{}

// SetSearchInputAction replaces the raw query text wholesale and restarts
// the debounce window.
type SetSearchInputAction struct {
	Query string
}

// SearchCommitAction fires when the debounce window elapses. Gen identifies
// the keystroke generation that scheduled it; a stale Gen is ignored.
type SearchCommitAction struct {
	Gen int
}

// SearchResultsAction carries the outcome of an asynchronous search request.
type SearchResultsAction struct {
	Seq  int
	Page SearchPage
	Err  error
}

// SearchClearAction leaves search mode and returns to the browse listing.
type SearchClearAction struct{}

// ===== MUTATION ACTIONS =====

type CreateFolderAction struct {
	Name string
}

type CreateFolderResultAction struct {
	Ref          FolderRef
	ListingToken int
	Err          error
}

type RenameFolderAction struct {
	FolderID string
	NewName  string
}

type RenameFolderResultAction struct {
	Ref FolderRef
	Err error
}

type DeleteFolderAction struct {
	FolderID string
}

type DeleteFolderResultAction struct {
	FolderID string
	Err      error
}

type DeleteFileAction struct {
	FileID string
}

type DeleteFileResultAction struct {
	FileID string
	Err    error
}

// UploadFileAction uploads a local file into the current folder.
type UploadFileAction struct {
	Path string
}

type UploadResultAction struct {
	Ref          FileRef
	ListingToken int
	Err          error
}

// DownloadFileAction saves the selected file to the local download
// directory.
type DownloadFileAction struct {
	FileID string
	Name   string
}

type DownloadResultAction struct {
	Name string
	Path string
	Err  error
}

// ===== ADMIN USER PICKER =====

type LoadUsersAction struct{}

type UsersResultAction struct {
	Users []User
	Err   error
}

type UserPickerOpenAction struct{}
type UserPickerCloseAction struct{}
type UserPickerMoveAction struct {
	Delta int
}
type UserPickerChooseAction struct{}

// ===== PROMPT (TEXT ENTRY) ACTIONS =====

type PromptStartAction struct {
	Kind       PromptKind
	TargetID   string
	TargetName string
	Initial    string
}
type PromptCharAction struct {
	Char rune
}
type PromptBackspaceAction struct{}
type PromptCancelAction struct{}
type PromptSubmitAction struct{}

// ===== VIEW / SELECTION ACTIONS =====

type CursorUpAction struct{}
type CursorDownAction struct{}
type CursorHomeAction struct{}
type CursorEndAction struct{}

// OpenSelectionAction enters the selected folder (or the folder of a search
// result). Selecting a file is a no-op; content rendering is external.
type OpenSelectionAction struct{}

// SelectIndexAction moves the cursor to an absolute row, used for mouse
// clicks.
type SelectIndexAction struct {
	Index int
}

type ResizeAction struct {
	Width  int
	Height int
}

type HelpToggleAction struct{}
type HelpHideAction struct{}

// QuitAction requests shutdown; the event loop owns the actual exit.
type QuitAction struct{}

// ResetAction discards all session state on logout.
type ResetAction struct{}
