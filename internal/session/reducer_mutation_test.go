package session

import (
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"
)

type fakeFileInfo struct {
	name string
	size int64
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }

func stubStat(t *testing.T, info fakeFileInfo) {
	t.Helper()
	orig := statFn
	statFn = func(string) (os.FileInfo, error) { return info, nil }
	t.Cleanup(func() { statFn = orig })
}

func TestCreateFolderSendsTrimmedName(t *testing.T) {
	state, reducer := newTestState(regularUser())
	mutator := &fakeMutator{}
	state.Mutator = mutator
	state.CurrentFolderID = strptr("f1")
	installDispatch(t, state)

	mustReduce(t, reducer, state, CreateFolderAction{Name: "  archive  "})

	if len(mutator.creates) != 1 {
		t.Fatalf("expected 1 create request, got %d", len(mutator.creates))
	}
	req := mutator.creates[0]
	if req.Name != "archive" {
		t.Errorf("expected trimmed name, got %q", req.Name)
	}
	if req.ParentID == nil || *req.ParentID != "f1" {
		t.Errorf("expected parent f1, got %v", req.ParentID)
	}
}

func TestCreateFolderRejectsInvalidName(t *testing.T) {
	state, reducer := newTestState(regularUser())
	mutator := &fakeMutator{}
	state.Mutator = mutator
	installDispatch(t, state)

	for _, name := range []string{"", "   ", "bad/name", `a\b`, "what?"} {
		mustReduce(t, reducer, state, CreateFolderAction{Name: name})
		if !IsValidationError(state.MutErr) {
			t.Errorf("name %q: expected a validation error, got %v", name, state.MutErr)
		}
	}
	if mutator.callCount() != 0 {
		t.Errorf("rejected names must never reach the server, got %d calls", mutator.callCount())
	}
}

func TestCreateFolderResultKeepsSortOrder(t *testing.T) {
	state, reducer := newTestState(regularUser())
	state.Folders = []FolderRef{{ID: "f1", Name: "Reports"}}

	mustReduce(t, reducer, state, CreateFolderResultAction{
		Ref:          FolderRef{ID: "f2", Name: "archive"},
		ListingToken: state.ActiveBrowseToken(),
	})

	if len(state.Folders) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(state.Folders))
	}
	if state.Folders[0].Name != "archive" || state.Folders[1].Name != "Reports" {
		t.Errorf("expected case-insensitive order [archive Reports], got [%s %s]",
			state.Folders[0].Name, state.Folders[1].Name)
	}
}

func TestCreateFolderResultSkipsReplacedListing(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeBrowseLoader{}
	state.BrowseLoader = loader
	installDispatch(t, state)

	mustReduce(t, reducer, state, NavigateToFolderAction{FolderID: nil})
	issuedAt := state.ActiveBrowseToken()
	mustReduce(t, reducer, state, NavigateToFolderAction{FolderID: strptr("elsewhere")})

	mustReduce(t, reducer, state, CreateFolderResultAction{
		Ref:          FolderRef{ID: "f2", Name: "orphan"},
		ListingToken: issuedAt,
	})

	if len(state.Folders) != 0 {
		t.Errorf("a confirmed folder must not join a listing it does not belong to: %+v", state.Folders)
	}
}

func TestRenameSameNameIsNoOp(t *testing.T) {
	state, reducer := newTestState(regularUser())
	mutator := &fakeMutator{}
	state.Mutator = mutator
	state.Folders = []FolderRef{{ID: "f1", Name: "Docs"}}
	installDispatch(t, state)

	mustReduce(t, reducer, state, RenameFolderAction{FolderID: "f1", NewName: "  Docs  "})

	if len(mutator.renames) != 0 {
		t.Errorf("renaming to the current name must issue no request, got %d", len(mutator.renames))
	}
}

func TestRenameResultReplacesAndResorts(t *testing.T) {
	state, reducer := newTestState(regularUser())
	state.Folders = []FolderRef{
		{ID: "f1", Name: "alpha"},
		{ID: "f2", Name: "beta"},
	}

	mustReduce(t, reducer, state, RenameFolderResultAction{
		Ref: FolderRef{ID: "f1", Name: "zulu"},
	})

	if state.Folders[0].Name != "beta" || state.Folders[1].Name != "zulu" {
		t.Errorf("expected [beta zulu], got [%s %s]", state.Folders[0].Name, state.Folders[1].Name)
	}
}

func TestDeleteFolderRemovesExactlyOne(t *testing.T) {
	state, reducer := newTestState(regularUser())
	state.Folders = []FolderRef{
		{ID: "f1", Name: "a"},
		{ID: "f2", Name: "b"},
		{ID: "f3", Name: "c"},
	}

	mustReduce(t, reducer, state, DeleteFolderResultAction{FolderID: "f2"})

	if len(state.Folders) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(state.Folders))
	}
	if state.Folders[0].ID != "f1" || state.Folders[1].ID != "f3" {
		t.Errorf("order must be preserved, got [%s %s]", state.Folders[0].ID, state.Folders[1].ID)
	}
}

func TestDeleteFileResultUpdatesCaches(t *testing.T) {
	state, reducer := newTestState(regularUser())
	state.Files = []FileRef{{ID: "x1", Name: "a.txt"}, {ID: "x2", Name: "b.txt"}}
	state.SearchActive = true
	state.SearchResults = []SearchResult{{Type: ItemFile, ID: "x1", Name: "a.txt"}}

	mustReduce(t, reducer, state, DeleteFileResultAction{FileID: "x1"})

	if len(state.Files) != 1 || state.Files[0].ID != "x2" {
		t.Errorf("unexpected files after delete: %+v", state.Files)
	}
	if len(state.SearchResults) != 0 {
		t.Errorf("deleted file must leave the search results too: %+v", state.SearchResults)
	}
}

func TestDeleteErrorSurfaced(t *testing.T) {
	state, reducer := newTestState(regularUser())
	state.Folders = []FolderRef{{ID: "f1", Name: "a"}}

	mustReduce(t, reducer, state, DeleteFolderResultAction{
		FolderID: "f1",
		Err:      errors.New("folder is not empty"),
	})

	if state.MutErr == nil {
		t.Error("expected the delete error to be surfaced")
	}
	if len(state.Folders) != 1 {
		t.Error("a failed delete must leave the cache untouched")
	}
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	state, reducer := newTestState(regularUser())
	mutator := &fakeMutator{}
	state.Mutator = mutator
	installDispatch(t, state)
	stubStat(t, fakeFileInfo{name: "notes.exe", size: 10})

	mustReduce(t, reducer, state, UploadFileAction{Path: "/tmp/notes.exe"})

	if !IsValidationError(state.MutErr) {
		t.Errorf("expected a validation error, got %v", state.MutErr)
	}
	if mutator.callCount() != 0 {
		t.Errorf("a rejected upload must never leave the machine, got %d calls", mutator.callCount())
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	state, reducer := newTestState(regularUser())
	mutator := &fakeMutator{}
	state.Mutator = mutator
	installDispatch(t, state)
	stubStat(t, fakeFileInfo{name: "big.png", size: MaxUploadSize + 1})

	mustReduce(t, reducer, state, UploadFileAction{Path: "/tmp/big.png"})

	if !IsValidationError(state.MutErr) {
		t.Errorf("expected a validation error, got %v", state.MutErr)
	}
	if mutator.callCount() != 0 {
		t.Errorf("expected no upload calls, got %d", mutator.callCount())
	}
}

func TestUploadIssuesRequest(t *testing.T) {
	state, reducer := newTestState(regularUser())
	mutator := &fakeMutator{}
	state.Mutator = mutator
	state.CurrentFolderID = strptr("f1")
	installDispatch(t, state)
	stubStat(t, fakeFileInfo{name: "notes.txt", size: 42})

	mustReduce(t, reducer, state, UploadFileAction{Path: "/tmp/notes.txt"})

	if !state.Uploading {
		t.Error("expected Uploading=true while the request is in flight")
	}
	if len(mutator.uploads) != 1 {
		t.Fatalf("expected 1 upload request, got %d", len(mutator.uploads))
	}
	req := mutator.uploads[0]
	if req.Name != "notes.txt" {
		t.Errorf("expected name notes.txt, got %q", req.Name)
	}
	if req.ParentID == nil || *req.ParentID != "f1" {
		t.Errorf("expected parent f1, got %v", req.ParentID)
	}
}

func TestUploadResultInsertsAtFront(t *testing.T) {
	state, reducer := newTestState(regularUser())
	state.Files = []FileRef{{ID: "x1", Name: "old.txt"}}
	state.Uploading = true

	mustReduce(t, reducer, state, UploadResultAction{
		Ref:          FileRef{ID: "x2", Name: "new.txt"},
		ListingToken: state.ActiveBrowseToken(),
	})

	if state.Uploading {
		t.Error("Uploading must clear once the result arrives")
	}
	if len(state.Files) != 2 || state.Files[0].ID != "x2" {
		t.Errorf("uploaded file must be first, got %+v", state.Files)
	}
}

func TestUploadResultSkipsReplacedListing(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeBrowseLoader{}
	state.BrowseLoader = loader
	installDispatch(t, state)

	mustReduce(t, reducer, state, NavigateToFolderAction{FolderID: nil})
	issuedAt := state.ActiveBrowseToken()
	mustReduce(t, reducer, state, NavigateToFolderAction{FolderID: strptr("elsewhere")})

	mustReduce(t, reducer, state, UploadResultAction{
		Ref:          FileRef{ID: "x2", Name: "new.txt"},
		ListingToken: issuedAt,
	})

	if len(state.Files) != 0 {
		t.Errorf("an upload confirmed for a replaced listing must not insert: %+v", state.Files)
	}
}

type fakeDownloader struct {
	requests []DownloadRequest
}

func (d *fakeDownloader) Start(req DownloadRequest) {
	d.requests = append(d.requests, req)
}

func TestDownloadIssuesRequest(t *testing.T) {
	state, reducer := newTestState(regularUser())
	downloader := &fakeDownloader{}
	state.Downloader = downloader
	installDispatch(t, state)

	mustReduce(t, reducer, state, DownloadFileAction{FileID: "x1", Name: "report.txt"})

	if len(downloader.requests) != 1 {
		t.Fatalf("expected 1 download request, got %d", len(downloader.requests))
	}
	if downloader.requests[0].FileID != "x1" || downloader.requests[0].Name != "report.txt" {
		t.Errorf("unexpected request: %+v", downloader.requests[0])
	}
	if state.Notice == "" {
		t.Error("expected an in-progress notice while the download runs")
	}
}

func TestDownloadResultSetsNotice(t *testing.T) {
	state, reducer := newTestState(regularUser())

	mustReduce(t, reducer, state, DownloadResultAction{Name: "report.txt", Path: "./report.txt"})

	if state.Notice != "saved ./report.txt" {
		t.Errorf("unexpected notice %q", state.Notice)
	}
	if state.MutErr != nil {
		t.Errorf("unexpected error %v", state.MutErr)
	}
}

func TestDownloadErrorSurfaced(t *testing.T) {
	state, reducer := newTestState(regularUser())
	state.Notice = "downloading report.txt…"

	mustReduce(t, reducer, state, DownloadResultAction{
		Name: "report.txt",
		Err:  errors.New("file exists"),
	})

	if state.MutErr == nil {
		t.Error("expected the download error to be surfaced")
	}
	if state.Notice != "" {
		t.Errorf("a failed download must clear the notice, got %q", state.Notice)
	}
}

func TestPromptSubmitRoutesToMutation(t *testing.T) {
	state, reducer := newTestState(regularUser())
	mutator := &fakeMutator{}
	state.Mutator = mutator
	installDispatch(t, state)

	mustReduce(t, reducer, state, PromptStartAction{Kind: PromptCreateFolder})
	for _, ch := range "notes" {
		mustReduce(t, reducer, state, PromptCharAction{Char: ch})
	}
	mustReduce(t, reducer, state, PromptSubmitAction{})

	if state.Prompt != nil {
		t.Error("submit must close the prompt")
	}
	if len(mutator.creates) != 1 || mutator.creates[0].Name != "notes" {
		t.Fatalf("expected create request for notes, got %+v", mutator.creates)
	}

	state.Folders = []FolderRef{{ID: "f1", Name: "notes"}}
	mustReduce(t, reducer, state, PromptStartAction{
		Kind:     PromptRenameFolder,
		TargetID: "f1",
		Initial:  "notes",
	})
	mustReduce(t, reducer, state, PromptCharAction{Char: '2'})
	mustReduce(t, reducer, state, PromptSubmitAction{})

	if len(mutator.renames) != 1 || mutator.renames[0].Name != "notes2" {
		t.Fatalf("expected rename request for notes2, got %+v", mutator.renames)
	}
}

func TestPromptCancelDiscardsInput(t *testing.T) {
	state, reducer := newTestState(regularUser())
	mutator := &fakeMutator{}
	state.Mutator = mutator
	installDispatch(t, state)

	mustReduce(t, reducer, state, PromptStartAction{Kind: PromptCreateFolder})
	mustReduce(t, reducer, state, PromptCharAction{Char: 'x'})
	mustReduce(t, reducer, state, PromptCancelAction{})

	if state.Prompt != nil {
		t.Error("cancel must close the prompt")
	}
	if mutator.callCount() != 0 {
		t.Errorf("cancel must not issue requests, got %d", mutator.callCount())
	}
}
