package session

import (
	"sync"
	"testing"

	"github.com/pratham-8123/vaultbox/internal/identity"
)

// ===== SHARED TEST FIXTURES =====
//
// The reducer tests are split by concern:
// - reducer_navigation_test.go: browse fetches, stale-token discard, rollback
// - reducer_search_test.go: debounce generations, stale-seq discard, clear
// - reducer_mutation_test.go: folder/file mutations and cache reconciliation
// - reducer_users_test.go: admin user picker

func strptr(s string) *string { return &s }

func regularUser() User {
	return User{ID: "u1", Email: "alice@example.com", Username: "alice", Role: identity.RoleUser}
}

func adminUser() User {
	return User{ID: "a1", Email: "root@example.com", Username: "root", Role: identity.RoleAdmin}
}

func newTestState(me User) (*SessionState, *Reducer) {
	state := NewSessionState(me)
	state.ScreenWidth = 80
	state.ScreenHeight = 24
	state.PageSize = 20
	return state, NewReducer()
}

// dispatchRecorder captures actions emitted by loaders and debounce timers
// instead of feeding them back through the reducer.
type dispatchRecorder struct {
	mu      sync.Mutex
	actions []Action
}

func (r *dispatchRecorder) record(a Action) {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
}

func installDispatch(t *testing.T, state *SessionState) *dispatchRecorder {
	t.Helper()
	rec := &dispatchRecorder{}
	state.SetDispatch(rec.record)
	t.Cleanup(state.cancelDebounce)
	return rec
}

type fakeBrowseLoader struct {
	requests  []BrowseRequest
	cancelled []int
}

func (l *fakeBrowseLoader) Start(req BrowseRequest) { l.requests = append(l.requests, req) }
func (l *fakeBrowseLoader) Cancel(token int)        { l.cancelled = append(l.cancelled, token) }

type fakeSearchLoader struct {
	requests  []SearchRequest
	cancelled []int
}

func (l *fakeSearchLoader) Start(req SearchRequest) { l.requests = append(l.requests, req) }
func (l *fakeSearchLoader) Cancel(seq int)          { l.cancelled = append(l.cancelled, seq) }

type fakeUsersLoader struct {
	requests []UsersRequest
}

func (l *fakeUsersLoader) Start(req UsersRequest) { l.requests = append(l.requests, req) }

type fakeMutator struct {
	creates       []CreateFolderMutation
	renames       []RenameFolderMutation
	folderDeletes []DeleteMutation
	fileDeletes   []DeleteMutation
	uploads       []UploadMutation
}

func (m *fakeMutator) CreateFolder(req CreateFolderMutation) { m.creates = append(m.creates, req) }
func (m *fakeMutator) RenameFolder(req RenameFolderMutation) { m.renames = append(m.renames, req) }
func (m *fakeMutator) DeleteFolder(req DeleteMutation) {
	m.folderDeletes = append(m.folderDeletes, req)
}
func (m *fakeMutator) DeleteFile(req DeleteMutation) { m.fileDeletes = append(m.fileDeletes, req) }
func (m *fakeMutator) UploadFile(req UploadMutation) { m.uploads = append(m.uploads, req) }

func (m *fakeMutator) callCount() int {
	return len(m.creates) + len(m.renames) + len(m.folderDeletes) + len(m.fileDeletes) + len(m.uploads)
}

// rootView builds a consistent browse view for a folder id (nil = root).
func rootView(folderID *string, folders []FolderRef, files []FileRef) FolderView {
	crumbs := []BreadcrumbItem{{ID: nil, Name: "root"}}
	var current *FolderRef
	if folderID != nil {
		crumbs = append(crumbs, BreadcrumbItem{ID: folderID, Name: "folder-" + *folderID})
		current = &FolderRef{ID: *folderID, Name: "folder-" + *folderID}
	}
	return FolderView{
		CurrentFolder: current,
		Breadcrumb:    crumbs,
		Folders:       folders,
		Files:         files,
	}
}

func mustReduce(t *testing.T, r *Reducer, state *SessionState, a Action) {
	t.Helper()
	if _, err := r.Reduce(state, a); err != nil {
		t.Fatalf("Reduce(%T) failed: %v", a, err)
	}
}
