package session

import (
	"errors"
	"testing"
)

func typeQuery(t *testing.T, r *Reducer, state *SessionState, q string) {
	t.Helper()
	for _, ch := range q {
		mustReduce(t, r, state, SearchCharAction{Char: ch})
	}
}

func commitSearch(t *testing.T, r *Reducer, state *SessionState) {
	t.Helper()
	mustReduce(t, r, state, SearchCommitAction{Gen: state.PendingSearchGen()})
}

func TestShortQueryIssuesNoRequest(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeSearchLoader{}
	state.SearchLoader = loader
	installDispatch(t, state)

	typeQuery(t, reducer, state, "r")

	if state.DebouncePending() {
		t.Error("a one-rune query must not schedule a commit")
	}
	commitSearch(t, reducer, state)

	if len(loader.requests) != 0 {
		t.Errorf("expected 0 search requests, got %d", len(loader.requests))
	}
	if state.SearchActive {
		t.Error("search must stay inactive below the minimum query length")
	}
}

func TestEmptyQueryClearsImmediately(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeSearchLoader{}
	state.SearchLoader = loader
	installDispatch(t, state)

	typeQuery(t, reducer, state, "re")
	commitSearch(t, reducer, state)
	mustReduce(t, reducer, state, SearchResultsAction{
		Seq:  state.ActiveSearchSeq(),
		Page: SearchPage{Results: []SearchResult{{Type: ItemFile, ID: "x1", Name: "report.txt"}}},
	})

	mustReduce(t, reducer, state, SetSearchInputAction{Query: ""})

	if state.SearchActive {
		t.Error("an empty query must leave search mode immediately")
	}
	if state.SearchResults != nil {
		t.Errorf("results must be dropped, got %+v", state.SearchResults)
	}
	if state.DebouncePending() {
		t.Error("an empty query must not schedule a commit")
	}
}

func TestDebounceGenerationInvalidation(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeSearchLoader{}
	state.SearchLoader = loader
	installDispatch(t, state)

	typeQuery(t, reducer, state, "re")
	staleGen := state.PendingSearchGen()
	typeQuery(t, reducer, state, "p")

	mustReduce(t, reducer, state, SearchCommitAction{Gen: staleGen})
	if len(loader.requests) != 0 {
		t.Fatalf("a commit from a superseded keystroke must be ignored, got %d requests", len(loader.requests))
	}

	commitSearch(t, reducer, state)
	if len(loader.requests) != 1 {
		t.Fatalf("expected 1 search request, got %d", len(loader.requests))
	}
	if loader.requests[0].Query != "rep" {
		t.Errorf("expected query %q, got %q", "rep", loader.requests[0].Query)
	}
	if loader.requests[0].PageSize != 20 {
		t.Errorf("expected page size 20, got %d", loader.requests[0].PageSize)
	}
}

func TestStaleSearchResultsDiscarded(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeSearchLoader{}
	state.SearchLoader = loader
	installDispatch(t, state)

	typeQuery(t, reducer, state, "re")
	commitSearch(t, reducer, state)
	staleSeq := state.ActiveSearchSeq()

	typeQuery(t, reducer, state, "port")
	commitSearch(t, reducer, state)

	if len(loader.cancelled) == 0 || loader.cancelled[len(loader.cancelled)-1] != staleSeq {
		t.Errorf("expected seq %d cancelled, got %v", staleSeq, loader.cancelled)
	}

	mustReduce(t, reducer, state, SearchResultsAction{
		Seq:  staleSeq,
		Page: SearchPage{Results: []SearchResult{{Type: ItemFile, ID: "old", Name: "re.txt"}}},
	})
	if len(state.SearchResults) != 0 {
		t.Errorf("stale results applied: %+v", state.SearchResults)
	}
	if !state.SearchLoading {
		t.Error("a stale response must not clear the loading flag")
	}

	mustReduce(t, reducer, state, SearchResultsAction{
		Seq: state.ActiveSearchSeq(),
		Page: SearchPage{
			Results:    []SearchResult{{Type: ItemFile, ID: "new", Name: "report.txt"}},
			TotalCount: 1,
		},
	})
	if len(state.SearchResults) != 1 || state.SearchResults[0].ID != "new" {
		t.Errorf("expected the fresh results, got %+v", state.SearchResults)
	}
	if state.SearchLoading {
		t.Error("loading must clear once the active response lands")
	}
}

func TestSearchErrorSurfaced(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeSearchLoader{}
	state.SearchLoader = loader
	installDispatch(t, state)

	typeQuery(t, reducer, state, "re")
	commitSearch(t, reducer, state)
	mustReduce(t, reducer, state, SearchResultsAction{
		Seq: state.ActiveSearchSeq(),
		Err: errors.New("search unavailable"),
	})

	if state.SearchErr == nil {
		t.Error("expected the search error to be surfaced")
	}
	if !state.SearchActive {
		t.Error("a failed search stays in search mode so the error is visible")
	}
}

func TestSearchClearRestoresBrowse(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeSearchLoader{}
	state.SearchLoader = loader
	installDispatch(t, state)

	state.Folders = []FolderRef{{ID: "f1", Name: "docs"}}

	typeQuery(t, reducer, state, "re")
	commitSearch(t, reducer, state)
	mustReduce(t, reducer, state, SearchResultsAction{
		Seq:  state.ActiveSearchSeq(),
		Page: SearchPage{Results: []SearchResult{{Type: ItemFile, ID: "x1", Name: "report.txt"}}},
	})

	mustReduce(t, reducer, state, SearchClearAction{})

	if state.SearchActive || state.SearchInput != "" {
		t.Error("clear must leave search mode and empty the input")
	}
	view := DerivedView(state)
	if view.Mode != ModeBrowse {
		t.Errorf("expected browse mode, got %v", view.Mode)
	}
	if len(view.Folders) != 1 || view.Folders[0].Name != "docs" {
		t.Errorf("browse listing must survive a search session, got %+v", view.Folders)
	}
}

func TestSearchUsesSelectedUser(t *testing.T) {
	state, reducer := newTestState(adminUser())
	loader := &fakeSearchLoader{}
	state.SearchLoader = loader
	state.SelectedUserID = strptr("u7")
	installDispatch(t, state)

	typeQuery(t, reducer, state, "re")
	commitSearch(t, reducer, state)

	if len(loader.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(loader.requests))
	}
	if got := loader.requests[0].UserID; got == nil || *got != "u7" {
		t.Errorf("expected user u7 on the search request, got %v", got)
	}
}

func TestSearchTrimsQuery(t *testing.T) {
	state, reducer := newTestState(regularUser())
	loader := &fakeSearchLoader{}
	state.SearchLoader = loader
	installDispatch(t, state)

	mustReduce(t, reducer, state, SetSearchInputAction{Query: "  re  "})
	commitSearch(t, reducer, state)

	if len(loader.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(loader.requests))
	}
	if loader.requests[0].Query != "re" {
		t.Errorf("expected trimmed query %q, got %q", "re", loader.requests[0].Query)
	}
}

func TestNavigationCancelsSearchSession(t *testing.T) {
	state, reducer := newTestState(regularUser())
	search := &fakeSearchLoader{}
	browse := &fakeBrowseLoader{}
	state.SearchLoader = search
	state.BrowseLoader = browse
	installDispatch(t, state)

	typeQuery(t, reducer, state, "re")
	commitSearch(t, reducer, state)
	inFlight := state.ActiveSearchSeq()

	mustReduce(t, reducer, state, NavigateToFolderAction{FolderID: strptr("f1")})

	if state.SearchActive {
		t.Error("navigation must tear down the search session")
	}
	if len(search.cancelled) == 0 || search.cancelled[len(search.cancelled)-1] != inFlight {
		t.Errorf("expected in-flight search %d cancelled, got %v", inFlight, search.cancelled)
	}

	mustReduce(t, reducer, state, SearchResultsAction{
		Seq:  inFlight,
		Page: SearchPage{Results: []SearchResult{{Type: ItemFile, ID: "late", Name: "re.txt"}}},
	})
	if len(state.SearchResults) != 0 {
		t.Errorf("a late response after navigation must be discarded, got %+v", state.SearchResults)
	}
}
