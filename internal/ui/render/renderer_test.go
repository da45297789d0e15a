package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pratham-8123/vaultbox/internal/api"
	"github.com/pratham-8123/vaultbox/internal/identity"
	"github.com/pratham-8123/vaultbox/internal/session"
)

func TestTruncateTextToWidth(t *testing.T) {
	r := NewRenderer(nil)

	tests := []struct {
		name   string
		text   string
		width  int
		expect string
	}{
		{
			name:   "fits without truncation",
			text:   "file.txt",
			width:  20,
			expect: "file.txt",
		},
		{
			name:   "adds ellipsis when needed",
			text:   "verylongname",
			width:  6,
			expect: "veryl…",
		},
		{
			name:   "only ellipsis when width too small",
			text:   "example",
			width:  1,
			expect: "…",
		},
		{
			name:   "multi-byte characters respected",
			text:   "你好世界",
			width:  5,
			expect: "你好…",
		},
		{
			name:   "returns empty when width is zero",
			text:   "anything",
			width:  0,
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := r.truncateTextToWidth(tt.text, tt.width)
			if actual != tt.expect {
				t.Fatalf("expected %q, got %q (width %d)", tt.expect, actual, tt.width)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		size   int64
		expect string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5 MB"},
	}
	for _, tc := range cases {
		if got := formatSize(tc.size); got != tc.expect {
			t.Errorf("formatSize(%d) = %q, want %q", tc.size, got, tc.expect)
		}
	}
}

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func screenText(screen tcell.SimulationScreen) string {
	cells, w, h := screen.GetContents()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := cells[y*w+x]
			if len(cell.Runes) > 0 {
				sb.WriteRune(cell.Runes[0])
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestRenderBrowseListing(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	r := NewRenderer(screen)

	state := session.NewSessionState(session.User{
		ID: "u1", Username: "alice", Role: identity.RoleUser,
	})
	state.ScreenWidth, state.ScreenHeight = 80, 24
	state.Breadcrumb = []session.BreadcrumbItem{{ID: nil, Name: "root"}}
	state.Folders = []session.FolderRef{{ID: "f1", Name: "documents"}}
	state.Files = []session.FileRef{{ID: "x1", Name: "notes.txt", Size: 512}}

	r.Render(state)

	text := screenText(screen)
	for _, want := range []string{"vaultbox", "alice", "documents", "notes.txt", "512 B"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered screen missing %q", want)
		}
	}
}

func TestRenderSearchResults(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	r := NewRenderer(screen)

	state := session.NewSessionState(session.User{ID: "u1", Username: "alice"})
	state.ScreenWidth, state.ScreenHeight = 80, 24
	state.SearchInput = "rep"
	state.SearchActive = true
	state.SearchResults = []session.SearchResult{
		{Type: session.ItemFile, ID: "x1", Name: "report.txt", Size: 2048},
	}
	state.SearchTotal = 1

	r.Render(state)

	text := screenText(screen)
	for _, want := range []string{"rep", "report.txt", "results (1 total)"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered screen missing %q", want)
		}
	}
}

func TestRenderPromptLine(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	r := NewRenderer(screen)

	state := session.NewSessionState(session.User{ID: "u1", Username: "alice"})
	state.Prompt = &session.Prompt{Kind: session.PromptCreateFolder, Text: "archive"}

	r.Render(state)

	text := screenText(screen)
	if !strings.Contains(text, "new folder:") || !strings.Contains(text, "archive") {
		t.Error("prompt line not rendered")
	}
}

func TestFormatTimestampZero(t *testing.T) {
	if got := formatTimestamp(api.Timestamp{}); got != "" {
		t.Errorf("expected empty for zero timestamp, got %q", got)
	}
}
