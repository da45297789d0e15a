package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pratham-8123/vaultbox/internal/session"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *session.SessionState) []string {
	sections := []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "↑/↓", desc: "Move selection"},
				{keys: "↵ or →", desc: "Open selected folder"},
				{keys: "← or h", desc: "Go to parent folder"},
				{keys: "g / G", desc: "Jump to first / last item"},
				{keys: "R", desc: "Refresh listing"},
			},
		},
		{
			title: "Search",
			entries: []helpOverlayEntry{
				{keys: "/", desc: "Focus the search bar"},
				{keys: "Esc", desc: "Clear search / back to browsing"},
			},
		},
		{
			title: "Files & Folders",
			entries: []helpOverlayEntry{
				{keys: "n", desc: "New folder"},
				{keys: "r", desc: "Rename selected folder"},
				{keys: "u", desc: "Upload a file"},
				{keys: "d", desc: "Download selected file"},
				{keys: "x", desc: "Delete selection"},
			},
		},
	}

	if state != nil && state.Me.IsAdmin() {
		sections = append(sections, helpOverlaySection{
			title: "Admin",
			entries: []helpOverlayEntry{
				{keys: "v", desc: "View another user's storage"},
				{keys: "Esc", desc: "Back to own storage"},
			},
		})
	}

	sections = append(sections, helpOverlaySection{
		title: "Exit",
		entries: []helpOverlayEntry{
			{keys: "q", desc: "Quit"},
			{keys: "Ctrl+C", desc: "Quit immediately"},
			{keys: "?", desc: "Close this help"},
		},
	})

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	return fmt.Sprintf("  %-14s %s", entry.keys, entry.desc)
}

func (r *Renderer) drawHelpOverlay(state *session.SessionState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillLine(0, y, w, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	footer := "? toggle · Esc/q close"
	if h > 0 {
		footerText := r.truncateTextToWidth(footer, w)
		r.drawTextLine(0, h-1, w, footerText, headerStyle)
	}
}
