package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/pratham-8123/vaultbox/internal/session"
)

// Row layout: title, breadcrumb, search bar, column captions, listing,
// status line. Overlays (help, user picker) draw on top of the listing.
const (
	titleRow      = 0
	breadcrumbRow = 1
	searchRow     = 2
	captionRow    = 3
	listStartRow  = 4
)

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *session.SessionState) {
	r.screen.Clear()

	w, h := r.screen.Size()
	view := session.DerivedView(state)

	r.drawTitle(state, w)
	r.drawBreadcrumb(state, &view, w)
	r.drawSearchBar(state, w)
	r.drawCaptions(&view, w)
	r.drawListing(state, &view, w, h)
	r.drawStatusLine(state, &view, w, h)

	if state.UserPickerActive {
		r.drawUserPicker(state, w, h)
	}
	if state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
	}

	r.screen.Show()
}

func (r *Renderer) drawTitle(state *session.SessionState, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	endX := r.drawTextLine(0, titleRow, w, "vaultbox", style.Bold(true))

	who := " " + state.Me.Username
	if state.Me.IsAdmin() {
		who += " (admin)"
	}
	if state.SelectedUserID != nil {
		who += " → " + r.selectedUserLabel(state)
	}
	endX = r.drawTextLine(endX, titleRow, w-endX, who, style)

	if state.Uploading {
		status := " uploading…"
		statusW := r.measureTextWidth(status)
		if w-statusW > endX {
			r.drawTextLine(w-statusW, titleRow, statusW, status, style.Foreground(r.theme.SearchFg))
		}
	}

	r.fillLine(endX, titleRow, w, style)
}

// selectedUserLabel resolves the selected user id against the cached user
// list; the raw id is shown until the list arrives.
func (r *Renderer) selectedUserLabel(state *session.SessionState) string {
	id := *state.SelectedUserID
	for i := range state.Users {
		if state.Users[i].ID == id {
			if state.Users[i].Username != "" {
				return sanitizeText(state.Users[i].Username)
			}
			return sanitizeText(state.Users[i].Email)
		}
	}
	return sanitizeText(id)
}

func (r *Renderer) drawBreadcrumb(state *session.SessionState, view *session.DisplayView, w int) {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.MutedFg)

	crumbs := view.Breadcrumb
	if len(crumbs) == 0 {
		crumbs = []session.BreadcrumbItem{{ID: nil, Name: "root"}}
	}

	endX := 0
	lastIdx := len(crumbs) - 1
	if lastIdx > 0 {
		names := make([]string, lastIdx)
		for i := 0; i < lastIdx; i++ {
			names[i] = sanitizeText(crumbs[i].Name)
		}
		prefix := strings.Join(names, " › ") + " › "
		prefix = r.truncateTextToWidth(prefix, w-1)
		endX = r.drawTextLine(0, breadcrumbRow, w, prefix, style)
	}
	if endX < w {
		last := r.truncateTextToWidth(sanitizeText(crumbs[lastIdx].Name), w-endX)
		endX = r.drawTextLine(endX, breadcrumbRow, w-endX, last, style.Foreground(r.theme.Foreground).Bold(true))
	}

	r.fillLine(endX, breadcrumbRow, w, style)
}

func (r *Renderer) drawSearchBar(state *session.SessionState, w int) {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	labelStyle := style.Foreground(r.theme.MutedFg)

	endX := r.drawTextLine(0, searchRow, w, "search: ", labelStyle)

	if state.SearchInput == "" && !state.SearchFocused {
		endX = r.drawTextLine(endX, searchRow, w-endX, "press / to search", labelStyle)
	} else {
		inputStyle := style
		if state.SearchFocused {
			inputStyle = inputStyle.Foreground(r.theme.SearchFg)
		}
		endX = r.drawTextLine(endX, searchRow, w-endX, state.SearchInput, inputStyle)
		if state.SearchFocused && endX < w {
			r.screen.SetContent(endX, searchRow, '▏', nil, inputStyle)
			endX++
		}
	}

	if state.SearchLoading {
		spinner := " searching…"
		spinnerW := r.measureTextWidth(spinner)
		if w-spinnerW > endX {
			r.drawTextLine(w-spinnerW, searchRow, spinnerW, spinner, labelStyle)
		}
	}

	r.fillLine(endX, searchRow, w, style)
}

func (r *Renderer) drawCaptions(view *session.DisplayView, w int) {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.MutedFg)

	var caption string
	if view.Mode == session.ModeSearch {
		caption = fmt.Sprintf("results (%d total)", view.Total)
	} else {
		caption = fmt.Sprintf("%d folders · %d files", len(view.Folders), len(view.Files))
	}
	endX := r.drawTextLine(0, captionRow, w, caption, style)
	r.fillLine(endX, captionRow, w, style)
}

func (r *Renderer) drawListing(state *session.SessionState, view *session.DisplayView, w, h int) {
	listHeight := h - listStartRow - 1
	if listHeight < 1 {
		return
	}

	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)

	count := view.ItemCount()
	if count == 0 {
		msg := "empty folder"
		if view.Mode == session.ModeSearch {
			msg = "no results"
			if view.Loading {
				msg = ""
			}
		} else if view.Loading {
			msg = "loading…"
		}
		r.drawTextLine(2, listStartRow, w-2, msg, baseStyle.Foreground(r.theme.MutedFg))
		return
	}

	offset := state.ScrollOffset
	if offset > count-1 {
		offset = count - 1
	}
	if offset < 0 {
		offset = 0
	}

	for row := 0; row < listHeight; row++ {
		idx := offset + row
		if idx >= count {
			break
		}
		item, ok := view.ItemAt(idx)
		if !ok {
			break
		}
		r.drawItemRow(view, item, idx == view.SelectedIdx, listStartRow+row, w)
	}
}

func (r *Renderer) drawItemRow(view *session.DisplayView, item session.Item, selected bool, y, w int) {
	style := tcell.StyleDefault.Background(r.theme.Background)
	if selected {
		style = style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}

	nameStyle := style
	icon := "  "
	if item.Type == session.ItemFolder {
		icon = "▸ "
		if !selected {
			nameStyle = nameStyle.Foreground(r.theme.FolderFg)
		}
	} else if !selected {
		nameStyle = nameStyle.Foreground(r.theme.FileFg)
	}

	detail := r.itemDetail(view, item)
	detailW := r.measureTextWidth(detail)

	nameWidth := w - len(icon) - detailW - 3
	if nameWidth < 4 {
		nameWidth = 4
	}

	endX := r.drawTextLine(1, y, w-1, icon, style)
	endX = r.drawTextLine(endX, y, nameWidth, r.truncateTextToWidth(sanitizeText(item.Name), nameWidth), nameStyle)

	detailStyle := style
	if !selected {
		detailStyle = detailStyle.Foreground(r.theme.MutedFg)
	}
	detailX := w - detailW - 1
	if detailX > endX {
		r.fillLine(endX, y, detailX, style)
		endX = r.drawTextLine(detailX, y, detailW, detail, detailStyle)
	}
	r.fillLine(endX, y, w, style)
}

// itemDetail is the right-aligned column: size and date for files, owner
// path for search results, date for folders.
func (r *Renderer) itemDetail(view *session.DisplayView, item session.Item) string {
	switch {
	case item.File != nil:
		return formatSize(item.File.Size) + "  " + formatTimestamp(item.File.UploadedAt)
	case item.Folder != nil:
		return formatTimestamp(item.Folder.CreatedAt)
	case item.Result != nil:
		if item.Result.Type == session.ItemFile {
			return formatSize(item.Result.Size) + "  " + formatTimestamp(item.Result.CreatedAt)
		}
		if item.Result.Path != "" {
			return item.Result.Path
		}
		return formatTimestamp(item.Result.CreatedAt)
	}
	return ""
}

func (r *Renderer) drawStatusLine(state *session.SessionState, view *session.DisplayView, w, h int) {
	y := h - 1
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	if state.Prompt != nil {
		r.drawPrompt(state.Prompt, y, w, style)
		return
	}

	var text string
	errStyle := style.Foreground(r.theme.ErrorFg)
	switch {
	case state.MutErr != nil:
		r.drawErrorLine(state.MutErr.Error(), y, w, errStyle, style)
		return
	case view.Err != nil:
		r.drawErrorLine(view.Err.Error(), y, w, errStyle, style)
		return
	case state.Notice != "":
		text = state.Notice
	case view.Mode == session.ModeSearch:
		text = fmt.Sprintf("%d/%d · Esc clear search · ? help", view.SelectedIdx+1, view.ItemCount())
	default:
		text = fmt.Sprintf("%d/%d · n new · u upload · ? help · q quit", view.SelectedIdx+1, view.ItemCount())
	}

	endX := r.drawTextLine(0, y, w, text, style.Foreground(r.theme.MutedFg))
	r.fillLine(endX, y, w, style)
}

func (r *Renderer) drawErrorLine(msg string, y, w int, errStyle, fillStyle tcell.Style) {
	endX := r.drawTextLine(0, y, w, r.truncateTextToWidth("error: "+msg, w), errStyle)
	r.fillLine(endX, y, w, fillStyle)
}

func (r *Renderer) drawPrompt(p *session.Prompt, y, w int, style tcell.Style) {
	var label string
	switch p.Kind {
	case session.PromptCreateFolder:
		label = "new folder: "
	case session.PromptRenameFolder:
		label = fmt.Sprintf("rename %s: ", sanitizeText(p.TargetName))
	case session.PromptUploadPath:
		label = "upload file: "
	}

	endX := r.drawTextLine(0, y, w, label, style.Foreground(r.theme.MutedFg))
	endX = r.drawTextLine(endX, y, w-endX, p.Text, style.Foreground(r.theme.SearchFg))
	if endX < w {
		r.screen.SetContent(endX, y, '▏', nil, style.Foreground(r.theme.SearchFg))
		endX++
	}
	r.fillLine(endX, y, w, style)
}

func (r *Renderer) drawUserPicker(state *session.SessionState, w, h int) {
	rows := []string{"my storage"}
	for i := range state.Users {
		label := state.Users[i].Username
		if label == "" {
			label = state.Users[i].Email
		}
		rows = append(rows, sanitizeText(label))
	}

	title := " view user storage "
	if state.UsersLoading {
		title = " loading users… "
	}
	if state.UsersErr != nil {
		title = " users unavailable "
	}

	r.drawOverlayBox(title, rows, state.UserPickerIndex, w, h)
}

// drawOverlayBox centers a bordered list overlay; selected may be -1 for a
// plain text box.
func (r *Renderer) drawOverlayBox(title string, rows []string, selected, w, h int) {
	boxW := r.measureTextWidth(title) + 4
	for _, row := range rows {
		if rw := r.measureTextWidth(row) + 6; rw > boxW {
			boxW = rw
		}
	}
	if boxW > w-2 {
		boxW = w - 2
	}
	boxH := len(rows) + 2
	if boxH > h-2 {
		boxH = h - 2
	}

	startX := (w - boxW) / 2
	startY := (h - boxH) / 2
	if startX < 0 || startY < 0 {
		return
	}

	style := tcell.StyleDefault.Background(r.theme.OverlayBg).Foreground(r.theme.OverlayFg)

	for y := startY; y < startY+boxH; y++ {
		r.fillLine(startX, y, startX+boxW, style)
	}
	r.drawTextLine(startX+1, startY, boxW-2, title, style.Bold(true))

	visible := boxH - 2
	offset := 0
	if selected >= visible {
		offset = selected - visible + 1
	}
	for i := 0; i < visible && offset+i < len(rows); i++ {
		rowStyle := style
		if offset+i == selected {
			rowStyle = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
			r.fillLine(startX+1, startY+1+i, startX+boxW-1, rowStyle)
		}
		text := r.truncateTextToWidth(rows[offset+i], boxW-4)
		r.drawTextLine(startX+2, startY+1+i, boxW-4, text, rowStyle)
	}
}
