package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pratham-8123/vaultbox/internal/session"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan session.Action
	state      *session.SessionState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan session.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *session.SessionState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. Returns false when the
// application should exit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- session.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	helpVisible := ih.state != nil && ih.state.HelpVisible
	promptOpen := ih.state != nil && ih.state.Prompt != nil
	pickerOpen := ih.state != nil && ih.state.UserPickerActive
	searchFocused := ih.state != nil && ih.state.SearchFocused
	searchActive := ih.state != nil && (ih.state.SearchActive || ih.state.SearchInput != "")

	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- session.QuitAction{}
		return false
	}

	if helpVisible {
		switch ev.Key() {
		case tcell.KeyEscape:
			ih.actionChan <- session.HelpHideAction{}
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				ih.actionChan <- session.HelpHideAction{}
			}
		}
		return true
	}

	if promptOpen {
		switch ev.Key() {
		case tcell.KeyEscape:
			ih.actionChan <- session.PromptCancelAction{}
		case tcell.KeyEnter:
			ih.actionChan <- session.PromptSubmitAction{}
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			ih.actionChan <- session.PromptBackspaceAction{}
		case tcell.KeyRune:
			ih.actionChan <- session.PromptCharAction{Char: ev.Rune()}
		}
		return true
	}

	if pickerOpen {
		switch ev.Key() {
		case tcell.KeyEscape:
			ih.actionChan <- session.UserPickerCloseAction{}
		case tcell.KeyEnter:
			ih.actionChan <- session.UserPickerChooseAction{}
		case tcell.KeyUp:
			ih.actionChan <- session.UserPickerMoveAction{Delta: -1}
		case tcell.KeyDown:
			ih.actionChan <- session.UserPickerMoveAction{Delta: 1}
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'k':
				ih.actionChan <- session.UserPickerMoveAction{Delta: -1}
			case 'j':
				ih.actionChan <- session.UserPickerMoveAction{Delta: 1}
			case 'q':
				ih.actionChan <- session.UserPickerCloseAction{}
			}
		}
		return true
	}

	if searchFocused {
		switch ev.Key() {
		case tcell.KeyEscape:
			ih.actionChan <- session.SearchClearAction{}
		case tcell.KeyEnter:
			// Stop editing; the debounced request keeps running.
			ih.actionChan <- session.SearchBlurAction{}
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			ih.actionChan <- session.SearchBackspaceAction{}
		case tcell.KeyUp:
			ih.actionChan <- session.SearchBlurAction{}
			ih.actionChan <- session.CursorUpAction{}
		case tcell.KeyDown:
			ih.actionChan <- session.SearchBlurAction{}
			ih.actionChan <- session.CursorDownAction{}
		case tcell.KeyRune:
			ih.actionChan <- session.SearchCharAction{Char: ev.Rune()}
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		if searchActive {
			ih.actionChan <- session.SearchClearAction{}
		} else if ih.state != nil && ih.state.SelectedUserID != nil {
			ih.actionChan <- session.ClearSelectedUserAction{}
		}
		return true

	case tcell.KeyUp:
		ih.actionChan <- session.CursorUpAction{}
		return true

	case tcell.KeyDown:
		ih.actionChan <- session.CursorDownAction{}
		return true

	case tcell.KeyEnter, tcell.KeyRight:
		ih.actionChan <- session.OpenSelectionAction{}
		return true

	case tcell.KeyLeft:
		ih.navigateToParent()
		return true

	case tcell.KeyHome:
		ih.actionChan <- session.CursorHomeAction{}
		return true

	case tcell.KeyEnd:
		ih.actionChan <- session.CursorEndAction{}
		return true

	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}

	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- session.QuitAction{}
		return false

	case '?':
		ih.actionChan <- session.HelpToggleAction{}

	case '/':
		ih.actionChan <- session.SearchFocusAction{}

	case 'j':
		ih.actionChan <- session.CursorDownAction{}

	case 'k':
		ih.actionChan <- session.CursorUpAction{}

	case 'h':
		ih.navigateToParent()

	case 'l':
		ih.actionChan <- session.OpenSelectionAction{}

	case 'g':
		ih.actionChan <- session.CursorHomeAction{}

	case 'G':
		ih.actionChan <- session.CursorEndAction{}

	case 'R':
		ih.actionChan <- session.RefreshAction{}

	case 'n':
		ih.actionChan <- session.PromptStartAction{Kind: session.PromptCreateFolder}

	case 'r':
		if item, ok := ih.selectedItem(); ok && item.Type == session.ItemFolder {
			ih.actionChan <- session.PromptStartAction{
				Kind:       session.PromptRenameFolder,
				TargetID:   item.ID,
				TargetName: item.Name,
				Initial:    item.Name,
			}
		}

	case 'u':
		ih.actionChan <- session.PromptStartAction{Kind: session.PromptUploadPath}

	case 'x':
		if item, ok := ih.selectedItem(); ok {
			if item.Type == session.ItemFolder {
				ih.actionChan <- session.DeleteFolderAction{FolderID: item.ID}
			} else {
				ih.actionChan <- session.DeleteFileAction{FileID: item.ID}
			}
		}

	case 'd':
		if item, ok := ih.selectedItem(); ok && item.Type == session.ItemFile {
			ih.actionChan <- session.DownloadFileAction{FileID: item.ID, Name: item.Name}
		}

	case 'v':
		ih.actionChan <- session.UserPickerOpenAction{}
	}

	return true
}

func (ih *InputHandler) selectedItem() (session.Item, bool) {
	if ih.state == nil {
		return session.Item{}, false
	}
	view := session.DerivedView(ih.state)
	return view.ItemAt(view.SelectedIdx)
}

// navigateToParent walks one breadcrumb level up; at the root it is a no-op.
func (ih *InputHandler) navigateToParent() {
	if ih.state == nil {
		return
	}
	crumbs := ih.state.Breadcrumb
	if len(crumbs) < 2 {
		return
	}
	parent := crumbs[len(crumbs)-2]
	ih.actionChan <- session.NavigateToFolderAction{FolderID: parent.ID}
}
