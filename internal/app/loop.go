package app

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/pratham-8123/vaultbox/internal/session"
)

const doubleClickThreshold = 300 * time.Millisecond

// listStartRow mirrors the renderer's row layout; mouse hit testing needs it.
const listStartRow = 4

// Run drives the event loop until quit.
func (app *Application) Run() {
	defer app.screen.Fini()

	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			eventChan <- app.screen.PollEvent()
		}
	}()

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps primary-clicks to selection; a double-click opens the
// selected folder.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	if app.state == nil || ev.Buttons()&tcell.Button1 == 0 {
		return false
	}
	if app.state.UserPickerActive || app.state.HelpVisible || app.state.Prompt != nil {
		return false
	}

	_, y := ev.Position()
	bottomLimit := app.state.ScreenHeight - 1
	if y < listStartRow || y >= bottomLimit {
		return false
	}
	row := y - listStartRow

	idx := app.state.ScrollOffset + row
	view := session.DerivedView(app.state)
	if idx < 0 || idx >= view.ItemCount() {
		return false
	}

	doubleClick := app.lastClickIndex == idx && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickIndex = idx
	app.lastClickTime = time.Now()

	app.actionCh <- session.SelectIndexAction{Index: idx}
	if doubleClick {
		app.actionCh <- session.OpenSelectionAction{}
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action session.Action) bool {
	if action == nil {
		return false
	}

	if _, ok := action.(session.QuitAction); ok {
		app.shouldQuit = true
		return false
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.log.Error("reduce failed", zap.Error(err), zap.String("action", fmt.Sprintf("%T", action)))
	}
	return true
}
