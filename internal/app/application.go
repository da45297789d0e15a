package app

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/pratham-8123/vaultbox/internal/api"
	"github.com/pratham-8123/vaultbox/internal/identity"
	"github.com/pratham-8123/vaultbox/internal/logging"
	"github.com/pratham-8123/vaultbox/internal/session"
	inputui "github.com/pratham-8123/vaultbox/internal/ui/input"
	renderui "github.com/pratham-8123/vaultbox/internal/ui/render"
)

// Config wires the browse session to a server connection.
type Config struct {
	Service  api.Service
	Me       identity.User
	PageSize int
	// DownloadDir receives files saved with the download key. Empty means
	// the current working directory.
	DownloadDir string
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	state      *session.SessionState
	reducer    *session.Reducer
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	actionCh   chan session.Action
	shouldQuit bool
	log        *zap.Logger

	lastClickIndex int
	lastClickTime  time.Time
}

// NewApplication sets up the terminal and the session state machine.
func NewApplication(cfg Config) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	state := session.NewSessionState(cfg.Me)
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h
	state.PageSize = cfg.PageSize

	state.BrowseLoader = session.NewAsyncBrowseLoader(cfg.Service)
	state.SearchLoader = session.NewAsyncSearchLoader(cfg.Service)
	state.UsersLoader = session.NewAsyncUsersLoader(cfg.Service)
	state.Mutator = session.NewAsyncMutator(cfg.Service)

	downloadDir := cfg.DownloadDir
	if downloadDir == "" {
		downloadDir = "."
	}
	state.Downloader = session.NewAsyncDownloader(cfg.Service, downloadDir)

	actionCh := make(chan session.Action, 10)
	state.SetDispatch(func(action session.Action) {
		select {
		case actionCh <- action:
		default:
			go func() { actionCh <- action }()
		}
	})

	app := &Application{
		screen:   screen,
		state:    state,
		reducer:  session.NewReducer(),
		renderer: renderui.NewRenderer(screen),
		input:    inputui.NewInputHandler(actionCh),
		actionCh: actionCh,
		log:      logging.L(),
	}
	app.input.SetState(state)

	// Open at the storage root.
	if _, err := app.reducer.Reduce(state, session.NavigateToFolderAction{}); err != nil {
		screen.Fini()
		return nil, err
	}

	return app, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	close(app.actionCh)
	app.screen.Fini()
	return nil
}
