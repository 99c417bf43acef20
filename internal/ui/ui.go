package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
	"github.com/tartampluch/go-planner/internal/server"
)

//go:embed Icon.png
var appIconData []byte

// PlannerApp encapsulates the UI state, the open document and background work.
type PlannerApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Fetcher engine.Fetcher
	Clock   engine.Clock // Injected clock for testability

	SupportedLanguages []string
	configChan         chan struct{}

	// Guarded by mu.
	mu           sync.RWMutex
	server       *server.FeedServer
	serverCancel context.CancelFunc
	store        *engine.Store
	unsubscribe  func()
	docPath      string
	dirty        bool
	settings     config.Settings
	settingsPath string

	// Set once the main window exists.
	uiReady atomic.Bool

	// Only touched on the Fyne goroutine.
	view           *calendarView
	settingsWindow fyne.Window
}

// NewPlannerApp constructs the application around an empty document.
func NewPlannerApp(a fyne.App, ctx context.Context, settings *config.Settings, settingsPath string, srv *server.FeedServer, fetcher engine.Fetcher) *PlannerApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	if settings == nil {
		settings = config.DefaultSettings()
	}

	app := &PlannerApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Fetcher:            fetcher,
		Clock:              engine.RealClock{},
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan struct{}, config.ChannelBufferSize),
		server:             srv,
		settings:           *settings,
		settingsPath:       settingsPath,
	}
	app.setStore(engine.NewStore(app.now()), "")
	return app
}

// Run launches the application services and the main UI loop.
func (app *PlannerApp) Run() {
	app.SetupI18n()
	app.watchPreferences()
	app.startServer()
	app.buildMainWindow()

	go app.backgroundWorker()
	go app.countdownWorker()

	app.Window.ShowAndRun()
}

func (app *PlannerApp) now() time.Time {
	return engine.NowFrom(app.Clock)
}

// Store returns the store of the open document.
func (app *PlannerApp) Store() *engine.Store {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.store
}

// DocumentPath returns the file backing the open document, if any.
func (app *PlannerApp) DocumentPath() string {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.docPath
}

// Dirty reports unsaved changes.
func (app *PlannerApp) Dirty() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.dirty
}

func (app *PlannerApp) currentSettings() config.Settings {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.settings
}

func (app *PlannerApp) feed() *server.FeedServer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.server
}

// setStore swaps the open document and moves the subscription to the new store.
func (app *PlannerApp) setStore(store *engine.Store, path string) {
	app.mu.Lock()
	if app.unsubscribe != nil {
		app.unsubscribe()
	}
	app.store = store
	app.docPath = path
	app.dirty = false
	app.unsubscribe = store.Subscribe(app.onStoreChanged)
	app.mu.Unlock()

	app.publish(store.Events())
	app.refreshViews()
}

// onStoreChanged runs after every store mutation.
func (app *PlannerApp) onStoreChanged(snap engine.Snapshot) {
	app.mu.Lock()
	app.dirty = true
	app.mu.Unlock()

	app.publish(snap.Events)
	app.refreshViews()
}

func (app *PlannerApp) publish(events []engine.Event) {
	srv := app.feed()
	if srv == nil {
		return
	}
	if err := srv.Publish(events); err != nil {
		slog.Error(config.ErrFeedEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
}

// refreshViews redraws the main window on the Fyne goroutine.
func (app *PlannerApp) refreshViews() {
	if !app.uiReady.Load() {
		return
	}
	fyne.Do(func() {
		if app.view != nil {
			app.view.refresh()
		}
	})
}

// startServer (re)starts the feed server under a child of the app context.
func (app *PlannerApp) startServer() {
	app.mu.Lock()
	if app.serverCancel != nil {
		app.serverCancel()
	}
	ctx, cancel := context.WithCancel(app.Ctx)
	app.serverCancel = cancel
	srv := app.server
	app.mu.Unlock()

	if srv == nil {
		return
	}

	go func() {
		if err := srv.Start(ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, srv.Port)))
		}
	}()
}

// restartServer moves the feed to a new port, keeping the published content.
func (app *PlannerApp) restartServer(port string) {
	srv := server.NewFeedServer(port)
	srv.Clock = app.Clock

	app.mu.Lock()
	app.server = srv
	store := app.store
	app.mu.Unlock()

	app.publish(store.Events())
	app.startServer()
}

// watchPreferences wakes the worker when preferences change.
func (app *PlannerApp) watchPreferences() {
	app.Preferences.AddChangeListener(app.signalWorker)
}

func (app *PlannerApp) signalWorker() {
	select {
	case app.configChan <- struct{}{}:
	default:
	}
}

// backgroundWorker owns the autosave schedule and reschedules it on configuration changes.
func (app *PlannerApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	c := cron.New()
	c.Start()
	defer c.Stop()

	var entry cron.EntryID
	current := ""

	schedule := func() {
		spec := app.currentSettings().Autosave
		if entry != 0 && spec == current {
			return
		}
		if entry != 0 {
			c.Remove(entry)
			entry = 0
		}
		current = spec

		if spec == "" {
			log.Info(config.MsgAutosaveOff)
			return
		}
		id, err := c.AddFunc(spec, app.autosave)
		if err != nil {
			log.Error(config.ErrAutosaveSpec, config.LogKeySpec, spec, config.LogKeyError, err)
			return
		}
		entry = id
		log.Info(config.MsgAutosaveSched, config.LogKeySpec, spec)
	}

	schedule()
	log.Info(config.MsgWorkerStart)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			schedule()
		}
	}
}

// autosave writes the document when it has a path and unsaved changes.
func (app *PlannerApp) autosave() {
	if !app.Dirty() || app.DocumentPath() == "" {
		return
	}
	start := time.Now()
	if err := app.saveDocument(); err != nil {
		slog.Error(config.ErrDocWrite,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err)
		return
	}
	slog.Info(config.MsgAutosaveDone,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyPath, app.DocumentPath(),
		config.LogKeyDuration, time.Since(start).Milliseconds())
}

// countdownWorker ticks the countdown tab until the app context ends.
func (app *PlannerApp) countdownWorker() {
	ticker := time.NewTicker(config.CountdownTick)
	defer ticker.Stop()

	for {
		select {
		case <-app.Ctx.Done():
			return
		case <-ticker.C:
			fyne.Do(func() {
				if app.view != nil {
					app.view.countdown.tick()
				}
			})
		}
	}
}

func (app *PlannerApp) notify(msg string) {
	app.App.SendNotification(fyne.NewNotification(config.AppName, msg))
}
