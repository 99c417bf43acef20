// Command go-planner runs the desktop planner together with its local calendar feed.
//
// Usage:
//
//	go-planner [-debug] [-config settings.yaml] [-doc plan.planner]
//	go-planner -version
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
	"github.com/tartampluch/go-planner/internal/server"
	"github.com/tartampluch/go-planner/internal/ui"
)

// options holds the parsed command line.
type options struct {
	version      bool
	debug        bool
	settingsPath string
	document     string
}

// parseFlags reads the command line. Unknown flags make the flag package exit with usage.
func parseFlags() options {
	var opts options
	flag.BoolVar(&opts.version, config.FlagVersion, false, config.FlagDescVersion)
	flag.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	flag.StringVar(&opts.settingsPath, config.FlagConfig, "", config.FlagDescConfig)
	flag.StringVar(&opts.document, config.FlagDoc, "", config.FlagDescDoc)
	flag.Parse()
	return opts
}

// main delegates to runMain so that deferred calls (like closing the log
// file) run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain returns the exit code so deferred cleanup runs before os.Exit.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	opts := parseFlags()
	if opts.version {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	if logFile := setupLogging(opts.debug); logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed, config.LogKeyComponent, config.CompMain, config.LogKeyError, err)
		return config.ExitCodeError
	}
	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// loadSettings falls back to defaults when the settings file is unreadable.
func loadSettings(path string) (*config.Settings, string, error) {
	if path == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		slog.Warn(config.ErrSettingsLoad,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyPath, path,
			config.LogKeyError, err)
		settings = config.DefaultSettings()
	}
	return settings, path, nil
}

// run loads the settings, wires the feed server, the fetcher and the UI, then
// blocks in the Fyne event loop until the main window closes or ctx ends.
func run(ctx context.Context, opts options) error {
	settings, settingsPath, err := loadSettings(opts.settingsPath)
	if err != nil {
		return err
	}

	a := app.NewWithID(config.AppID)
	// Record the version for potential migration logic in future updates.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	gui := ui.NewPlannerApp(a, ctx, settings, settingsPath,
		server.NewFeedServer(settings.FeedPort), engine.NewHTTPFetcher())

	// -doc wins over the last opened document.
	doc := settings.Document
	if opts.document != "" {
		doc = opts.document
	}
	if doc != "" {
		if err := gui.OpenDocument(doc); err != nil {
			slog.Warn(config.MsgDocOpenFailed,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyPath, doc,
				config.LogKeyError, err)
		}
	}

	// Lifecycle bridge: a signal quits the UI the same way closing the window does.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()
	return nil
}

// printVersion outputs the build information injected via -ldflags.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// setupLogging installs a JSON logger writing to stdout and, when possible,
// to a log file in the user cache dir. The returned file must be closed.
func setupLogging(debug bool) *os.File {
	out := io.Writer(os.Stdout)
	logFile, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, config.LogFileName, err)
	} else {
		out = io.MultiWriter(os.Stdout, logFile)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})))
	return logFile
}

// openLogFile truncates the previous run's log.
func openLogFile() (*os.File, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	dir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return os.OpenFile(filepath.Join(dir, config.LogFileName), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
}
