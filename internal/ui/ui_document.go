package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/document"
	"github.com/tartampluch/go-planner/internal/engine"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Document lifecycle
// -----------------------------------------------------------------------------

// NewDocument replaces the open document with an empty one.
func (app *PlannerApp) NewDocument() {
	app.setStore(engine.NewStore(app.now()), "")
	slog.Info(config.MsgDocNew, config.LogKeyComponent, config.CompUIDoc)
}

// OpenDocument loads path and remembers it in the settings.
func (app *PlannerApp) OpenDocument(path string) error {
	store, err := document.Load(path)
	if err != nil {
		slog.Warn(config.MsgDocOpenFailed,
			config.LogKeyComponent, config.CompUIDoc,
			config.LogKeyPath, path,
			config.LogKeyError, err)
		return err
	}
	app.setStore(store, path)
	app.rememberDocument(path)
	return nil
}

// saveDocument writes the open document to its path.
// The dirty flag is cleared before the snapshot: edits made during the write mark it dirty again.
func (app *PlannerApp) saveDocument() error {
	app.mu.Lock()
	path, store := app.docPath, app.store
	if path == "" {
		app.mu.Unlock()
		return errors.New(config.ErrNoDocumentPath)
	}
	wasDirty := app.dirty
	app.dirty = false
	app.mu.Unlock()

	if err := document.Save(path, store); err != nil {
		app.mu.Lock()
		app.dirty = app.dirty || wasDirty
		app.mu.Unlock()
		return err
	}
	app.refreshViews()
	return nil
}

// SaveDocumentAs writes the open document to path and makes it the document's file.
func (app *PlannerApp) SaveDocumentAs(path string) error {
	app.mu.Lock()
	prev := app.docPath
	app.docPath = path
	app.mu.Unlock()

	if err := app.saveDocument(); err != nil {
		app.mu.Lock()
		app.docPath = prev
		app.mu.Unlock()
		return err
	}
	app.rememberDocument(path)
	return nil
}

// rememberDocument stores the last opened path in the settings file.
func (app *PlannerApp) rememberDocument(path string) {
	app.mu.Lock()
	app.settings.Document = path
	s := app.settings
	settingsPath := app.settingsPath
	app.mu.Unlock()

	if settingsPath == "" {
		return
	}
	if err := config.SaveSettings(settingsPath, &s); err != nil {
		slog.Error(config.ErrSettingsSave,
			config.LogKeyComponent, config.CompUIDoc,
			config.LogKeyError, err)
	}
}

// -----------------------------------------------------------------------------
// Import & export
// -----------------------------------------------------------------------------

// importDrafts appends drafts to the open document and returns how many were added.
func (app *PlannerApp) importDrafts(drafts []engine.Draft) int {
	n := app.Store().AddAll(drafts)
	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompUIDoc,
		config.LogKeyImported, n,
		config.LogKeySkipped, len(drafts)-n)
	return n
}

// ImportICS reads an ICS calendar into the open document.
func (app *PlannerApp) ImportICS(r io.Reader) (int, error) {
	drafts, err := engine.ImportICS(r, time.Local)
	if err != nil {
		return 0, err
	}
	return app.importDrafts(drafts), nil
}

// ImportICSURL downloads an ICS calendar, using the stored credentials for user.
func (app *PlannerApp) ImportICSURL(ctx context.Context, url, user string) (int, error) {
	pass := ""
	if user != "" {
		if p, err := keyring.Get(config.KeyringService, user); err == nil {
			pass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, user,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUIDoc)
		}
	}

	drafts, err := engine.ImportICSURL(ctx, app.Fetcher, url, user, pass, time.Local)
	if err != nil {
		return 0, err
	}
	return app.importDrafts(drafts), nil
}

// ImportVCard adds the next birthday of every contact in r.
func (app *PlannerApp) ImportVCard(ctx context.Context, r io.Reader) (int, error) {
	importer := &engine.BirthdayImporter{
		Clock:       app.Clock,
		FormatTitle: app.birthdayTitle,
	}
	drafts, err := importer.Import(ctx, r)
	if err != nil {
		return 0, err
	}
	return app.importDrafts(drafts), nil
}

// ExportICS writes every event of the open document as an ICS calendar.
func (app *PlannerApp) ExportICS(w io.Writer) error {
	data, err := engine.ExportICS(app.Store().Events(), app.now())
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDocWrite, err)
	}
	slog.Info(config.MsgExported,
		config.LogKeyComponent, config.CompUIDoc,
		config.LogKeySizeBytes, len(data))
	return nil
}

// -----------------------------------------------------------------------------
// Menu actions
// -----------------------------------------------------------------------------

func (app *PlannerApp) showError(err error) {
	slog.Error(config.MsgActionFailed, config.LogKeyComponent, config.CompUIDoc, config.LogKeyError, err)
	if app.Window != nil {
		dialog.ShowError(err, app.Window)
	}
}

func (app *PlannerApp) reportImport(n int, err error) {
	if err != nil {
		app.notify(app.GetMsg(config.TKeyNotifError))
		app.showError(err)
		return
	}
	app.notify(app.GetPlural(config.TKeyNotifImported, n))
}

// confirmDiscard runs next directly, or after confirmation when there are unsaved changes.
func (app *PlannerApp) confirmDiscard(next func()) {
	if !app.Dirty() || app.Window == nil {
		next()
		return
	}
	dialog.ShowConfirm(app.GetMsg(config.TKeyDlgUnsaved), app.GetMsg(config.TKeyDlgUnsavedMsg), func(ok bool) {
		if ok {
			next()
		}
	}, app.Window)
}

func (app *PlannerApp) confirmQuit() {
	app.confirmDiscard(func() {
		app.Window.Close()
	})
}

func (app *PlannerApp) newDocumentAction() {
	app.confirmDiscard(app.NewDocument)
}

func (app *PlannerApp) saveAction() {
	if app.DocumentPath() == "" {
		app.showSaveAsDialog()
		return
	}
	if err := app.saveDocument(); err != nil {
		app.showError(err)
	}
}

func (app *PlannerApp) showOpenDialog() {
	app.confirmDiscard(func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			path := r.URI().Path()
			_ = r.Close()
			if err := app.OpenDocument(path); err != nil {
				app.showError(err)
			}
		}, app.Window)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtDocument}))
		d.Show()
	})
}

func (app *PlannerApp) showSaveAsDialog() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()
		if err := app.SaveDocumentAs(path); err != nil {
			app.showError(err)
		}
	}, app.Window)
	d.SetFileName(config.AppName + config.ExtDocument)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtDocument}))
	d.Show()
}

func (app *PlannerApp) showImportICSDialog() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		defer func() { _ = r.Close() }()
		app.reportImport(app.ImportICS(r))
	}, app.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtICS}))
	d.Show()
}

func (app *PlannerApp) showImportVCardDialog() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		defer func() { _ = r.Close() }()
		app.reportImport(app.ImportVCard(app.Ctx, r))
	}, app.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
	d.Show()
}

// showImportURLDialog asks for a calendar URL; credentials come from the settings.
func (app *PlannerApp) showImportURLDialog() {
	urlEntry := widget.NewEntry()
	urlEntry.PlaceHolder = config.PlaceholderURL
	urlEntry.SetText(app.Preferences.String(config.PrefImportURL))
	urlEntry.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(app.GetMsg(config.TKeyErrURLMissing))
		}
		return nil
	}

	item := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), urlEntry)
	item.HintText = app.GetMsg(config.TKeyHelpURL)

	dialog.ShowForm(app.GetMsg(config.TKeyWinImportURL), app.GetMsg(config.TKeyBtnImport), app.GetMsg(config.TKeyBtnCancel),
		[]*widget.FormItem{item}, func(ok bool) {
			if !ok {
				return
			}
			url := strings.TrimSpace(urlEntry.Text)
			app.Preferences.SetString(config.PrefImportURL, url)
			user := app.Preferences.String(config.PrefImportUser)

			go func() {
				n, err := app.ImportICSURL(app.Ctx, url, user)
				fyne.Do(func() { app.reportImport(n, err) })
			}()
		}, app.Window)
}

func (app *PlannerApp) showExportDialog() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer func() { _ = wc.Close() }()
		if err := app.ExportICS(wc); err != nil {
			app.showError(err)
		}
	}, app.Window)
	d.SetFileName(config.AppName + config.ExtICS)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtICS}))
	d.Show()
}
