package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect      *widget.Select
	weekStartSelect *widget.Select
	viewSelect      *widget.Select
	entryPixels     *NumericalEntry
	checkLanes      *widget.Check
	entryAutosave   *widget.Entry
	entryPort       *NumericalEntry
	urlEntry        *widget.Entry
	userEntry       *widget.Entry
	passEntry       *widget.Entry
}

// weekStartOptions and viewOptions map localized labels to settings values, in display order.
func (app *PlannerApp) weekStartOptions() ([]string, []string) {
	return []string{app.GetMsg(config.TKeyDaySunday), app.GetMsg(config.TKeyDayMonday)},
		[]string{config.WeekStartSunday, config.WeekStartMonday}
}

func (app *PlannerApp) viewOptions() ([]string, []string) {
	return []string{app.GetMsg(config.TKeyTabDay), app.GetMsg(config.TKeyTabWeek), app.GetMsg(config.TKeyTabMonth)},
		[]string{config.ViewDay, config.ViewWeek, config.ViewMonth}
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return 0
}

// newSettingsWidgets builds the form controls pre-filled from the current settings.
func (app *PlannerApp) newSettingsWidgets() *settingsWidgets {
	s := app.currentSettings()
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	labels, values := app.weekStartOptions()
	sw.weekStartSelect = widget.NewSelect(labels, nil)
	sw.weekStartSelect.SetSelectedIndex(indexOf(values, s.WeekStart))

	labels, values = app.viewOptions()
	sw.viewSelect = widget.NewSelect(labels, nil)
	sw.viewSelect.SetSelectedIndex(indexOf(values, s.DefaultView))

	sw.entryPixels = NewNumericalEntry()
	sw.entryPixels.SetText(strconv.Itoa(int(s.PixelsPerHour)))
	sw.entryPixels.Validator = func(v string) error {
		if config.ValidatePixels(v) != nil {
			return errors.New(app.GetMsg(config.TKeyErrPixels))
		}
		return nil
	}

	sw.checkLanes = widget.NewCheck(app.GetMsg(config.TKeyLblLanes), nil)
	sw.checkLanes.SetChecked(s.LaneAssignment)

	// Empty disables autosave.
	sw.entryAutosave = widget.NewEntry()
	sw.entryAutosave.SetText(s.Autosave)
	sw.entryAutosave.PlaceHolder = config.DefaultAutosave
	sw.entryAutosave.Validator = func(v string) error {
		if strings.TrimSpace(v) == "" {
			return nil
		}
		if err := config.ValidateAutosave(strings.TrimSpace(v)); err != nil {
			return errors.New(app.GetMsg(config.TKeyErrAutosave))
		}
		return nil
	}

	// Port: Numerical only, but requires strict Validation (Range 1-65535).
	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(s.FeedPort)
	sw.entryPort.Validator = func(v string) error {
		return app.portErrorText(config.ValidatePort(v))
	}

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetText(app.Preferences.String(config.PrefImportURL))
	sw.urlEntry.PlaceHolder = config.PlaceholderURL

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(app.Preferences.String(config.PrefImportUser))

	sw.passEntry = widget.NewPasswordEntry()
	// Attempt to pre-fill password from secure storage
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}
	return sw
}

// portErrorText localizes a config.ValidatePort error.
func (app *PlannerApp) portErrorText(err error) error {
	if err == nil {
		return nil
	}
	switch err.Error() {
	case config.ErrPortRequired:
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	case config.ErrPortNumber:
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	default:
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	}
}

// ShowSettingsWindow displays the configuration dialog allowing users to manage settings.
func (app *PlannerApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	// --- General ---
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	itemAutosave := widget.NewFormItem(app.GetMsg(config.TKeyLblAutosave), sw.entryAutosave)
	itemAutosave.HintText = app.GetMsg(config.TKeyHelpAutosave)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "",
		widget.NewForm(itemLang, itemAutosave, itemPort))

	// --- Calendar ---
	itemPixels := widget.NewFormItem(app.GetMsg(config.TKeyLblPixelsHour), sw.entryPixels)
	itemPixels.HintText = app.GetMsg(config.TKeyHelpPixels)

	calendarCard := widget.NewCard(app.GetMsg(config.TKeyLblCalendar), "", widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblWeekStart), sw.weekStartSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblDefaultView), sw.viewSelect),
		itemPixels,
		widget.NewFormItem("", sw.checkLanes),
	))

	// --- Import ---
	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)

	importCard := widget.NewCard(app.GetMsg(config.TKeyLblImport), "", widget.NewForm(
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry),
	))

	// --- Actions ---
	saveAction := func() {
		if err := app.applySettings(sw); err != nil {
			dialog.ShowError(err, w)
			return
		}
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		generalCard,
		calendarCard,
		importCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(paddedContent)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, paddedContent.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })
	w.Show()
}

// collectSettings validates the form and returns the resulting settings.
func (app *PlannerApp) collectSettings(sw *settingsWidgets) (config.Settings, error) {
	for _, v := range []fyne.Validatable{sw.entryPort, sw.entryPixels, sw.entryAutosave} {
		if err := v.Validate(); err != nil {
			return config.Settings{}, err
		}
	}

	s := app.currentSettings()

	_, weekStarts := app.weekStartOptions()
	if i := sw.weekStartSelect.SelectedIndex(); i >= 0 {
		s.WeekStart = weekStarts[i]
	}
	_, views := app.viewOptions()
	if i := sw.viewSelect.SelectedIndex(); i >= 0 {
		s.DefaultView = views[i]
	}

	pixels, _ := strconv.Atoi(sw.entryPixels.Text)
	s.PixelsPerHour = float64(pixels)
	s.LaneAssignment = sw.checkLanes.Checked
	s.Autosave = strings.TrimSpace(sw.entryAutosave.Text)
	s.FeedPort = sw.entryPort.Text
	return s, nil
}

// applySettings persists the form, then updates the running services.
func (app *PlannerApp) applySettings(sw *settingsWidgets) error {
	log := slog.With(config.LogKeyComponent, config.CompUISet)
	log.Info("Saving preferences")

	next, err := app.collectSettings(sw)
	if err != nil {
		return err
	}

	app.mu.Lock()
	prev := app.settings
	app.settings = next
	path := app.settingsPath
	app.mu.Unlock()

	if path != "" {
		if err := config.SaveSettings(path, &next); err != nil {
			return err
		}
		log.Info(config.MsgSettingsSaved, config.LogKeyPath, path)
	}

	app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	app.Preferences.SetString(config.PrefImportURL, strings.TrimSpace(sw.urlEntry.Text))
	app.Preferences.SetString(config.PrefImportUser, sw.userEntry.Text)

	// Save password to Keyring only if provided
	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			log.Error("Failed to save credentials to keyring", config.LogKeyError, err)
		}
	}

	if next.FeedPort != prev.FeedPort {
		log.Info(config.MsgServerListen, config.LogKeyOld, prev.FeedPort, config.LogKeyNew, next.FeedPort)
		app.restartServer(next.FeedPort)
	}

	// Trigger system-wide updates
	app.signalWorker()
	app.UpdateLocalizer()
	app.rebuildMainWindow()
	return nil
}

// defaultGranularity is the view opened at startup.
func (app *PlannerApp) defaultGranularity() engine.Granularity {
	g, err := engine.ParseGranularity(app.currentSettings().DefaultView)
	if err != nil {
		return engine.Week
	}
	return g
}
