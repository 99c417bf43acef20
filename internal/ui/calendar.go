package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

// calendarView is the content of the main window: navigation bar, view tabs and status line.
type calendarView struct {
	app  *PlannerApp
	gran engine.Granularity

	title  *widget.Label
	status *widget.Label
	tabs   *container.AppTabs

	tabGran map[*container.TabItem]engine.Granularity

	day       *timelineView
	week      *timelineView
	month     *monthView
	countdown *countdownView

	content fyne.CanvasObject
}

func newCalendarView(app *PlannerApp) *calendarView {
	v := &calendarView{
		app:     app,
		title:   widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		status:  widget.NewLabel(""),
		tabGran: make(map[*container.TabItem]engine.Granularity),
	}

	v.gran = app.defaultGranularity()

	v.day = newTimelineView(app, engine.Day)
	v.week = newTimelineView(app, engine.Week)
	v.month = newMonthView(app)
	v.countdown = newCountdownView(app)

	dayTab := container.NewTabItem(app.GetMsg(config.TKeyTabDay), v.day.content)
	weekTab := container.NewTabItem(app.GetMsg(config.TKeyTabWeek), v.week.content)
	monthTab := container.NewTabItem(app.GetMsg(config.TKeyTabMonth), v.month.content)
	cdTab := container.NewTabItem(app.GetMsg(config.TKeyTabCountdown), v.countdown.content)

	v.tabGran[dayTab] = engine.Day
	v.tabGran[weekTab] = engine.Week
	v.tabGran[monthTab] = engine.Month

	v.tabs = container.NewAppTabs(dayTab, weekTab, monthTab, cdTab)
	v.tabs.SelectIndex(int(v.gran))
	v.tabs.OnSelected = func(ti *container.TabItem) {
		if g, ok := v.tabGran[ti]; ok {
			v.gran = g
			v.refresh()
			return
		}
		v.countdown.tick()
	}

	prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { v.navigate(-1) })
	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { v.navigate(1) })
	today := widget.NewButton(app.GetMsg(config.TKeyBtnToday), v.today)
	add := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnAdd), theme.ContentAddIcon(), func() {
		app.ShowEventWindow(nil)
	})
	add.Importance = widget.HighImportance
	settings := widget.NewButtonWithIcon("", theme.SettingsIcon(), app.ShowSettingsWindow)

	top := container.NewBorder(nil, nil,
		container.NewHBox(prev, today, next),
		container.NewHBox(add, settings),
		v.title)

	v.content = container.NewBorder(top, v.status, nil, nil, v.tabs)
	return v
}

// refresh redraws the active calendar view from the current store snapshot.
func (v *calendarView) refresh() {
	app := v.app
	s := app.currentSettings()
	snap := app.Store().Snapshot()

	grid := engine.NewGrid(s.Weekday())
	anchor := snap.SelectedDate
	cells := grid.Cells(anchor, v.gran, snap.SelectedDate, app.now(), snap.Events)

	v.title.SetText(rangeTitle(grid, anchor, v.gran))

	switch v.gran {
	case engine.Day:
		v.day.render(cells, engine.DayLayout.WithScale(s.PixelsPerHour), s.LaneAssignment)
	case engine.Month:
		v.month.render(cells)
	default:
		v.week.render(cells, engine.WeekLayout.WithScale(s.PixelsPerHour), s.LaneAssignment)
	}

	v.status.SetText(app.statusText(len(snap.Events)))
}

func (v *calendarView) navigate(delta int) {
	store := v.app.Store()
	s := v.app.currentSettings()
	grid := engine.NewGrid(s.Weekday())
	next := grid.Navigate(store.SelectedDate(), v.gran, delta)

	slog.Debug(config.MsgNavigate,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyView, v.gran.String(),
		config.LogKeyAnchor, next.Format(config.DateFormatInput))
	store.Select(next)
}

func (v *calendarView) today() {
	v.app.Store().Select(v.app.now())
}

// rangeTitle describes the visible range of a view.
func rangeTitle(grid engine.Grid, anchor time.Time, gran engine.Granularity) string {
	switch gran {
	case engine.Day:
		return anchor.Format(config.FormatDayTitle)
	case engine.Month:
		return anchor.Format(config.FormatMonthTitle)
	default:
		dates := grid.Dates(anchor, engine.Week)
		return fmt.Sprintf(config.FormatRangeTitle,
			dates[0].Format(config.FormatWeekRangeDay),
			dates[len(dates)-1].Format(config.FormatWeekRangeEnd))
	}
}

// statusText is the event count followed by the document name, when there is one.
func (app *PlannerApp) statusText(count int) string {
	text := app.GetPlural(config.TKeyStatusEvents, count)
	if path := app.DocumentPath(); path != "" {
		text = fmt.Sprintf(config.FormatStatus, text, filepath.Base(path))
	}
	if app.Dirty() {
		text += " *"
	}
	return text
}

// buildMainWindow creates the master window with its menu.
func (app *PlannerApp) buildMainWindow() {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	w.SetMaster()
	w.Resize(fyne.NewSize(config.MainWinWidth, config.MainWinHeight))
	w.SetCloseIntercept(app.confirmQuit)
	app.Window = w

	app.rebuildMainWindow()
	app.uiReady.Store(true)
}

// rebuildMainWindow recreates the localized content, e.g. after a language change.
func (app *PlannerApp) rebuildMainWindow() {
	if app.Window == nil {
		return
	}
	app.view = newCalendarView(app)
	app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	app.Window.SetContent(app.view.content)
	app.Window.SetMainMenu(app.buildMainMenu())
	app.view.refresh()
	app.view.countdown.tick()
}

func (app *PlannerApp) buildMainMenu() *fyne.MainMenu {
	file := fyne.NewMenu(app.GetMsg(config.TKeyMenuFile),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuNew), app.newDocumentAction),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuOpen), app.showOpenDialog),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSave), app.saveAction),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSaveAs), app.showSaveAsDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuImportICS), app.showImportICSDialog),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuImportURL), app.showImportURLDialog),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuImportVCF), app.showImportVCardDialog),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuExportICS), app.showExportDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), app.ShowSettingsWindow),
	)
	return fyne.NewMainMenu(file)
}
