package ui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

var (
	errBadDate       = errors.New(config.ErrDateParse)
	errCountdownPast = errors.New(config.ErrCountdownTarget)
)

// countdownView shows the time left until the stored target, one cell per remaining day.
type countdownView struct {
	app *PlannerApp

	target    *widget.Entry
	remaining *widget.Label
	daysLeft  *widget.Label
	cells     *fyne.Container

	shownDays int
	content   fyne.CanvasObject
}

func newCountdownView(app *PlannerApp) *countdownView {
	v := &countdownView{
		app:       app,
		target:    widget.NewEntry(),
		remaining: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		daysLeft:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		cells:     container.NewGridWrap(fyne.NewSize(config.CountdownCellSize, config.CountdownCellSize)),
		shownDays: -1,
	}

	v.target.PlaceHolder = config.DateTimeFormatInput
	if t, ok := app.countdownTarget(); ok {
		v.target.SetText(t.Format(config.DateTimeFormatInput))
	}

	start := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnStartCD), theme.MediaPlayIcon(), func() {
		if err := app.startCountdown(v.target.Text); err != nil {
			dialog.ShowError(errors.New(app.countdownErrorText(err)), app.Window)
			return
		}
		v.shownDays = -1
		v.tick()
	})
	start.Importance = widget.HighImportance

	reset := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnResetCD), theme.MediaReplayIcon(), func() {
		app.resetCountdown()
		v.target.SetText("")
		v.shownDays = -1
		v.tick()
	})

	item := widget.NewFormItem(app.GetMsg(config.TKeyLblCDTarget), v.target)
	item.HintText = app.GetMsg(config.TKeyHelpDTime)
	form := widget.NewForm(item)

	top := container.NewVBox(
		form,
		container.NewGridWithColumns(config.LayoutColumnsDouble, reset, start),
		v.remaining,
		v.daysLeft,
	)
	v.content = container.NewBorder(container.NewPadded(top), nil, nil, nil, container.NewVScroll(v.cells))
	return v
}

// tick recomputes the countdown. Day cells are only rebuilt when the day count changes.
func (v *countdownView) tick() {
	target, ok := v.app.countdownTarget()
	if !ok {
		v.remaining.SetText("")
		v.daysLeft.SetText("")
		v.setCells(0)
		return
	}

	state := engine.Countdown(v.app.now(), target)
	v.remaining.SetText(v.app.formatCountdown(state))
	if state.Expired {
		v.daysLeft.SetText("")
	} else {
		v.daysLeft.SetText(v.app.GetPlural(config.TKeyCDDaysLeft, state.DaysRemaining()))
	}
	v.setCells(state.DaysRemaining())
}

func (v *countdownView) setCells(days int) {
	if days == v.shownDays {
		return
	}
	v.shownDays = days

	n := min(days, config.CountdownMaxCells)
	fill := theme.Color(theme.ColorNamePrimary)
	objs := make([]fyne.CanvasObject, n)
	for i := range objs {
		r := canvas.NewRectangle(fill)
		r.CornerRadius = config.BlockCornerRadius
		objs[i] = r
	}
	v.cells.Objects = objs
	v.cells.Refresh()
}

// countdownTarget reads the stored target, if any.
func (app *PlannerApp) countdownTarget() (time.Time, bool) {
	raw := app.Preferences.String(config.PrefCountdownTarget)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(app.now().Location()), true
}

// startCountdown validates text as a local date-time and stores it as the target.
func (app *PlannerApp) startCountdown(text string) error {
	now := app.now()
	target, err := time.ParseInLocation(config.DateTimeFormatInput, strings.TrimSpace(text), now.Location())
	if err != nil {
		return errBadDate
	}
	if !engine.ValidCountdownTarget(now, target) {
		return errCountdownPast
	}

	app.Preferences.SetString(config.PrefCountdownTarget, target.Format(time.RFC3339))
	slog.Info(config.MsgCountdownSet,
		config.LogKeyComponent, config.CompCountdown,
		config.LogKeyValue, target.Format(time.RFC3339))
	return nil
}

func (app *PlannerApp) resetCountdown() {
	app.Preferences.RemoveValue(config.PrefCountdownTarget)
}

func (app *PlannerApp) countdownErrorText(err error) string {
	if errors.Is(err, errCountdownPast) {
		return app.GetMsg(config.TKeyErrCDPast)
	}
	return app.GetMsg(config.TKeyErrBadDate)
}

// formatCountdown renders the non-zero units, e.g. "2 days, 3 hours, 5 seconds".
func (app *PlannerApp) formatCountdown(state engine.CountdownState) string {
	parts := make([]string, 0, 4)
	units := []struct {
		key string
		n   int
	}{
		{config.TKeyUnitDay, state.Days},
		{config.TKeyUnitHour, state.Hours},
		{config.TKeyUnitMinute, state.Minutes},
		{config.TKeyUnitSecond, state.Seconds},
	}
	for _, u := range units {
		if u.n > 0 {
			parts = append(parts, app.GetPlural(u.key, u.n))
		}
	}

	if state.Expired || len(parts) == 0 {
		msg := app.GetMsg(config.TKeyCDTimesUp)
		if msg == config.TKeyCDTimesUp {
			return config.FallbackTimesUp
		}
		return msg
	}
	return strings.Join(parts, app.GetMsg(config.TKeyUnitSeparator))
}
