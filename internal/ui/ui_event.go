package ui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

var colorKeys = map[engine.Color]string{
	engine.ColorBlue:   config.TKeyColorBlue,
	engine.ColorRed:    config.TKeyColorRed,
	engine.ColorGreen:  config.TKeyColorGreen,
	engine.ColorOrange: config.TKeyColorOrange,
	engine.ColorPurple: config.TKeyColorPurple,
	engine.ColorPink:   config.TKeyColorPink,
	engine.ColorYellow: config.TKeyColorYellow,
	engine.ColorGray:   config.TKeyColorGray,
}

// eventForm holds the widgets of the add/edit event window.
type eventForm struct {
	title    *widget.Entry
	allDay   *widget.Check
	start    *widget.Entry
	end      *widget.Entry
	location *widget.Entry
	notes    *widget.Entry
	color    *widget.Select
}

// newEventForm fills the form from ev, or with a one hour slot on day when ev is nil.
func (app *PlannerApp) newEventForm(ev *engine.Event, day time.Time) *eventForm {
	names := make([]string, len(engine.Palette))
	for i, c := range engine.Palette {
		names[i] = app.GetMsg(colorKeys[c])
	}

	f := &eventForm{
		title:    widget.NewEntry(),
		allDay:   widget.NewCheck(app.GetMsg(config.TKeyLblAllDay), nil),
		start:    widget.NewEntry(),
		end:      widget.NewEntry(),
		location: widget.NewEntry(),
		notes:    widget.NewMultiLineEntry(),
		color:    widget.NewSelect(names, nil),
	}

	d := engine.Draft{Color: engine.DefaultColor}
	if ev != nil {
		d = ev.Draft()
	} else {
		now := app.now()
		d.Start = time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), 0, 0, 0, day.Location())
		d.End = d.Start.Add(config.DefaultEventSpan)
	}

	f.title.SetText(d.Title)
	f.location.SetText(d.Location)
	f.notes.SetText(d.Notes)
	f.color.SetSelectedIndex(int(d.Color))
	f.allDay.OnChanged = f.setAllDay
	f.allDay.SetChecked(d.AllDay)
	f.fillDates(d.Start, d.End)
	return f
}

func (f *eventForm) layout() string {
	if f.allDay.Checked {
		return config.DateFormatInput
	}
	return config.DateTimeFormatInput
}

func (f *eventForm) fillDates(start, end time.Time) {
	f.start.SetText(start.Format(f.layout()))
	f.end.SetText(end.Format(f.layout()))
	f.start.PlaceHolder = f.layout()
	f.end.PlaceHolder = f.layout()
}

// setAllDay reformats the dates and hides the end date for all-day events.
func (f *eventForm) setAllDay(on bool) {
	prev := config.DateTimeFormatInput
	if !on {
		prev = config.DateFormatInput
	}
	start, errS := time.ParseInLocation(prev, strings.TrimSpace(f.start.Text), time.Local)
	end, errE := time.ParseInLocation(prev, strings.TrimSpace(f.end.Text), time.Local)
	if errS == nil {
		if errE != nil || !end.After(start) {
			end = start.Add(config.DefaultEventSpan)
		}
		f.fillDates(start, end)
	}

	if on {
		f.end.Disable()
	} else {
		f.end.Enable()
	}
}

// draft parses the form. Dates are read in loc.
func (f *eventForm) draft(loc *time.Location) (engine.Draft, error) {
	d := engine.Draft{
		Title:    f.title.Text,
		Location: f.location.Text,
		Notes:    f.notes.Text,
		Color:    engine.DefaultColor,
		AllDay:   f.allDay.Checked,
	}
	if i := f.color.SelectedIndex(); i >= 0 && i < len(engine.Palette) {
		d.Color = engine.Palette[i]
	}

	start, err := time.ParseInLocation(f.layout(), strings.TrimSpace(f.start.Text), loc)
	if err != nil {
		return engine.Draft{}, errBadDate
	}
	d.Start = start

	switch {
	case d.AllDay:
		d.End = start
	case strings.TrimSpace(f.end.Text) == "":
		d.End = start.Add(config.DefaultEventSpan)
	default:
		end, err := time.ParseInLocation(f.layout(), strings.TrimSpace(f.end.Text), loc)
		if err != nil {
			return engine.Draft{}, errBadDate
		}
		d.End = end
	}

	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return engine.Draft{}, err
	}
	return d, nil
}

// eventErrorText maps form errors to localized messages.
func (app *PlannerApp) eventErrorText(err error) string {
	switch {
	case errors.Is(err, engine.ErrTitleRequired):
		return app.GetMsg(config.TKeyErrTitleReq)
	case errors.Is(err, engine.ErrEndBeforeStart):
		return app.GetMsg(config.TKeyErrEndBefore)
	default:
		return app.GetMsg(config.TKeyErrBadDate)
	}
}

// saveEvent adds the draft, or updates the event with id when id is not nil.
func (app *PlannerApp) saveEvent(id uuid.UUID, d engine.Draft) error {
	log := slog.With(config.LogKeyComponent, config.CompUIEvent)
	store := app.Store()

	if id == uuid.Nil {
		ev, err := store.Add(d)
		if err != nil {
			return err
		}
		log.Info(config.MsgEventAdded, config.LogKeyID, ev.ID, config.LogKeyTitle, ev.Title)
		return nil
	}

	if _, err := store.Update(id, d); err != nil {
		return err
	}
	log.Info(config.MsgEventUpdated, config.LogKeyID, id, config.LogKeyTitle, d.Title)
	return nil
}

// ShowEventWindow opens the editor for ev, or a blank form on the selected day when ev is nil.
func (app *PlannerApp) ShowEventWindow(ev *engine.Event) {
	titleKey := config.TKeyWinNewEvent
	id := uuid.Nil
	if ev != nil {
		titleKey = config.TKeyWinEditEvent
		id = ev.ID
	}

	w := app.App.NewWindow(app.GetMsg(titleKey))
	w.Resize(fyne.NewSize(config.EventWinWidth, config.EventWinHeight))

	f := app.newEventForm(ev, app.Store().SelectedDate())

	var btnSave *widget.Button
	btnSave = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		d, err := f.draft(time.Local)
		if err == nil {
			err = app.saveEvent(id, d)
		}
		if err != nil {
			dialog.ShowError(errors.New(app.eventErrorText(err)), w)
			return
		}
		w.Close()
	})
	btnSave.Importance = widget.HighImportance

	// Save is only available with a title.
	f.title.OnChanged = func(s string) {
		if strings.TrimSpace(s) == "" {
			btnSave.Disable()
		} else {
			btnSave.Enable()
		}
	}
	f.title.OnChanged(f.title.Text)

	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })
	buttons := []fyne.CanvasObject{btnCancel, btnSave}

	if ev != nil {
		btnDelete := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnDelete), theme.DeleteIcon(), func() {
			if app.Store().Remove(id) {
				slog.Info(config.MsgEventRemoved,
					config.LogKeyComponent, config.CompUIEvent,
					config.LogKeyID, id)
			}
			w.Close()
		})
		btnDelete.Importance = widget.DangerImportance
		buttons = append([]fyne.CanvasObject{btnDelete}, buttons...)
	}

	itemStart := widget.NewFormItem(app.GetMsg(config.TKeyLblStart), f.start)
	itemStart.HintText = app.GetMsg(config.TKeyHelpDTime)
	itemEnd := widget.NewFormItem(app.GetMsg(config.TKeyLblEnd), f.end)
	itemEnd.HintText = app.GetMsg(config.TKeyHelpDTime)

	// The hint follows the date format.
	var form *widget.Form
	prevAllDay := f.allDay.OnChanged
	f.allDay.OnChanged = func(on bool) {
		prevAllDay(on)
		hint := app.GetMsg(config.TKeyHelpDTime)
		if on {
			hint = app.GetMsg(config.TKeyHelpDate)
		}
		itemStart.HintText = hint
		itemEnd.HintText = hint
		form.Refresh()
	}
	if f.allDay.Checked {
		itemStart.HintText = app.GetMsg(config.TKeyHelpDate)
		itemEnd.HintText = app.GetMsg(config.TKeyHelpDate)
	}

	form = widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblTitle), f.title),
		widget.NewFormItem("", f.allDay),
		itemStart,
		itemEnd,
		widget.NewFormItem(app.GetMsg(config.TKeyLblLocation), f.location),
		widget.NewFormItem(app.GetMsg(config.TKeyLblNotes), f.notes),
		widget.NewFormItem(app.GetMsg(config.TKeyLblColor), f.color),
	)

	w.SetContent(container.NewPadded(container.NewBorder(nil,
		container.NewGridWithColumns(len(buttons), buttons...),
		nil, nil, form)))
	w.Show()
}
