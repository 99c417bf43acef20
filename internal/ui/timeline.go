package ui

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

// timelineView draws one (day) or seven (week) columns of 24 hour rows.
type timelineView struct {
	app  *PlannerApp
	gran engine.Granularity

	body  *fyne.Container
	sizer *canvas.Rectangle

	header      *fyne.Container
	headerSizer *canvas.Rectangle

	content fyne.CanvasObject
}

// newTimelineView builds the scrollable body. Only the week view gets a header
// row, since the day view's date is already in the range title.
func newTimelineView(app *PlannerApp, gran engine.Granularity) *timelineView {
	v := &timelineView{
		app:   app,
		gran:  gran,
		body:  container.NewWithoutLayout(),
		sizer: canvas.NewRectangle(color.Transparent),
	}
	scroll := container.NewScroll(container.NewStack(v.sizer, v.body))

	if gran != engine.Week {
		v.content = scroll
		return v
	}

	v.header = container.NewWithoutLayout()
	v.headerSizer = canvas.NewRectangle(color.Transparent)
	v.content = container.NewBorder(container.NewStack(v.headerSizer, v.header), nil, nil, nil, scroll)
	return v
}

// columnWidth is the width of one day column.
func (v *timelineView) columnWidth() float32 {
	if v.gran == engine.Day {
		return config.DayColumnWidth
	}
	return config.WeekColumnWidth
}

// render replaces the drawing with the given cells.
func (v *timelineView) render(cells []engine.Cell, layout engine.Layout, lanes bool) {
	colW := v.columnWidth()
	width := config.TimeColumnWidth + colW*float32(len(cells))
	height := float32(layout.ContentHeight())

	lineColor := theme.Color(theme.ColorNameSeparator)
	labelColor := theme.Color(theme.ColorNamePlaceHolder)

	objs := make([]fyne.CanvasObject, 0, config.HoursPerDay*2+len(cells)*2)

	for i, cell := range cells {
		if !cell.IsToday {
			continue
		}
		bg := canvas.NewRectangle(theme.Color(theme.ColorNameHover))
		bg.Move(fyne.NewPos(config.TimeColumnWidth+colW*float32(i), 0))
		bg.Resize(fyne.NewSize(colW, height))
		objs = append(objs, bg)
	}

	for h := 0; h < config.HoursPerDay; h++ {
		y := float32(float64(h) * layout.PixelsPerHour)

		line := canvas.NewLine(lineColor)
		line.StrokeWidth = config.GridLineWidth
		line.Position1 = fyne.NewPos(config.TimeColumnWidth, y)
		line.Position2 = fyne.NewPos(width, y)

		label := canvas.NewText(hourLabel(h), labelColor)
		label.TextSize = theme.CaptionTextSize()
		label.Move(fyne.NewPos(theme.Padding(), y))
		label.Resize(label.MinSize())

		objs = append(objs, line, label)
	}

	for i, cell := range cells {
		x := config.TimeColumnWidth + colW*float32(i)

		sep := canvas.NewLine(lineColor)
		sep.StrokeWidth = config.GridLineWidth
		sep.Position1 = fyne.NewPos(x, 0)
		sep.Position2 = fyne.NewPos(x, height)
		objs = append(objs, sep)

		blocks := layout.Column(cell.Events)
		if lanes {
			blocks = engine.AssignLanes(blocks)
		}
		for _, b := range blocks {
			pos, size := blockFrame(b, x, colW)
			eb := newEventBlock(b.Event, v.app.blockLabel(b.Event), v.app.openEvent)
			eb.Move(pos)
			eb.Resize(size)
			objs = append(objs, eb)
		}
	}

	v.body.Objects = objs
	v.body.Refresh()
	v.sizer.SetMinSize(fyne.NewSize(width, height))

	if v.header != nil {
		v.renderHeader(cells, colW)
	}
}

// renderHeader draws one tappable date button per week column.
func (v *timelineView) renderHeader(cells []engine.Cell, colW float32) {
	objs := make([]fyne.CanvasObject, 0, len(cells))
	for i, cell := range cells {
		date := cell.Date
		btn := widget.NewButton(date.Format(config.FormatWeekHeader), func() {
			v.app.Store().Select(date)
		})
		switch {
		case cell.IsSelected:
			btn.Importance = widget.HighImportance
		case cell.IsToday:
			btn.Importance = widget.MediumImportance
		default:
			btn.Importance = widget.LowImportance
		}
		btn.Move(fyne.NewPos(config.TimeColumnWidth+colW*float32(i), 0))
		btn.Resize(fyne.NewSize(colW, config.WeekHeaderHeight))
		objs = append(objs, btn)
	}

	v.header.Objects = objs
	v.header.Refresh()
	v.headerSizer.SetMinSize(fyne.NewSize(config.TimeColumnWidth+colW*float32(len(cells)), config.WeekHeaderHeight))
}

// blockFrame converts a layout block into widget coordinates inside a column
// starting at colX. Lanes split the usable width evenly.
func blockFrame(b engine.Block, colX, colW float32) (fyne.Position, fyne.Size) {
	lanes := max(b.Lanes, 1)
	laneW := colW * config.BlockWidthRatio / float32(lanes)
	x := colX + colW*config.BlockMarginRatio + laneW*float32(b.Lane)
	return fyne.NewPos(x, float32(b.Offset)), fyne.NewSize(laneW, float32(b.Height))
}

// hourLabel formats the label of hour row h ("09:00").
func hourLabel(h int) string {
	return time.Date(config.DefaultLeapYear, time.January, 1, h, 0, 0, 0, time.UTC).Format(config.FormatHourLabel)
}

// blockLabel is the text drawn inside an event block.
func (app *PlannerApp) blockLabel(ev engine.Event) string {
	if ev.AllDay {
		return fmt.Sprintf(config.FormatBlockLabel, app.GetMsg(config.TKeyLblAllDayTag), ev.Title)
	}
	return fmt.Sprintf(config.FormatBlockLabel, ev.Start.Format(config.FormatTimeShort), ev.Title)
}

// openEvent opens the edit form on a copy of ev.
func (app *PlannerApp) openEvent(ev engine.Event) {
	app.ShowEventWindow(&ev)
}

// eventBlock is a tappable colored box for one event.
type eventBlock struct {
	widget.BaseWidget
	event engine.Event
	label string
	onTap func(engine.Event)
}

func newEventBlock(ev engine.Event, label string, onTap func(engine.Event)) *eventBlock {
	b := &eventBlock{event: ev, label: label, onTap: onTap}
	b.ExtendBaseWidget(b)
	return b
}

// CreateRenderer draws a translucent fill in the event color with an opaque
// border, so overlapping lanes stay readable.
func (b *eventBlock) CreateRenderer() fyne.WidgetRenderer {
	stroke := b.event.Color.NRGBA()
	fill := stroke
	fill.A = 0x55

	bg := canvas.NewRectangle(fill)
	bg.StrokeColor = stroke
	bg.StrokeWidth = config.GridLineWidth
	bg.CornerRadius = config.BlockCornerRadius

	text := widget.NewLabel(b.label)
	text.Truncation = fyne.TextTruncateEllipsis
	text.SizeName = theme.SizeNameCaptionText

	return widget.NewSimpleRenderer(container.NewStack(bg, text))
}

// Tapped opens the event.
func (b *eventBlock) Tapped(_ *fyne.PointEvent) {
	if b.onTap != nil {
		b.onTap(b.event)
	}
}
