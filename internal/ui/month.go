package ui

import (
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

// monthView draws the 6x7 month grid.
type monthView struct {
	app     *PlannerApp
	headers *fyne.Container
	cells   *fyne.Container
	content fyne.CanvasObject
}

// newMonthView builds an empty grid; render fills it.
func newMonthView(app *PlannerApp) *monthView {
	v := &monthView{
		app:     app,
		headers: container.NewGridWithColumns(config.DaysPerWeek),
		cells:   container.NewGridWithColumns(config.DaysPerWeek),
	}
	v.content = container.NewBorder(v.headers, nil, nil, nil, container.NewVScroll(v.cells))
	return v
}

// render rebuilds the weekday headers and the 42 day cells.
// Header labels come from the first row, so they follow the configured week start.
func (v *monthView) render(cells []engine.Cell) {
	headers := make([]fyne.CanvasObject, 0, config.DaysPerWeek)
	for i := 0; i < config.DaysPerWeek && i < len(cells); i++ {
		headers = append(headers, widget.NewLabelWithStyle(
			cells[i].Date.Format(config.FormatWeekdayShort),
			fyne.TextAlignCenter,
			fyne.TextStyle{Bold: true}))
	}
	v.headers.Objects = headers
	v.headers.Refresh()

	objs := make([]fyne.CanvasObject, len(cells))
	for i, cell := range cells {
		objs[i] = newMonthCell(cell, v.app.Store().Select)
	}
	v.cells.Objects = objs
	v.cells.Refresh()
}

// monthCell shows a day number and up to MonthMaxIndicators color dots.
type monthCell struct {
	widget.BaseWidget
	cell  engine.Cell
	onTap func(time.Time)
}

func newMonthCell(cell engine.Cell, onTap func(time.Time)) *monthCell {
	c := &monthCell{cell: cell, onTap: onTap}
	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer stacks a fixed-height sizer, the selection background and
// the day number above the indicator dots.
func (c *monthCell) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Transparent)
	if c.cell.IsSelected {
		bg.FillColor = theme.Color(theme.ColorNameSelection)
	}
	bg.StrokeColor = theme.Color(theme.ColorNameSeparator)
	bg.StrokeWidth = config.GridLineWidth

	num := canvas.NewText(c.cell.Date.Format(config.FormatDayNumber), theme.Color(theme.ColorNameForeground))
	// Today wins over the out-of-month dimming.
	switch {
	case c.cell.IsToday:
		num.Color = theme.Color(theme.ColorNamePrimary)
		num.TextStyle.Bold = true
	case !c.cell.InCurrentRange:
		num.Color = theme.Color(theme.ColorNameDisabled)
	}

	dots := container.NewHBox()
	for _, col := range engine.Indicators(c.cell, config.MonthMaxIndicators) {
		dot := canvas.NewCircle(col.NRGBA())
		dots.Add(container.NewGridWrap(fyne.NewSize(config.IndicatorSize, config.IndicatorSize), dot))
	}

	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(0, config.MonthCellHeight))

	body := container.NewPadded(container.NewBorder(num, dots, nil, nil))
	return widget.NewSimpleRenderer(container.NewStack(sizer, bg, body))
}

// Tapped selects the day.
func (c *monthCell) Tapped(_ *fyne.PointEvent) {
	if c.onTap != nil {
		c.onTap(c.cell.Date)
	}
}
