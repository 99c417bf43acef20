package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-planner/internal/config"
)

// ExportICS encodes events as an iCalendar feed.
//
// Timed events are written in UTC. All-day events become VALUE=DATE entries
// with the exclusive DTEND of the following day. An empty list yields a minimal
// VCALENDAR so clients never see an invalid feed.
func ExportICS(events []Event, now time.Time) ([]byte, error) {
	if len(events) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, ev := range events {
		e := ical.NewEvent()
		e.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, ev.ID, config.ICalDomain))
		e.Props.SetText(config.PropSummary, ev.Title)
		e.Props.Set(dtStampProp)

		start := ical.NewProp(config.PropDTStart)
		end := ical.NewProp(config.PropDTEnd)
		if ev.AllDay {
			day := StartOfDay(ev.Start)
			start.SetDate(day)
			end.SetDate(day.AddDate(0, 0, 1))
		} else {
			start.SetDateTime(ev.Start.UTC())
			end.SetDateTime(ev.End.UTC())
		}
		e.Props.Set(start)
		e.Props.Set(end)

		if ev.Location != "" {
			e.Props.SetText(config.PropLocation, ev.Location)
		}
		if ev.Notes != "" {
			e.Props.SetText(config.PropDescription, ev.Notes)
		}
		// RFC 7986 COLOR takes a CSS3 color name; palette names are all valid ones.
		e.Props.SetText(config.PropColor, ev.Color.String())

		cal.Children = append(cal.Children, e.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgExported,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(events),
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), nil
}
