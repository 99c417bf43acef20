package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/tartampluch/go-planner/internal/config"
)

// ImportICS parses an iCalendar stream into drafts ready to be added to a store.
//
// Timed events are converted to loc. DATE values (all-day) are read as calendar
// days in loc. Events without a usable DTSTART are skipped; a missing summary
// gets a placeholder title. Recurrence rules are ignored: only the first
// occurrence is imported.
func ImportICS(r io.Reader, loc *time.Location) ([]Draft, error) {
	if loc == nil {
		loc = time.Local
	}
	log := slog.With(config.LogKeyComponent, config.CompImport)

	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICSParse, err)
	}

	var drafts []Draft
	skipped := 0
	for _, ve := range cal.Events() {
		d, err := draftFromVEvent(ve, loc)
		if err != nil {
			skipped++
			log.Warn(config.MsgSkippedEvent, config.LogKeyError, err)
			continue
		}
		drafts = append(drafts, d)
	}

	log.Info(config.MsgImportDone,
		config.LogKeyImported, len(drafts),
		config.LogKeySkipped, skipped)
	return drafts, nil
}

// ImportICSURL downloads a feed with f and parses it with ImportICS.
func ImportICSURL(ctx context.Context, f Fetcher, url, user, pass string, loc *time.Location) ([]Draft, error) {
	if f == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}
	rc, err := f.Fetch(ctx, url, user, pass)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ImportICS(rc, loc)
}

func draftFromVEvent(ve *ics.VEvent, loc *time.Location) (Draft, error) {
	dtStart := ve.GetProperty(ics.ComponentPropertyDtStart)
	if dtStart == nil || strings.TrimSpace(dtStart.Value) == "" {
		return Draft{}, errors.New(config.ErrDateParse)
	}

	d := Draft{
		Title: config.FallbackTitle,
		Color: DefaultColor,
	}
	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil && strings.TrimSpace(p.Value) != "" {
		d.Title = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyLocation); p != nil {
		d.Location = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
		d.Notes = p.Value
	}
	if p := ve.GetProperty(config.PropColor); p != nil {
		if c, ok := ParseColor(p.Value); ok {
			d.Color = c
		}
	}

	if isDateValue(dtStart) {
		start, err := time.ParseInLocation(config.ICSLayoutDate, dateDigits(dtStart.Value), loc)
		if err != nil {
			return Draft{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
		}
		d.AllDay = true
		d.Start, d.End = start, start
		return d, nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return Draft{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	d.Start = start.In(loc)
	d.End = d.Start
	if end, err := ve.GetEndAt(); err == nil && !end.Before(start) {
		d.End = end.In(loc)
	}
	return d, nil
}

// isDateValue reports VALUE=DATE, or a bare YYYYMMDD value.
func isDateValue(p *ics.IANAProperty) bool {
	if vs, ok := p.ICalParameters[config.ParamValue]; ok && len(vs) > 0 && strings.EqualFold(vs[0], config.ValueDate) {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func dateDigits(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > len(config.ICSLayoutDate) {
		return v[:len(config.ICSLayoutDate)]
	}
	return v
}
