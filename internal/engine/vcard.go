package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-planner/internal/config"
)

// BirthdayImporter turns vCard birthdays into all-day events on their next occurrence.
type BirthdayImporter struct {
	Clock Clock

	// FormatTitle lets the UI inject localized event titles.
	FormatTitle func(name string, age int, yearKnown bool) string
}

// Import reads every card of r. Cards without a parseable BDAY are skipped.
func (b *BirthdayImporter) Import(ctx context.Context, r io.Reader) ([]Draft, error) {
	log := slog.With(config.LogKeyComponent, config.CompImport)

	now := NowFrom(b.Clock)

	decoder := vcard.NewDecoder(r)
	var drafts []Draft
	total := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrCtxCancelled, err)
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed card leaves the decoder unusable for the rest of the stream.
			if total == 0 {
				return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			break
		}
		total++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		// FN (formatted) before N (structured).
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			log.Debug(config.MsgSkippedDate, config.LogKeyName, name, config.LogKeyValue, bday.Value)
			continue
		}

		next, age := nextOccurrence(now, birthDate, yearKnown)
		drafts = append(drafts, Draft{
			Title:  b.title(name, age, yearKnown),
			Start:  next,
			End:    next,
			Color:  ColorGray,
			AllDay: true,
		})
	}

	log.Info(config.MsgImportDone,
		config.LogKeyTotal, total,
		config.LogKeyImported, len(drafts))
	return drafts, nil
}

func (b *BirthdayImporter) title(name string, age int, yearKnown bool) string {
	if b.FormatTitle != nil {
		return b.FormatTitle(name, age, yearKnown)
	}
	if yearKnown && age > 0 {
		return fmt.Sprintf(config.FallbackBirthdayAge, name, age)
	}
	return fmt.Sprintf(config.FallbackBirthday, name)
}

// nextOccurrence returns the birthday on or after today, at midnight in now's
// location, and the age reached that day. Feb 29 falls on Mar 1 in common years.
func nextOccurrence(now time.Time, birthDate time.Time, yearKnown bool) (time.Time, int) {
	loc := now.Location()
	year := now.Year()

	candidate := time.Date(year, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(StartOfDay(now)) {
		candidate = time.Date(year+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}

	age := 0
	if yearKnown {
		age = candidate.Year() - birthDate.Year()
	}
	return candidate, age
}

// parseDate handles the vCard BDAY formats, with and without a year.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// --MM-DD: anchor on a leap year so Feb 29 survives.
	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
