// Package document reads and writes planner documents.
//
// A document is a JSON object holding the event list and the selected date:
//
//	{"events":[{"id","title","startDate","endDate","location"?,"notes"?,
//	  "color":{"red","green","blue","alpha"},"isAllDay"}],"selectedDate"}
//
// Timestamps are written as RFC 3339 strings. Numeric timestamps, counted in
// seconds from 2001-01-01 UTC, are accepted on read.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

type fileDocument struct {
	Events       *[]fileEvent `json:"events"`
	SelectedDate *timestamp   `json:"selectedDate"`
}

type fileEvent struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	StartDate *timestamp `json:"startDate"`
	EndDate   *timestamp `json:"endDate"`
	Location  *string    `json:"location,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Color     fileColor  `json:"color"`
	IsAllDay  bool       `json:"isAllDay"`
}

type fileColor struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
	Alpha float64 `json:"alpha"`
}

// timestamp is written as RFC 3339 and read from RFC 3339 or reference-epoch seconds.
type timestamp struct {
	time.Time
}

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrBadTimestamp, err)
		}
		t.Time = parsed.In(time.Local)
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("%s: %w", config.ErrBadTimestamp, err)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return errors.New(config.ErrBadTimestamp)
	}
	whole, frac := math.Modf(secs)
	if whole < minRefSeconds || whole > maxRefSeconds {
		return fmt.Errorf("%s: %v out of range", config.ErrBadTimestamp, secs)
	}
	t.Time = time.Unix(config.ReferenceEpoch.Unix()+int64(whole), int64(math.Round(frac*1e9))).In(time.Local)
	return nil
}

// Bounds of numeric timestamps, in seconds from the reference epoch, covering years MinYear to MaxYear.
var (
	minRefSeconds = float64(time.Date(config.MinYear, time.January, 1, 0, 0, 0, 0, time.UTC).Unix() - config.ReferenceEpoch.Unix())
	maxRefSeconds = float64(time.Date(config.MaxYear, time.December, 31, 23, 59, 59, 0, time.UTC).Unix() - config.ReferenceEpoch.Unix())
)

// Encode writes snap as an indented JSON document.
func Encode(w io.Writer, snap engine.Snapshot) error {
	events := make([]fileEvent, len(snap.Events))
	for i, ev := range snap.Events {
		rgba := ev.Color.RGBA()
		fe := fileEvent{
			ID:        strings.ToUpper(ev.ID.String()),
			Title:     ev.Title,
			StartDate: &timestamp{ev.Start},
			EndDate:   &timestamp{ev.End},
			Color:     fileColor{Red: rgba.R, Green: rgba.G, Blue: rgba.B, Alpha: rgba.A},
			IsAllDay:  ev.AllDay,
		}
		if ev.Location != "" {
			fe.Location = &ev.Location
		}
		if ev.Notes != "" {
			fe.Notes = &ev.Notes
		}
		events[i] = fe
	}

	doc := fileDocument{
		Events:       &events,
		SelectedDate: &timestamp{snap.SelectedDate},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDocEncode, err)
	}
	return nil
}

// Decode parses a document and rebuilds its store.
// Any structural or validation problem yields an error wrapped with config.ErrDocDecode.
// The input must hold exactly one JSON value.
func Decode(r io.Reader) (*engine.Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDocRead, err)
	}
	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, decodeErr(err)
	}
	if doc.Events == nil {
		return nil, decodeErr(fmt.Errorf("%s: events", config.ErrDocMissing))
	}
	if doc.SelectedDate == nil {
		return nil, decodeErr(fmt.Errorf("%s: selectedDate", config.ErrDocMissing))
	}

	events := make([]engine.Event, 0, len(*doc.Events))
	for i, fe := range *doc.Events {
		ev, err := fe.event()
		if err != nil {
			return nil, decodeErr(fmt.Errorf("event %d: %w", i, err))
		}
		events = append(events, ev)
	}

	store, err := engine.NewStoreFromSnapshot(engine.Snapshot{
		Events:       events,
		SelectedDate: doc.SelectedDate.Time,
	})
	if err != nil {
		return nil, decodeErr(err)
	}
	return store, nil
}

func (fe fileEvent) event() (engine.Event, error) {
	id, err := uuid.Parse(fe.ID)
	if err != nil {
		return engine.Event{}, fmt.Errorf("%s: %w", config.ErrBadEventID, err)
	}
	if fe.StartDate == nil {
		return engine.Event{}, fmt.Errorf("%s: startDate", config.ErrDocMissing)
	}
	if fe.EndDate == nil {
		return engine.Event{}, fmt.Errorf("%s: endDate", config.ErrDocMissing)
	}

	ev := engine.Event{
		ID:     id,
		Title:  fe.Title,
		Start:  fe.StartDate.Time,
		End:    fe.EndDate.Time,
		Color:  engine.NearestColor(engine.RGBA{R: fe.Color.Red, G: fe.Color.Green, B: fe.Color.Blue, A: fe.Color.Alpha}),
		AllDay: fe.IsAllDay,
	}
	if fe.Location != nil {
		ev.Location = *fe.Location
	}
	if fe.Notes != nil {
		ev.Notes = *fe.Notes
	}
	return ev, nil
}

func decodeErr(err error) error {
	return fmt.Errorf("%s: %w", config.ErrDocDecode, err)
}

// Load opens and decodes the document at path.
func Load(path string) (*engine.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDocRead, err)
	}
	defer func() { _ = f.Close() }()

	store, err := Decode(f)
	if err != nil {
		return nil, err
	}

	slog.Info(config.MsgDocOpened,
		config.LogKeyComponent, config.CompDocument,
		config.LogKeyPath, path,
		config.LogKeyCount, store.Len())
	return store, nil
}

// Save encodes store and replaces the file at path atomically.
func Save(path string, store *engine.Store) error {
	if path == "" {
		return errors.New(config.ErrNoDocumentPath)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, store.Snapshot()); err != nil {
		return err
	}
	if err := config.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDocWrite, err)
	}

	slog.Info(config.MsgDocSaved,
		config.LogKeyComponent, config.CompDocument,
		config.LogKeyPath, path,
		config.LogKeySizeBytes, buf.Len())
	return nil
}
