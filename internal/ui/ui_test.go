package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
	"github.com/tartampluch/go-planner/internal/server"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the engine.Fetcher interface using testify/mock.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

var testNow = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

const testICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:1@test\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"SUMMARY:Standup\r\n" +
	"DTSTART:20250310T090000Z\r\n" +
	"DTEND:20250310T091500Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

// setupTestApp initializes a headless Fyne app with mocked dependencies.
func setupTestApp(t *testing.T) (*PlannerApp, *MockFetcher) {
	a := test.NewApp()
	keyring.MockInit()

	// Use port "0" to bind to any free port during tests
	srv := server.NewFeedServer("0")
	fetcher := new(MockFetcher)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	settingsPath := filepath.Join(t.TempDir(), config.SettingsFileName)
	app := NewPlannerApp(a, ctx, config.DefaultSettings(), settingsPath, srv, fetcher)
	app.Clock = engine.FixedClock{At: testNow}

	// Manually load I18n as Run() is skipped
	app.Preferences.SetString(config.PrefLanguage, "en")
	app.SetupI18n()

	return app, fetcher
}

func timedDraft(title string, start time.Time) engine.Draft {
	return engine.Draft{Title: title, Start: start, End: start.Add(time.Hour), Color: engine.ColorBlue}
}

func getFeed(t *testing.T, srv *server.FeedServer) string {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	app, _ := setupTestApp(t)

	assert.Equal(t, "Settings...", app.GetMsg(config.TKeyMenuSettings))
	assert.Equal(t, "2 events", app.GetPlural(config.TKeyStatusEvents, 2))

	app.Preferences.SetString(config.PrefLanguage, "fr")
	app.UpdateLocalizer()
	assert.Equal(t, "Paramètres...", app.GetMsg(config.TKeyMenuSettings))
	assert.Equal(t, "1 événement", app.GetPlural(config.TKeyStatusEvents, 1))

	// Unknown keys come back unchanged.
	assert.Equal(t, "no_such_key", app.GetMsg("no_such_key"))
}

func TestLocalization_DetectsLanguages(t *testing.T) {
	app, _ := setupTestApp(t)
	assert.ElementsMatch(t, []string{"en", "fr"}, app.SupportedLanguages)
}

func TestLocalization_BirthdayTitle(t *testing.T) {
	app, _ := setupTestApp(t)

	assert.Equal(t, "Birthday: Alice (30)", app.birthdayTitle("Alice", 30, true))
	assert.Equal(t, "Birthday: Bob", app.birthdayTitle("Bob", 0, false))
	assert.Equal(t, "Birthday: Baby", app.birthdayTitle("Baby", 0, true), "age 0 is not displayed")

	// Without a localizer the built-in formats are used.
	app.Localizer = nil
	assert.Equal(t, "Birthday: Alice (30)", app.birthdayTitle("Alice", 30, true))
	assert.Equal(t, "Birthday: Bob", app.birthdayTitle("Bob", 0, false))
}

// -----------------------------------------------------------------------------
// Store & Feed Tests
// -----------------------------------------------------------------------------

func TestStoreChange_MarksDirtyAndPublishes(t *testing.T) {
	app, _ := setupTestApp(t)
	assert.False(t, app.Dirty())
	assert.Equal(t, config.StubVCalendar, getFeed(t, app.feed()))

	_, err := app.Store().Add(timedDraft("Standup", testNow.Add(time.Hour)))
	require.NoError(t, err)

	assert.True(t, app.Dirty())
	assert.Contains(t, getFeed(t, app.feed()), "SUMMARY:Standup")
}

func TestNewDocument_ResetsState(t *testing.T) {
	app, _ := setupTestApp(t)
	old := app.Store()
	_, err := old.Add(timedDraft("Standup", testNow))
	require.NoError(t, err)

	app.NewDocument()
	assert.NotSame(t, old, app.Store())
	assert.Equal(t, 0, app.Store().Len())
	assert.False(t, app.Dirty())
	assert.Empty(t, app.DocumentPath())
	assert.Equal(t, config.StubVCalendar, getFeed(t, app.feed()))

	// The previous store no longer drives the app.
	_, err = old.Add(timedDraft("Late", testNow))
	require.NoError(t, err)
	assert.False(t, app.Dirty())
}

func TestRestartServer_KeepsContent(t *testing.T) {
	app, _ := setupTestApp(t)
	_, err := app.Store().Add(timedDraft("Standup", testNow))
	require.NoError(t, err)

	old := app.feed()
	app.restartServer("18097")

	srv := app.feed()
	assert.NotSame(t, old, srv)
	assert.Equal(t, "18097", srv.Port)
	assert.Contains(t, getFeed(t, srv), "SUMMARY:Standup")
}

// -----------------------------------------------------------------------------
// Worker Tests
// -----------------------------------------------------------------------------

func TestConfiguration_WorkerSignal(t *testing.T) {
	app, _ := setupTestApp(t)
	app.watchPreferences()

	signalReceived := make(chan bool)
	go func() {
		select {
		case <-app.configChan:
			signalReceived <- true
		case <-time.After(500 * time.Millisecond):
			signalReceived <- false
		}
	}()

	app.Preferences.SetString(config.PrefImportURL, "https://example.com/cal.ics")

	assert.True(t, <-signalReceived, "Changing a preference should notify background worker")
}

func TestSignalWorker_NeverBlocks(t *testing.T) {
	app, _ := setupTestApp(t)

	app.signalWorker()
	app.signalWorker()
	assert.Len(t, app.configChan, 1)
}

func TestAutosave(t *testing.T) {
	app, _ := setupTestApp(t)
	path := filepath.Join(t.TempDir(), "plan"+config.ExtDocument)

	// No path yet: nothing to do.
	_, err := app.Store().Add(timedDraft("Standup", testNow))
	require.NoError(t, err)
	app.autosave()
	assert.True(t, app.Dirty())

	require.NoError(t, app.SaveDocumentAs(path))
	_, err = app.Store().Add(timedDraft("Review", testNow.Add(2*time.Hour)))
	require.NoError(t, err)
	require.True(t, app.Dirty())

	app.autosave()
	assert.False(t, app.Dirty())

	app.NewDocument()
	require.NoError(t, app.OpenDocument(path))
	assert.Equal(t, 2, app.Store().Len())
}

// -----------------------------------------------------------------------------
// Document Tests
// -----------------------------------------------------------------------------

func TestDocument_SaveOpenRoundTrip(t *testing.T) {
	app, _ := setupTestApp(t)
	path := filepath.Join(t.TempDir(), "plan"+config.ExtDocument)

	added, err := app.Store().Add(timedDraft("Standup", testNow.Add(time.Hour)))
	require.NoError(t, err)

	require.NoError(t, app.SaveDocumentAs(path))
	assert.Equal(t, path, app.DocumentPath())
	assert.False(t, app.Dirty())

	saved, err := config.LoadSettings(app.settingsPath)
	require.NoError(t, err)
	assert.Equal(t, path, saved.Document, "last document is remembered")

	app.NewDocument()
	require.Equal(t, 0, app.Store().Len())

	require.NoError(t, app.OpenDocument(path))
	assert.Equal(t, path, app.DocumentPath())
	assert.False(t, app.Dirty())

	got, ok := app.Store().Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Standup", got.Title)
	assert.True(t, got.Start.Equal(added.Start))
}

func TestDocument_SaveWithoutPath(t *testing.T) {
	app, _ := setupTestApp(t)
	_, err := app.Store().Add(timedDraft("Standup", testNow))
	require.NoError(t, err)

	err = app.saveDocument()
	require.Error(t, err)
	assert.EqualError(t, err, config.ErrNoDocumentPath)
	assert.True(t, app.Dirty())
}

func TestDocument_SaveAsFailureKeepsPath(t *testing.T) {
	app, _ := setupTestApp(t)

	// A directory cannot be replaced by the document.
	err := app.SaveDocumentAs(t.TempDir())
	require.Error(t, err)
	assert.Empty(t, app.DocumentPath())
}

func TestDocument_OpenMissing(t *testing.T) {
	app, _ := setupTestApp(t)
	store := app.Store()

	err := app.OpenDocument(filepath.Join(t.TempDir(), "missing"+config.ExtDocument))
	require.Error(t, err)
	assert.Same(t, store, app.Store(), "failed open keeps the current document")
}

func TestStatusText(t *testing.T) {
	app, _ := setupTestApp(t)
	assert.Equal(t, "0 events", app.statusText(0))

	_, err := app.Store().Add(timedDraft("Standup", testNow))
	require.NoError(t, err)
	assert.Equal(t, "1 event *", app.statusText(1))

	path := filepath.Join(t.TempDir(), "plan"+config.ExtDocument)
	require.NoError(t, app.SaveDocumentAs(path))
	assert.Equal(t, "1 event  |  plan.planner", app.statusText(1))
}

// -----------------------------------------------------------------------------
// Import & Export Tests
// -----------------------------------------------------------------------------

func TestImportICS(t *testing.T) {
	app, _ := setupTestApp(t)

	n, err := app.ImportICS(strings.NewReader(testICS))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, app.Store().Len())
	assert.True(t, app.Dirty())

	_, err = app.ImportICS(strings.NewReader("not a calendar"))
	assert.Error(t, err)
	assert.Equal(t, 1, app.Store().Len())
}

func TestImportICSURL_UsesKeyring(t *testing.T) {
	app, fetcher := setupTestApp(t)
	require.NoError(t, keyring.Set(config.KeyringService, "alice", "s3cret"))

	fetcher.On("Fetch", mock.Anything, "https://example.com/cal.ics", "alice", "s3cret").
		Return(io.NopCloser(strings.NewReader(testICS)), nil)

	n, err := app.ImportICSURL(context.Background(), "https://example.com/cal.ics", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	fetcher.AssertExpectations(t)
}

func TestImportICSURL_Failure(t *testing.T) {
	app, fetcher := setupTestApp(t)

	fetcher.On("Fetch", mock.Anything, mock.Anything, "", "").
		Return(nil, errors.New("connection refused"))

	n, err := app.ImportICSURL(context.Background(), "https://example.com/cal.ics", "")
	require.Error(t, err)
	assert.Zero(t, n)
	assert.False(t, app.Dirty())
	fetcher.AssertExpectations(t)
}

func TestImportVCard(t *testing.T) {
	app, _ := setupTestApp(t)
	vcards := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Alice\r\nBDAY:19900315\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:No Birthday\r\nEND:VCARD\r\n"

	n, err := app.ImportVCard(context.Background(), strings.NewReader(vcards))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	ev := app.Store().Events()[0]
	assert.Equal(t, "Birthday: Alice (35)", ev.Title)
	assert.True(t, ev.AllDay)
	assert.True(t, ev.Start.Equal(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)))
}

func TestExportICS(t *testing.T) {
	app, _ := setupTestApp(t)
	_, err := app.Store().Add(timedDraft("Standup", testNow))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, app.ExportICS(&buf))
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, buf.String(), "SUMMARY:Standup")
}

// -----------------------------------------------------------------------------
// Event Editor Tests
// -----------------------------------------------------------------------------

func TestEventForm_NewEventDefaults(t *testing.T) {
	app, _ := setupTestApp(t)
	day := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

	f := app.newEventForm(nil, day)
	assert.Equal(t, "2025-03-12 08:00", f.start.Text, "new events start at the current hour")
	assert.Equal(t, "2025-03-12 09:00", f.end.Text)
	assert.Equal(t, int(engine.DefaultColor), f.color.SelectedIndex())
	assert.False(t, f.allDay.Checked)
}

func TestEventForm_EditFillsFields(t *testing.T) {
	app, _ := setupTestApp(t)
	ev := engine.Event{
		ID:       uuid.New(),
		Title:    "Dentist",
		Start:    time.Date(2025, time.April, 2, 9, 30, 0, 0, time.UTC),
		End:      time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC),
		Location: "Main street",
		Color:    engine.ColorRed,
	}

	f := app.newEventForm(&ev, testNow)
	assert.Equal(t, "Dentist", f.title.Text)
	assert.Equal(t, "Main street", f.location.Text)
	assert.Equal(t, "2025-04-02 09:30", f.start.Text)
	assert.Equal(t, "2025-04-02 10:00", f.end.Text)
	assert.Equal(t, "Red", f.color.Selected)
}

func TestEventForm_Draft(t *testing.T) {
	app, _ := setupTestApp(t)
	day := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

	t.Run("Timed", func(t *testing.T) {
		f := app.newEventForm(nil, day)
		f.title.SetText("  Review  ")
		f.color.SetSelectedIndex(1)

		d, err := f.draft(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "Review", d.Title)
		assert.Equal(t, engine.ColorRed, d.Color)
		assert.Equal(t, time.Date(2025, time.March, 12, 8, 0, 0, 0, time.UTC), d.Start)
		assert.Equal(t, time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC), d.End)
	})

	t.Run("MissingEnd", func(t *testing.T) {
		f := app.newEventForm(nil, day)
		f.title.SetText("Review")
		f.end.SetText("")

		d, err := f.draft(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, d.Start.Add(config.DefaultEventSpan), d.End)
	})

	t.Run("AllDay", func(t *testing.T) {
		f := app.newEventForm(nil, day)
		f.title.SetText("Holiday")
		f.allDay.SetChecked(true)
		assert.Equal(t, "2025-03-12", f.start.Text)
		assert.True(t, f.end.Disabled())

		d, err := f.draft(time.UTC)
		require.NoError(t, err)
		assert.True(t, d.AllDay)
		assert.Equal(t, day, d.Start)
		assert.Equal(t, d.Start, d.End)

		f.allDay.SetChecked(false)
		assert.Equal(t, "2025-03-12 00:00", f.start.Text)
		assert.Equal(t, "2025-03-12 01:00", f.end.Text)
		assert.False(t, f.end.Disabled())
	})

	t.Run("TitleRequired", func(t *testing.T) {
		f := app.newEventForm(nil, day)
		f.title.SetText("   ")
		_, err := f.draft(time.UTC)
		assert.ErrorIs(t, err, engine.ErrTitleRequired)
		assert.Equal(t, "A title is required", app.eventErrorText(err))
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		f := app.newEventForm(nil, day)
		f.title.SetText("Review")
		f.end.SetText("2025-03-11 08:00")
		_, err := f.draft(time.UTC)
		assert.ErrorIs(t, err, engine.ErrEndBeforeStart)
	})

	t.Run("BadDate", func(t *testing.T) {
		f := app.newEventForm(nil, day)
		f.title.SetText("Review")
		f.start.SetText("tomorrow")
		_, err := f.draft(time.UTC)
		assert.ErrorIs(t, err, errBadDate)
		assert.Equal(t, "Invalid date", app.eventErrorText(err))
	})
}

func TestSaveEvent_AddThenUpdate(t *testing.T) {
	app, _ := setupTestApp(t)

	require.NoError(t, app.saveEvent(uuid.Nil, timedDraft("Standup", testNow)))
	events := app.Store().Events()
	require.Len(t, events, 1)
	id := events[0].ID

	require.NoError(t, app.saveEvent(id, timedDraft("Retro", testNow)))
	got, ok := app.Store().Get(id)
	require.True(t, ok)
	assert.Equal(t, "Retro", got.Title, "update keeps the identifier")
	assert.Equal(t, 1, app.Store().Len())

	err := app.saveEvent(uuid.Nil, engine.Draft{Start: testNow, End: testNow})
	assert.ErrorIs(t, err, engine.ErrTitleRequired)
}

// -----------------------------------------------------------------------------
// Countdown Tests
// -----------------------------------------------------------------------------

func TestFormatCountdown(t *testing.T) {
	app, _ := setupTestApp(t)

	state := engine.CountdownState{Days: 2, Hours: 3, Seconds: 5}
	assert.Equal(t, "2 days, 3 hours, 5 seconds", app.formatCountdown(state))

	state = engine.CountdownState{Days: 1, Minutes: 1}
	assert.Equal(t, "1 day, 1 minute", app.formatCountdown(state))

	assert.Equal(t, "Time's up!", app.formatCountdown(engine.CountdownState{Expired: true}))
	assert.Equal(t, "Time's up!", app.formatCountdown(engine.CountdownState{}))

	app.Localizer = nil
	assert.Equal(t, config.FallbackTimesUp, app.formatCountdown(engine.CountdownState{Expired: true}))
}

func TestCountdown_StartAndReset(t *testing.T) {
	app, _ := setupTestApp(t)

	assert.ErrorIs(t, app.startCountdown("soon"), errBadDate)
	assert.ErrorIs(t, app.startCountdown("2025-03-09 10:00"), errCountdownPast)
	assert.Equal(t, "The target must be in the future", app.countdownErrorText(errCountdownPast))

	_, ok := app.countdownTarget()
	assert.False(t, ok)

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, app.startCountdown(" 2025-03-12 08:00 "))
	assert.Contains(t, logs.String(), `"msg":"`+config.MsgCountdownSet+`"`)
	assert.Contains(t, logs.String(), `"`+config.LogKeyComponent+`":"`+config.CompCountdown+`"`)

	target, ok := app.countdownTarget()
	require.True(t, ok)
	assert.True(t, target.Equal(time.Date(2025, time.March, 12, 8, 0, 0, 0, time.UTC)))

	state := engine.Countdown(app.now(), target)
	assert.Equal(t, 2, state.DaysRemaining())

	app.resetCountdown()
	_, ok = app.countdownTarget()
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------
// Calendar View Tests
// -----------------------------------------------------------------------------

func TestBlockFrame(t *testing.T) {
	pos, size := blockFrame(engine.Block{Offset: 60, Height: 30, Lane: 1, Lanes: 2}, 100, 200)
	assert.InDelta(t, 200, pos.X, 0.01)
	assert.InDelta(t, 60, pos.Y, 0.01)
	assert.InDelta(t, 90, size.Width, 0.01)
	assert.InDelta(t, 30, size.Height, 0.01)

	// A block without lane information uses the whole column.
	pos, size = blockFrame(engine.Block{Offset: 0, Height: 20}, 0, 200)
	assert.InDelta(t, 10, pos.X, 0.01)
	assert.InDelta(t, 180, size.Width, 0.01)
}

func TestRangeTitle(t *testing.T) {
	anchor := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	grid := engine.NewGrid(time.Monday)

	assert.Equal(t, "Wednesday 12 March 2025", rangeTitle(grid, anchor, engine.Day))
	assert.Equal(t, "March 2025", rangeTitle(grid, anchor, engine.Month))
	assert.Equal(t, "10 Mar – 16 Mar 2025", rangeTitle(grid, anchor, engine.Week))
}

func TestBlockLabel(t *testing.T) {
	app, _ := setupTestApp(t)

	assert.Equal(t, "09:30 Dentist", app.blockLabel(engine.Event{
		Title: "Dentist",
		Start: time.Date(2025, time.April, 2, 9, 30, 0, 0, time.UTC),
	}))
	assert.Equal(t, "All day Holiday", app.blockLabel(engine.Event{Title: "Holiday", AllDay: true}))
	assert.Equal(t, "07:00", hourLabel(7))
}

func TestMainWindow_Navigation(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Store().Select(testNow)
	app.buildMainWindow()
	t.Cleanup(app.Window.Close)

	require.NotNil(t, app.view)
	assert.Equal(t, engine.Week, app.view.gran, "default view comes from settings")
	assert.Len(t, app.view.tabs.Items, 4)

	app.view.navigate(1)
	assert.True(t, engine.SameDay(app.Store().SelectedDate(), testNow.AddDate(0, 0, 7)))

	app.view.tabs.SelectIndex(int(engine.Month))
	assert.Equal(t, engine.Month, app.view.gran)
	app.view.navigate(-1)
	assert.Equal(t, time.February, app.Store().SelectedDate().Month())

	app.view.today()
	assert.True(t, engine.SameDay(app.Store().SelectedDate(), testNow))
	assert.Equal(t, "March 2025", app.view.title.Text)
}

// -----------------------------------------------------------------------------
// Settings Tests
// -----------------------------------------------------------------------------

func TestCollectSettings_Validation(t *testing.T) {
	app, _ := setupTestApp(t)
	sw := app.newSettingsWidgets()

	sw.entryPort.SetText("70000")
	_, err := app.collectSettings(sw)
	assert.EqualError(t, err, "Port must be between 1 and 65535")

	sw.entryPort.SetText("")
	_, err = app.collectSettings(sw)
	assert.EqualError(t, err, "Port is required")

	sw.entryPort.SetText("18090")
	sw.entryPixels.SetText("5")
	_, err = app.collectSettings(sw)
	assert.EqualError(t, err, "Must be between 20 and 240")

	sw.entryPixels.SetText("90")
	sw.entryAutosave.SetText("every now and then")
	_, err = app.collectSettings(sw)
	assert.EqualError(t, err, "Invalid schedule")

	sw.entryAutosave.SetText("@every 5m")
	sw.weekStartSelect.SetSelectedIndex(1)
	sw.viewSelect.SetSelectedIndex(2)
	sw.checkLanes.SetChecked(false)

	s, err := app.collectSettings(sw)
	require.NoError(t, err)
	assert.Equal(t, "18090", s.FeedPort)
	assert.InDelta(t, 90, s.PixelsPerHour, 0.001)
	assert.Equal(t, "@every 5m", s.Autosave)
	assert.Equal(t, config.WeekStartMonday, s.WeekStart)
	assert.Equal(t, config.ViewMonth, s.DefaultView)
	assert.False(t, s.LaneAssignment)
}

func TestCollectSettings_EmptyAutosaveDisables(t *testing.T) {
	app, _ := setupTestApp(t)
	sw := app.newSettingsWidgets()
	sw.entryAutosave.SetText("  ")

	s, err := app.collectSettings(sw)
	require.NoError(t, err)
	assert.Empty(t, s.Autosave)
}

func TestApplySettings(t *testing.T) {
	app, _ := setupTestApp(t)
	sw := app.newSettingsWidgets()

	sw.langSelect.SetSelected("fr")
	sw.entryAutosave.SetText("@hourly")
	sw.urlEntry.SetText(" https://example.com/cal.ics ")
	sw.userEntry.SetText("alice")
	sw.passEntry.SetText("s3cret")

	require.NoError(t, app.applySettings(sw))

	assert.Equal(t, "@hourly", app.currentSettings().Autosave)
	assert.Equal(t, "fr", app.Preferences.String(config.PrefLanguage))
	assert.Equal(t, "https://example.com/cal.ics", app.Preferences.String(config.PrefImportURL))
	assert.Equal(t, "Paramètres...", app.GetMsg(config.TKeyMenuSettings), "language applied immediately")

	pwd, err := keyring.Get(config.KeyringService, "alice")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pwd)

	saved, err := config.LoadSettings(app.settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "@hourly", saved.Autosave)

	assert.Len(t, app.configChan, 1, "worker is told to reschedule")

	// The password is read back into a new form.
	assert.Equal(t, "s3cret", app.newSettingsWidgets().passEntry.Text)
}

func TestApplySettings_InvalidKeepsCurrent(t *testing.T) {
	app, _ := setupTestApp(t)
	sw := app.newSettingsWidgets()
	sw.entryPort.SetText("0")

	require.Error(t, app.applySettings(sw))
	assert.Equal(t, config.DefaultPort, app.currentSettings().FeedPort)
}
