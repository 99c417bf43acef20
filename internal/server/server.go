package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

// feedItem is one published state of the calendar.
type feedItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123, as required by HTTP headers
	events       []engine.Event
}

// FeedServer exposes the planner on localhost: an ICS feed for calendar
// clients, a small JSON API and a health probe.
type FeedServer struct {
	// Lock-free: read on every request, replaced on every store change.
	cache atomic.Pointer[feedItem]
	Port  string
	Clock engine.Clock
}

// NewFeedServer creates a server bound to 127.0.0.1:port once started.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{
		Port:  port,
		Clock: engine.RealClock{},
	}
}

// Handler returns the routing table of the server.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteFeed, s.handleFeed)
	mux.HandleFunc(config.RouteEvents, s.handleEvents)
	mux.HandleFunc(config.RouteHealth, s.handleHealth)
	return mux
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Publish renders events as ICS and atomically replaces the served state.
func (s *FeedServer) Publish(events []engine.Event) error {
	data, err := engine.ExportICS(events, s.now())
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrFeedEncode, err)
	}

	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	// Last-Modified only moves when the content changes.
	lastMod := s.now().UTC().Format(http.TimeFormat)
	if prev := s.cache.Load(); prev != nil && prev.etag == etag {
		lastMod = prev.lastModified
	}

	own := make([]engine.Event, len(events))
	copy(own, events)

	s.cache.Store(&feedItem{
		data:         data,
		etag:         etag,
		lastModified: lastMod,
		events:       own,
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
	return nil
}

func (s *FeedServer) now() time.Time {
	return engine.NowFrom(s.Clock)
}

// allowRead rejects anything but GET and HEAD.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// ready loads the published state or answers 503.
func (s *FeedServer) ready(w http.ResponseWriter) *feedItem {
	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
	}
	return item
}

// handleFeed serves the ICS content with HTTP caching support.
func (s *FeedServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	item := s.ready(w)
	if item == nil {
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

type apiEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Color    string    `json:"color"`
	AllDay   bool      `json:"all_day"`
}

type apiDay struct {
	Date   string     `json:"date"`
	Events []apiEvent `json:"events"`
}

type apiResponse struct {
	From string   `json:"from"`
	Days []apiDay `json:"days"`
}

// handleEvents lists the events starting on each day of ?from=YYYY-MM-DD&days=N.
func (s *FeedServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	from, days, err := s.parseRange(r)
	if err != nil {
		http.Error(w, config.HTTPMsgBadRequest+": "+err.Error(), http.StatusBadRequest)
		return
	}

	item := s.ready(w)
	if item == nil {
		return
	}

	dates := make([]time.Time, days)
	for i := range dates {
		dates[i] = from.AddDate(0, 0, i)
	}

	resp := apiResponse{From: from.Format(config.DateFormatInput), Days: make([]apiDay, days)}
	for i, evs := range engine.EventsForDates(item.events, dates) {
		day := apiDay{Date: dates[i].Format(config.DateFormatInput), Events: make([]apiEvent, len(evs))}
		for j, ev := range evs {
			day.Events[j] = apiEvent{
				ID:       ev.ID.String(),
				Title:    ev.Title,
				Start:    ev.Start,
				End:      ev.End,
				Location: ev.Location,
				Notes:    ev.Notes,
				Color:    ev.Color.String(),
				AllDay:   ev.AllDay,
			}
		}
		resp.Days[i] = day
	}

	s.writeJSON(w, r, resp)
}

func (s *FeedServer) parseRange(r *http.Request) (time.Time, int, error) {
	q := r.URL.Query()

	from := engine.StartOfDay(s.now())
	if v := q.Get(config.QueryFrom); v != "" {
		t, err := time.ParseInLocation(config.DateFormatInput, v, s.now().Location())
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("%s %s", config.ErrBadQuery, config.QueryFrom)
		}
		from = t
	}

	days := config.DefaultAPIDays
	if v := q.Get(config.QueryDays); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > config.MaxAPIDays {
			return time.Time{}, 0, fmt.Errorf("%s %s", config.ErrBadQuery, config.QueryDays)
		}
		days = n
	}
	return from, days, nil
}

type healthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
	Events int    `json:"events"`
}

// handleHealth answers 200 while the process is up; Ready reports whether a feed was published.
func (s *FeedServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	resp := healthResponse{Status: config.HealthOK}
	if item := s.cache.Load(); item != nil {
		resp.Ready = true
		resp.Events = len(item.events)
	}
	s.writeJSON(w, r, resp)
}

func (s *FeedServer) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
