package engine_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tartampluch/go-planner/internal/engine"
)

// MockFetcher simulates the network layer using testify/mock.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements engine.Fetcher.
func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func timed(title string, start, end time.Time) engine.Draft {
	return engine.Draft{Title: title, Start: start, End: end, Color: engine.ColorBlue}
}
