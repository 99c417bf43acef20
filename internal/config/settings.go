package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Settings is the user-editable planner configuration persisted as YAML.
type Settings struct {
	// WeekStart is the first column of week and month grids ("sunday" or "monday").
	WeekStart string `yaml:"week_start"`

	// DefaultView is the tab shown at startup ("day", "week" or "month").
	DefaultView string `yaml:"default_view"`

	// PixelsPerHour scales the day and week timelines.
	PixelsPerHour float64 `yaml:"pixels_per_hour"`

	// LaneAssignment places overlapping timed events side by side.
	LaneAssignment bool `yaml:"lane_assignment"`

	// Autosave is a cron schedule for saving the open document. Empty disables it.
	Autosave string `yaml:"autosave"`

	// FeedPort is the localhost port of the ICS feed server.
	FeedPort string `yaml:"feed_port"`

	// Document is the last opened planner document.
	Document string `yaml:"document,omitempty"`
}

// DefaultSettings returns the in-memory defaults.
func DefaultSettings() *Settings {
	return &Settings{
		WeekStart:      DefaultWeekStart,
		DefaultView:    DefaultView,
		PixelsPerHour:  PixelsPerHour,
		LaneAssignment: true,
		Autosave:       DefaultAutosave,
		FeedPort:       DefaultPort,
	}
}

// Normalize repairs invalid or missing values so that hand-edited files still
// produce a usable configuration.
func (s *Settings) Normalize() {
	s.WeekStart = strings.ToLower(strings.TrimSpace(s.WeekStart))
	switch s.WeekStart {
	case WeekStartSunday, WeekStartMonday:
	default:
		s.WeekStart = DefaultWeekStart
	}

	s.DefaultView = strings.ToLower(strings.TrimSpace(s.DefaultView))
	switch s.DefaultView {
	case ViewDay, ViewWeek, ViewMonth:
	default:
		s.DefaultView = DefaultView
	}

	if s.PixelsPerHour < MinPixelsPerHour || s.PixelsPerHour > MaxPixelsPerHour {
		s.PixelsPerHour = PixelsPerHour
	}

	s.Autosave = strings.TrimSpace(s.Autosave)
	if s.Autosave != "" {
		if err := ValidateAutosave(s.Autosave); err != nil {
			s.Autosave = DefaultAutosave
		}
	}

	if err := ValidatePort(s.FeedPort); err != nil {
		s.FeedPort = DefaultPort
	}
}

// Weekday returns WeekStart as a time.Weekday.
func (s *Settings) Weekday() time.Weekday {
	if s.WeekStart == WeekStartMonday {
		return time.Monday
	}
	return time.Sunday
}

// ValidateAutosave checks a cron schedule using the standard five-field parser,
// which also accepts descriptors such as "@every 1m" and "@hourly".
func ValidateAutosave(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%s: %w", ErrAutosaveSpec, err)
	}
	return nil
}

// ValidatePixels checks a pixels-per-hour value typed in the settings form.
func ValidatePixels(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || float64(n) < MinPixelsPerHour || float64(n) > MaxPixelsPerHour {
		return fmt.Errorf("%s: %q", ErrPixelsRange, s)
	}
	return nil
}

// ValidatePort checks that s is a usable TCP port number.
func ValidatePort(s string) error {
	if s == "" {
		return errors.New(ErrPortRequired)
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if p < MinPort || p > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// DefaultSettingsPath returns <UserConfigDir>/<AppID>/settings.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// LoadSettings reads the settings file at path.
//
// On first run the file does not exist: the defaults are written with 0600
// permissions and returned. Keys missing from an existing file keep their
// default values.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return nil, errors.New(ErrSettingsPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s := DefaultSettings()
			if err := SaveSettings(path, s); err != nil {
				return s, err
			}
			slog.Info(MsgSettingsCreated, LogKeyComponent, CompSettings, LogKeyPath, path)
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
	}
	s.Normalize()

	return s, nil
}

// SaveSettings normalizes s and writes it to path atomically.
func SaveSettings(path string, s *Settings) error {
	if path == "" {
		return errors.New(ErrSettingsPath)
	}
	if s == nil {
		return errors.New(ErrSettingsNil)
	}

	s.Normalize()

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsSave, err)
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsSave, err)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path. The final file is owner read/write only.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*"+TempFileSuffix)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, FilePermUserRW); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
