package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for calendar imports.
var UserAgent = "Go-Planner/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Planner"
	AppID             = "com.github.tartampluch.go-planner"
	KeyringService    = "com.github.tartampluch.go-planner"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
	SettingsFileName  = "settings.yaml"
	TempFileSuffix    = ".tmp"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs, settings and planner documents.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagConfig       = "config"
	FlagDoc          = "doc"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescConfig   = "Path to the settings file (defaults to the user config dir)"
	FlagDescDoc      = "Planner document to open at startup"
	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// Calendar Grid
// -----------------------------------------------------------------------------

const (
	DaysPerWeek   = 7
	MonthGridRows = 6
	MonthGridDays = MonthGridRows * DaysPerWeek
	HoursPerDay   = 24

	// Representable range for navigation results.
	MinYear = 1
	MaxYear = 9999
)

// -----------------------------------------------------------------------------
// Layout Presets
// -----------------------------------------------------------------------------

const (
	PixelsPerHour      = 60.0
	DayMinBlockHeight  = 30.0
	WeekMinBlockHeight = 20.0
	AllDayOffset       = 10.0
	DayAllDayHeight    = 40.0
	WeekAllDayHeight   = 30.0
	MinPixelsPerHour   = 20.0
	MaxPixelsPerHour   = 240.0
	MonthMaxIndicators = 4
)

// -----------------------------------------------------------------------------
// Palette
// -----------------------------------------------------------------------------

// Palette names, in palette order. They double as CSS color names in ICS exports.
const (
	ColorNameBlue   = "blue"
	ColorNameRed    = "red"
	ColorNameGreen  = "green"
	ColorNameOrange = "orange"
	ColorNamePurple = "purple"
	ColorNamePink   = "pink"
	ColorNameYellow = "yellow"
	ColorNameGray   = "gray"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWinWidth        = 1100
	MainWinHeight       = 760
	SettingsWindowWidth = 600
	EventWinWidth       = 440
	EventWinHeight      = 560

	TimeColumnWidth   = 64
	DayColumnWidth    = 640
	WeekColumnWidth   = 140
	WeekHeaderHeight  = 40
	BlockWidthRatio   = 0.9
	BlockMarginRatio  = 0.05
	BlockCornerRadius = 4
	GridLineWidth     = 1
	MonthCellHeight   = 96
	IndicatorSize     = 8
	CountdownCellSize = 24
	CountdownTick     = time.Second
	CountdownMaxCells = 366

	// Preference Keys
	PrefLanguage        = "language"
	PrefImportURL       = "import_url"
	PrefImportUser      = "import_username"
	PrefCountdownTarget = "countdown_target"
	PrefLastRun         = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Display Formats
// -----------------------------------------------------------------------------

const (
	DateFormatInput     = "2006-01-02"
	DateTimeFormatInput = "2006-01-02 15:04"
	FormatHourLabel     = "15:04"
	FormatTimeShort     = "15:04"
	FormatDayTitle      = "Monday 2 January 2006"
	FormatMonthTitle    = "January 2006"
	FormatWeekRangeDay  = "2 Jan"
	FormatWeekRangeEnd  = "2 Jan 2006"
	FormatWeekdayShort  = "Mon"
	FormatWeekHeader    = "Mon 2"
	FormatDayNumber     = "2"
	FormatRangeTitle    = "%s – %s"
	FormatBlockLabel    = "%s %s"
	FormatStatus        = "%s  |  %s"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle     = "win_title"
	TKeyWinSettings  = "win_settings_title"
	TKeyWinNewEvent  = "win_new_event"
	TKeyWinEditEvent = "win_edit_event"
	TKeyWinImportURL = "win_import_url"

	TKeyTabDay       = "tab_day"
	TKeyTabWeek      = "tab_week"
	TKeyTabMonth     = "tab_month"
	TKeyTabCountdown = "tab_countdown"

	TKeyMenuFile      = "menu_file"
	TKeyMenuNew       = "menu_new"
	TKeyMenuOpen      = "menu_open"
	TKeyMenuSave      = "menu_save"
	TKeyMenuSaveAs    = "menu_save_as"
	TKeyMenuImportICS = "menu_import_ics"
	TKeyMenuImportURL = "menu_import_url"
	TKeyMenuImportVCF = "menu_import_vcard"
	TKeyMenuExportICS = "menu_export_ics"
	TKeyMenuSettings  = "menu_settings"

	TKeyBtnToday     = "btn_today"
	TKeyBtnAdd       = "btn_add"
	TKeyBtnSave      = "btn_save"
	TKeyBtnCancel    = "btn_cancel"
	TKeyBtnDelete    = "btn_delete"
	TKeyBtnImport    = "btn_import"
	TKeyBtnStartCD   = "btn_start_countdown"
	TKeyBtnResetCD   = "btn_reset_countdown"
	TKeyLblAllDayTag = "lbl_all_day_tag"

	TKeyLblTitle    = "lbl_title"
	TKeyLblAllDay   = "lbl_all_day"
	TKeyLblStart    = "lbl_start"
	TKeyLblEnd      = "lbl_end"
	TKeyLblLocation = "lbl_location"
	TKeyLblNotes    = "lbl_notes"
	TKeyLblColor    = "lbl_color"
	TKeyHelpDate    = "help_date"
	TKeyHelpDTime   = "help_datetime"

	TKeyColorBlue   = "color_blue"
	TKeyColorRed    = "color_red"
	TKeyColorGreen  = "color_green"
	TKeyColorOrange = "color_orange"
	TKeyColorPurple = "color_purple"
	TKeyColorPink   = "color_pink"
	TKeyColorYellow = "color_yellow"
	TKeyColorGray   = "color_gray"

	TKeyLblGeneral     = "lbl_general"
	TKeyLblCalendar    = "lbl_calendar"
	TKeyLblImport      = "lbl_import"
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblWeekStart   = "lbl_week_start"
	TKeyDaySunday      = "day_sunday"
	TKeyDayMonday      = "day_monday"
	TKeyLblDefaultView = "lbl_default_view"
	TKeyLblPixelsHour  = "lbl_pixels_per_hour"
	TKeyHelpPixels     = "help_pixels_per_hour"
	TKeyLblLanes       = "lbl_lane_assignment"
	TKeyLblAutosave    = "lbl_autosave"
	TKeyHelpAutosave   = "help_autosave"
	TKeyLblPort        = "lbl_server_port"
	TKeyHelpPort       = "help_port"
	TKeyLblURL         = "lbl_url"
	TKeyHelpURL        = "help_import_url"
	TKeyLblUser        = "lbl_user"
	TKeyLblPass        = "lbl_pass"
	TKeyLblFooter      = "lbl_footer"

	TKeyLblCDTarget   = "lbl_countdown_target"
	TKeyCDTimesUp     = "countdown_times_up"
	TKeyCDDaysLeft    = "countdown_days_left" // Requires Count
	TKeyUnitDay       = "unit_day"            // Requires Count
	TKeyUnitHour      = "unit_hour"           // Requires Count
	TKeyUnitMinute    = "unit_minute"         // Requires Count
	TKeyUnitSecond    = "unit_second"         // Requires Count
	TKeyUnitSeparator = "unit_separator"

	TKeyEvtBirthday    = "event_birthday"     // Requires Name
	TKeyEvtBirthdayAge = "event_birthday_age" // Requires Name, Age

	TKeyNotifImported = "notif_imported" // Requires Count
	TKeyNotifError    = "notif_error"
	TKeyStatusEvents  = "status_events" // Requires Count
	TKeyDlgUnsaved    = "dlg_unsaved"
	TKeyDlgUnsavedMsg = "dlg_unsaved_msg"

	// Validation Errors (UI)
	TKeyErrTitleReq   = "err_title_required"
	TKeyErrEndBefore  = "err_end_before_start"
	TKeyErrBadDate    = "err_bad_date"
	TKeyErrCDPast     = "err_countdown_past"
	TKeyErrAutosave   = "err_autosave_spec"
	TKeyErrPixels     = "err_pixels_range"
	TKeyErrPortReq    = "err_port_required"
	TKeyErrPortNum    = "err_port_number"
	TKeyErrPortRange  = "err_port_range"
	TKeyErrURLMissing = "err_url_required"
)

// -----------------------------------------------------------------------------
// Default Values & Settings
// -----------------------------------------------------------------------------

const (
	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"
	ViewDay         = "day"
	ViewWeek        = "week"
	ViewMonth       = "month"

	DefaultWeekStart = WeekStartSunday
	DefaultView      = ViewWeek
	DefaultAutosave  = "@every 1m"
	DefaultPort      = "18080"
	DefaultLanguage  = "en"
	DefaultLeapYear  = 2000 // Leap year fallback for dates like --02-29
	DefaultAPIDays   = 7
	MaxAPIDays       = 366
	DefaultEventSpan = time.Hour
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Planner//Engine//EN"
	ICalCalName = "Go Planner"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goplanner"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropLocation    = "LOCATION"
	PropDescription = "DESCRIPTION"
	PropColor       = "COLOR"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	ParamValue      = "VALUE"
	ValueDate       = "DATE"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 15 * time.Minute
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// ICS date-time layouts
	ICSLayoutDate = "20060102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	FormatUID = "%s@%s"

	// File Extensions
	ExtDocument = ".planner"
	ExtICS      = ".ics"
	ExtVCF      = ".vcf"
	ExtVCard    = ".vcard"
)

// ReferenceEpoch is the origin of numeric timestamps found in documents written
// by earlier versions of the planner (seconds since 2001-01-01 UTC).
var ReferenceEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	SchemeWebcal        = "webcal"
	RouteFeed           = "/calendar.ics"
	RouteEvents         = "/api/events"
	RouteHealth         = "/health"
	AddrSeparator       = ":"
	QueryFrom           = "from"
	QueryDays           = "days"
	HealthOK            = "ok"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderAccept          = "Accept"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	AcceptCalendar      = "text/calendar, */*;q=0.5"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrTitleRequired   = "event title is required"
	ErrEndBeforeStart  = "event end is before its start"
	ErrDuplicateID     = "duplicate event identifier"
	ErrDocDecode       = "failed to decode planner document"
	ErrDocEncode       = "failed to encode planner document"
	ErrDocRead         = "failed to read planner document"
	ErrDocWrite        = "failed to write planner document"
	ErrDocMissing      = "document field is missing"
	ErrBadEventID      = "invalid event identifier"
	ErrBadTimestamp    = "invalid timestamp"
	ErrBadEvent        = "invalid event"
	ErrNoDocumentPath  = "document has no file path"
	ErrSettingsLoad    = "failed to load settings"
	ErrSettingsSave    = "failed to save settings"
	ErrSettingsPath    = "settings path is empty"
	ErrSettingsNil     = "settings are nil"
	ErrConfigDir       = "could not determine user config dir"
	ErrAutosaveSpec    = "invalid autosave schedule"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrFeedEncode      = "failed to publish calendar feed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrPixelsRange     = "pixels per hour out of range"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https/webcal only)"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrCtxCancelled    = "operation cancelled by context"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICSParse        = "failed to parse iCalendar data"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrBadQuery        = "invalid query parameter"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrLocNotInit      = "localizer not initialized"
	ErrCountdownTarget = "countdown target must not be in the past"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgBadRequest   = "Bad Request"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	FallbackTitle       = "Untitled event"
	FallbackName        = "Unknown"
	FallbackBirthday    = "Birthday: %s"
	FallbackBirthdayAge = "Birthday: %s (%d)"
	FallbackTimesUp     = "Time's up!"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"

	MsgPortBusy        = "Port %s is busy or unavailable."
	MsgWorkerStart     = "Background worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgAutosaveSched   = "Autosave scheduled"
	MsgAutosaveOff     = "Autosave disabled"
	MsgAutosaveDone    = "Document autosaved"
	MsgCountdownSet    = "Countdown started"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgSkippedEvent    = "Skipping malformed calendar event"
	MsgImportDone      = "Import completed"
	MsgFetched         = "Calendar download started"
	MsgFetchFailed     = "Calendar download failed"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar feed updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgEventAdded      = "Event added"
	MsgEventUpdated    = "Event updated"
	MsgEventRemoved    = "Event removed"
	MsgDocOpened       = "Document opened"
	MsgDocSaved        = "Document saved"
	MsgDocNew          = "New document"
	MsgDocOpenFailed   = "Document could not be opened"
	MsgSettingsCreated = "Settings file created with defaults"
	MsgSettingsSaved   = "Settings saved"
	MsgNavigate        = "View navigated"
	MsgExported        = "Calendar exported"
	MsgActionFailed    = "User action failed"

	PlaceholderURL = "https://..."
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyPath      = "path"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeySpec      = "spec"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyID        = "event_id"
	LogKeyTitle     = "title"
	LogKeyView      = "view"
	LogKeyAnchor    = "anchor"
	LogKeyTotal     = "total"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompUIEvent   = "ui_event"
	CompUIDoc     = "ui_document"
	CompCountdown = "ui_countdown"
	CompEngine    = "engine"
	CompStore     = "store"
	CompImport    = "import"
	CompDocument  = "document"
	CompSettings  = "settings"
	CompServer    = "server"
	CompFetcher   = "fetcher"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
