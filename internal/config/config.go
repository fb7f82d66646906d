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

// UserAgent identifies the HTTP client used by remote content sources.
var UserAgent = "Go-LifeStory/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go LifeStory"
	AppID          = "com.github.tartampluch.go-lifestory"
	KeyringService = "com.github.tartampluch.go-lifestory"
	EnvPrefix      = "LIFESTORY"
	LogFileName    = "lifestory.log"

	// DefaultLanguage is used when the configured language has no locale file.
	DefaultLanguage = "en"
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
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdRootUse      = "go-lifestory"
	CmdRootShort    = "Build life-story reports from a birth date"
	CmdServeUse     = "serve"
	CmdServeShort   = "Start the report HTTP API"
	CmdReportUse    = "report <YYYY-MM-DD>"
	CmdReportShort  = "Print the report for one birth date"
	CmdImportUse    = "import"
	CmdImportShort  = "Load a content directory into the configured store"
	CmdVersionUse   = "version"
	CmdVersionShort = "Print build information"
	FlagDebug       = "debug"
	FlagFormat      = "format"
	FlagFrom        = "from"
	FlagPort        = "port"
	FlagDescDebug   = "Enable debug logging"
	FlagDescFormat  = "Output format: json, ics or vcf"
	FlagDescFrom    = "Directory holding years/, generations/ and birthdays/ documents"
	FlagDescPort    = "Port to run the HTTP API on"
	FormatJSON      = "json"
	FormatICS       = "ics"
	FormatVCF       = "vcf"
	MsgVersionOut   = "%s version %s (commit %s, built %s, %s/%s)\n"
	MsgImportReport = "Imported %d documents (%d failed)\n"
)

// -----------------------------------------------------------------------------
// Birth Date Domain
// -----------------------------------------------------------------------------

const (
	// MinYear and MaxYear bound every birth year the report can be built for.
	MinYear = 1946
	MaxYear = 2012

	FormatFullDate = "%s %d, %d"
	FormatISODate  = "%04d-%02d-%02d"
	FormatMonthDay = "%02d-%02d"
)

// -----------------------------------------------------------------------------
// Placeholder Defaults
// -----------------------------------------------------------------------------

const (
	// DefaultCohortSize is used when the year document carries no birth_year_cohort.
	DefaultCohortSize int64 = 3_900_000

	// MaxMilestoneYear caps the milestone calendar so it never projects far into the future.
	MaxMilestoneYear = 2100
)

// -----------------------------------------------------------------------------
// Content Sources
// -----------------------------------------------------------------------------

const (
	BackendFile     = "file"
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DirYears       = "years"
	DirGenerations = "generations"
	DirBirthdays   = "birthdays"

	ExtJSON = ".json"
	ExtYAML = ".yaml"
	ExtYML  = ".yml"

	RedisKeyPrefix   = "lifestory:content"
	FormatRedisKey   = "%s:%s:%s"
	ContentTable     = "content_documents"
	SQLiteBusyPragma = "_pragma=busy_timeout(5000)"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	MaxHTTPResponseSize = 8 * 1024 * 1024 // content documents are small
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
	DefaultPort         = "8080"

	RetryInitialInterval = 200 * time.Millisecond
	RetryMaxInterval     = 2 * time.Second
	RetryMaxAttempts     = 3
)

// -----------------------------------------------------------------------------
// HTTP Routes, Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	RouteHealth       = "/healthz"
	RouteMetrics      = "/metrics"
	RouteGenerations  = "/api/v1/generations"
	RouteReport       = "/api/v1/reports/:date"
	RouteReportICS    = "/api/v1/reports/:date/calendar.ics"
	RouteReportVCF    = "/api/v1/reports/:date/celebrities.vcf"
	ParamDate         = "date"
	HeaderUserAgent   = "User-Agent"
	HeaderContentType = "Content-Type"
	HeaderXContent    = "X-Content-Type-Options"
	HeaderETag        = "ETag"
	HeaderIfNoneMatch = "If-None-Match"
	HeaderCache       = "Cache-Control"
	CacheControlPriv  = "private, no-cache"
	MimeTextCalendar  = "text/calendar; charset=utf-8"
	MimeVCard         = "text/vcard; charset=utf-8"
	MimeNoSniff       = "nosniff"
	MimeYAMLPrefix    = "application/yaml"
	MimeYAMLAlt       = "text/yaml"
	StatusOK          = "ok"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go LifeStory//Export//EN"
	ICalCalName   = "Life Story"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalDomain    = "golifestory"
	ICalYearly    = "FREQ=YEARLY"
	FormatEventID = "%s@%s"

	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"
	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRRule      = "RRULE"
	PropCategories = "CATEGORIES"

	VCardVersion    = "4.0"
	VCardBDayFormat = "%04d%02d%02d"
	VCardBDayNoYear = "--%02d%02d"

	// UIDNamespace seeds deterministic export UIDs.
	UIDNamespace = "go-lifestory-v1"
)

// -----------------------------------------------------------------------------
// Milestone Calendar
// -----------------------------------------------------------------------------

const (
	MilestoneCategory      = "Milestone"
	SummaryBirthday        = "Birthday"
	SummaryBorn            = "Born (%s)"
	SummaryTurns           = "Turns %d"
	SummaryHSGraduation    = "High school graduation (class of %d)"
	SummaryCollegeGrad     = "College graduation"
	SummaryWorkforce       = "Entering the workforce"
	SummaryAnchor          = "%s: age %d"
	MilestoneDecadeStep    = 10
	MilestoneMaxDecadeAge  = 100
	GraduationMonth        = 6
	GraduationDay          = 1
	WorkforceMonth         = 9
	WorkforceDay           = 1
	FormatMilestoneUIDSeed = "%s/%s"
	FormatTwinUIDSeed      = "%s/%s/%d/%02d-%02d"
	VCardUIDPrefix         = "urn:uuid:"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrAppFailed       = "application failed unexpectedly"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSettings        = "failed to read settings from environment"
	ErrBackend         = "unsupported content backend"
	ErrBackendNoImport = "content backend does not accept imports"
	ErrContentDecode   = "failed to decode content document"
	ErrContentFetch    = "failed to fetch content document"
	ErrContentStore    = "failed to store content document"
	ErrDBOpen          = "failed to open content database"
	ErrDBSchema        = "failed to prepare content schema"
	ErrRedisURL        = "parse redis URL"
	ErrRedisPing       = "redis ping failed"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrVCardEncode     = "failed to encode vCard data"
	ErrReportJSON      = "failed to encode report"
	ErrImportWalk      = "failed to walk content directory"
	ErrKeyring         = "password retrieval from keyring failed"
	ErrOutputFormat    = "unsupported output format"
	ErrImportSource    = "import source directory is required"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgReportUnavailable = "Report unavailable for this date."
	HTTPMsgInternalErr       = "Internal Server Error"
	HTTPMsgOutOfRange        = "Birth year outside the supported generations."
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgAssembleStart   = "Assembling report"
	MsgAssembleDone    = "Report assembled"
	MsgAssembleFailed  = "Report assembly failed"
	MsgUnknownToken    = "Unknown placeholder left in content"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgRequest         = "HTTP request"
	MsgPanicRecovered  = "Recovered from handler panic"
	MsgFetchRetry      = "Retrying content fetch"
	MsgFetchStart      = "Fetching content document"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgImportDocument  = "Imported content document"
	MsgImportSkipped   = "Skipping content file"
	MsgImportFailed    = "Failed to import content document"
	MsgPassFromKeyring = "Content password loaded from keyring"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
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
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyKind      = "kind"
	LogKeyPort      = "port"
	LogKeyBackend   = "backend"
	LogKeyDate      = "birth_date"
	LogKeyToken     = "token"
	LogKeyUser      = "user"
	LogKeyAttempt   = "attempt"
	LogKeyDuration  = "duration_ms"
	LogKeySections  = "sections"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"

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
	CompMain      = "main"
	CompAssembler = "assembler"
	CompContent   = "content"
	CompFetcher   = "fetcher"
	CompImporter  = "importer"
	CompServer    = "server"
	CompI18n      = "i18n"
	CompConfig    = "config"
)
