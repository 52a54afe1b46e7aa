package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool // human readable output instead of JSON lines
}

// RollingFile is one size and age rotated log file.
type RollingFile struct {
	Name       string
	MaxSize    int // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
}

// LogFile implements rolling file based logs, one file per level group.
type LogFile struct {
	Enabled bool
	Path    string // directory, created on demand

	Access RollingFile // http access log, written by the fiber adapter
	Error  RollingFile // error, fatal and panic
	Info   RollingFile // debug and info
	Trace  RollingFile
	Warn   RollingFile
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole if true the http access log is written to the console.
	// Does not overrule flag Console.Enabled!
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	Console Console
	File    LogFile
}
