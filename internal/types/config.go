package types

type RunMode string

const (
	// ModeLocal is the mode for local development
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the quote API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)
