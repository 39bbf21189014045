package logger

var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
	FromEnvExported             = fromEnv
)
