package exitcode

const (
	Success        = 0
	UsageError     = 1
	ConfigError    = 2
	OutputError    = 3
	PartialSuccess = 6
)
