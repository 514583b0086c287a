package sim

import (
	"log"
	"os"
)

// LogHookBase is embedded by hooks that print what they observe, one line per
// event, through a standard logger.
type LogHookBase struct {
	*log.Logger
}

// MakeLogHookBase wraps logger. A nil logger prints to stderr without a
// prefix or timestamps, so that traces can be diffed between runs.
func MakeLogHookBase(logger *log.Logger) LogHookBase {
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	return LogHookBase{Logger: logger}
}
