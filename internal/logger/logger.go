// Package logger holds the process-wide logger. The shell is quiet by
// default; debug logging is opted into with the --verbose flag.
package logger

import (
	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// Init configures the process logger. With verbose set, debug output
// goes to stderr so it never mixes with command output on stdout.
func Init(verbose bool) {
	if !verbose {
		log = zap.NewNop().Sugar()
		return
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return
	}
	log = l.Sugar()
}

// Logger returns the process logger.
func Logger() *zap.SugaredLogger {
	return log
}
