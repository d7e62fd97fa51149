// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// EnvDebug enables debug logging when set to a true value.
const EnvDebug = "LOCLAUDE_DEBUG"

// Setup sends diagnostics to w. Only warnings and errors are shown unless
// debug is set.
func Setup(debug bool, w io.Writer) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp:       !debug,
		FullTimestamp:          true,
		DisableLevelTruncation: true,
		DisableQuote:           true,
	})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// DebugFromEnv reports whether LOCLAUDE_DEBUG asks for debug output.
func DebugFromEnv() bool {
	v, ok := os.LookupEnv(EnvDebug)
	if !ok {
		return false
	}
	on, err := strconv.ParseBool(v)
	return err == nil && on
}
