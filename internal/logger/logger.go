package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	"github.com/rs/zerolog"
)

// New creates the application logger. Development environments get a
// human-readable console writer, everything else gets JSON on stdout.
func New(appEnv string, debug bool) zerolog.Logger {
	var out io.Writer = os.Stdout
	if appEnv == "development" || appEnv == "dev" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(out).With().Timestamp().Logger().Level(level)
}

// TelegoLogger routes telego's internal logging through zerolog.
type TelegoLogger struct {
	log     zerolog.Logger
	replace *strings.Replacer
}

var _ telego.Logger = (*TelegoLogger)(nil)

// NewTelegoLogger wraps log for telego. The bot token is masked in every line.
func NewTelegoLogger(log zerolog.Logger, token string) *TelegoLogger {
	replace := strings.NewReplacer()
	if token != "" {
		replace = strings.NewReplacer(token, "BOT_TOKEN")
	}
	return &TelegoLogger{
		log:     log.With().Str("component", "telego").Logger(),
		replace: replace,
	}
}

// Debugf implements telego.Logger.
func (l *TelegoLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msg(l.replace.Replace(fmt.Sprintf(format, args...)))
}

// Errorf implements telego.Logger.
func (l *TelegoLogger) Errorf(format string, args ...any) {
	l.log.Error().Msg(l.replace.Replace(fmt.Sprintf(format, args...)))
}
