package logging

import (
	"os"

	raven "github.com/getsentry/raven-go"
	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"calculator/internal/config"
)

// Setup configures the global logger from cfg and returns an entry
// tagged with a fresh session id.
func Setup(cfg *config.Config) *log.Entry {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.SentryDSN != "" {
		if err := raven.SetDSN(cfg.SentryDSN); err != nil {
			log.WithError(err).Warn("[Main] Couldn't configure sentry")
		}
	}

	return log.WithField("session", NewID())
}

func NewID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

// Report logs err on entry and forwards it to sentry when configured.
func Report(entry *log.Entry, err error, msg string) {
	entry.WithError(err).Error(msg)
	if raven.DefaultClient != nil && raven.ProjectID() != "" {
		raven.CaptureError(err, map[string]string{"message": msg})
	}
}
