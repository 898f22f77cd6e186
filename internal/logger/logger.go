package logger

import (
	"fmt"

	"github.com/Anthya1104/raid-forensic/internal/config"
	"github.com/sirupsen/logrus"
)

// InitLogger configures the package-level logrus logger. Callers invoke
// it once from main before doing anything else, the way every CLI in
// this family does.
func InitLogger(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return nil
}

func parseLevel(level string) (logrus.Level, error) {
	switch level {
	case config.LogLevelDebug:
		return logrus.DebugLevel, nil
	case config.LogLevelInfo:
		return logrus.InfoLevel, nil
	case config.LogLevelWarning:
		return logrus.WarnLevel, nil
	case config.LogLevelError:
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
