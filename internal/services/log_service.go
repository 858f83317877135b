package services

import (
	"Drivebox/internal/config"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type LogService struct {
	Log *logrus.Logger
}

func NewLogService(configuration *config.Configuration) LogService {
	log := logrus.New()
	logConfig := configuration.Server.LogConfig
	log.SetOutput(openLogOutput(logConfig))
	log.SetLevel(parseLogLevel(logConfig.Level))
	if logConfig.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return LogService{Log: log}
}

// NewDiscardLogService is used where log output is irrelevant, mostly tests.
func NewDiscardLogService() LogService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return LogService{Log: log}
}

func parseLogLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

func openLogOutput(logConfig config.LogConfig) io.Writer {
	if logConfig.Output != "file" {
		return os.Stdout
	}
	logFolder := strings.TrimRight(logConfig.LogPath, "/")
	logName := fmt.Sprintf("%s-%s.log", "drivebox", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logFolder, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open log file, falling back to stdout: %v\n", err)
		return os.Stdout
	}
	return file
}
