package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Setup sends log output to stdout and a daily file under dir.
// Without Setup the fiber default (stderr) is used, which is what tests get.
func Setup(dir string, debug bool) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	fileName := filepath.Join(dir, fmt.Sprintf("app_%s.log", time.Now().Format("02-01-2006")))
	logFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	if debug {
		log.SetLevel(log.LevelDebug)
	} else {
		log.SetLevel(log.LevelInfo)
	}
	log.Info("🚀 Logger initialized successfully!")
	return nil
}

func Success(message string) {
	log.Info("✅ " + message)
}

func Error(message string, err error) {
	if err != nil {
		log.Error("❌ " + message + ": " + err.Error())
	} else {
		log.Error("❌ " + message)
	}
}

func Warning(message string) {
	log.Warn("⚠️ " + message)
}

func Debug(message string) {
	log.Debug("🐛 " + message)
}

func Info(message string) {
	log.Info("ℹ️ " + message)
}
