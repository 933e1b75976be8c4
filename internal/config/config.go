package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	LessonSequence  []string
	ReadTimeoutSec  int
	WriteTimeoutSec int
}

// DefaultLessonSequence is the order the engine walks the lesson catalog when
// LESSON_SEQUENCE is not configured.
var DefaultLessonSequence = []string{
	"Rainbow Numbers",
	"Hundreds Chart",
	"Single Digit Addition",
	"Single Digit Subtraction",
	"Single Digit Multiplication",
	"Single Digit Division",
	"Double Digit Addition",
	"Skip Counting",
	"Lowercase Letters",
	"Vocabulary Destroyer",
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:learniverse.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		LessonSequence:  envListOr("LESSON_SEQUENCE", DefaultLessonSequence),
		ReadTimeoutSec:  envIntOr("READ_TIMEOUT_SEC", 15),
		WriteTimeoutSec: envIntOr("WRITE_TIMEOUT_SEC", 30),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
