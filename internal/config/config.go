// Package config loads environment-sourced settings, optionally seeded
// from a .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const fallbackTimezone = "Europe/Kyiv"

// Config holds all recognized settings.
type Config struct {
	// Telegram MTProto credentials (from my.telegram.org) and the channel
	// to scrape. Required only for the telegram source.
	TelegramAPIID   int
	TelegramAPIHash string
	TelegramPhone   string
	TelegramChannel string
	TelegramSession string

	// MaxMessages caps how many recent messages are fetched per run.
	MaxMessages int

	// Timezone is the IANA zone outage instants are built in.
	Timezone string

	// Google Calendar OAuth client secrets, token cache and target calendar.
	GoogleCredentialsPath string
	GoogleTokenPath       string
	CalendarID            string

	LogLevel string
}

// Load reads configuration from the environment. A missing .env file is
// not an error; explicit environment variables win either way.
func Load() *Config {
	_ = godotenv.Load()

	apiID, _ := strconv.Atoi(os.Getenv("TELEGRAM_API_ID"))

	cfg := &Config{
		TelegramAPIID:         apiID,
		TelegramAPIHash:       os.Getenv("TELEGRAM_API_HASH"),
		TelegramPhone:         os.Getenv("TELEGRAM_PHONE"),
		TelegramChannel:       os.Getenv("TELEGRAM_CHANNEL"),
		TelegramSession:       os.Getenv("TELEGRAM_SESSION_PATH"),
		Timezone:              os.Getenv("DEFAULT_TIMEZONE"),
		GoogleCredentialsPath: os.Getenv("GOOGLE_CREDENTIALS_PATH"),
		GoogleTokenPath:       os.Getenv("GOOGLE_TOKEN_PATH"),
		CalendarID:            os.Getenv("DEFAULT_CALENDAR_ID"),
		LogLevel:              os.Getenv("LOG_LEVEL"),
	}
	if v := os.Getenv("MAX_MESSAGES"); v != "" {
		cfg.MaxMessages, _ = strconv.Atoi(v)
	}
	cfg.Normalize()
	return cfg
}

// Normalize fills in defaults for unset values.
func (c *Config) Normalize() {
	if c.TelegramSession == "" {
		c.TelegramSession = "session.json"
	}
	if c.MaxMessages <= 0 {
		c.MaxMessages = 50
	}
	if c.Timezone == "" {
		c.Timezone = fallbackTimezone
	}
	if c.GoogleTokenPath == "" {
		c.GoogleTokenPath = "token.json"
	}
	if c.CalendarID == "" {
		c.CalendarID = "primary"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ValidateTelegram reports the missing Telegram credential keys, if any.
func (c *Config) ValidateTelegram() error {
	var missing []string
	if c.TelegramAPIID == 0 {
		missing = append(missing, "TELEGRAM_API_ID")
	}
	if c.TelegramAPIHash == "" {
		missing = append(missing, "TELEGRAM_API_HASH")
	}
	if c.TelegramPhone == "" {
		missing = append(missing, "TELEGRAM_PHONE")
	}
	if c.TelegramChannel == "" {
		missing = append(missing, "TELEGRAM_CHANNEL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("telegram credentials required: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Location resolves the configured zone, falling back to Europe/Kyiv and
// finally UTC when the name is unrecognized.
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(fallbackTimezone); err == nil {
		return loc
	}
	return time.UTC
}
