// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

// Package logging holds the process-wide zerolog logger.
//
// Startup code logs through the package helpers; long-lived components take a
// zerolog.Logger from Logger or WithComponent; request handlers use Ctx so
// their lines carry the request ID:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Int("movies", n).Msg("Dataset loaded")
//	logging.Ctx(r.Context()).Debug().Str("movie", title).Msg("recommendations served")
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every line as the "service" field.
const ServiceName = "cinecluster"

// Config mirrors config.LoggingConfig. Output defaults to os.Stderr.
type Config struct {
	Level  string
	Format string // json or console
	Caller bool
	Output io.Writer
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // packages log during tests without calling Init
func init() {
	Init(Config{})
}

// Init replaces the global logger. Unknown levels fall back to info.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	ctx := zerolog.New(out).With().Timestamp().Str("service", ServiceName)
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()
	global.Store(&l)
}

func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return parsed
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// WithComponent returns the global logger tagged with a component field.
func WithComponent(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}

// Info starts an info-level event on the global logger.
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warn-level event on the global logger.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error-level event on the global logger.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal starts a fatal event; the process exits after Msg.
func Fatal() *zerolog.Event { return global.Load().Fatal() }
