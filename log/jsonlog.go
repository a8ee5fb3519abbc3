// SPDX-FileCopyrightText: Copyright (c) 2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"io"
	"log/slog"
)

// JSONlog is the structured JSON logger that satisfies the Logger interface
type JSONlog struct {
	level Level
	log   *slog.Logger
}

// NewJSON returns a new JSONlog type that satisfies the Logger interface. Unknown levels log
// everything.
func NewJSON(output io.Writer, level Level) *JSONlog {
	logOpts := slog.HandlerOptions{}
	switch level {
	case LevelInfo:
		logOpts.Level = slog.LevelInfo
	case LevelWarn:
		logOpts.Level = slog.LevelWarn
	case LevelError:
		logOpts.Level = slog.LevelError
	default:
		logOpts.Level = slog.LevelDebug
	}
	return &JSONlog{
		level: level,
		log:   slog.New(slog.NewJSONHandler(output, &logOpts)),
	}
}

// Debugf logs a debug message via the structured JSON logger
func (l *JSONlog) Debugf(log Log) {
	l.output(LevelDebug, slog.LevelDebug, log)
}

// Infof logs a info message via the structured JSON logger
func (l *JSONlog) Infof(log Log) {
	l.output(LevelInfo, slog.LevelInfo, log)
}

// Warnf logs a warn message via the structured JSON logger
func (l *JSONlog) Warnf(log Log) {
	l.output(LevelWarn, slog.LevelWarn, log)
}

// Errorf logs an error message via the structured JSON logger
func (l *JSONlog) Errorf(log Log) {
	l.output(LevelError, slog.LevelError, log)
}

func (l *JSONlog) output(level Level, slogLevel slog.Level, log Log) {
	if l.level < level {
		return
	}
	l.log.LogAttrs(context.Background(), slogLevel, log.message(), slog.Group(DirString,
		slog.String(DirFromString, log.directionFrom()),
		slog.String(DirToString, log.directionTo()),
	))
}
