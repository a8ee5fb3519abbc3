// SPDX-FileCopyrightText: Copyright (c) The go-mail Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"github.com/rs/zerolog"
)

// Zerolog wraps a zerolog.Logger so that it satisfies the Logger interface
type Zerolog struct {
	level Level
	log   zerolog.Logger
}

// NewZerolog returns a new Zerolog type that logs through the given zerolog.Logger. The level of
// the zerolog.Logger itself still applies.
func NewZerolog(logger zerolog.Logger, level Level) *Zerolog {
	return &Zerolog{
		level: level,
		log:   logger,
	}
}

// Debugf logs a debug message via zerolog
func (l *Zerolog) Debugf(log Log) {
	if l.level >= LevelDebug {
		l.output(l.log.Debug(), log)
	}
}

// Infof logs an info message via zerolog
func (l *Zerolog) Infof(log Log) {
	if l.level >= LevelInfo {
		l.output(l.log.Info(), log)
	}
}

// Warnf logs a warn message via zerolog
func (l *Zerolog) Warnf(log Log) {
	if l.level >= LevelWarn {
		l.output(l.log.Warn(), log)
	}
}

// Errorf logs an error message via zerolog
func (l *Zerolog) Errorf(log Log) {
	if l.level >= LevelError {
		l.output(l.log.Error(), log)
	}
}

func (l *Zerolog) output(event *zerolog.Event, log Log) {
	event.Dict(DirString, zerolog.Dict().
		Str(DirFromString, log.directionFrom()).
		Str(DirToString, log.directionTo()),
	).Msg(log.message())
}
