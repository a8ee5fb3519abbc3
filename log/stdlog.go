// SPDX-FileCopyrightText: Copyright (c) The go-mail Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"io"
	"log"
)

// Stdlog is the default logger that satisfies the Logger interface
type Stdlog struct {
	level Level
	err   *log.Logger
	warn  *log.Logger
	info  *log.Logger
	debug *log.Logger
}

// CallDepth is the call depth value for the log.Logger's Output method
const CallDepth = 3

// New returns a new Stdlog type that satisfies the Logger interface
func New(output io.Writer, level Level) *Stdlog {
	lf := log.Lmsgprefix | log.LstdFlags
	return &Stdlog{
		level: level,
		err:   log.New(output, "ERROR: ", lf),
		warn:  log.New(output, " WARN: ", lf),
		info:  log.New(output, " INFO: ", lf),
		debug: log.New(output, "DEBUG: ", lf),
	}
}

// Debugf performs a Printf() on the debug logger
func (l *Stdlog) Debugf(log Log) {
	l.output(LevelDebug, l.debug, log)
}

// Infof performs a Printf() on the info logger
func (l *Stdlog) Infof(log Log) {
	l.output(LevelInfo, l.info, log)
}

// Warnf performs a Printf() on the warn logger
func (l *Stdlog) Warnf(log Log) {
	l.output(LevelWarn, l.warn, log)
}

// Errorf performs a Printf() on the error logger
func (l *Stdlog) Errorf(log Log) {
	l.output(LevelError, l.err, log)
}

// output writes the Log with its direction prefix if the Stdlog level includes level
func (l *Stdlog) output(level Level, logger *log.Logger, logData Log) {
	if l.level < level {
		return
	}
	_ = logger.Output(CallDepth, logData.directionPrefix()+" "+logData.message())
}
