// SPDX-FileCopyrightText: Copyright (c) 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

// Package log implements the logger interface used by the mail transports to report protocol
// traffic and delivery progress.
package log

import (
	"fmt"
	"strings"
)

const (
	DirServerToClient Direction = iota // Server to Client communication
	DirClientToServer                  // Client to Server communication
	DirLocal                           // Transport internal events, e.g. retries
)

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

const (
	// DirString is the group name of the direction attributes in structured logs
	DirString = "direction"

	// DirFromString is the attribute name of the sending side
	DirFromString = "from"

	// DirToString is the attribute name of the receiving side
	DirToString = "to"
)

// Direction is a type wrapper for the direction a debug log message goes
type Direction int

// Level is the log level of a Logger. Higher levels include all lower ones.
type Level int

// Log represents a log message type that holds a log Direction, a Format string
// and a slice of Messages
type Log struct {
	Direction Direction
	Format    string
	Messages  []interface{}
}

// Logger is the log interface used by the transports
type Logger interface {
	Debugf(Log)
	Infof(Log)
	Warnf(Log)
	Errorf(Log)
}

// ParseLevel returns the Level for its name ("error", "warn", "info" or "debug"), ignoring case
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelError, fmt.Errorf("unknown log level: %q", name)
}

// String satisfies the fmt.Stringer interface for the Level type
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	}
	return "unknown"
}

// message returns the formatted message of the Log
func (l Log) message() string {
	return fmt.Sprintf(l.Format, l.Messages...)
}

// directionPrefix returns the prefix that marks the direction in plain text logs
func (l Log) directionPrefix() string {
	switch l.Direction {
	case DirServerToClient:
		return "C <-- S:"
	case DirClientToServer:
		return "C --> S:"
	default:
		return "C -----:"
	}
}

// directionFrom returns the sending side of the Log
func (l Log) directionFrom() string {
	switch l.Direction {
	case DirServerToClient:
		return "server"
	case DirClientToServer:
		return "client"
	default:
		return "client"
	}
}

// directionTo returns the receiving side of the Log
func (l Log) directionTo() string {
	switch l.Direction {
	case DirServerToClient:
		return "client"
	case DirClientToServer:
		return "server"
	default:
		return "client"
	}
}
