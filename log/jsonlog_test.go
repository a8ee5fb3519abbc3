// SPDX-FileCopyrightText: Copyright (c) 2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

type jsonLog struct {
	Direction jsonDir   `json:"direction"`
	Level     string    `json:"level"`
	Message   string    `json:"msg"`
	Time      time.Time `json:"time"`
}

type jsonDir struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func TestNewJSON(t *testing.T) {
	var b bytes.Buffer
	l := NewJSON(&b, LevelDebug)
	if l.level != LevelDebug {
		t.Error("Expected level to be LevelDebug, got ", l.level)
	}
	if l.log == nil {
		t.Error("logger not initialized")
	}
}

func TestJSONlog(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		slogLevel string
		logf      func(*JSONlog, Log)
	}{
		{"Debugf", LevelDebug, "DEBUG", (*JSONlog).Debugf},
		{"Debugf with unknown level", 999, "DEBUG", (*JSONlog).Debugf},
		{"Infof", LevelInfo, "INFO", (*JSONlog).Infof},
		{"Warnf", LevelWarn, "WARN", (*JSONlog).Warnf},
		{"Errorf", LevelError, "ERROR", (*JSONlog).Errorf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			l := NewJSON(&b, tt.level)

			tt.logf(l, Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}})
			checkJSONLog(t, b.Bytes(), tt.slogLevel, "server", "client", "test foo")

			b.Reset()
			tt.logf(l, Log{Direction: DirClientToServer, Format: "test %s", Messages: []interface{}{"bar"}})
			checkJSONLog(t, b.Bytes(), tt.slogLevel, "client", "server", "test bar")
		})
	}
}

func TestJSONlog_LevelFilter(t *testing.T) {
	var b bytes.Buffer
	l := NewJSON(&b, LevelWarn)
	l.Debugf(Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}})
	l.Infof(Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}})
	if b.String() != "" {
		t.Errorf("messages below warn level were not expected to be logged, got: %s", b.String())
	}
	l.Errorf(Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}})
	if b.String() == "" {
		t.Error("error message was expected to be logged")
	}
}

func checkJSONLog(t *testing.T, data []byte, level, from, to, msg string) {
	t.Helper()
	var jl jsonLog
	if err := json.Unmarshal(data, &jl); err != nil {
		t.Fatalf("unmarshal json log message failed: %s", err)
	}
	if jl.Level != level {
		t.Errorf("expected level: %s, got: %s", level, jl.Level)
	}
	if jl.Direction.From != from {
		t.Errorf("expected message from: %s, got: %s", from, jl.Direction.From)
	}
	if jl.Direction.To != to {
		t.Errorf("expected message to: %s, got: %s", to, jl.Direction.To)
	}
	if jl.Message != msg {
		t.Errorf("expected message: %s, got %s", msg, jl.Message)
	}
}
