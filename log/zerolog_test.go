// SPDX-FileCopyrightText: Copyright (c) The go-mail Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

type zerologLog struct {
	Direction jsonDir `json:"direction"`
	Level     string  `json:"level"`
	Message   string  `json:"message"`
}

func TestZerolog(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  string
		logf  func(*Zerolog, Log)
	}{
		{"Debugf", LevelDebug, "debug", (*Zerolog).Debugf},
		{"Infof", LevelInfo, "info", (*Zerolog).Infof},
		{"Warnf", LevelWarn, "warn", (*Zerolog).Warnf},
		{"Errorf", LevelError, "error", (*Zerolog).Errorf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			l := NewZerolog(zerolog.New(&b), tt.level)

			tt.logf(l, Log{Direction: DirClientToServer, Format: "MAIL FROM:<%s>", Messages: []interface{}{"toni@example.com"}})
			var zl zerologLog
			if err := json.Unmarshal(b.Bytes(), &zl); err != nil {
				t.Fatalf("unmarshal zerolog message failed: %s", err)
			}
			if zl.Level != tt.want {
				t.Errorf("expected level: %s, got: %s", tt.want, zl.Level)
			}
			if zl.Direction.From != "client" || zl.Direction.To != "server" {
				t.Errorf("expected direction client -> server, got: %s -> %s", zl.Direction.From, zl.Direction.To)
			}
			if zl.Message != "MAIL FROM:<toni@example.com>" {
				t.Errorf("expected message: %s, got: %s", "MAIL FROM:<toni@example.com>", zl.Message)
			}

			b.Reset()
			l.level = tt.level - 1
			tt.logf(l, Log{Direction: DirServerToClient, Format: "test", Messages: nil})
			if b.String() != "" {
				t.Errorf("%s message was not expected to be logged", tt.name)
			}
		})
	}
}
