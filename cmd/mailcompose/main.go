// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

// Command mailcompose renders or sends the message described by a YAML configuration file.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := newRootCmd(logger).ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("mailcompose failed")
		os.Exit(1)
	}
}
