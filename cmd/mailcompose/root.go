// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wneessen/go-mailcompose"
	"github.com/wneessen/go-mailcompose/internal/config"
	"github.com/wneessen/go-mailcompose/log"
)

// options are the flags shared by all subcommands
type options struct {
	configPath        string
	envPath           string
	logLevel          string
	maxAttachmentSize string
}

func newRootCmd(logger zerolog.Logger) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "mailcompose",
		Short:         "mailcompose renders and sends MIME mail messages described in YAML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "mailcompose.yaml", "path to the YAML message configuration")
	flags.StringVarP(&opts.envPath, "env", "e", ".env", "optional dotenv file loaded before the configuration")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "", "log level: error, warn, info or debug")
	flags.StringVar(&opts.maxAttachmentSize, "max-attachment-size", "",
		"maximum size of a single attachment, e.g. 10MB (overrides the configuration)")

	rootCmd.AddCommand(newRenderCmd(opts, logger), newSendCmd(opts, logger))
	return rootCmd
}

// load reads the configuration and returns it together with the log.Logger for the library
// packages and the MsgOptions derived from the flags
func (o *options) load(logger zerolog.Logger) (config.Config, log.Logger, []mail.MsgOption, error) {
	cfg, err := config.Load(o.configPath, o.envPath)
	if err != nil {
		return cfg, nil, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return cfg, nil, nil, err
	}

	var msgOpts []mail.MsgOption
	if o.maxAttachmentSize != "" {
		size, err := units.RAMInBytes(o.maxAttachmentSize)
		if err != nil {
			return cfg, nil, nil, fmt.Errorf("invalid --max-attachment-size: %w", err)
		}
		msgOpts = append(msgOpts, mail.WithMaxAttachmentSize(size))
	}
	return cfg, log.NewZerolog(logger.Level(zerologLevel(level)), level), msgOpts, nil
}

func zerologLevel(level log.Level) zerolog.Level {
	switch level {
	case log.LevelError:
		return zerolog.ErrorLevel
	case log.LevelWarn:
		return zerolog.WarnLevel
	case log.LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
