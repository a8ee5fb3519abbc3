// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newSendCmd(opts *options, logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "send the message through the configured transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cfg, libLogger, msgOpts, err := opts.load(logger)
			if err != nil {
				return err
			}
			transport, err := cfg.Transport.New(ctx, libLogger)
			if err != nil {
				return err
			}
			msg, err := cfg.Message.Build(transport, msgOpts...)
			if err != nil {
				return err
			}
			if err = msg.Send(ctx); err != nil {
				return err
			}
			logger.Info().
				Str("from", msg.GetFromAddress()).
				Strs("rcpts", msg.GetEnvelopeRecipients()).
				Str("message_id", msg.GetMessageID()).
				Msg("message sent")
			return nil
		},
	}
}
