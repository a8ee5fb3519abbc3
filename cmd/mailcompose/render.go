// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRenderCmd(opts *options, logger zerolog.Logger) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render the message and print it or write it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, msgOpts, err := opts.load(logger)
			if err != nil {
				return err
			}
			msg, err := cfg.Message.Build(nil, msgOpts...)
			if err != nil {
				return err
			}
			if output != "" {
				if err = msg.WriteToFile(output); err != nil {
					return err
				}
				logger.Info().Str("file", output).Msg("message written")
				return nil
			}
			_, err = msg.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the message to this file instead of stdout")
	return cmd
}
