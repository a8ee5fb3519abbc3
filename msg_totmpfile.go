// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"fmt"
	"os"
)

// WriteToTempFile creates a temporary file and writes the Msg content to this file.
//
// This method generates a temporary file with a ".eml" extension, writes the rendered Msg to it,
// and returns the filename of the created temporary file.
//
// Returns:
//   - A string representing the filename of the temporary file.
//   - An error if the Msg could not be rendered or the file could not be written.
func (m *Msg) WriteToTempFile() (string, error) {
	f, err := os.CreateTemp("", "mailcompose_*.eml")
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	if err = m.WriteToFile(f.Name()); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
