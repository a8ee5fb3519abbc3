// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"context"
	"io"
)

// Transport delivers a rendered message. The smtp.Client and the ses.Transport satisfy it.
//
// rcpts are the envelope recipients including all blind copies. data is the complete message as
// returned by Msg.RenderData.
type Transport interface {
	Send(ctx context.Context, from string, rcpts []string, data io.Reader) error
}
