// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/wneessen/go-mailcompose/smtp"
)

// AuthData holds the SMTP AUTH credentials for QuickSend
type AuthData struct {
	Auth     bool
	Username string
	Password string
}

// QuickSend is an all-in-one method for quickly sending simple text mails.
//
// It creates a smtp.Client for the server at addr that switches to TLS if possible,
// authenticates with the optional AuthData provided in auth and sends a new plain text Msg with
// the provided subject and body. If auth is not nil and AuthData.Auth is set to true, the best
// SMTP authentication mechanism supported by the server is picked automatically.
//
// Parameters:
//   - ctx: The context.Context that bounds the delivery.
//   - addr: The hostname and port of the mail server, it must include a port, as in "mail.example.com:587".
//   - auth: A AuthData pointer. If nil or if AuthData.Auth is set to false, no SMTP authentication will be performed.
//   - from: The from address of the sender as string.
//   - rcpts: A slice of strings of recipient addresses.
//   - subject: The subject line as string.
//   - body: The plain text body.
//
// Returns:
//   - A pointer to the generated Msg.
//   - An error if any step in the process of mail generation or delivery failed.
func QuickSend(ctx context.Context, addr string, auth *AuthData, from string, rcpts []string, subject,
	body string,
) (*Msg, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to split host and port from address: %w", err)
	}
	portnum, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("failed to convert port to int: %w", err)
	}

	opts := []smtp.Option{smtp.WithPort(portnum), smtp.WithTLSPolicy(smtp.TLSOpportunistic)}
	if auth != nil && auth.Auth {
		opts = append(opts, smtp.WithSMTPAuth(smtp.SMTPAuthAutoDiscover), smtp.WithUsername(auth.Username),
			smtp.WithPassword(auth.Password))
	}
	client, err := smtp.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	message := NewMsg(client)
	message.SetFrom(from)
	for _, rcpt := range rcpts {
		message.AddTo(rcpt)
	}
	message.SetSubject(subject)
	message.SetPlainMessage(body)
	message.SetDate()
	message.SetMessageID()

	if err = message.Send(ctx); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return message, nil
}

// NewAuthData creates a new AuthData instance with the provided username and password.
//
// Parameters:
//   - user: The username for authentication.
//   - pass: The password for authentication.
//
// Returns:
//   - A pointer to the initialized AuthData instance.
func NewAuthData(user, pass string) *AuthData {
	return &AuthData{
		Auth:     true,
		Username: user,
		Password: pass,
	}
}
