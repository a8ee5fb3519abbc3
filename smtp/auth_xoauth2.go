// SPDX-FileCopyrightText: Copyright (c) The go-mail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import "github.com/emersion/go-sasl"

type xoauth2Client struct {
	username, token string
}

// NewXOAuth2Client returns a sasl.Client that implements the XOAuth2 authentication
// mechanism as defined in the following specs:
//
// https://developers.google.com/gmail/imap/xoauth2-protocol
// https://learn.microsoft.com/en-us/exchange/client-developer/legacy-protocols/how-to-authenticate-an-imap-pop-smtp-application-by-using-oauth
func NewXOAuth2Client(username, token string) sasl.Client {
	return &xoauth2Client{username, token}
}

func (a *xoauth2Client) Start() (string, []byte, error) {
	return string(SMTPAuthXOAUTH2), []byte("user=" + a.username + "\x01" + "auth=Bearer " + a.token + "\x01\x01"), nil
}

// Next acknowledges the error challenge the server sends on failure, so it can reply with its
// final status code.
func (a *xoauth2Client) Next(_ []byte) ([]byte, error) {
	return []byte{}, nil
}
