// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
)

// SMTPAuthType represents a string to any SMTP AUTH type
type SMTPAuthType string

// Supported SMTP AUTH types
const (
	// SMTPAuthAutoDiscover picks the strongest mechanism the server advertises, see
	// autoDiscoverOrder. XOAUTH2 is never discovered since it needs a token instead of a password.
	SMTPAuthAutoDiscover SMTPAuthType = "AUTODISCOVER"

	// SMTPAuthLogin is the "LOGIN" SASL authentication mechanism
	SMTPAuthLogin SMTPAuthType = "LOGIN"

	// SMTPAuthNoAuth is equivalent to performing no authentication at all
	SMTPAuthNoAuth SMTPAuthType = ""

	// SMTPAuthNTLM is the Microsoft "NTLM" (NTLMv2) SASL authentication mechanism
	SMTPAuthNTLM SMTPAuthType = "NTLM"

	// SMTPAuthPlain is the "PLAIN" authentication mechanism as described in RFC 4616
	SMTPAuthPlain SMTPAuthType = "PLAIN"

	// SMTPAuthSCRAMSHA1 is the "SCRAM-SHA-1" SASL authentication mechanism as described in RFC 5802
	SMTPAuthSCRAMSHA1 SMTPAuthType = "SCRAM-SHA-1"

	// SMTPAuthSCRAMSHA1PLUS is "SCRAM-SHA-1-PLUS", SCRAM-SHA-1 with TLS channel binding
	SMTPAuthSCRAMSHA1PLUS SMTPAuthType = "SCRAM-SHA-1-PLUS"

	// SMTPAuthSCRAMSHA256 is the "SCRAM-SHA-256" SASL authentication mechanism as described in RFC 7677
	SMTPAuthSCRAMSHA256 SMTPAuthType = "SCRAM-SHA-256"

	// SMTPAuthSCRAMSHA256PLUS is "SCRAM-SHA-256-PLUS", SCRAM-SHA-256 with TLS channel binding
	SMTPAuthSCRAMSHA256PLUS SMTPAuthType = "SCRAM-SHA-256-PLUS"

	// SMTPAuthXOAUTH2 is the "XOAUTH2" SASL authentication mechanism.
	// https://developers.google.com/gmail/imap/xoauth2-protocol
	SMTPAuthXOAUTH2 SMTPAuthType = "XOAUTH2"
)

// SMTP Auth related static errors
var (
	// ErrNoAuthSupport is returned if SMTP AUTH is requested but the server does not offer AUTH
	ErrNoAuthSupport = errors.New("server does not support SMTP AUTH")

	// ErrAuthNotSupported is returned if the server does not offer the requested mechanism
	ErrAuthNotSupported = errors.New("server does not support SMTP AUTH type")

	// ErrNoSuitableAuth is returned if auto discovery finds no supported mechanism
	ErrNoSuitableAuth = errors.New("no suitable SMTP AUTH mechanism offered by server")
)

// autoDiscoverOrder is the preference order of SMTPAuthAutoDiscover. The PLUS mechanisms are only
// candidates on a TLS connection.
var autoDiscoverOrder = []SMTPAuthType{
	SMTPAuthSCRAMSHA256PLUS, SMTPAuthSCRAMSHA256, SMTPAuthSCRAMSHA1PLUS, SMTPAuthSCRAMSHA1,
	SMTPAuthNTLM, SMTPAuthLogin, SMTPAuthPlain,
}

// ParseSMTPAuthType returns the SMTPAuthType for a mechanism name, ignoring case. An empty name
// means SMTPAuthNoAuth.
func ParseSMTPAuthType(name string) (SMTPAuthType, error) {
	authType := SMTPAuthType(strings.ToUpper(strings.TrimSpace(name)))
	switch authType {
	case SMTPAuthNoAuth, SMTPAuthAutoDiscover, SMTPAuthLogin, SMTPAuthNTLM, SMTPAuthPlain, SMTPAuthXOAUTH2,
		SMTPAuthSCRAMSHA1, SMTPAuthSCRAMSHA1PLUS, SMTPAuthSCRAMSHA256, SMTPAuthSCRAMSHA256PLUS:
		return authType, nil
	}
	return SMTPAuthNoAuth, fmt.Errorf("unsupported SMTP AUTH type %q", name)
}

// String satisfies the fmt.Stringer interface for the SMTPAuthType type
func (a SMTPAuthType) String() string {
	if a == SMTPAuthNoAuth {
		return "NOAUTH"
	}
	return string(a)
}

func (a SMTPAuthType) isPlus() bool {
	return a == SMTPAuthSCRAMSHA1PLUS || a == SMTPAuthSCRAMSHA256PLUS
}

// saslClient returns the sasl.Client for the given SMTPAuthType, if the server advertised it in
// its AUTH extension parameters. tlsState is the state of the TLS connection, nil without TLS.
func saslClient(authType SMTPAuthType, mechs, username, password, helo string,
	tlsState *tls.ConnectionState,
) (sasl.Client, error) {
	advertised := make(map[SMTPAuthType]bool)
	for _, mech := range strings.Fields(mechs) {
		advertised[SMTPAuthType(strings.ToUpper(mech))] = true
	}

	if authType == SMTPAuthAutoDiscover {
		for _, candidate := range autoDiscoverOrder {
			if candidate.isPlus() && tlsState == nil {
				continue
			}
			if advertised[candidate] {
				return saslClient(candidate, mechs, username, password, helo, tlsState)
			}
		}
		return nil, ErrNoSuitableAuth
	}
	if !advertised[authType] {
		return nil, fmt.Errorf("%w: %s", ErrAuthNotSupported, authType)
	}

	switch authType {
	case SMTPAuthPlain:
		return sasl.NewPlainClient("", username, password), nil
	case SMTPAuthLogin:
		return sasl.NewLoginClient(username, password), nil
	case SMTPAuthNTLM:
		return NewNTLMClient(username, password, helo), nil
	case SMTPAuthXOAUTH2:
		return NewXOAuth2Client(username, password), nil
	case SMTPAuthSCRAMSHA1:
		return NewSCRAMSHA1Client(username, password), nil
	case SMTPAuthSCRAMSHA256:
		return NewSCRAMSHA256Client(username, password), nil
	case SMTPAuthSCRAMSHA1PLUS:
		if tlsState == nil {
			return nil, ErrNoTLSConnState
		}
		return NewSCRAMSHA1PlusClient(username, password, tlsState), nil
	case SMTPAuthSCRAMSHA256PLUS:
		if tlsState == nil {
			return nil, ErrNoTLSConnState
		}
		return NewSCRAMSHA256PlusClient(username, password, tlsState), nil
	default:
		return nil, fmt.Errorf("unsupported SMTP AUTH type %q", authType)
	}
}
