// SPDX-FileCopyrightText: Copyright (c) 2024 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"errors"
	"fmt"

	"github.com/Azure/go-ntlmssp"
	"github.com/emersion/go-sasl"
)

// ErrNTLMChallengeEmpty is returned when the NTLMv2 ChallengeMessage received from the server is empty.
var ErrNTLMChallengeEmpty = errors.New("NTLMv2 ChallengeMessage is empty")

// ntlmClient is a NTLMv2 client and satisfies the sasl.Client interface.
type ntlmClient struct {
	domain, password, username, workstation string
	domainNeeded                            bool
}

// NewNTLMClient returns a sasl.Client for the NTLMv2 mechanism. A username in "DOMAIN\user" or
// "user@domain" form sets the domain accordingly.
func NewNTLMClient(username, password, workstation string) sasl.Client {
	user, domain, domainNeeded := ntlmssp.GetDomain(username)
	return &ntlmClient{
		domain:       domain,
		password:     password,
		username:     user,
		workstation:  workstation,
		domainNeeded: domainNeeded,
	}
}

// Start sends the NTLM negotiate message as initial response
func (a *ntlmClient) Start() (string, []byte, error) {
	negotiateMessage, err := ntlmssp.NewNegotiateMessage(a.domain, a.workstation)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create NTLM negotiate message: %w", err)
	}
	return string(SMTPAuthNTLM), negotiateMessage, nil
}

// Next answers the server challenge with the NTLM authenticate message
func (a *ntlmClient) Next(challenge []byte) ([]byte, error) {
	if len(challenge) == 0 {
		return nil, ErrNTLMChallengeEmpty
	}
	return ntlmssp.ProcessChallenge(challenge, a.username, a.password, a.domainNeeded)
}
