// SPDX-FileCopyrightText: 2022 Winni Neessen <winni@neessen.dev>
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"fmt"
	"strings"
)

// TLSPolicy type describes a int alias for the different TLS policies we allow
type TLSPolicy int

const (
	// TLSMandatory requires that the connection to the server is
	// encrypting using STARTTLS. If the server does not support STARTTLS
	// the connection will be terminated with an error
	TLSMandatory TLSPolicy = iota

	// TLSOpportunistic tries to establish an encrypted connection via the
	// STARTTLS protocol. If the server does not support this, it will fall
	// back to non-encrypted plaintext transmission
	TLSOpportunistic

	// NoTLS forces the transaction to be not encrypted
	NoTLS
)

// ParseTLSPolicy returns the TLSPolicy for its name ("mandatory", "opportunistic" or "notls"),
// ignoring case
func ParseTLSPolicy(name string) (TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mandatory", "tlsmandatory":
		return TLSMandatory, nil
	case "opportunistic", "tlsopportunistic":
		return TLSOpportunistic, nil
	case "none", "notls":
		return NoTLS, nil
	}
	return TLSMandatory, fmt.Errorf("unknown TLS policy: %q", name)
}

// String is a standard method to convert a TLSPolicy into a printable format
func (p TLSPolicy) String() string {
	switch p {
	case TLSMandatory:
		return "TLSMandatory"
	case TLSOpportunistic:
		return "TLSOpportunistic"
	case NoTLS:
		return "NoTLS"
	default:
		return "UnknownPolicy"
	}
}
