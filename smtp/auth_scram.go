// SPDX-FileCopyrightText: Copyright (c) 2024 The go-mail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-sasl"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/secure/precis"
)

var (
	// ErrUnexpectedServerResponse is returned if the server sends a SCRAM message the client
	// does not expect at this stage of the exchange
	ErrUnexpectedServerResponse = errors.New("unexpected server response")

	// ErrInvalidServerSignature is returned if the server signature of the final SCRAM message
	// does not match the one computed by the client
	ErrInvalidServerSignature = errors.New("invalid server signature")

	// ErrNoTLSConnState is returned if a SCRAM-SHA-X-PLUS client has no TLS connection to bind to
	ErrNoTLSConnState = errors.New("tls connection state is required for SCRAM-SHA-X-PLUS")
)

// scramClient is a SCRAM (Salted Challenge Response Authentication Mechanism) client as described
// in RFC 5802 and RFC 7677 and satisfies the sasl.Client interface.
type scramClient struct {
	username, password string
	mechanism          SMTPAuthType
	h                  func() hash.Hash
	tlsConnState       *tls.ConnectionState

	firstBareMsg, nonce, saltedPwd, authMessage, bindData []byte
	iterations                                            int
}

// NewSCRAMSHA1Client returns a sasl.Client for the SCRAM-SHA-1 mechanism
func NewSCRAMSHA1Client(username, password string) sasl.Client {
	return &scramClient{username: username, password: password, mechanism: SMTPAuthSCRAMSHA1, h: sha1.New}
}

// NewSCRAMSHA256Client returns a sasl.Client for the SCRAM-SHA-256 mechanism
func NewSCRAMSHA256Client(username, password string) sasl.Client {
	return &scramClient{username: username, password: password, mechanism: SMTPAuthSCRAMSHA256, h: sha256.New}
}

// NewSCRAMSHA1PlusClient returns a sasl.Client for the SCRAM-SHA-1-PLUS mechanism, bound to the
// given TLS connection.
func NewSCRAMSHA1PlusClient(username, password string, tlsConnState *tls.ConnectionState) sasl.Client {
	return &scramClient{
		username: username, password: password, mechanism: SMTPAuthSCRAMSHA1PLUS, h: sha1.New,
		tlsConnState: tlsConnState,
	}
}

// NewSCRAMSHA256PlusClient returns a sasl.Client for the SCRAM-SHA-256-PLUS mechanism, bound to
// the given TLS connection.
func NewSCRAMSHA256PlusClient(username, password string, tlsConnState *tls.ConnectionState) sasl.Client {
	return &scramClient{
		username: username, password: password, mechanism: SMTPAuthSCRAMSHA256PLUS, h: sha256.New,
		tlsConnState: tlsConnState,
	}
}

// Start sends the client-first message as initial response
func (a *scramClient) Start() (string, []byte, error) {
	a.reset()
	ir, err := a.initialClientMessage()
	if err != nil {
		return "", nil, err
	}
	return string(a.mechanism), ir, nil
}

// Next answers the server-first message with the client proof and verifies the server signature
// of the server-final message.
func (a *scramClient) Next(fromServer []byte) ([]byte, error) {
	switch {
	case len(fromServer) == 0 && a.nonce == nil:
		return a.initialClientMessage()
	case bytes.HasPrefix(fromServer, []byte("r=")):
		resp, err := a.handleServerFirstResponse(fromServer)
		if err != nil {
			a.reset()
			return nil, err
		}
		return resp, nil
	case bytes.HasPrefix(fromServer, []byte("v=")):
		if err := a.handleServerValidationMessage(fromServer); err != nil {
			a.reset()
			return nil, err
		}
		return []byte{}, nil
	default:
		a.reset()
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedServerResponse, fromServer)
	}
}

func (a *scramClient) reset() {
	a.nonce = nil
	a.firstBareMsg = nil
	a.saltedPwd = nil
	a.authMessage = nil
	a.bindData = nil
	a.iterations = 0
}

// initialClientMessage generates the client-first message with a fresh nonce and, for the PLUS
// mechanisms, the channel binding header.
func (a *scramClient) initialClientMessage() ([]byte, error) {
	username, err := a.normalizeUsername()
	if err != nil {
		return nil, err
	}

	nonceBuffer := make([]byte, 24)
	if _, err = io.ReadFull(rand.Reader, nonceBuffer); err != nil {
		return nil, fmt.Errorf("unable to generate client secret: %w", err)
	}
	a.nonce = []byte(base64.StdEncoding.EncodeToString(nonceBuffer))
	a.firstBareMsg = []byte("n=" + username + ",r=" + string(a.nonce))

	gs2Header := "n,,"
	if a.mechanism.isPlus() {
		if a.tlsConnState == nil {
			return nil, ErrNoTLSConnState
		}
		bindType := "tls-unique"
		bindData := a.tlsConnState.TLSUnique

		// tls-unique is not defined for TLS 1.3 (RFC 9266)
		if bindData == nil || a.tlsConnState.Version >= tls.VersionTLS13 {
			bindType = "tls-exporter"
			bindData, err = a.tlsConnState.ExportKeyingMaterial("EXPORTER-Channel-Binding", []byte{}, 32)
			if err != nil {
				return nil, fmt.Errorf("unable to export keying material: %w", err)
			}
		}
		gs2Header = "p=" + bindType + ",,"
		a.bindData = []byte(base64.StdEncoding.EncodeToString(append([]byte(gs2Header), bindData...)))
	}
	return []byte(gs2Header + string(a.firstBareMsg)), nil
}

// handleServerFirstResponse parses nonce, salt and iteration count and returns the client-final
// message
func (a *scramClient) handleServerFirstResponse(fromServer []byte) ([]byte, error) {
	parts := bytes.Split(fromServer, []byte(","))
	if len(parts) < 3 {
		return nil, errors.New("not enough fields in the first server response")
	}
	if !bytes.HasPrefix(parts[1], []byte("s=")) {
		return nil, errors.New("second part of the server response does not start with s=")
	}
	if !bytes.HasPrefix(parts[2], []byte("i=")) {
		return nil, errors.New("third part of the server response does not start with i=")
	}

	combinedNonce := parts[0][2:]
	if len(a.nonce) == 0 || !bytes.HasPrefix(combinedNonce, a.nonce) {
		return nil, errors.New("server nonce does not start with our nonce")
	}
	a.nonce = combinedNonce

	salt, err := base64.StdEncoding.DecodeString(string(parts[1][2:]))
	if err != nil {
		return nil, fmt.Errorf("invalid encoded salt: %w", err)
	}
	a.iterations, err = strconv.Atoi(string(parts[2][2:]))
	if err != nil || a.iterations < 1 {
		return nil, fmt.Errorf("invalid iterations: %q", parts[2][2:])
	}

	password, err := normalizeSCRAMString(a.password)
	if err != nil {
		return nil, fmt.Errorf("unable to normalize password: %w", err)
	}
	a.saltedPwd = pbkdf2.Key([]byte(password), salt, a.iterations, a.h().Size(), a.h)

	// "biws" is the base64 encoded "n,," GS2 header
	msgWithoutProof := "c=biws,r=" + string(a.nonce)
	if a.mechanism.isPlus() {
		msgWithoutProof = "c=" + string(a.bindData) + ",r=" + string(a.nonce)
	}
	a.authMessage = []byte(string(a.firstBareMsg) + "," + string(fromServer) + "," + msgWithoutProof)

	return []byte(msgWithoutProof + ",p=" + a.clientProof()), nil
}

func (a *scramClient) handleServerValidationMessage(fromServer []byte) error {
	if a.saltedPwd == nil {
		return fmt.Errorf("%w: server-final message before server-first message", ErrUnexpectedServerResponse)
	}
	if !hmac.Equal(fromServer[2:], []byte(a.serverSignature())) {
		return ErrInvalidServerSignature
	}
	return nil
}

func (a *scramClient) clientProof() string {
	clientKey := scramHMAC(a.h, a.saltedPwd, []byte("Client Key"))
	storedKey := a.h()
	storedKey.Write(clientKey)
	clientSignature := scramHMAC(a.h, storedKey.Sum(nil), a.authMessage)
	proof := make([]byte, len(clientSignature))
	for i := range clientSignature {
		proof[i] = clientKey[i] ^ clientSignature[i]
	}
	return base64.StdEncoding.EncodeToString(proof)
}

func (a *scramClient) serverSignature() string {
	serverKey := scramHMAC(a.h, a.saltedPwd, []byte("Server Key"))
	return base64.StdEncoding.EncodeToString(scramHMAC(a.h, serverKey, a.authMessage))
}

// normalizeUsername escapes ',' and '=' (RFC 5802 section 5.1) and prepares the result with the
// OpaqueString profile of RFC 8265, which obsoletes SASLprep.
func (a *scramClient) normalizeUsername() (string, error) {
	username := strings.NewReplacer("=", "=3D", ",", "=2C").Replace(a.username)
	username, err := normalizeSCRAMString(username)
	if err != nil {
		return "", fmt.Errorf("unable to normalize username: %w", err)
	}
	return username, nil
}

func normalizeSCRAMString(s string) (string, error) {
	s, err := precis.OpaqueString.String(s)
	if err != nil {
		return "", fmt.Errorf("failed to normalize string: %w", err)
	}
	return s, nil
}

func scramHMAC(h func() hash.Hash, key, msg []byte) []byte {
	mac := hmac.New(h, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
