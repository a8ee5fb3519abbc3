// SPDX-FileCopyrightText: Copyright (c) The go-mail Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"hash"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/docker/go-units"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"golang.org/x/crypto/pbkdf2"
)

const (
	testUser = "toni@example.com"
	testPass = "V3ryS3cr3t+"

	testSCRAMSalt       = "c2FsdHlTYWx0VmFsdWU="
	testSCRAMIterations = 4096
)

// testMessage is a message as received by the testBackend
type testMessage struct {
	from  string
	rcpts []string
	data  string
}

// testBackend implements smtp.Backend and stores all received messages in memory
type testBackend struct {
	mu          sync.Mutex
	messages    []testMessage
	requireAuth bool
	rcptErrors  map[string]error
}

// testSession implements smtp.Session
type testSession struct {
	backend *testBackend
	msg     testMessage
}

func (b *testBackend) Login(_ *smtp.ConnectionState, username, password string) (smtp.Session, error) {
	if username != testUser || password != testPass {
		return nil, errors.New("invalid credentials")
	}
	return &testSession{backend: b}, nil
}

func (b *testBackend) AnonymousLogin(_ *smtp.ConnectionState) (smtp.Session, error) {
	if b.requireAuth {
		return nil, smtp.ErrAuthRequired
	}
	return &testSession{backend: b}, nil
}

func (b *testBackend) received() []testMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	messages := make([]testMessage, len(b.messages))
	copy(messages, b.messages)
	return messages
}

func (s *testSession) Reset() {
	s.msg = testMessage{}
}

func (s *testSession) Logout() error { return nil }

func (s *testSession) Mail(from string, _ smtp.MailOptions) error {
	s.msg.from = from
	return nil
}

func (s *testSession) Rcpt(to string) error {
	if err, ok := s.backend.rcptErrors[to]; ok {
		return err
	}
	s.msg.rcpts = append(s.msg.rcpts, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	buf, err := io.ReadAll(io.LimitReader(r, 10*units.MiB))
	if err != nil {
		return err
	}
	s.msg.data = string(buf)
	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, s.msg)
	s.backend.mu.Unlock()
	return nil
}

// startTestServer runs an in-process SMTP server without TLS on a random local port and returns
// its port
func startTestServer(t *testing.T, backend *testBackend) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen on local port: %s", err)
	}
	server := smtp.NewServer(backend)
	server.Domain = "localhost"
	server.AllowInsecureAuth = true
	server.MaxMessageBytes = 10 * units.MiB
	server.EnableAuth(string(SMTPAuthSCRAMSHA1), func(conn *smtp.Conn) sasl.Server {
		return &testSCRAMServer{backend: backend, conn: conn, h: sha1.New}
	})
	server.EnableAuth(string(SMTPAuthSCRAMSHA256), func(conn *smtp.Conn) sasl.Server {
		return &testSCRAMServer{backend: backend, conn: conn, h: sha256.New}
	})
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(func() { _ = server.Close() })
	return listener.Addr().(*net.TCPAddr).Port
}

// testSCRAMServer is the server side of the SCRAM exchange for testUser and testPass. It verifies
// the client proof and sends the server signature.
type testSCRAMServer struct {
	backend *testBackend
	conn    *smtp.Conn
	h       func() hash.Hash

	step                                int
	clientFirstBare, serverFirst, nonce string
}

func (s *testSCRAMServer) Next(response []byte) ([]byte, bool, error) {
	switch s.step {
	case 0:
		msg := string(response)
		if !strings.HasPrefix(msg, "n,,") {
			return nil, false, errors.New("unsupported GS2 header")
		}
		s.clientFirstBare = strings.TrimPrefix(msg, "n,,")
		fields := strings.Split(s.clientFirstBare, ",")
		if len(fields) != 2 || !strings.HasPrefix(fields[1], "r=") {
			return nil, false, errors.New("malformed client-first message")
		}
		if fields[0] != "n="+testUser {
			return nil, false, errors.New("invalid credentials")
		}
		s.nonce = fields[1][2:] + "c2VydmVyTm9uY2U"
		s.serverFirst = "r=" + s.nonce + ",s=" + testSCRAMSalt + ",i=" + strconv.Itoa(testSCRAMIterations)
		s.step++
		return []byte(s.serverFirst), false, nil
	case 1:
		msg := string(response)
		idx := strings.LastIndex(msg, ",p=")
		if idx < 0 {
			return nil, false, errors.New("missing client proof")
		}
		withoutProof := msg[:idx]
		if withoutProof != "c=biws,r="+s.nonce {
			return nil, false, errors.New("invalid channel binding or nonce")
		}
		proof, err := base64.StdEncoding.DecodeString(msg[idx+3:])
		if err != nil {
			return nil, false, err
		}
		salt, _ := base64.StdEncoding.DecodeString(testSCRAMSalt)
		saltedPwd := pbkdf2.Key([]byte(testPass), salt, testSCRAMIterations, s.h().Size(), s.h)
		authMessage := []byte(s.clientFirstBare + "," + s.serverFirst + "," + withoutProof)

		clientKey := scramHMAC(s.h, saltedPwd, []byte("Client Key"))
		storedKey := s.hash(clientKey)
		clientSignature := scramHMAC(s.h, storedKey, authMessage)
		if len(proof) != len(clientSignature) {
			return nil, false, errors.New("invalid credentials")
		}
		recoveredKey := make([]byte, len(proof))
		for i := range proof {
			recoveredKey[i] = proof[i] ^ clientSignature[i]
		}
		if !hmac.Equal(s.hash(recoveredKey), storedKey) {
			return nil, false, errors.New("invalid credentials")
		}

		serverKey := scramHMAC(s.h, saltedPwd, []byte("Server Key"))
		s.step++
		return []byte("v=" + base64.StdEncoding.EncodeToString(scramHMAC(s.h, serverKey, authMessage))), false, nil
	default:
		s.conn.SetSession(&testSession{backend: s.backend})
		return nil, true, nil
	}
}

func (s *testSCRAMServer) hash(data []byte) []byte {
	h := s.h()
	h.Write(data)
	return h.Sum(nil)
}
