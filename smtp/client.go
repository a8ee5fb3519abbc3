// SPDX-FileCopyrightText: 2022-2023 The go-mail Authors
//
// SPDX-License-Identifier: MIT

// Package smtp implements an SMTP transport for rendered mail messages on top of
// github.com/emersion/go-smtp.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/wneessen/go-mailcompose/log"
)

// Defaults
const (
	// DefaultPort is the default connection port to the SMTP server
	DefaultPort = 25

	// DefaultPortSSL is the default connection port for SSL/TLS to the SMTP server
	DefaultPortSSL = 465

	// DefaultPortTLS is the default connection port for STARTTLS to the SMTP server
	DefaultPortTLS = 587

	// DefaultTimeout is the default timeout of a single Send
	DefaultTimeout = time.Second * 15

	// DefaultTLSPolicy is the default STARTTLS policy
	DefaultTLSPolicy = TLSMandatory

	// DefaultTLSMinVersion is the minimum TLS version required for the connection
	DefaultTLSMinVersion = tls.VersionTLS12
)

// DialContextFunc is a type to define custom DialContext function.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client is the SMTP transport. Every Send opens its own connection, so a Client can be
// shared by multiple goroutines once it is configured.
type Client struct {
	// dialContextFunc is a custom DialContext function to dial target SMTP server
	dialContextFunc DialContextFunc

	// dl enables the debug logging of the SMTP conversation
	dl bool

	// helo is the HELO/EHLO name used for the greeting
	helo string

	// host is the hostname of the target SMTP server
	host string

	// l is a logger that implements the log.Logger interface
	l log.Logger

	// pass is the SMTP AUTH password or XOAUTH2 token
	pass string

	// port of the SMTP server to connect to
	port int

	// sa is a custom sasl.Client that takes precedence over satype
	sa sasl.Client

	// satype represents the authentication type for SMTP AUTH
	satype SMTPAuthType

	// ssl enables implicit TLS
	ssl bool

	// timeout limits the duration of a single Send
	timeout time.Duration

	// tlsconfig represents the tls.Config for STARTTLS and implicit TLS
	tlsconfig *tls.Config

	// tlspolicy sets the client to use the provided TLSPolicy for the STARTTLS protocol
	tlspolicy TLSPolicy

	// user is the SMTP AUTH username
	user string
}

// Option returns a function that can be used for grouping Client options
type Option func(*Client) error

var (
	// ErrInvalidPort should be used if a port is specified that is not valid
	ErrInvalidPort = errors.New("invalid port number")

	// ErrInvalidTimeout should be used if a timeout is set that is zero or negative
	ErrInvalidTimeout = errors.New("timeout cannot be zero or negative")

	// ErrInvalidHELO should be used if an empty HELO sting is provided
	ErrInvalidHELO = errors.New("invalid HELO/EHLO value - must not be empty")

	// ErrInvalidTLSConfig should be used if an empty tls.Config is provided
	ErrInvalidTLSConfig = errors.New("invalid TLS config")

	// ErrNoHostname should be used if a Client has no hostname set
	ErrNoHostname = errors.New("hostname for client cannot be empty")

	// ErrNoRcpts is returned by Send if the list of recipients is empty
	ErrNoRcpts = errors.New("no recipients given")

	// ErrNoSTARTTLS is returned if TLSMandatory is set but the server does not offer STARTTLS
	ErrNoSTARTTLS = errors.New("STARTTLS is mandatory, but target host does not support STARTTLS")
)

// NewClient returns a new SMTP Client for the given host.
//
// Parameters:
//   - host: The hostname of the SMTP server.
//   - opts: Optional Option functions to override the defaults.
//
// Returns:
//   - A pointer to the Client.
//   - An error if an Option failed or no hostname was given.
func NewClient(host string, opts ...Option) (*Client, error) {
	c := &Client{
		host:      host,
		port:      DefaultPort,
		timeout:   DefaultTimeout,
		tlsconfig: &tls.Config{ServerName: host, MinVersion: DefaultTLSMinVersion},
		tlspolicy: DefaultTLSPolicy,
	}

	// Set default HELO/EHLO hostname
	if err := c.setDefaultHelo(); err != nil {
		return c, err
	}

	// Override defaults with optionally provided Option functions
	for _, option := range opts {
		if option == nil {
			continue
		}
		if err := option(c); err != nil {
			return c, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// Some settings in a Client cannot be empty/unset
	if c.host == "" {
		return c, ErrNoHostname
	}
	if c.dl && c.l == nil {
		c.l = log.New(os.Stderr, log.LevelDebug)
	}

	return c, nil
}

// WithPort overrides the default connection port
func WithPort(port int) Option {
	return func(c *Client) error {
		if port < 1 || port > 65535 {
			return ErrInvalidPort
		}
		c.port = port
		return nil
	}
}

// WithTimeout overrides the default timeout of a Send
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		c.timeout = timeout
		return nil
	}
}

// WithSSL tells the client to use implicit TLS, usually on DefaultPortSSL
func WithSSL() Option {
	return func(c *Client) error {
		c.ssl = true
		return nil
	}
}

// WithDebugLog tells the client to log the SMTP conversation
func WithDebugLog() Option {
	return func(c *Client) error {
		c.dl = true
		return nil
	}
}

// WithLogger overrides the default log.Logger that is used for debug logging
func WithLogger(logger log.Logger) Option {
	return func(c *Client) error {
		c.l = logger
		return nil
	}
}

// WithHELO overrides the default HELO/EHLO name, which is the local hostname
func WithHELO(helo string) Option {
	return func(c *Client) error {
		if helo == "" {
			return ErrInvalidHELO
		}
		c.helo = helo
		return nil
	}
}

// WithTLSPolicy overrides the default STARTTLS policy
func WithTLSPolicy(policy TLSPolicy) Option {
	return func(c *Client) error {
		c.tlspolicy = policy
		return nil
	}
}

// WithTLSConfig overrides the default tls.Config
func WithTLSConfig(config *tls.Config) Option {
	return func(c *Client) error {
		if config == nil {
			return ErrInvalidTLSConfig
		}
		c.tlsconfig = config
		return nil
	}
}

// WithSMTPAuth tells the client to authenticate with the given SMTPAuthType
func WithSMTPAuth(authType SMTPAuthType) Option {
	return func(c *Client) error {
		c.satype = authType
		return nil
	}
}

// WithSMTPAuthCustom tells the client to authenticate with a custom sasl.Client
func WithSMTPAuthCustom(client sasl.Client) Option {
	return func(c *Client) error {
		c.sa = client
		return nil
	}
}

// WithUsername sets the SMTP AUTH username
func WithUsername(username string) Option {
	return func(c *Client) error {
		c.user = username
		return nil
	}
}

// WithPassword sets the SMTP AUTH password. For XOAUTH2 this is the access token.
func WithPassword(password string) Option {
	return func(c *Client) error {
		c.pass = password
		return nil
	}
}

// WithDialContextFunc overrides the net.Dialer used to connect to the server
func WithDialContextFunc(dialFunc DialContextFunc) Option {
	return func(c *Client) error {
		c.dialContextFunc = dialFunc
		return nil
	}
}

// TLSPolicy returns the currently set TLSPolicy as string
func (c *Client) TLSPolicy() string {
	return c.tlspolicy.String()
}

// ServerAddr returns the currently set combination of hostname and port
func (c *Client) ServerAddr() string {
	return net.JoinHostPort(c.host, fmt.Sprintf("%d", c.port))
}

// Send delivers the message read from data to rcpts on behalf of from.
//
// Every call dials a new connection, greets the server, negotiates STARTTLS according to the
// TLSPolicy, authenticates if configured and runs the MAIL FROM, RCPT TO and DATA commands. The
// whole exchange is bounded by the Client timeout and ctx.
//
// Parameters:
//   - ctx: The context.Context that bounds the delivery.
//   - from: The envelope sender.
//   - rcpts: The envelope recipients, including blind copies.
//   - data: The rendered message.
//
// Returns:
//   - ErrNoRcpts if rcpts is empty, otherwise nil or a *SendError.
func (c *Client) Send(ctx context.Context, from string, rcpts []string, data io.Reader) error {
	if len(rcpts) == 0 {
		return ErrNoRcpts
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sc, err := c.dial(ctx)
	if err != nil {
		return newSendError(ErrConnect, err)
	}
	defer func() { _ = sc.Close() }()

	c.debugf(log.DirClientToServer, "MAIL FROM:<%s>", from)
	if err = sc.Mail(from, nil); err != nil {
		return newSendError(ErrSMTPMailFrom, err)
	}

	var failed []string
	var rcptErrs []error
	for _, rcpt := range rcpts {
		c.debugf(log.DirClientToServer, "RCPT TO:<%s>", rcpt)
		if err = sc.Rcpt(rcpt); err != nil {
			c.debugf(log.DirServerToClient, "%s", err)
			failed = append(failed, rcpt)
			rcptErrs = append(rcptErrs, err)
		}
	}
	if len(failed) > 0 {
		_ = sc.Reset()
		sendErr := newSendError(ErrSMTPRcptTo, rcptErrs[0], failed...)
		sendErr.errlist = rcptErrs
		return sendErr
	}

	c.debugf(log.DirClientToServer, "DATA")
	writer, err := sc.Data()
	if err != nil {
		return newSendError(ErrSMTPData, err)
	}
	if _, err = io.Copy(writer, data); err != nil {
		_ = writer.Close()
		return newSendError(ErrWriteContent, err)
	}
	if err = writer.Close(); err != nil {
		return newSendError(ErrSMTPDataClose, err, rcpts...)
	}

	c.debugf(log.DirClientToServer, "QUIT")
	if err = sc.Quit(); err != nil {
		c.warnf("failed to close SMTP session after delivery: %s", err)
	}
	return nil
}

// dial connects to the server and runs the greeting, STARTTLS and AUTH
func (c *Client) dial(ctx context.Context) (*smtp.Client, error) {
	dialFunc := c.dialContextFunc
	if dialFunc == nil {
		netDialer := &net.Dialer{}
		dialFunc = netDialer.DialContext
		if c.ssl {
			tlsDialer := &tls.Dialer{NetDialer: netDialer, Config: c.tlsconfig}
			dialFunc = tlsDialer.DialContext
		}
	}

	c.debugf(log.DirClientToServer, "connecting to %s", c.ServerAddr())
	conn, err := dialFunc(ctx, "tcp", c.ServerAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err = conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set connection deadline: %w", err)
		}
	}
	// a cancelled context unblocks pending reads and writes
	_ = context.AfterFunc(ctx, func() { _ = conn.Close() })

	sc, err := smtp.NewClient(conn, c.host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	c.debugf(log.DirClientToServer, "EHLO %s", c.helo)
	if err = sc.Hello(c.helo); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("failed to send HELO/EHLO: %w", err)
	}
	if err = c.tls(sc); err != nil {
		_ = sc.Close()
		return nil, err
	}
	if err = c.auth(sc); err != nil {
		_ = sc.Close()
		return nil, err
	}
	return sc, nil
}

// setDefaultHelo retrieves the current hostname and sets it as HELO/EHLO hostname
func (c *Client) setDefaultHelo() error {
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to read local hostname: %w", err)
	}
	c.helo = hostname
	return nil
}

// tls tries to make sure that the STARTTLS requirements are satisfied
func (c *Client) tls(sc *smtp.Client) error {
	if c.ssl || c.tlspolicy == NoTLS {
		return nil
	}
	supported, _ := sc.Extension("STARTTLS")
	if !supported {
		if c.tlspolicy == TLSMandatory {
			return ErrNoSTARTTLS
		}
		c.warnf("STARTTLS not supported by %s, continuing unencrypted", c.host)
		return nil
	}
	c.debugf(log.DirClientToServer, "STARTTLS")
	if err := sc.StartTLS(c.tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	return nil
}

// auth will try to perform SMTP AUTH if requested
func (c *Client) auth(sc *smtp.Client) error {
	client := c.sa
	if client == nil && c.satype != SMTPAuthNoAuth {
		supported, mechs := sc.Extension("AUTH")
		if !supported {
			return ErrNoAuthSupport
		}
		var tlsState *tls.ConnectionState
		if state, ok := sc.TLSConnectionState(); ok {
			tlsState = &state
		}
		var err error
		if client, err = saslClient(c.satype, mechs, c.user, c.pass, c.helo, tlsState); err != nil {
			return err
		}
	}
	if client == nil {
		return nil
	}
	c.debugf(log.DirClientToServer, "AUTH")
	if err := sc.Auth(client); err != nil {
		return fmt.Errorf("SMTP AUTH failed: %w", err)
	}
	return nil
}

func (c *Client) debugf(dir log.Direction, format string, messages ...interface{}) {
	if !c.dl || c.l == nil {
		return
	}
	c.l.Debugf(log.Log{Direction: dir, Format: format, Messages: messages})
}

func (c *Client) warnf(format string, messages ...interface{}) {
	if c.l == nil {
		return
	}
	c.l.Warnf(log.Log{Direction: log.DirLocal, Format: format, Messages: messages})
}
