// SPDX-FileCopyrightText: The go-mail Authors
//
// SPDX-License-Identifier: MIT

// Package config loads the YAML description of a message and its transport for the mailcompose
// command.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wneessen/go-mailcompose"
	"github.com/wneessen/go-mailcompose/log"
	"github.com/wneessen/go-mailcompose/ses"
	"github.com/wneessen/go-mailcompose/smtp"
)

const (
	// TransportSMTP selects the smtp.Client transport
	TransportSMTP = "smtp"

	// TransportSES selects the ses.Transport transport
	TransportSES = "ses"
)

var (
	// ErrUnknownTransport is returned for a transport type other than TransportSMTP or TransportSES
	ErrUnknownTransport = errors.New("unknown transport type")

	// ErrNoSMTPHost is returned if the smtp transport is selected without a host
	ErrNoSMTPHost = errors.New("smtp transport requires a host")
)

// Config is the root of the configuration file
type Config struct {
	LogLevel  string    `yaml:"log_level"` // Log level: error, warn, info or debug.
	Transport Transport `yaml:"transport"` // Transport that delivers the message.
	Message   Message   `yaml:"message"`   // Message to compose.
}

// Transport selects and configures the delivery of the message
type Transport struct {
	Type string `yaml:"type"` // smtp or ses, defaults to smtp.
	SMTP SMTP   `yaml:"smtp"`
	SES  SES    `yaml:"ses"`
}

// SMTP configures an smtp.Client
type SMTP struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	SSL       bool          `yaml:"ssl"`
	TLSPolicy string        `yaml:"tls_policy"` // mandatory, opportunistic or notls.
	Auth      string        `yaml:"auth"`       // PLAIN, LOGIN, NTLM, XOAUTH2, SCRAM-SHA-*(-PLUS) or AUTODISCOVER.
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	HELO      string        `yaml:"helo"`
	Timeout   time.Duration `yaml:"timeout"`
	Debug     bool          `yaml:"debug"`
}

// SES configures a ses.Transport
type SES struct {
	Region           string        `yaml:"region"`
	AccessKeyID      string        `yaml:"access_key_id"`
	SecretAccessKey  string        `yaml:"secret_access_key"`
	ConfigurationSet string        `yaml:"configuration_set"`
	MaxRetries       *int          `yaml:"max_retries"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
}

// Address is a mail address with an optional display name
type Address struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

// Header is a generic header field. Headers are a list so that their order is kept.
type Header struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Inline is an inline attachment referenced by its content ID
type Inline struct {
	Path      string `yaml:"path"`
	ContentID string `yaml:"content_id"`
}

// Message describes the mail.Msg to compose
type Message struct {
	Boundary          string    `yaml:"boundary"`
	Encoding          string    `yaml:"encoding"`            // quoted-printable, base64 or 8bit.
	MaxAttachmentSize string    `yaml:"max_attachment_size"` // Human readable size, e.g. "10MB".
	From              Address   `yaml:"from"`
	To                []Address `yaml:"to"`
	Cc                []Address `yaml:"cc"`
	Bcc               []Address `yaml:"bcc"`
	ReplyTo           []Address `yaml:"reply_to"`
	Subject           *string   `yaml:"subject"`
	Priority          int       `yaml:"priority"` // 1 (highest) to 5 (lowest), 0 leaves it unset.
	Headers           []Header  `yaml:"headers"`
	UserAgent         string    `yaml:"user_agent"`
	Date              bool      `yaml:"date"`
	MessageID         bool      `yaml:"message_id"`
	Plain             string    `yaml:"plain"`
	HTML              string    `yaml:"html"`
	PlainFromHTML     bool      `yaml:"plain_from_html"`
	Attachments       []string  `yaml:"attachments"`
	Inline            []Inline  `yaml:"inline"`
}

// Load reads the configuration file at cfgPath. If the file at envPath exists, it is loaded into
// the environment first, so that ${VAR} references in the configuration file can use it.
func Load(cfgPath, envPath string) (Config, error) {
	var cfg Config

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err = godotenv.Load(envPath); err != nil {
				return cfg, fmt.Errorf("unable to load environment variables from file: %w", err)
			}
		}
	}

	fileBytes, err := os.ReadFile(cfgPath)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("configuration file %q doesn't exist: %w", cfgPath, err)
		case errors.Is(err, os.ErrPermission):
			return cfg, fmt.Errorf("permission denied for accessing configuration file: %w", err)
		default:
			return cfg, fmt.Errorf("unexpected error during reading configuration file: %w", err)
		}
	}
	return Parse(fileBytes)
}

// Parse expands environment variables in data and unmarshals the result
func Parse(data []byte) (Config, error) {
	var cfg Config
	envExpanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(envExpanded), &cfg); err != nil {
		return cfg, fmt.Errorf("unable to unmarshal configuration file: %w", err)
	}
	return cfg, nil
}

// Level returns the configured log.Level, log.LevelInfo if none is set
func (c Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.LevelInfo, nil
	}
	return log.ParseLevel(c.LogLevel)
}

// MaxAttachmentSizeBytes returns the configured maximum attachment size in bytes, 0 if unlimited
func (m Message) MaxAttachmentSizeBytes() (int64, error) {
	if m.MaxAttachmentSize == "" {
		return 0, nil
	}
	size, err := units.RAMInBytes(m.MaxAttachmentSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max attachment size: %w", err)
	}
	return size, nil
}

// Build composes a mail.Msg bound to the given Transport.
//
// The Msg is only composed, attachment files are not accessed until it is rendered.
func (m Message) Build(transport mail.Transport, opts ...mail.MsgOption) (*mail.Msg, error) {
	var msgOpts []mail.MsgOption
	if m.Boundary != "" {
		msgOpts = append(msgOpts, mail.WithBoundary(m.Boundary))
	}
	if m.Encoding != "" {
		encoding, err := parseEncoding(m.Encoding)
		if err != nil {
			return nil, err
		}
		msgOpts = append(msgOpts, mail.WithEncoding(encoding))
	}
	maxSize, err := m.MaxAttachmentSizeBytes()
	if err != nil {
		return nil, err
	}
	if maxSize > 0 {
		msgOpts = append(msgOpts, mail.WithMaxAttachmentSize(maxSize))
	}
	msg := mail.NewMsg(transport, append(msgOpts, opts...)...)

	for _, header := range m.Headers {
		msg.SetHeader(header.Name, header.Value)
	}
	if m.From.Email != "" {
		msg.SetFromFormat(m.From.Name, m.From.Email)
	}
	for _, addr := range m.To {
		msg.AddToFormat(addr.Name, addr.Email)
	}
	for _, addr := range m.Cc {
		msg.AddCcFormat(addr.Name, addr.Email)
	}
	for _, addr := range m.Bcc {
		msg.AddBccFormat(addr.Name, addr.Email)
	}
	for _, addr := range m.ReplyTo {
		msg.AddReplyToFormat(addr.Name, addr.Email)
	}
	if m.Subject != nil {
		msg.SetSubject(*m.Subject)
	}
	if m.Priority != 0 {
		if m.Priority < int(mail.PriorityHighest) || m.Priority > int(mail.PriorityLowest) {
			return nil, fmt.Errorf("invalid priority %d, must be between 1 and 5", m.Priority)
		}
		msg.SetPriority(mail.Priority(m.Priority))
	}
	if m.UserAgent != "" {
		msg.SetUserAgent(m.UserAgent)
	}
	if m.Date {
		msg.SetDate()
	}
	if m.MessageID {
		msg.SetMessageID()
	}
	if m.Plain != "" {
		msg.SetPlainMessage(m.Plain)
	}
	if m.HTML != "" {
		msg.SetHTMLMessage(m.HTML)
	}
	if m.PlainFromHTML && m.Plain == "" {
		if err = msg.SetPlainFromHTML(); err != nil {
			return nil, err
		}
	}
	for _, inline := range m.Inline {
		msg.SetInlineAttachment(inline.Path, inline.ContentID)
	}
	for _, path := range m.Attachments {
		msg.AddAttachment(path)
	}
	return msg, nil
}

// New returns the configured mail.Transport. logger is used for the SMTP conversation and the
// SES retries and may be nil.
func (t Transport) New(ctx context.Context, logger log.Logger) (mail.Transport, error) {
	switch strings.ToLower(t.Type) {
	case "", TransportSMTP:
		return t.SMTP.client(logger)
	case TransportSES:
		return t.SES.transport(ctx, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, t.Type)
	}
}

func (s SMTP) client(logger log.Logger) (*smtp.Client, error) {
	if s.Host == "" {
		return nil, ErrNoSMTPHost
	}
	var opts []smtp.Option
	if s.Port != 0 {
		opts = append(opts, smtp.WithPort(s.Port))
	}
	if s.SSL {
		opts = append(opts, smtp.WithSSL())
	}
	if s.TLSPolicy != "" {
		policy, err := smtp.ParseTLSPolicy(s.TLSPolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, smtp.WithTLSPolicy(policy))
	}
	authType, err := smtp.ParseSMTPAuthType(s.Auth)
	if err != nil {
		return nil, err
	}
	if authType != smtp.SMTPAuthNoAuth {
		opts = append(opts, smtp.WithSMTPAuth(authType), smtp.WithUsername(s.Username),
			smtp.WithPassword(s.Password))
	}
	if s.HELO != "" {
		opts = append(opts, smtp.WithHELO(s.HELO))
	}
	if s.Timeout != 0 {
		opts = append(opts, smtp.WithTimeout(s.Timeout))
	}
	if logger != nil {
		opts = append(opts, smtp.WithLogger(logger))
	}
	if s.Debug {
		opts = append(opts, smtp.WithDebugLog())
	}
	return smtp.NewClient(s.Host, opts...)
}

func (s SES) transport(ctx context.Context, logger log.Logger) (*ses.Transport, error) {
	var opts []ses.Option
	if s.MaxRetries != nil {
		opts = append(opts, ses.WithMaxRetries(*s.MaxRetries))
	}
	if s.RetryDelay != 0 {
		opts = append(opts, ses.WithRetryDelay(s.RetryDelay))
	}
	if logger != nil {
		opts = append(opts, ses.WithLogger(logger))
	}
	return ses.New(ctx, ses.Config{
		Region:           s.Region,
		AccessKeyID:      s.AccessKeyID,
		SecretAccessKey:  s.SecretAccessKey,
		ConfigurationSet: s.ConfigurationSet,
	}, opts...)
}

func parseEncoding(name string) (mail.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quoted-printable", "qp":
		return mail.EncodingQP, nil
	case "base64", "b64":
		return mail.EncodingB64, nil
	case "8bit", "none":
		return mail.NoEncoding, nil
	}
	return "", fmt.Errorf("unsupported encoding %q", name)
}
