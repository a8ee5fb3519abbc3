// SPDX-FileCopyrightText: Copyright (c) The go-mail Authors
//
// SPDX-License-Identifier: MIT

// Package ses implements a transport for rendered mail messages on top of the AWS SES v2 API.
package ses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/wneessen/go-mailcompose/log"
)

const (
	// DefaultMaxRetries is the maximum number of retry attempts for failed SendEmail calls
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial delay of the exponential backoff
	DefaultRetryDelay = 1 * time.Second

	// MaxRetryDelay is the upper bound of a single backoff delay
	MaxRetryDelay = 5 * time.Minute
)

// ErrNoRcpts is returned by Send if the list of recipients is empty
var ErrNoRcpts = errors.New("no recipients given")

// Config holds the AWS settings of a Transport. Empty credentials fall back to the default AWS
// credential chain.
type Config struct {
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	ConfigurationSet string
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Transport ships rendered messages as raw MIME through SES
type Transport struct {
	client     SendEmailAPI
	configSet  string
	logger     log.Logger
	maxRetries int
	retryDelay time.Duration
}

// Option returns a function that can be used for grouping Transport options
type Option func(*Transport)

// New returns a Transport with a SES v2 client built from cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Transport, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	transport := NewWithClient(sesv2.NewFromConfig(awsCfg), opts...)
	transport.configSet = cfg.ConfigurationSet
	return transport, nil
}

// NewWithClient returns a Transport that uses the given SendEmailAPI
func NewWithClient(client SendEmailAPI, opts ...Option) *Transport {
	transport := &Transport{
		client:     client,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, option := range opts {
		if option == nil {
			continue
		}
		option(transport)
	}
	return transport
}

// WithMaxRetries overrides the number of retries after a failed SendEmail call
func WithMaxRetries(retries int) Option {
	return func(t *Transport) {
		if retries >= 0 {
			t.maxRetries = retries
		}
	}
}

// WithRetryDelay overrides the initial delay of the exponential backoff. Delays above
// MaxRetryDelay are capped.
func WithRetryDelay(delay time.Duration) Option {
	return func(t *Transport) {
		if delay > 0 {
			t.retryDelay = min(delay, MaxRetryDelay)
		}
	}
}

// WithLogger sets a log.Logger that reports failed attempts
func WithLogger(logger log.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithConfigurationSet sets the SES configuration set used for every message
func WithConfigurationSet(name string) Option {
	return func(t *Transport) {
		t.configSet = name
	}
}

// Send delivers the raw message read from data to rcpts. The recipients form the envelope, so
// blind copies are delivered without showing up in the message headers. Failed calls are retried
// with exponential backoff until the retries are exhausted or ctx is done.
func (t *Transport) Send(ctx context.Context, from string, rcpts []string, data io.Reader) error {
	if len(rcpts) == 0 {
		return ErrNoRcpts
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: rcpts},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	}
	if t.configSet != "" {
		input.ConfigurationSetName = aws.String(t.configSet)
	}

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			t.logf(log.LevelInfo, "retrying SES SendEmail, attempt %d of %d", attempt, t.maxRetries)
			if err = sleepWithContext(ctx, t.backoffDelay(attempt)); err != nil {
				return fmt.Errorf("context cancelled during retry wait: %w", err)
			}
		}

		output, err := t.client.SendEmail(ctx, input)
		if err == nil {
			if output != nil && output.MessageId != nil {
				t.logf(log.LevelDebug, "message accepted by SES with id %s", *output.MessageId)
			}
			return nil
		}
		lastErr = err
		t.logf(log.LevelWarn, "SES SendEmail attempt %d failed: %s", attempt, err)
	}

	return fmt.Errorf("SES SendEmail failed after %d retries: %w", t.maxRetries, lastErr)
}

// backoffDelay returns the exponential backoff delay for the given attempt number, capped at
// MaxRetryDelay
func (t *Transport) backoffDelay(attempt int) time.Duration {
	delay := t.retryDelay
	for i := 1; i < attempt && delay < MaxRetryDelay; i++ {
		delay *= 2
	}
	return min(delay, MaxRetryDelay)
}

func (t *Transport) logf(level log.Level, format string, messages ...interface{}) {
	if t.logger == nil {
		return
	}
	entry := log.Log{Direction: log.DirLocal, Format: format, Messages: messages}
	switch level {
	case log.LevelDebug:
		t.logger.Debugf(entry)
	case log.LevelInfo:
		t.logger.Infof(entry)
	default:
		t.logger.Warnf(entry)
	}
}

// sleepWithContext waits for the specified duration or until the context is cancelled
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
