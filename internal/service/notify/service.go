// Package notify delivers operational digests over SMS.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/nebsam/opsdash/pkg/clients/sms"
)

const (
	sendTimeout = 10 * time.Second
	maxRetries  = 3
)

// Service fans a message out to the configured recipients.
type Service struct {
	client     sms.Client
	recipients []string
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

// NewService wires a new notification service instance.
func NewService(client sms.Client, recipients []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:     client,
		recipients: recipients,
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			return backoff.WithMaxRetries(b, maxRetries)
		},
	}
}

// Broadcast sends body to every recipient. Temporary gateway failures are
// retried; the first error is returned after all recipients were attempted.
func (s *Service) Broadcast(ctx context.Context, body string) error {
	if len(s.recipients) == 0 {
		return errors.New("no recipients configured")
	}

	var firstErr error
	for _, to := range s.recipients {
		if err := s.send(ctx, to, body); err != nil {
			s.logger.Error("failed to deliver sms", zap.String("to", to), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.logger.Info("sms delivered", zap.String("to", to))
	}
	return firstErr
}

func (s *Service) send(ctx context.Context, to, body string) error {
	operation := func() error {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()

		_, err := s.client.Send(ctxWithTimeout, sms.SendRequest{To: to, Body: body})
		var statusErr *sms.StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		s.logger.Warn("sms send failed, retrying", zap.String("to", to), zap.Duration("wait", wait), zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(s.newBackOff(), ctx), notify); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}
