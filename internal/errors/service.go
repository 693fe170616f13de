// internal/errors/service.go - Error recovery and reporting helpers
package errors

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxRetries    int           `yaml:"max_retries" json:"max_retries"`
	BaseDelay     time.Duration `yaml:"base_delay" json:"base_delay"`
	BackoffFactor float64       `yaml:"backoff_factor" json:"backoff_factor"`
	MaxDelay      time.Duration `yaml:"max_delay" json:"max_delay"`
}

// DefaultRetryConfig returns the retry policy used for archive fetches.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		BaseDelay:     time.Second * 2,
		BackoffFactor: 2.0,
		MaxDelay:      time.Minute,
	}
}

// Service executes operations with retries and converts technical errors
// to user-facing messages.
type Service struct {
	retryConfig   RetryConfig
	showTechnical bool
}

// NewService creates an error recovery service with the default policy.
func NewService() *Service {
	return &Service{retryConfig: DefaultRetryConfig()}
}

// WithRetryConfig overrides the retry policy.
func (s *Service) WithRetryConfig(config RetryConfig) *Service {
	s.retryConfig = config
	return s
}

// WithTechnicalDetails includes the underlying error text in user messages.
func (s *Service) WithTechnicalDetails(show bool) *Service {
	s.showTechnical = show
	return s
}

// ExecuteWithRetry runs operation until it succeeds or retries are
// exhausted, backing off between attempts.
func (s *Service) ExecuteWithRetry(ctx context.Context, name string, operation func(context.Context) error) error {
	var lastErr error
	delay := s.retryConfig.BaseDelay

	for attempt := 0; attempt <= s.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s canceled: %w", name, ctx.Err())
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * s.retryConfig.BackoffFactor)
			if delay > s.retryConfig.MaxDelay {
				delay = s.retryConfig.MaxDelay
			}
		}

		if err := operation(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, s.retryConfig.MaxRetries+1, lastErr)
}

// UserMessage converts a technical error into a message suitable for CLI
// output.
func (s *Service) UserMessage(err error) string {
	if err == nil {
		return ""
	}

	text := err.Error()
	var message string
	switch {
	case strings.Contains(text, "no such host"), strings.Contains(text, "connection refused"):
		message = "Could not reach the archive server. Check the base URL and your network connection."
	case strings.Contains(text, "context deadline exceeded"), strings.Contains(text, "Client.Timeout"):
		message = "The archive server took too long to respond. Try again later or raise the crawler timeout."
	case strings.Contains(text, "listing not found"):
		message = "The requested archive directory does not exist on the server."
	case strings.Contains(text, "HTTP 429"), strings.Contains(text, "HTTP 5"):
		message = "The archive server is overloaded or refusing requests. Lower the rate limit and retry."
	case strings.Contains(text, "permission denied"):
		message = "Permission denied writing output. Check file and directory permissions."
	default:
		message = "The operation failed."
	}

	if s.showTechnical {
		return fmt.Sprintf("%s (%v)", message, err)
	}
	return message
}
