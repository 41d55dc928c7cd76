// Package retrypolicy implements an error taxonomy and retry policy as an
// explicit policy object: classification, then wait, then attempt-count
// semantics, composed around each external call, built on avast/retry-go.
package retrypolicy

import (
	"context"
	"errors"
	"net/http"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

// Kind classifies an error for retry purposes
type Kind int

const (
	// KindPermanent is never retried: 4xx other than 429, schema
	// validation failure, malformed input.
	KindPermanent Kind = iota
	// KindTransient is retried with exponential backoff: timeouts, 5xx,
	// transport resets.
	KindTransient
	// KindRateLimited is retried with backoff 2^attempt seconds: HTTP 429.
	KindRateLimited
)

// ClassifiedError pairs an underlying error with its retry Kind.
type ClassifiedError struct {
	Kind Kind
	Err  error
}

func (c *ClassifiedError) Error() string { return c.Err.Error() }
func (c *ClassifiedError) Unwrap() error { return c.Err }

// Classify wraps err with a Kind so Run can decide whether to retry it.
func Classify(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Kind: kind, Err: err}
}

// ClassifyHTTPStatus maps an HTTP status code to a Kind
// step 3 / §7: 2xx is not an error; 429 is RateLimited; 5xx or transport
// error is Transient; any other 4xx is Permanent.
func ClassifyHTTPStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindTransient
	default:
		return KindPermanent
	}
}

// KindOf extracts the Kind from err if it was produced by Classify,
// defaulting to KindPermanent for unclassified errors (fail closed: an
// error the caller didn't explicitly mark retryable is not retried).
func KindOf(err error) Kind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindPermanent
}

// Options configures Run.
type Options struct {
	// MaxAttempts bounds the attempt budget (max 3 for both digitization
	// chunk requests and LLM calls).
	MaxAttempts int
	// BaseDelay is the first retry's wait; subsequent waits double it
	// (1s, 2s, 4s for LLM calls).
	BaseDelay time.Duration
	// RateLimitDelayBase, when set, overrides BaseDelay's backoff for
	// KindRateLimited errors with "wait 2^attempt seconds"
	// rule. When zero, rate-limited errors back off like transient ones.
	RateLimitDelayBase time.Duration
}

// Run executes fn, retrying per the classification the call returns via a
// *ClassifiedError, up to opts.MaxAttempts. A nil error or a KindPermanent
// error stops retrying immediately; context cancellation stops immediately.
func Run(ctx context.Context, opts Options, fn func(ctx context.Context, attempt int) error) error {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	attempt := 0
	return retrygo.Do(
		func() error {
			attempt++
			err := fn(ctx, attempt)
			if err == nil {
				return nil
			}
			kind := KindOf(err)
			if kind == KindPermanent {
				return retrygo.Unrecoverable(err)
			}
			return err
		},
		retrygo.Context(ctx),
		retrygo.Attempts(uint(maxAttempts)),
		retrygo.LastErrorOnly(true),
		retrygo.DelayType(func(n uint, err error, _ *retrygo.Config) time.Duration {
			if opts.RateLimitDelayBase > 0 && KindOf(err) == KindRateLimited {
				return opts.RateLimitDelayBase << n // 2^attempt seconds
			}
			return baseDelay << n // 1s, 2s, 4s, ...
		}),
	)
}
