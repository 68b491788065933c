package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Transaction outcomes reported to an Observer.
const (
	OutcomeCommitted = "committed"
	OutcomeAborted   = "aborted"
	OutcomeConflict  = "conflict"
)

// Observer receives transaction lifecycle events.
type Observer interface {
	TransactionAttempt()
	TransactionConflict()
	TransactionFinished(outcome string, elapsed time.Duration)
}

// RetryPolicy bounds how often a conflicting transaction is re-run.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// Option configures a Client.
type Option func(*Client)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		if policy.MaxAttempts > 0 {
			c.policy = policy
		}
	}
}

// WithObserver registers an observer for transaction events.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// Client implements Store on top of an Engine.
type Client struct {
	engine   Engine
	policy   RetryPolicy
	observer Observer
}

var _ Store = (*Client)(nil)

// New creates a Client over engine.
func New(engine Engine, opts ...Option) *Client {
	c := &Client{
		engine:   engine,
		policy:   DefaultRetryPolicy(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reads a single document outside of a transaction.
func (c *Client) Get(ctx context.Context, ref Ref) (*Snapshot, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return c.engine.Read(ctx, ref)
}

// Query runs q outside of a transaction.
func (c *Client) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("%w: empty collection", ErrInvalidRef)
	}
	return c.engine.Query(ctx, q)
}

// Close releases the engine.
func (c *Client) Close() error {
	return c.engine.Close()
}

// RunTransaction runs fn and commits its writes atomically.
//
// When the commit finds that a document read by fn has changed, fn runs again
// with fresh reads, up to the policy's attempt limit, after which
// ErrTransactionConflict is returned. Any error returned by fn aborts the
// transaction without retrying and is returned unchanged.
func (c *Client) RunTransaction(ctx context.Context, fn TxFunc) error {
	start := time.Now()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.policy.InitialInterval
	b.MaxInterval = c.policy.MaxInterval
	b.MaxElapsedTime = 0

	attempts := 0
	op := func() error {
		attempts++
		c.observer.TransactionAttempt()

		err := c.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrConflict) {
			c.observer.TransactionConflict()
			return err
		}
		return backoff.Permanent(err)
	}

	retries := uint64(c.policy.MaxAttempts - 1)
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx))

	switch {
	case err == nil:
		c.observer.TransactionFinished(OutcomeCommitted, time.Since(start))
		return nil
	case errors.Is(err, ErrConflict):
		c.observer.TransactionFinished(OutcomeConflict, time.Since(start))
		return fmt.Errorf("%w after %d attempts: %v", ErrTransactionConflict, attempts, err)
	default:
		c.observer.TransactionFinished(OutcomeAborted, time.Since(start))
		return err
	}
}

func (c *Client) attempt(ctx context.Context, fn TxFunc) error {
	tx := newTransaction(c.engine)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if len(tx.writes) == 0 {
		return nil
	}
	return c.engine.Commit(ctx, tx.readSet(), tx.writes)
}

type noopObserver struct{}

func (noopObserver) TransactionAttempt()                        {}
func (noopObserver) TransactionConflict()                       {}
func (noopObserver) TransactionFinished(string, time.Duration) {}

// Transact runs fn in a transaction on store and returns the value produced
// by the attempt that committed.
func Transact[T any](ctx context.Context, store Store, fn func(ctx context.Context, tx Tx) (T, error)) (T, error) {
	var result T
	err := store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		v, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
