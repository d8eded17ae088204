// Package notify delivers one-time codes to users through external
// channels.  Delivery is best-effort relative to the state change that
// triggered it: a failed send is logged, the code stays valid, and the
// session flow never sees the failure as fatal.
package notify

import (
	"context"
	"errors"
	"log"
	"time"
)

// Purpose identifies why a code is being sent.  The value is carried to the
// downstream mailer/SMS worker so it can pick a template.
type Purpose string

const (
	PurposeEmailVerify Purpose = "email-verify"
	PurposeEmailReset  Purpose = "email-reset"
	PurposeSMSVerify   Purpose = "sms-verify"
	PurposeSMSReset    Purpose = "sms-reset"
)

// Sender delivers a code to a destination address.  Implementations must
// treat delivery failure as a normal, reportable condition.
type Sender interface {
	// Name identifies the provider in logs and chain results.
	Name() string
	Send(ctx context.Context, destination string, purpose Purpose, code string) error
}

// ErrAllProvidersFailed is returned by Chain.Send when every provider in
// the chain has exhausted its attempts.
var ErrAllProvidersFailed = errors.New("all notification providers failed")

// Chain tries providers in priority order.  Each provider gets Attempts
// tries with exponential backoff starting at Backoff before the chain
// moves on to the next one.
type Chain struct {
	Providers []Sender
	Attempts  int           // tries per provider (min 1)
	Backoff   time.Duration // initial backoff between tries
}

// NewChain builds a chain with the default retry policy: two attempts per
// provider, 200ms initial backoff.
func NewChain(providers ...Sender) *Chain {
	return &Chain{Providers: providers, Attempts: 2, Backoff: 200 * time.Millisecond}
}

func (c *Chain) Name() string { return "chain" }

// Send walks the providers in order and returns nil as soon as one
// delivers.  The provider that succeeded is logged.  When everyone fails
// the last errors are summarized into ErrAllProvidersFailed.
func (c *Chain) Send(ctx context.Context, destination string, purpose Purpose, code string) error {
	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}
	for _, p := range c.Providers {
		backoff := c.Backoff
		for try := 1; try <= attempts; try++ {
			err := p.Send(ctx, destination, purpose, code)
			if err == nil {
				log.Printf("notify: delivered purpose=%s via %s", purpose, p.Name())
				return nil
			}
			log.Printf("notify: provider %s attempt %d/%d failed: %v", p.Name(), try, attempts, err)
			if try < attempts {
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return ctx.Err()
				}
				backoff *= 2
			}
		}
	}
	return ErrAllProvidersFailed
}
