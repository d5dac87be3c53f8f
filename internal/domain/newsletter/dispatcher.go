package newsletter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"newznepal/internal/domain/post"
	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/mailer"
	"newznepal/internal/pkg/metrics"
)

// LinkSigner produces the unsubscribe URL for one recipient.
type LinkSigner func(email string) (string, error)

type Result struct {
	Sent   int      `json:"sentCount"`
	Failed int      `json:"failedCount"`
	Errors []string `json:"errors,omitempty"`
}

// Dispatcher fans one post out to a recipient list in batches, pausing
// between batches to stay under provider rate limits.
type Dispatcher struct {
	mailer    mailer.Mailer
	siteURL   string
	batchSize int
	delay     time.Duration
	sign      LinkSigner
}

func NewDispatcher(m mailer.Mailer, siteURL string, batchSize int, delay time.Duration, sign LinkSigner) *Dispatcher {
	if batchSize < 1 {
		batchSize = 10
	}
	return &Dispatcher{
		mailer:    m,
		siteURL:   siteURL,
		batchSize: batchSize,
		delay:     delay,
		sign:      sign,
	}
}

// Send attempts every recipient once. A failed recipient is recorded and the
// rest still go out; cancelling ctx stops before the next batch.
func (d *Dispatcher) Send(ctx context.Context, p *post.Post, recipients []string) (Result, error) {
	var (
		res Result
		mu  sync.Mutex
	)

	for start := 0; start < len(recipients); start += d.batchSize {
		if start > 0 && d.delay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(d.delay):
			}
		}

		end := min(start+d.batchSize, len(recipients))
		var g errgroup.Group
		for _, email := range recipients[start:end] {
			g.Go(func() error {
				err := d.sendOne(ctx, p, email)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					res.Failed++
					res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", email, err))
					metrics.NewsletterEmails.WithLabelValues("failed").Inc()
					logger.Warn().Err(err).Str("to", email).Str("post_id", p.ID).Msg("newsletter delivery failed")
					return nil
				}
				res.Sent++
				metrics.NewsletterEmails.WithLabelValues("sent").Inc()
				return nil
			})
		}
		_ = g.Wait()
	}

	logger.Info().
		Str("post_id", p.ID).
		Int("sent", res.Sent).
		Int("failed", res.Failed).
		Msg("newsletter dispatched")
	return res, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, p *post.Post, email string) error {
	link, err := d.sign(email)
	if err != nil {
		return fmt.Errorf("sign unsubscribe link: %w", err)
	}
	msg, err := render(p, d.siteURL, link)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	msg.To = email
	return d.mailer.Send(ctx, msg)
}
