package travelpayouts

import (
	"context"
	"log/slog"

	"github.com/mytrippers/flight-search-service/internal/app/dto"
)

// Stream runs the same submit/poll sequence as Search but pushes partial
// results while they accumulate. The channel carries zero or more
// progress events with non-decreasing totals, terminated by exactly one
// complete event or exactly one error event. The producer stops polling
// when ctx is cancelled, so a disconnected consumer halts further
// provider calls.
func (p *Provider) Stream(ctx context.Context, criteria dto.SearchCriteria) <-chan dto.StreamEvent {
	events := make(chan dto.StreamEvent, 1)

	go func() {
		defer close(events)
		p.stream(ctx, criteria, events)
	}()

	return events
}

func (p *Provider) stream(ctx context.Context, criteria dto.SearchCriteria, events chan<- dto.StreamEvent) {
	emit := func(event dto.StreamEvent) bool {
		select {
		case events <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}

	fail := func(err error) {
		slog.ErrorContext(ctx, "streaming flight search failed",
			slog.String("provider", ProviderName),
			slog.String("error", err.Error()))
		emit(dto.StreamEvent{Type: dto.StreamEventError, Error: err.Error()})
	}

	if err := p.allow(ctx); err != nil {
		fail(err)

		return
	}

	payload, err := p.buildPayload(ctx, criteria)
	if err != nil {
		fail(err)

		return
	}

	sessionID, err := p.submit(ctx, payload)
	if err != nil {
		fail(err)

		return
	}

	// the provider needs a ramp-up interval before the first meaningful
	// batch; polling earlier yields thin, unstable partials
	if err := sleepCtx(ctx, p.cfg.StreamWarmup); err != nil {
		return
	}

	var (
		lastCount int
		latest    []SearchResult
	)

	for attempt := 0; attempt < p.cfg.PollMaxAttempts; attempt++ {
		outcome, results, err := p.poll(ctx, sessionID)
		if err != nil {
			fail(err)

			return
		}

		if outcome == pollSessionOnly {
			break
		}

		if outcome == pollResults {
			count := CountProposals(results)
			if count > lastCount {
				// retransform the whole accumulated payload rather than a
				// delta, keeping the consumer's view internally consistent
				flights := p.transform(ctx, criteria, results)

				if !emit(dto.StreamEvent{
					Type:       dto.StreamEventProgress,
					Flights:    flights,
					TotalFound: count,
				}) {
					return
				}

				lastCount = count
				latest = results
			}

			if lastCount >= p.cfg.StreamStopThreshold {
				break
			}
		}

		if attempt < p.cfg.PollMaxAttempts-1 {
			if err := sleepCtx(ctx, p.cfg.PollInterval); err != nil {
				return
			}
		}
	}

	emit(dto.StreamEvent{
		Type:       dto.StreamEventComplete,
		Flights:    p.transform(ctx, criteria, latest),
		TotalFound: lastCount,
		IsComplete: true,
	})
}
