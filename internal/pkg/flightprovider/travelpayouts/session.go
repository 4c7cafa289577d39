package travelpayouts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mytrippers/flight-search-service/internal/app/dto"
)

// pollOutcome classifies one poll response.
type pollOutcome int

const (
	// pollEmpty: nothing yet, keep polling.
	pollEmpty pollOutcome = iota
	// pollResults: a non-empty results array arrived.
	pollResults
	// pollSessionOnly: the payload echoed only the session id, the
	// provider's signal to stop polling early.
	pollSessionOnly
)

// submit issues the initiating call and returns the provider's session
// id. A session is never reused across requests.
func (p *Provider) submit(ctx context.Context, payload SearchPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.SearchAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", initFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", initFailure(fmt.Errorf("submit returned status %d", resp.StatusCode))
	}

	var init initResponse
	if err := json.NewDecoder(resp.Body).Decode(&init); err != nil {
		return "", initFailure(fmt.Errorf("decode submit response: %w", err))
	}

	sessionID := init.sessionID()
	if sessionID == "" {
		return "", ErrInitFailure
	}

	return sessionID, nil
}

// poll issues one GET against the results endpoint. The response is
// either an array of result groups, an object echoing only the session
// id, or an object carrying an error field.
func (p *Provider) poll(ctx context.Context, sessionID string) (pollOutcome, []SearchResult, error) {
	pollURL := fmt.Sprintf("%s?uuid=%s", p.cfg.ResultsAPIURL, url.QueryEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollURL, nil)
	if err != nil {
		return pollEmpty, nil, fmt.Errorf("build poll request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return pollEmpty, nil, fmt.Errorf("poll flight search results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pollEmpty, nil, providerError(fmt.Sprintf("results endpoint returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pollEmpty, nil, fmt.Errorf("read poll response: %w", err)
	}

	return classifyPollBody(body)
}

func classifyPollBody(body []byte) (pollOutcome, []SearchResult, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []SearchResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return pollEmpty, nil, fmt.Errorf("decode poll response: %w", err)
		}

		if len(results) > 0 {
			return pollResults, results, nil
		}

		return pollEmpty, nil, nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return pollEmpty, nil, fmt.Errorf("decode poll response: %w", err)
	}

	if raw, ok := object["error"]; ok {
		var message string
		_ = json.Unmarshal(raw, &message)

		return pollEmpty, nil, providerError(message)
	}

	_, hasSearchID := object["search_id"]
	_, hasUUID := object["uuid"]
	if len(object) == 1 && (hasSearchID || hasUUID) {
		return pollSessionOnly, nil, nil
	}

	return pollEmpty, nil, nil
}

// RunSearch runs one complete submit/poll session against the provider
// and returns the raw result groups. Polls for one session are strictly
// sequential, bounded by PollMaxAttempts with a fixed inter-attempt
// delay: no delay before the first poll, none after the last.
func (p *Provider) RunSearch(ctx context.Context, criteria dto.SearchCriteria) ([]SearchResult, error) {
	if err := p.allow(ctx); err != nil {
		return nil, err
	}

	payload, err := p.buildPayload(ctx, criteria)
	if err != nil {
		return nil, err
	}

	sessionID, err := p.submit(ctx, payload)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "flight search session started",
		slog.String("provider", ProviderName),
		slog.String("session_id", sessionID))

	for attempt := 0; attempt < p.cfg.PollMaxAttempts; attempt++ {
		outcome, results, err := p.poll(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		switch outcome {
		case pollResults:
			return results, nil
		case pollSessionOnly:
			// provider says the session is drained
			return nil, ErrNoResults
		case pollEmpty:
		}

		if attempt < p.cfg.PollMaxAttempts-1 {
			if err := sleepCtx(ctx, p.cfg.PollInterval); err != nil {
				return nil, err
			}
		}
	}

	return nil, ErrNoResults
}
