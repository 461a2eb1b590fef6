package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/wardrobe/pkg/logger"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	percentageMultiplier    = 100
)

// Run executes a complete probe against cfg.BaseURL.
func Run(ctx context.Context, cfg Config) (*Stats, error) { //nolint:gocritic // Config is read-only
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("probe")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting wardrobe probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", cfg.Queries),
		logger.Int("characters", cfg.Characters),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	// Step 1: Check service health
	if err := client.getJSON(ctx, "/healthz", nil, nil); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Match generated descriptions concurrently
	descriptions := generateDescriptions(cfg.Queries, cfg.Seed)
	results := runQueries(ctx, client, descriptions, cfg.Workers)
	checkResults(results, cfg.MaxResults, stats)

	// Step 3: Submit characters, each twice
	submitCharacters(ctx, client, descriptions, cfg.Characters, stats)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("probe interrupted: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if cfg.Verbose {
		for _, v := range stats.Violations {
			log.Warn(ctx, "violation",
				logger.String("endpoint", v.Endpoint),
				logger.String("description", v.Description),
				logger.String("reason", v.Reason),
			)
		}
	}
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

// runQueries matches every description with a fixed pool of workers.
func runQueries(ctx context.Context, client *httpClient, descriptions []string, workers int) []matchResult {
	results := make([]matchResult, len(descriptions))
	jobs := make(chan int, workers*workerChannelMultiplier)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = queryOne(ctx, client, descriptions[i])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range descriptions {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()
	return results
}

func queryOne(ctx context.Context, client *httpClient, description string) matchResult {
	res := matchResult{description: description}
	if ctx.Err() != nil {
		res.err = ctx.Err()
		return res
	}

	status, body, err := client.postJSON(ctx, "/match", map[string]string{"description": description})
	switch {
	case err != nil:
		res.err = err
		return res
	case status != http.StatusOK:
		res.err = fmt.Errorf("POST /match: unexpected status %d", status)
		return res
	}
	if err := json.Unmarshal(body, &res.config); err != nil {
		res.err = fmt.Errorf("POST /match: decode: %w", err)
		return res
	}

	res.err = client.getJSON(ctx, "/assets", url.Values{"q": {description}}, &res.assets)
	return res
}

// checkResults folds query results into stats.
func checkResults(results []matchResult, maxResults int, stats *Stats) {
	slotKeys := defaultSlotKeys()
	for i := range results {
		r := &results[i]
		if r.description == "" && r.err == nil {
			continue // never dispatched
		}
		stats.QueriesSent++
		if r.err != nil {
			stats.QueriesFailed++
			continue
		}
		if len(r.assets) == 0 {
			stats.EmptyResults++
		}
		for _, p := range verifyAssets(r.assets, maxResults) {
			stats.Violations = append(stats.Violations, Violation{Description: r.description, Endpoint: "/assets", Reason: p})
		}
		for _, p := range verifyConfiguration(&r.config, slotKeys) {
			stats.Violations = append(stats.Violations, Violation{Description: r.description, Endpoint: "/match", Reason: p})
		}
		for _, p := range crossCheck(r) {
			stats.Violations = append(stats.Violations, Violation{Description: r.description, Endpoint: "/match", Reason: p})
		}
	}
}

// crossCheck verifies every configuration match also appears in the ranked
// assets with the same score.
func crossCheck(r *matchResult) []string {
	scores := make(map[string]int, len(r.assets))
	for _, a := range r.assets {
		scores[a.ID] = a.Score
	}
	var problems []string
	for _, m := range r.config.Matches {
		s, ok := scores[m.ID]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s missing from ranked assets", m.ID))
		case s != m.Score:
			problems = append(problems, fmt.Sprintf("%s scored %d by /match and %d by /assets", m.ID, m.Score, s))
		}
	}
	return problems
}

// submitCharacters posts n build requests and resubmits each one, expecting
// an acceptance followed by a duplicate.
func submitCharacters(ctx context.Context, client *httpClient, descriptions []string, n int, stats *Stats) {
	if len(descriptions) == 0 {
		return
	}
	for i := 0; i < n && ctx.Err() == nil; i++ {
		req := map[string]string{
			"request_id":  uuid.NewString(),
			"name":        characterName(i),
			"description": descriptions[i%len(descriptions)],
		}
		stats.CharactersSubmitted++

		first, err := submitOne(ctx, client, req)
		if err != nil || first != http.StatusAccepted {
			stats.CharactersFailed++
			continue
		}
		stats.CharactersAccepted++

		second, err := submitOne(ctx, client, req)
		if err != nil || second != http.StatusOK {
			stats.Violations = append(stats.Violations, Violation{
				Description: req["description"],
				Endpoint:    "/characters",
				Reason:      fmt.Sprintf("resubmitted request_id returned %d", second),
			})
			continue
		}
		stats.CharactersDuplicate++
	}
}

func submitOne(ctx context.Context, client *httpClient, req map[string]string) (int, error) {
	status, body, err := client.postJSON(ctx, "/characters", req)
	if err != nil {
		return 0, err
	}
	var ack ackResponse
	switch status {
	case http.StatusAccepted:
		if err := json.Unmarshal(body, &ack); err != nil || ack.CharacterID == "" {
			return status, fmt.Errorf("expected a character id: %s", body)
		}
	case http.StatusOK:
		if err := json.Unmarshal(body, &ack); err != nil || !ack.Duplicate {
			return status, fmt.Errorf("expected a duplicate acknowledgement: %s", body)
		}
	}
	return status, nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, queriesPerSecond float64
	if stats.QueriesSent > 0 {
		successRate = float64(stats.QueriesSent-stats.QueriesFailed) / float64(stats.QueriesSent) * percentageMultiplier
	}
	if stats.Duration > 0 {
		queriesPerSecond = float64(stats.QueriesSent) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("queriesSent", stats.QueriesSent),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.Int("emptyResults", stats.EmptyResults),
		logger.Int("charactersSubmitted", stats.CharactersSubmitted),
		logger.Int("charactersAccepted", stats.CharactersAccepted),
		logger.Int("charactersDuplicate", stats.CharactersDuplicate),
		logger.Int("charactersFailed", stats.CharactersFailed),
		logger.Int("violations", len(stats.Violations)),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("queriesPerSecond", queriesPerSecond),
	)
}
