package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/curexhq/curex/internal/logging"
)

// Saver is the destination for fetched snapshots.
type Saver interface {
	Save(ctx context.Context, rates map[string]float64, at time.Time) error
}

// apiResponse mirrors the provider payload:
//
//	{"data": {"EUR": {"code": "EUR", "value": 0.92}, ...}}
type apiResponse struct {
	Data map[string]struct {
		Value float64 `json:"value"`
	} `json:"data"`
}

// Fetcher periodically pulls current exchange rates from the external
// provider and writes them to the store. Fetch failures are logged and the
// previous snapshot stays in place until the next attempt succeeds.
type Fetcher struct {
	client   *http.Client
	url      string
	apiKey   string
	store    Saver
	interval time.Duration
	logger   logging.Logger
}

func NewFetcher(url, apiKey string, store Saver, interval time.Duration, logger logging.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		url:      url,
		apiKey:   apiKey,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run fetches once immediately and then on every interval tick until the
// context is cancelled.
func (f *Fetcher) Run(ctx context.Context) {
	if err := f.FetchOnce(ctx); err != nil {
		f.logger.Error(ctx, "rates fetch failed", "error", err.Error())
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.FetchOnce(ctx); err != nil {
				f.logger.Error(ctx, "rates fetch failed", "error", err.Error())
				continue
			}
			f.logger.Info(ctx, "rates snapshot updated")
		}
	}
}

// FetchOnce performs a single fetch-and-save cycle.
func (f *Fetcher) FetchOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("apikey", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("error requesting rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("error decoding rates: %w", err)
	}
	if len(payload.Data) == 0 {
		return fmt.Errorf("provider returned empty rates")
	}

	rates := make(map[string]float64, len(payload.Data))
	for code, entry := range payload.Data {
		rates[code] = entry.Value
	}

	if err := f.store.Save(ctx, rates, time.Now()); err != nil {
		return fmt.Errorf("error saving rates: %w", err)
	}
	return nil
}
