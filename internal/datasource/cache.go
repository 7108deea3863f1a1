package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	gocache "github.com/patrickmn/go-cache"
)

// getCachedJSON fetches and decodes an endpoint, serving repeats from the
// TTL cache. The raw body is cached rather than the decoded value so
// callers with different target types share entries.
func getCachedJSON(ctx context.Context, client *RateLimitedHTTPClient, cache *gocache.Cache, apiKey, endpoint string, out interface{}) error {
	if cached, found := cache.Get(endpoint); found {
		return json.Unmarshal(cached.([]byte), out)
	}

	resp, err := client.Get(ctx, endpoint, apiKey)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d for %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	cache.Set(endpoint, body, gocache.DefaultExpiration)
	return nil
}
