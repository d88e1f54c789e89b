package inventory

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
)

// Loader reads catalog sources. A source is a local path or an http(s) URL;
// ".json" sources hold a JSON array of tires, anything else is treated as a
// raw price list (see ParseList). A trailing ".gz" means gzip-compressed.
type Loader struct {
	client *http.Client
}

// sourceLoadResult holds the result of loading a single source
type sourceLoadResult struct {
	index int
	items []*models.TireItem
	err   error
}

// NewLoader creates a Loader. A nil client gets a default with a timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{client: client}
}

// Load loads all sources concurrently and concatenates them in source order.
// Returns error if any source fails to load
func (l *Loader) Load(ctx context.Context, sources []string) (*Catalog, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no catalog sources provided")
	}

	resultChan := make(chan sourceLoadResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			items, err := l.loadSource(ctx, source)
			resultChan <- sourceLoadResult{index: index, items: items, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining order
	results := make([]sourceLoadResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	var all []*models.TireItem
	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("failed to load catalog source %d (%s): %w", i+1, sources[i], result.err)
		}
		all = append(all, result.items...)
	}

	return NewCatalog(all), nil
}

func (l *Loader) loadSource(ctx context.Context, source string) ([]*models.TireItem, error) {
	var rc io.ReadCloser
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		rc, err = l.open(ctx, source)
	} else {
		rc, err = os.Open(source)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	name := source
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	if strings.HasSuffix(name, ".json") {
		return decodeItems(r)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading price list: %w", err)
	}
	return ParseList(string(raw)), nil
}

func (l *Loader) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func decodeItems(r io.Reader) ([]*models.TireItem, error) {
	var items []*models.TireItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, t := range items {
		if t == nil {
			return nil, fmt.Errorf("catalog item %d is null", i)
		}
		if t.Stock < 0 || t.Showroom < 0 || t.Basement < 0 {
			return nil, fmt.Errorf("catalog item %d (%s) has negative stock", i, t.Title())
		}
		if t.Price.IsNegative() {
			return nil, fmt.Errorf("catalog item %d (%s) has negative price", i, t.Title())
		}
	}
	return items, nil
}
