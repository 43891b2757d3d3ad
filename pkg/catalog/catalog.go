// Package catalog resolves named shape models from a remote YAML index
// and caches downloaded coefficient files locally.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/planetdyn/shtk/pkg/types"
)

// Entry describes one downloadable model in the catalog index.
type Entry struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	LMax  int    `yaml:"lmax"`
	Units string `yaml:"units"`
	Norm  string `yaml:"norm"`

	// Check is an optional reference-point self check for the model.
	Check *types.Check `yaml:"check,omitempty"`
}

// Validate checks that the entry can be fetched and used.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return types.ErrEmptyName
	}
	if e.URL == "" {
		return fmt.Errorf("catalog entry %q has no url", e.Name)
	}
	if _, err := types.ParseNormalization(e.Norm); err != nil {
		return fmt.Errorf("catalog entry %q: %w", e.Name, err)
	}
	if e.Check != nil {
		if err := e.Check.Validate(); err != nil {
			return fmt.Errorf("catalog entry %q: %w", e.Name, err)
		}
	}
	return nil
}

// Index is a parsed catalog index.
type Index struct {
	entries map[string]Entry
}

// ParseIndex parses a YAML list of entries. Invalid items are skipped so
// one bad record does not take down the whole catalog; parsing fails only
// when nothing valid remains.
func ParseIndex(data []byte) (*Index, error) {
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse catalog index: %w", err)
	}

	idx := &Index{entries: make(map[string]Entry, len(nodes))}
	var errs []error
	for i, node := range nodes {
		var e Entry
		if err := node.Decode(&e); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		idx.entries[e.Name] = e
	}
	if len(idx.entries) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("no usable catalog entries: %w", errs[0])
		}
		return nil, fmt.Errorf("catalog index is empty")
	}
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d catalog entries failed to parse and were skipped\n", len(errs))
	}
	return idx, nil
}

// LoadIndex reads and parses a catalog index file.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog index: %w", err)
	}
	return ParseIndex(data)
}

// FetchIndex loads a catalog index from an http(s) URL. Anything without
// a scheme is treated as a local file path. Client may be nil.
func FetchIndex(ctx context.Context, client *http.Client, url string) (*Index, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return LoadIndex(url)
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build index request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog index: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog index %s returned status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog index: %w", err)
	}
	return ParseIndex(data)
}

// Find returns the entry with the given name.
func (i *Index) Find(name string) (Entry, error) {
	e, ok := i.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q not in catalog", types.ErrModelNotFound, name)
	}
	return e, nil
}

// Names returns the sorted set of entry names.
func (i *Index) Names() []string {
	names := make([]string, 0, len(i.entries))
	for n := range i.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (i *Index) Len() int { return len(i.entries) }
