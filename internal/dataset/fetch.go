package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pable/cricanalyze/internal/model"
)

// DefaultURL is the published 2020-2024 innings table.
const DefaultURL = "https://raw.githubusercontent.com/jayy1704/cricanalyze/main/2020-2024 excel.csv"

// Fetcher obtains the dataset from somewhere.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.Dataset, error)
	// Describe names the source in log lines.
	Describe() string
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc struct {
	Name string
	Fn   func(ctx context.Context) (*model.Dataset, error)
}

// Fetch calls f.Fn.
func (f FetcherFunc) Fetch(ctx context.Context) (*model.Dataset, error) { return f.Fn(ctx) }

// Describe returns f.Name.
func (f FetcherFunc) Describe() string { return f.Name }

// Stage says which step of loading failed.
type Stage string

const (
	StageFetch Stage = "loading data"
	StageParse Stage = "parsing CSV"
)

// LoadError is a fatal failure to obtain the dataset.
type LoadError struct {
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("Error %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// HTTPFetcher downloads a CSV table.
type HTTPFetcher struct {
	URL  string
	http *http.Client
}

// NewHTTPFetcher returns a fetcher for url with the given request timeout.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{URL: url, http: &http.Client{Timeout: timeout}}
}

// Describe returns the URL.
func (f *HTTPFetcher) Describe() string { return f.URL }

// Fetch performs the GET and parses the body.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*model.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, escapeSpaces(f.URL), nil)
	if err != nil {
		return nil, &LoadError{Stage: StageFetch, Err: err}
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, &LoadError{Stage: StageFetch, Err: fmt.Errorf("GET %s: %w", f.URL, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Stage: StageFetch, Err: fmt.Errorf("HTTP error! Status: %d (%s)", resp.StatusCode, http.StatusText(resp.StatusCode))}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Stage: StageFetch, Err: fmt.Errorf("read body: %w", err)}
	}
	return parseStrict(bytes.NewReader(body))
}

// escapeSpaces keeps URLs copied from a browser bar usable.
func escapeSpaces(u string) string {
	return strings.ReplaceAll(u, " ", "%20")
}

// FileFetcher reads a CSV table from disk.
type FileFetcher struct {
	Path string
}

// Describe returns the path.
func (f FileFetcher) Describe() string { return f.Path }

// Fetch opens and parses the file.
func (f FileFetcher) Fetch(_ context.Context) (*model.Dataset, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, &LoadError{Stage: StageFetch, Err: err}
	}
	defer fh.Close()
	return parseStrict(fh)
}

// parseStrict treats any row error as fatal, reporting the first one.
func parseStrict(r io.Reader) (*model.Dataset, error) {
	ds, rowErrs, err := ParseTable(r)
	if err != nil {
		return nil, &LoadError{Stage: StageParse, Err: err}
	}
	if len(rowErrs) > 0 {
		return nil, &LoadError{Stage: StageParse, Err: rowErrs[0]}
	}
	return ds, nil
}

// FromSource picks a fetcher for a URL or file path.
func FromSource(src string, timeout time.Duration) Fetcher {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return NewHTTPFetcher(src, timeout)
	}
	return FileFetcher{Path: src}
}
