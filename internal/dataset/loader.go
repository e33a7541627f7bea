package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/pable/cricanalyze/internal/model"
)

// ErrNotReady is returned for queries that arrive before the dataset has
// finished loading.
var ErrNotReady = errors.New("data is still loading, please wait")

// Loader fetches the dataset once in the background. Queries read it through
// Dataset, which never blocks.
type Loader struct {
	fetcher Fetcher

	once sync.Once
	done chan struct{}

	mu   sync.RWMutex
	data *model.Dataset
	err  error
}

// NewLoader returns a loader that has not started yet.
func NewLoader(f Fetcher) *Loader {
	return &Loader{fetcher: f, done: make(chan struct{})}
}

// Start begins the fetch in a goroutine. Later calls are no-ops.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)
	ds, err := l.fetcher.Fetch(ctx)
	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			err = &LoadError{Stage: StageFetch, Err: err}
		}
		log.Printf("dataset: %s: %v", l.fetcher.Describe(), err)
	} else {
		log.Printf("dataset: %s: %d rows", l.fetcher.Describe(), ds.Len())
	}

	l.mu.Lock()
	l.data, l.err = ds, err
	l.mu.Unlock()
}

// Wait blocks until loading finishes or ctx is done, returning the load
// error if any.
func (l *Loader) Wait(ctx context.Context) error {
	select {
	case <-l.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Done is closed once loading finishes.
func (l *Loader) Done() <-chan struct{} { return l.done }

// Dataset returns the loaded dataset, ErrNotReady while loading, or the
// load error.
func (l *Loader) Dataset() (*model.Dataset, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	select {
	case <-l.done:
	default:
		return nil, ErrNotReady
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.data, nil
}

// Status is the human-readable loading state.
func (l *Loader) Status() string {
	ds, err := l.Dataset()
	switch {
	case errors.Is(err, ErrNotReady):
		return "Loading data..."
	case err != nil:
		return err.Error()
	}
	return fmt.Sprintf("Data loaded successfully! %d matches found.", ds.Len())
}
