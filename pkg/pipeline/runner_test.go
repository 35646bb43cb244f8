package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scannable/pkg/cache"
	"github.com/matzehuels/scannable/pkg/errors"
	"github.com/matzehuels/scannable/pkg/frame"
)

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
	failSet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, stderrors.New("get failed")
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return stderrors.New("set failed")
	}
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

type countingProvider struct {
	mu    sync.Mutex
	calls int
	f     frame.Frame
}

func (p *countingProvider) Frame(frame.Options) (frame.Frame, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return frame.Static(p.f).Frame(frame.Options{})
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestRunnerExecute(t *testing.T) {
	p := &countingProvider{f: frame.FromInts(2, 1, 0, 0, 1)}
	c := newMemCache()
	r := NewRunner(c, nil, p, quietLogger())
	ctx := context.Background()

	opts := Options{Value: "x", Formats: []string{"svg", "txt", "png"}}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := string(res.Artifacts["txt"]); got != "▀▄" {
		t.Errorf("txt = %q, want %q", got, "▀▄")
	}
	if !strings.HasPrefix(string(res.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact missing")
	}
	if !strings.HasPrefix(string(res.Artifacts["png"]), "\x89PNG") {
		t.Error("png artifact missing")
	}
	if res.CacheInfo.RenderHit {
		t.Error("first run should not be a cache hit")
	}
	if p.calls != 3 {
		t.Errorf("provider calls = %d, want one per format", p.calls)
	}

	res, err = r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.RenderHit {
		t.Error("second run should come from the cache")
	}
	if p.calls != 3 {
		t.Errorf("provider should not be called on cache hits, calls = %d", p.calls)
	}
	if res.Stats.Bytes == 0 {
		t.Error("Stats.Bytes should count artifact sizes")
	}
}

func TestRunnerCacheFailuresAreNotFatal(t *testing.T) {
	p := &countingProvider{f: frame.FromInts(1, 1)}
	c := newMemCache()
	c.failGet, c.failSet = true, true
	r := NewRunner(c, nil, p, quietLogger())

	res, err := r.Execute(context.Background(), Options{Value: "x", Formats: []string{"txt"}})
	if err != nil {
		t.Fatalf("cache errors should not fail the render: %v", err)
	}
	if string(res.Artifacts["txt"]) != "▀" {
		t.Errorf("txt = %q", res.Artifacts["txt"])
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	_, err := r.Execute(context.Background(), Options{Value: "x", Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRunnerProviderError(t *testing.T) {
	sentinel := errors.New(errors.ErrCodeEncode, "too long")
	p := frame.ProviderFunc(func(frame.Options) (frame.Frame, error) {
		return frame.Frame{}, sentinel
	})
	r := NewRunner(nil, nil, p, quietLogger())
	_, err := r.Execute(context.Background(), Options{Value: "x"})
	if !errors.Is(err, errors.ErrCodeEncode) {
		t.Errorf("err = %v, want ENCODE_FAILED", err)
	}
	if !stderrors.Is(err, sentinel) {
		t.Error("provider error should stay in the chain")
	}
}

func TestRunnerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, frame.Static(frame.FromInts(1)), quietLogger())
	if _, err := r.Execute(ctx, Options{Value: "x"}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunnerDefaultProvider(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Value: "hello", Formats: []string{"txt"}})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(res.Artifacts["txt"]), "\n")
	// version 1 symbol plus the default margin: 29 modules, 15 lines
	if len(lines) != 15 {
		t.Errorf("lines = %d, want 15", len(lines))
	}
}
