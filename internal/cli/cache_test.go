package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/scannable/pkg/cache"
)

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		config string
		want   string
	}{
		{"file", "[cache]\ndir = \"" + dir + "\"\n", dir},
		{"redis", "[cache]\nbackend = \"redis\"\nredis_addr = \"cache:6379\"\nredis_db = 2\n", "redis://cache:6379/2"},
		{"none", "[cache]\nbackend = \"none\"\n", "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, New(io.Discard, LogInfo), "cache", "path", "--config", writeConfig(t, tt.config))
			if err != nil {
				t.Fatalf("cache path: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b"} {
		if err := fc.Set(ctx, key, []byte("data"), cache.TTLArtifact); err != nil {
			t.Fatal(err)
		}
	}

	cfg := writeConfig(t, "[cache]\ndir = \""+dir+"\"\n")
	out, err := runCommand(t, New(io.Discard, LogInfo), "cache", "clear", "--config", cfg)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 2") {
		t.Errorf("output = %q, want a count of 2", out)
	}
	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived cache clear")
	}

	out, err = runCommand(t, New(io.Discard, LogInfo), "cache", "clear", "--config", cfg)
	if err != nil {
		t.Fatalf("second cache clear: %v", err)
	}
	if !strings.Contains(out, "empty") {
		t.Errorf("output = %q, want empty notice", out)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")
	out, err := runCommand(t, New(io.Discard, LogInfo), "cache", "clear", "--config", cfg)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("output = %q, want disabled notice", out)
	}
}

func TestCacheClearRedisUnreachable(t *testing.T) {
	cfg := writeConfig(t, "[cache]\nbackend = \"redis\"\nredis_addr = \"127.0.0.1:1\"\n")
	if _, err := runCommand(t, New(io.Discard, LogInfo), "cache", "clear", "--config", cfg); err == nil {
		t.Error("cache clear against an unreachable redis should fail")
	}
}

func TestCachePingFile(t *testing.T) {
	cfg := writeConfig(t, "[cache]\ndir = \""+t.TempDir()+"\"\n")
	out, err := runCommand(t, New(io.Discard, LogInfo), "cache", "ping", "--config", cfg)
	if err != nil {
		t.Fatalf("cache ping: %v", err)
	}
	if !strings.Contains(out, "reachable") {
		t.Errorf("output = %q", out)
	}
}

// forgetfulCache accepts writes but never returns them.
type forgetfulCache struct{ cache.Cache }

func (forgetfulCache) Get(context.Context, string) ([]byte, bool, error) {
	return []byte("stale"), true, nil
}

func TestProbe(t *testing.T) {
	ctx := context.Background()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := probe(ctx, fc); err != nil {
		t.Errorf("probe(file) = %v, want nil", err)
	}
	if _, hit, _ := fc.Get(ctx, probeKey); hit {
		t.Error("probe should delete its entry")
	}

	if err := probe(ctx, cache.NewNullCache()); err == nil {
		t.Error("probe(null) should fail: nothing is read back")
	}
	if err := probe(ctx, forgetfulCache{cache.NewNullCache()}); err == nil {
		t.Error("probe should fail when the stored bytes differ")
	}
}

func TestCachePingDisabled(t *testing.T) {
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")
	out, err := runCommand(t, New(io.Discard, LogInfo), "cache", "ping", "--config", cfg)
	if err != nil {
		t.Fatalf("cache ping: %v", err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("output = %q, want disabled notice", out)
	}
}
