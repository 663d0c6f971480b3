package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/matzehuels/bintree/pkg/cache"
	"github.com/matzehuels/bintree/pkg/errors"
	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/observability"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner left nil fields: %+v", r)
	}
}

func TestRunnerParse(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Parse(ctx, Options{Input: "1 2 3 N 4"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Empty || res.Tree == nil {
		t.Fatalf("Parse returned no tree: %+v", res)
	}
	if res.Size.Width != 560 || res.Size.Height != 560 {
		t.Errorf("Size = %+v, want 560x560", res.Size)
	}
	if res.Stats.NodeCount != 4 || res.Stats.Height != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("first parse hit the cache")
	}
	if res.Layout.Input != "1 2 3 N 4" {
		t.Errorf("Layout.Input = %q", res.Layout.Input)
	}
	if res.Kind() != "tree" {
		t.Errorf("Kind = %q", res.Kind())
	}
}

func TestRunnerParseCache(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	first, err := r.Parse(ctx, Options{Input: "1 2 3 N 4"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Same canonical input, different spelling.
	second, err := r.Parse(ctx, Options{Input: "  1 2\t3 n 4 N N  "})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("equivalent input missed the cache")
	}
	if diff := cmp.Diff(first.Layout, second.Layout); diff != "" {
		t.Errorf("cached layout mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Tree, second.Tree); diff != "" {
		t.Errorf("cached tree mismatch (-first +second):\n%s", diff)
	}

	// Different layout constants use a different entry.
	third, err := r.Parse(ctx, Options{Input: "1 2 3 N 4", HorizontalSpacing: 100})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("different spacing hit the cache")
	}

	refreshed, err := r.Parse(ctx, Options{Input: "1 2 3 N 4", Refresh: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if refreshed.CacheInfo.LayoutHit {
		t.Error("refresh hit the cache")
	}
}

func TestRunnerParseCorruptCacheEntry(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	opts := Options{Input: "1 2"}
	opts.SetParseDefaults()
	key := r.Keyer.LayoutKey(cache.Hash([]byte("1 2")), opts.LayoutKeyOpts())
	if err := r.Cache.Set(ctx, key, []byte("not a layout"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	res, err := r.Parse(ctx, Options{Input: "1 2"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("corrupt entry counted as a hit")
	}
	if res.Stats.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2", res.Stats.NodeCount)
	}
}

func TestRunnerParseEmpty(t *testing.T) {
	r := newTestRunner(t)

	for _, input := range []string{"", "   ", "N", "n 1 2"} {
		res, err := r.Parse(context.Background(), Options{Input: input})
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if !res.Empty || res.Tree != nil {
			t.Errorf("Parse(%q) = %+v, want empty", input, res)
		}
		if res.Size.Width != 0 || res.Size.Height != 0 {
			t.Errorf("Parse(%q) size = %+v", input, res.Size)
		}
		if res.Kind() != "empty" {
			t.Errorf("Parse(%q) kind = %q", input, res.Kind())
		}
	}
}

func TestRunnerParseErrors(t *testing.T) {
	r := newTestRunner(t)

	tests := []struct {
		name       string
		opts       Options
		code       errors.Code
		validation bool
	}{
		{"invalid token", Options{Input: "1 x 3"}, errors.ErrCodeInvalidToken, true},
		{"out of range", Options{Input: "2147483648"}, errors.ErrCodeOutOfRange, true},
		{"too deep", Options{Input: "1 2 N 3", MaxHeight: 2}, errors.ErrCodeTreeTooDeep, false},
		{"too many tokens", Options{Input: "1 2 3", MaxTokens: 2}, errors.ErrCodeInputTooLarge, false},
		{"too many bytes", Options{Input: "1 2 3", MaxInputBytes: 3}, errors.ErrCodeInputTooLarge, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Parse(context.Background(), tt.opts)
			if res != nil {
				t.Errorf("Parse returned a result alongside an error: %+v", res)
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
			if errors.IsValidation(err) != tt.validation {
				t.Errorf("IsValidation = %v, want %v", errors.IsValidation(err), tt.validation)
			}
			if !errors.IsUserError(err) {
				t.Error("parse failure is not a user error")
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Input: "1 2 3", Formats: []string{"json", "dot", "txt", "svg"}, Style: "light"}

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Artifacts) != 4 {
		t.Fatalf("artifacts = %d, want 4", len(res.Artifacts))
	}
	if res.CacheInfo.RenderHit {
		t.Error("first render hit the cache")
	}

	if got := string(res.Artifacts["txt"]); got != "  1\n / \\\n2   3\n" {
		t.Errorf("txt artifact = %q", got)
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "graph T {") {
		t.Errorf("dot artifact = %q", res.Artifacts["dot"])
	}
	if !strings.Contains(string(res.Artifacts["svg"]), `class="tree light"`) {
		t.Error("svg artifact ignores style")
	}
	l, err := graph.UnmarshalLayout(res.Artifacts["json"])
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if l.Style != "light" || l.NodeCount != 3 {
		t.Errorf("json artifact = %+v", l)
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want both hits", again.CacheInfo)
	}
	if diff := cmp.Diff(res.Artifacts, again.Artifacts); diff != "" {
		t.Errorf("cached artifacts mismatch (-first +second):\n%s", diff)
	}
}

func TestRunnerExecuteEmpty(t *testing.T) {
	r := newTestRunner(t)

	res, err := r.Execute(context.Background(), Options{Input: "N", Formats: []string{"svg", "txt"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Empty {
		t.Error("Execute(N) not empty")
	}
	if !strings.Contains(string(res.Artifacts["svg"]), `width="0" height="0"`) {
		t.Error("empty svg has a canvas")
	}
	if len(res.Artifacts["txt"]) != 0 {
		t.Errorf("empty txt = %q", res.Artifacts["txt"])
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Execute(context.Background(), Options{Input: "1", Formats: []string{"bmp"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), Options{Input: "4 2", Formats: []string{"json"}, Style: "light"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	out, err := RenderFromLayoutData(res.Artifacts["json"], Options{Formats: []string{"svg"}})
	if err != nil {
		t.Fatalf("RenderFromLayoutData: %v", err)
	}
	if !strings.Contains(string(out["svg"]), `class="tree light"`) {
		t.Error("saved style not applied")
	}

	if _, err := RenderFromLayoutData([]byte("{"), Options{}); err == nil {
		t.Error("RenderFromLayoutData accepted invalid JSON")
	}
}

func TestRunnerArtifacts(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	id := uuid.NewString()

	if err := r.StoreArtifact(ctx, id, []byte("<svg/>")); err != nil {
		t.Fatalf("StoreArtifact: %v", err)
	}
	data, err := r.LoadArtifact(ctx, id)
	if err != nil {
		t.Fatalf("LoadArtifact: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("LoadArtifact = %q", data)
	}

	if _, err := r.LoadArtifact(ctx, uuid.NewString()); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing artifact err = %v, want NOT_FOUND", err)
	}
	if err := r.StoreArtifact(ctx, "../../etc/passwd", nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad id err = %v, want INVALID_INPUT", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	kinds   []string
	renders int
}

func (h *recordingHooks) OnParseComplete(_ context.Context, kind string, _, _ int, _ time.Duration, _ error) {
	h.kinds = append(h.kinds, kind)
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders++
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := newTestRunner(t)
	ctx := context.Background()

	_, _ = r.Execute(ctx, Options{Input: "1 2"})
	_, _ = r.Parse(ctx, Options{Input: ""})
	_, _ = r.Parse(ctx, Options{Input: "1 -"})

	if diff := cmp.Diff([]string{"tree", "empty", "invalid"}, hooks.kinds); diff != "" {
		t.Errorf("parse kinds mismatch (-want +got):\n%s", diff)
	}
	if hooks.renders != 1 {
		t.Errorf("renders = %d, want 1", hooks.renders)
	}
}
