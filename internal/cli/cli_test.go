package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/tree"
)

// execute runs the root command with args and returns what it wrote to
// stdout. Config and cache directories point into a temp dir.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	for _, env := range []string{"BINTREE_ADDR", "BINTREE_CACHE_BACKEND", "BINTREE_CACHE_DIR", "BINTREE_REDIS_ADDR", "BINTREE_MONGO_URI"} {
		t.Setenv(env, "")
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "", "parse", "1", "2", "3", "N", "4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	l, err := graph.UnmarshalLayout([]byte(out))
	if err != nil {
		t.Fatalf("stdout is not a layout: %v\n%s", err, out)
	}
	if l.NodeCount != 4 || l.TreeHeight != 3 {
		t.Errorf("nodes=%d height=%d, want 4 and 3", l.NodeCount, l.TreeHeight)
	}
	if l.Width != 560 || l.Height != 560 {
		t.Errorf("size = %vx%v, want 560x560", l.Width, l.Height)
	}
	if l.Input != "1 2 3 N 4" {
		t.Errorf("Input = %q", l.Input)
	}
}

func TestParseCommandStdin(t *testing.T) {
	out, err := execute(t, "5 3 8\n", "parse")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	l, err := graph.UnmarshalLayout([]byte(out))
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if l.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", l.NodeCount)
	}
}

func TestParseCommandEmpty(t *testing.T) {
	out, err := execute(t, "", "parse", "N", "1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	l, err := graph.UnmarshalLayout([]byte(out))
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if !l.IsEmpty() || l.Width != 0 || l.Height != 0 {
		t.Errorf("layout = %+v, want empty", l)
	}
}

func TestParseCommandOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	out, err := execute(t, "", "parse", "1", "2", "--padding", "0", "-o", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing when -o is set", out)
	}
	l, err := graph.ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if l.Padding != 0 {
		t.Errorf("Padding = %v, want 0", l.Padding)
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid token", []string{"parse", "1", "x"}, tree.MessageInvalidToken},
		{"out of range", []string{"parse", "2147483648"}, tree.MessageOutOfRange},
		{"too deep", []string{"parse", "1", "2", "N", "3", "--max-height", "2"}, tree.TitleTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRenderCommandText(t *testing.T) {
	out, err := execute(t, "", "render", "1", "2", "3", "N", "4", "-f", "txt")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "    1\n  /   \\\n2       3\n \\\n  4\n"
	if out != want {
		t.Errorf("render txt =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderCommandSVG(t *testing.T) {
	out, err := execute(t, "", "render", "7", "--style", "light", "--title", "seven")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<svg", `class="tree light"`, "<title>seven</title>", ">7</text>"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderCommandMultipleFormats(t *testing.T) {
	base := filepath.Join(t.TempDir(), "tree")
	out, err := execute(t, "", "render", "1", "2", "3", "-f", "json,dot,txt", "-o", base+".svg")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "digraph") || strings.Contains(out, "graph T") {
		t.Error("artifacts leaked to stdout")
	}

	for _, ext := range []string{"json", "dot", "txt"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Errorf("%s: %v", ext, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", ext)
		}
	}
	dot, _ := os.ReadFile(base + ".dot")
	if !strings.Contains(string(dot), "n0 -- n1") {
		t.Errorf("DOT missing root edge:\n%s", dot)
	}
}

func TestRenderCommandLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if _, err := execute(t, "", "parse", "1", "2", "3", "-o", path); err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := execute(t, "", "render", "--layout", path, "-f", "txt")
	if err != nil {
		t.Fatalf("render --layout: %v", err)
	}
	if want := "  1\n / \\\n2   3\n"; out != want {
		t.Errorf("render --layout =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid input", []string{"render", "1", "two"}, tree.MessageInvalidToken},
		{"invalid format", []string{"render", "1", "-f", "gif"}, "gif"},
		{"invalid style", []string{"render", "1", "--style", "neon"}, "neon"},
		{"invalid engine", []string{"render", "1", "--engine", "cairo"}, "cairo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bintree.toml")
	cfg := "[layout]\nhorizontal_spacing = 10.0\nvertical_spacing = 10.0\npadding = 0.0\n"
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "--config", path, "parse", "1", "2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	l, err := graph.UnmarshalLayout([]byte(out))
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	root := l.Root()
	if root == nil || root.X != 5 || root.Y != 0 {
		t.Errorf("root = %+v, want (5, 0)", root)
	}

	if _, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.toml"), "parse", "1"); err == nil {
		t.Error("a missing explicit config file must fail")
	}
}

func TestCacheCommands(t *testing.T) {
	home := t.TempDir()
	cacheHome := filepath.Join(home, "cache")

	run := func(args ...string) string {
		t.Helper()
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
		t.Setenv("XDG_CACHE_HOME", cacheHome)
		t.Setenv("BINTREE_CACHE_BACKEND", "")
		t.Setenv("BINTREE_CACHE_DIR", "")
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got, want := strings.TrimSpace(run("cache", "path")), filepath.Join(cacheHome, appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	run("parse", "1", "2", "3")
	entries, _ := os.ReadDir(filepath.Join(cacheHome, appName))
	if len(entries) == 0 {
		t.Fatal("parse left no cache entries")
	}

	run("cache", "clear")
	entries, _ = os.ReadDir(filepath.Join(cacheHome, appName))
	if len(entries) != 0 {
		t.Errorf("%d entries survived cache clear", len(entries))
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, userError(tree.Parse("1 x", tree.DefaultConfig()).Err()))
	if !strings.Contains(buf.String(), tree.MessageInvalidToken) {
		t.Errorf("PrintError wrote %q", buf.String())
	}
}
