package lang

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".c", "c"},
		{".h", "c"},
		{".cpp", "cpp"},
		{".go", "go"},
		{".rs", "rust"},
		{".py", ""},
		{".s", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"c", "cpp", "go", "rust"} {
		l, ok := Languages[name]
		if !ok {
			t.Fatalf("%s language not registered", name)
		}
		if l.GetLanguage() == nil {
			t.Errorf("%s language is nil", name)
		}
		if l.NewParser() == nil {
			t.Errorf("%s NewParser returned nil", name)
		}
	}
}

func enclosing(t *testing.T, l *Language, src string, line, col uint32) string {
	t.Helper()
	tree, err := l.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()
	return l.EnclosingFunction(tree, []byte(src), line, col)
}

const cSource = `int add(int a, int b) {
  return a + b;
}

static char *name(void) {
  return 0;
}
`

func TestEnclosingFunctionC(t *testing.T) {
	t.Parallel()

	l := Languages["c"]
	tests := []struct {
		line, col uint32
		want      string
	}{
		{2, 3, "add"},
		{2, 0, "add"},
		{4, 0, ""},
		{6, 3, "name"},
		{0, 0, ""},
	}
	for _, tt := range tests {
		if got := enclosing(t, l, cSource, tt.line, tt.col); got != tt.want {
			t.Errorf("line %d col %d: got %q, want %q", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestEnclosingFunctionCpp(t *testing.T) {
	t.Parallel()

	src := "int Counter::next() {\n  return ++n;\n}\n"
	if got := enclosing(t, Languages["cpp"], src, 2, 3); got != "Counter::next" {
		t.Errorf("got %q, want %q", got, "Counter::next")
	}
}

const goSource = `package p

type T struct{}

func (t *T) M() int {
	return 1
}

func F() {
	g := func() {}
	_ = g
}
`

func TestEnclosingFunctionGo(t *testing.T) {
	t.Parallel()

	l := Languages["go"]
	if got := enclosing(t, l, goSource, 6, 2); got != "T.M" {
		t.Errorf("method: got %q, want %q", got, "T.M")
	}
	// The closure is anonymous, so the declaring function is reported.
	if got := enclosing(t, l, goSource, 10, 10); got != "F" {
		t.Errorf("closure: got %q, want %q", got, "F")
	}
	if got := enclosing(t, l, goSource, 3, 1); got != "" {
		t.Errorf("type decl: got %q, want empty", got)
	}
}

const rustSource = `struct S;
impl S {
    fn get(&self) -> i32 {
        1
    }
}
fn main() {}
`

func TestEnclosingFunctionRust(t *testing.T) {
	t.Parallel()

	l := Languages["rust"]
	if got := enclosing(t, l, rustSource, 4, 9); got != "S::get" {
		t.Errorf("impl fn: got %q, want %q", got, "S::get")
	}
	if got := enclosing(t, l, rustSource, 7, 11); got != "main" {
		t.Errorf("free fn: got %q, want %q", got, "main")
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "add.c"), []byte(cSource), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, nil)
	defer r.Close()
	ctx := context.Background()

	if got := r.Function(ctx, "add.c", 2, 3); got != "add" {
		t.Errorf("relative path: got %q, want %q", got, "add")
	}
	if got := r.Function(ctx, filepath.Join(dir, "add.c"), 6, 1); got != "name" {
		t.Errorf("absolute path: got %q, want %q", got, "name")
	}
	if got := r.Function(ctx, "missing.c", 1, 1); got != "" {
		t.Errorf("missing file: got %q, want empty", got)
	}
	if got := r.Function(ctx, "add.py", 1, 1); got != "" {
		t.Errorf("unsupported file: got %q, want empty", got)
	}
	if len(r.files) != 4 {
		t.Errorf("cached %d files, want 4", len(r.files))
	}
}
