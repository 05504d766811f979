package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phobologic/asmsift/internal/lang"
)

func writeTestFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sourceC = `#include <stdio.h>
int main(void) {
    puts("hi");
    return 0;
}
`

// sampleListing is gcc-style output for sourceC with the .file path
// substituted.
func sampleListing(path string) string {
	return "\t.text\n" +
		"\t.file 1 \"" + path + "\"\n" +
		"\t.globl\tmain\n" +
		"\t.type\tmain, @function\n" +
		"main:\n" +
		"\t.loc 1 3 5\n" +
		"\tleaq\tmsg(%rip), %rdi\n" +
		"\tcall\tputs@PLT\n" +
		"\t.loc 1 4 1\n" +
		"\tret\n" +
		"\t.section\t.rodata\n" +
		"msg:\n" +
		"\t.string\t\"hi\"\n" +
		"\t.section\t.rodata\n" +
		"unused:\n" +
		"\t.string\t\"no\"\n"
}

func runWith(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunStdin(t *testing.T) {
	t.Parallel()

	out, stderr, err := runWith(t, sampleListing("t.c"))
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr)
	}

	want := "main:\n" +
		"\tleaq\tmsg(%rip), %rdi\n" +
		"\tcall\tputs@PLT\n" +
		"\tret\n" +
		"msg:\n" +
		"\t.string\t\"hi\"\n"
	if out != want {
		t.Errorf("output:\n got  %q\n want %q", out, want)
	}
}

func TestRunDashIsStdin(t *testing.T) {
	t.Parallel()

	out, _, err := runWith(t, "\tret\n", "-")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "\tret\n" {
		t.Errorf("output: %q", out)
	}
}

func TestRunLocations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTestFile(t, dir, "t.s", sampleListing("t.c"))

	out, stderr, err := runWith(t, "", "-l", path)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr)
	}

	want := "main:\n" +
		"t.c:3:5: \tleaq\tmsg(%rip), %rdi\n" +
		"t.c:3:5: \tcall\tputs@PLT\n" +
		"t.c:4:1: \tret\n" +
		"msg:\n" +
		"\t.string\t\"hi\"\n"
	if out != want {
		t.Errorf("output:\n got  %q\n want %q", out, want)
	}
}

func TestRunFunctions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeTestFile(t, dir, "t.c", sourceC)

	out, stderr, err := runWith(t, sampleListing(src), "-fn")
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr)
	}

	wantLine := fmt.Sprintf("%s:3:5: main: \tleaq\tmsg(%%rip), %%rdi\n", src)
	if !strings.Contains(out, wantLine) {
		t.Errorf("missing %q in:\n%s", wantLine, out)
	}
	if !strings.Contains(out, src+":4:1: main: \tret\n") {
		t.Errorf("ret not annotated:\n%s", out)
	}
}

func TestRunFunctionsMissingSource(t *testing.T) {
	t.Parallel()

	out, _, err := runWith(t, sampleListing("does/not/exist.c"), "-fn")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "does/not/exist.c:4:1: \tret\n") {
		t.Errorf("expected plain location prefix:\n%s", out)
	}
}

func TestRunQuietStats(t *testing.T) {
	t.Parallel()

	out, stderr, err := runWith(t, sampleListing("t.c"), "-qs")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "" {
		t.Errorf("-q should hide output, got %q", out)
	}
	for _, want := range []string{
		"Stats:",
		"  - Instructions                  3 (",
		"  Unreached labels                1\n",
		"Pass 3",
		"\nTook ",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stats missing %q:\n%s", want, stderr)
		}
	}
}

func TestRunToon(t *testing.T) {
	t.Parallel()

	out, _, err := runWith(t, sampleListing("t.c"), "-format", "toon")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{
		"listing: <stdin>\n",
		"lines[6]{line,text}:",
		"location_map[3]{line,location}:",
		"locations[2]{file,line,col}:",
		"files[1]{index,path}:\n  1,t.c",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("toon output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "refs[") {
		t.Error("refs table emitted without -refs")
	}
}

func TestRunToonRefs(t *testing.T) {
	t.Parallel()

	out, _, err := runWith(t, sampleListing("t.c"), "-format", "toon", "-refs")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "refs[1]{source,label,target}:\n  2,msg,5") {
		t.Errorf("missing refs table:\n%s", out)
	}
}

func TestRunDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "b.s", "\tret\n")
	writeTestFile(t, dir, "a/x.S", "\tnop\n")
	writeTestFile(t, dir, "notes.txt", "hello\n")

	out, stderr, err := runWith(t, "", "-j", "2", dir)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr)
	}

	want := "==> " + filepath.Join("a", "x.S") + " <==\n\tnop\n" +
		"==> b.s <==\n\tret\n"
	if out != want {
		t.Errorf("output:\n got  %q\n want %q", out, want)
	}
}

func TestRunNoFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "readme.txt", "nothing here")

	_, _, err := runWith(t, "", dir)
	if err == nil {
		t.Fatal("expected error for no assembly files")
	}
	if !strings.Contains(err.Error(), "no assembly files") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunEmptyInput(t *testing.T) {
	t.Parallel()

	out, _, err := runWith(t, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "" {
		t.Errorf("output: %q", out)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	out, _, err := runWith(t, "", "-V")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "asmsift") {
		t.Errorf("version output: %q", out)
	}
}

func TestRunInvalidArguments(t *testing.T) {
	t.Parallel()

	if _, _, err := runWith(t, "", "-x"); err == nil {
		t.Error("expected error for unknown flag")
	}

	_, stderr, err := runWith(t, "", "a.s", "b.s")
	if err == nil || !strings.Contains(err.Error(), "invalid argument: b.s") {
		t.Errorf("second positional: err = %v", err)
	}
	if !strings.Contains(stderr, "usage: asmsift") {
		t.Errorf("usage not printed: %q", stderr)
	}

	if _, _, err := runWith(t, "", "-format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := runWith(t, "", filepath.Join(t.TempDir(), "nope.s"))
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestProcessFatal(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)
	resolver := lang.NewResolver("", logger)
	defer resolver.Close()

	r := process(context.Background(), []byte("\tnop\n\tnop\n"), "t.s",
		options{format: "text", maxLines: 1}, logger, resolver)
	if !errors.Is(r.err, errReported) {
		t.Fatalf("err = %v, want errReported", r.err)
	}
	got := string(r.errOut)
	if !strings.HasPrefix(got, "Fatal error: line limit exceeded\n  in tables.go:") {
		t.Errorf("fatal report: %q", got)
	}
	if len(r.out) != 0 {
		t.Errorf("output after fatal: %q", r.out)
	}
}

func TestExpandShortFlags(t *testing.T) {
	t.Parallel()

	got := strings.Join(expandShortFlags([]string{"-lqs", "-fn", "-j", "4", "-", "--format"}), " ")
	want := "-l -q -s -fn -j 4 - --format"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReorderArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"flags first", []string{"-j", "5", "x.s"}, []string{"-j", "5", "--", "x.s"}},
		{"positional first", []string{"x.s", "-j", "5"}, []string{"-j", "5", "--", "x.s"}},
		{"mixed", []string{"-format", "toon", "x.s", "-l"}, []string{"-format", "toon", "-l", "--", "x.s"}},
		{"stdin dash", []string{"-", "-s"}, []string{"-s", "--", "-"}},
		{"no flags", []string{"x.s"}, []string{"--", "x.s"}},
		{"no args", nil, nil},
		{"bool flag", []string{"-V"}, []string{"-V"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := reorderArgs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("len: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: got %q, want %q (full: %v)", i, got[i], tt.want[i], got)
					break
				}
			}
		})
	}
}
