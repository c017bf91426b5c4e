package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// GoldenUpdateEnv rewrites golden files instead of comparing when set.
const GoldenUpdateEnv = "GOLDEN_UPDATE"

// Golden compares got against testdata/<name>.golden and reports the first
// differing line.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(GoldenUpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("update golden file %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file %s: %v (rerun with %s=1 to create it)\ngot:\n%s", path, err, GoldenUpdateEnv, got)
	}

	// Checkouts on Windows may rewrite line endings.
	wantText := strings.ReplaceAll(string(want), "\r\n", "\n")
	if string(got) == wantText {
		return
	}

	gotLines := strings.Split(string(got), "\n")
	wantLines := strings.Split(wantText, "\n")
	for i := 0; i < max(len(gotLines), len(wantLines)); i++ {
		var g, w string
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if g != w {
			t.Errorf("%s: line %d differs\nwant: %q\ngot:  %q\nfull output:\n%s", path, i+1, w, g, got)
			return
		}
	}
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}
