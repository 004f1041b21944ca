package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"gopkg.in/yaml.v3"
)

func setupConfig(t *testing.T) (string, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	body := fmt.Sprintf("redis:\n  cluster: [%s]\n  port: %s\n  db: 4\n", mr.Host(), mr.Port())
	path := filepath.Join(t.TempDir(), "canary.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, mr
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInsertAndRead(t *testing.T) {
	cfg, _ := setupConfig(t)

	for i := 1; i <= 2; i++ {
		out, err := run(t, "--config", cfg, "insert", "--path", "/a", "--count", fmt.Sprint(i), "--details", `{"n":1}`)
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if !strings.Contains(out, "inserted") {
			t.Errorf("insert output = %q", out)
		}
	}

	out, err := run(t, "--config", cfg, "read", "--decode")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var views []snapshotView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("read output is not JSON: %v\n%s", err, out)
	}
	if len(views) != 2 || views[0].JobCount != 1 || views[1].JobCount != 2 {
		t.Fatalf("views = %+v", views)
	}

	// Nothing new since the last read.
	out, err = run(t, "--config", cfg, "read")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	var entries []string
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("second read output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 0 {
		t.Errorf("second read returned %d entries", len(entries))
	}
}

func TestReadYAML(t *testing.T) {
	cfg, _ := setupConfig(t)

	if _, err := run(t, "--config", cfg, "insert", "--path", "/jobs", "--count", "1", "--details", `["a"]`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	out, err := run(t, "--config", cfg, "read", "--decode", "-o", "yaml")
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var views []map[string]any
	if err := yaml.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("read output is not YAML: %v\n%s", err, out)
	}
	if len(views) != 1 || views[0]["path"] != "/jobs" {
		t.Fatalf("views = %v", views)
	}
}

func TestInsert_InvalidDetails(t *testing.T) {
	cfg, mr := setupConfig(t)

	if _, err := run(t, "--config", cfg, "insert", "--path", "/a", "--details", "{"); err == nil {
		t.Fatal("expected error for invalid details JSON")
	}
	mr.Select(4)
	if mr.Exists("canary:info") {
		t.Error("invalid insert wrote to the log")
	}
}

func TestInsert_RequiresPath(t *testing.T) {
	cfg, _ := setupConfig(t)
	if _, err := run(t, "--config", cfg, "insert"); err == nil {
		t.Fatal("expected error without --path")
	}
}

func TestRead_UnknownFormat(t *testing.T) {
	cfg, _ := setupConfig(t)
	if _, err := run(t, "--config", cfg, "read", "-o", "xml"); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestDrain_InvalidSchedule(t *testing.T) {
	cfg, _ := setupConfig(t)
	if _, err := run(t, "--config", cfg, "drain", "--schedule", "bogus"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
