package main

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func runAddUser(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_CreatesUserWithDefaults(t *testing.T) {
	t.Setenv("EXPENSO_JWT_SECRET", "cli-secret")
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	cfgDir := t.TempDir()

	code, out, errOut := runAddUser(t, "hunter22\n",
		"-config", cfgDir, "-db", dbPath, "-name", "Alice", "-email", " Alice@Example.com ")
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errOut)
	}
	if !strings.Contains(out, "<alice@example.com>") {
		t.Fatalf("unexpected output %q", out)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM categories c JOIN users u ON u.id = c.user_id WHERE u.email = ?`, "alice@example.com").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 default categories, got %d", n)
	}

	code, _, errOut = runAddUser(t, "", "-config", cfgDir, "-db", dbPath,
		"-name", "Alice", "-email", "alice@example.com", "-password", "other")
	if code != 1 || !strings.Contains(errOut, "already registered") {
		t.Fatalf("duplicate: exit %d stderr=%q", code, errOut)
	}
}

func TestRun_MissingFlags(t *testing.T) {
	code, _, errOut := runAddUser(t, "", "-email", "a@b.c")
	if code != 2 || !strings.Contains(errOut, "required") {
		t.Fatalf("exit %d stderr=%q", code, errOut)
	}
}

func TestRun_MissingSecret(t *testing.T) {
	t.Setenv("EXPENSO_JWT_SECRET", "")
	code, _, errOut := runAddUser(t, "", "-config", t.TempDir(), "-name", "A", "-email", "a@b.c", "-password", "x")
	if code != 1 || !strings.Contains(errOut, "jwt.secret") {
		t.Fatalf("exit %d stderr=%q", code, errOut)
	}
}

func TestReadPassword_Pipe(t *testing.T) {
	pw, err := readPassword(strings.NewReader("s3cret\r\nignored\n"), &bytes.Buffer{})
	if err != nil || pw != "s3cret" {
		t.Fatalf("got %q, %v", pw, err)
	}
	pw, err = readPassword(strings.NewReader("noeol"), &bytes.Buffer{})
	if err != nil || pw != "noeol" {
		t.Fatalf("got %q, %v", pw, err)
	}
}
