package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestRunServe_StopsOnSignal(t *testing.T) {
	vaultDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(vaultDir, "A.md"), []byte("# A\nhello"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	cfg.Vault.Path = vaultDir
	cfg.Output.Path = filepath.Join(t.TempDir(), "public")
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "index.db")
	cfg.App.HTTP.Port = 38712
	cfg.Pages = []string{"A.md"}

	done := make(chan error, 1)
	go func() {
		done <- RunServe(context.Background(), WithConfig(cfg))
	}()

	waitForServer(t, cfg.App.HTTP.Port)

	// A termination signal must stop the watcher and the HTTP server; the
	// run must not outlive the shutdown.
	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after signal")
	}
}

func waitForServer(t *testing.T, port int) {
	t.Helper()
	url := fmt.Sprintf("http://127.0.0.1:%d/health/live", port)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("server never became ready")
}
