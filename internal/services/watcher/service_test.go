package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T, paths ...string) *Service {
	t.Helper()

	svc, err := New(20*time.Millisecond, paths...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})

	return svc
}

func waitForEvent(t *testing.T, svc *Service) Event {
	t.Helper()

	select {
	case event := <-svc.Events():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for watcher event")
		return Event{}
	}
}

func TestWatch_FileWrite(t *testing.T) {
	tmpDir := t.TempDir()
	svc := newTestService(t, tmpDir)

	path := filepath.Join(tmpDir, "access.log")
	if err := os.WriteFile(path, []byte("line\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	event := waitForEvent(t, svc)
	if event.Type != EventChanged {
		t.Errorf("event type = %v, want EventChanged", event.Type)
	}

	if filepath.Base(event.Path) != "access.log" {
		t.Errorf("event path = %q, want access.log", event.Path)
	}
}

func TestWatch_FilePathWatchesParent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "access.log")
	if err := os.WriteFile(path, []byte("one\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	svc := newTestService(t, path)

	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	event := waitForEvent(t, svc)
	if event.Type != EventChanged {
		t.Errorf("event type = %v, want EventChanged", event.Type)
	}
}

func TestWatch_Debounce(t *testing.T) {
	tmpDir := t.TempDir()
	svc := newTestService(t, tmpDir)

	path := filepath.Join(tmpDir, "access.log")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("burst\n"), 0o644); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	waitForEvent(t, svc)

	// The burst should have collapsed into a single event.
	time.Sleep(50 * time.Millisecond)
	select {
	case event := <-svc.Events():
		if event.Type == EventChanged {
			t.Log("second change event after burst, debounce window may have split")
		}
	default:
	}
}

func TestWatch_IgnoresDotFiles(t *testing.T) {
	tmpDir := t.TempDir()
	svc := newTestService(t, tmpDir)

	hidden := filepath.Join(tmpDir, ".swapfile")
	if err := os.WriteFile(hidden, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	select {
	case event := <-svc.Events():
		t.Errorf("unexpected event %+v for dot-file write", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatch_DuplicateDirs(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.log")
	b := filepath.Join(tmpDir, "b.log")

	// Both files resolve to the same parent directory.
	svc := newTestService(t, a, b, tmpDir)

	if err := os.WriteFile(a, []byte("line\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	event := waitForEvent(t, svc)
	if event.Type != EventChanged {
		t.Errorf("event type = %v, want EventChanged", event.Type)
	}
}

func TestClose(t *testing.T) {
	svc, err := New(20*time.Millisecond, t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := svc.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}
