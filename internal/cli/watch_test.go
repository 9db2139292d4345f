package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

func TestIsLyricsChange(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: "/tmp/x/lyrics.txt", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/tmp/x/lyrics.txt", Op: fsnotify.Create}, true},
		{"write and chmod", fsnotify.Event{Name: "/tmp/x/lyrics.txt", Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: "/tmp/x/lyrics.txt", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/tmp/x/lyrics.txt", Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: "/tmp/x/notes.txt", Op: fsnotify.Write}, false},
		{"editor swap file", fsnotify.Event{Name: "/tmp/x/.lyrics.txt.swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isLyricsChange(tt.ev, "lyrics.txt"); got != tt.want {
				t.Errorf("isLyricsChange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatchFileRunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lyrics.txt")
	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, log.New(io.Discard), func() {
			select {
			case called <- struct{}{}:
			default:
			}
		})
	}()

	// The watcher may not be registered yet, so keep writing until the
	// callback fires.
	deadline := time.After(5 * time.Second)
	for fired := false; !fired; {
		if err := os.WriteFile(path, []byte("changed"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-called:
			fired = true
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("watch callback never ran")
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("watchFile() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}

func TestWatchFileIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lyrics.txt")
	if err := os.WriteFile(path, []byte("lyrics"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	called := make(chan struct{}, 1)
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	}()

	err := watchFile(ctx, path, 20*time.Millisecond, log.New(io.Discard), func() {
		called <- struct{}{}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("watchFile() error = %v, want deadline exceeded", err)
	}
	select {
	case <-called:
		t.Error("callback ran for a sibling file")
	default:
	}
}

func TestWatchFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "lyrics.txt")
	err := watchFile(context.Background(), path, time.Millisecond, log.New(io.Discard), func() {})
	if err == nil {
		t.Error("watchFile() should fail when the directory does not exist")
	}
}
