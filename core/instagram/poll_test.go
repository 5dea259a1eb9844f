package instagram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/loictrobas/discogs-tool/model"
)

// statusServer serves /{creationID} with a scripted status sequence,
// sticking to the last one once exhausted.
func statusServer(statuses ...string) (*httptest.Server, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		fmt.Fprintf(w, `{"status_code": %q}`, statuses[n])
	}))
	return srv, &calls
}

func pollCfg() PollConfig {
	return PollConfig{Interval: 5 * time.Millisecond, Timeout: time.Second}
}

func TestWaitReadyFinishesAfterProgress(t *testing.T) {
	srv, calls := statusServer("IN_PROGRESS", "IN_PROGRESS", "FINISHED")
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	status, err := c.WaitReady(context.Background(), "123", pollCfg())
	if err != nil {
		t.Fatal(err)
	}
	if status != model.StatusFinished {
		t.Errorf("status = %s", status)
	}
	if got := atomic.LoadInt32(calls); got != 3 {
		t.Errorf("polled %d times, want 3", got)
	}
}

func TestWaitReadyPublishedCountsAsReady(t *testing.T) {
	srv, _ := statusServer("PUBLISHED")
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	status, err := c.WaitReady(context.Background(), "123", pollCfg())
	if err != nil {
		t.Fatal(err)
	}
	if status != model.StatusPublished {
		t.Errorf("status = %s", status)
	}
}

func TestWaitReadyTerminalError(t *testing.T) {
	srv, _ := statusServer("IN_PROGRESS", "ERROR")
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	_, err := c.WaitReady(context.Background(), "123", pollCfg())

	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
	if procErr.Status != model.StatusError || procErr.CreationID != "123" {
		t.Errorf("ProcessingError = %+v", procErr)
	}
	if errors.Is(err, ErrWaitTimeout) {
		t.Error("terminal failure must not look like a timeout")
	}
}

func TestWaitReadyExpired(t *testing.T) {
	srv, _ := statusServer("EXPIRED")
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	_, err := c.WaitReady(context.Background(), "123", pollCfg())
	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
}

func TestWaitReadyTimeout(t *testing.T) {
	srv, _ := statusServer("IN_PROGRESS")
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	cfg := PollConfig{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}
	last, err := c.WaitReady(context.Background(), "123", cfg)

	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("expected ErrWaitTimeout, got %v", err)
	}
	var procErr *ProcessingError
	if errors.As(err, &procErr) {
		t.Error("timeout must not look like a terminal failure")
	}
	if last != model.StatusInProgress {
		t.Errorf("last status = %s", last)
	}
}

func TestWaitReadyQueryErrorsDoNotAbort(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "transient", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"status_code": "FINISHED"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	status, err := c.WaitReady(context.Background(), "123", pollCfg())
	if err != nil {
		t.Fatal(err)
	}
	if status != model.StatusFinished {
		t.Errorf("status = %s", status)
	}
}

func TestWaitReadyContextCancel(t *testing.T) {
	srv, _ := statusServer("IN_PROGRESS")
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(15 * time.Millisecond)
		cancel()
	}()

	c := NewClient(srv.URL, "user", "tok")
	_, err := c.WaitReady(ctx, "123", PollConfig{Interval: 5 * time.Millisecond, Timeout: time.Minute})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
