package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
}

func startServer(t *testing.T, s *Server) (string, context.CancelFunc, <-chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	return "http://" + ln.Addr().String(), cancel, done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
		return nil
	}
}

func TestServer_ServesAndStopsOnCancel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "API is running")
	})
	s := New(handler, Options{ShutdownTimeout: time.Second}, testLogger())

	url, cancel, done := startServer(t, s)

	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "API is running" {
		t.Errorf("body = %q", body)
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Errorf("Serve returned %v", err)
	}
}

func TestServer_ShutdownOrderIsLIFO(t *testing.T) {
	s := New(http.NotFoundHandler(), Options{ShutdownTimeout: time.Second}, testLogger())

	var order []string
	for _, name := range []string{"store", "tracer", "metrics"} {
		s.OnShutdown(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	_, cancel, done := startServer(t, s)
	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Serve returned %v", err)
	}

	want := []string{"metrics", "tracer", "store"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestServer_ShutdownErrorsAreJoined(t *testing.T) {
	s := New(http.NotFoundHandler(), Options{ShutdownTimeout: time.Second}, testLogger())

	errClose := errors.New("close failed")
	ran := false
	s.OnShutdown("store", func(ctx context.Context) error {
		ran = true
		return nil
	})
	s.OnShutdown("tracer", func(ctx context.Context) error { return errClose })

	_, cancel, done := startServer(t, s)
	cancel()

	err := waitDone(t, done)
	if !errors.Is(err, errClose) {
		t.Errorf("err = %v, want %v", err, errClose)
	}
	if !ran {
		t.Error("a failing component must not stop later ones")
	}
}

func TestServer_Addr(t *testing.T) {
	s := New(http.NotFoundHandler(), Options{Port: 5000}, nil)
	if got := s.Addr(); got != ":5000" {
		t.Errorf("Addr = %q, want :5000", got)
	}
}
