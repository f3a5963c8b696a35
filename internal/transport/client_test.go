package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("direct client has no proxy", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.ProxyAddress() != "" {
			t.Errorf("ProxyAddress() = %q, want empty", c.ProxyAddress())
		}
		if got := c.HTTPClient().Timeout; got != 0 {
			t.Errorf("Timeout = %v, want 0", got)
		}
	})

	t.Run("timeout is applied", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient(WithTimeout(5 * time.Second))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.HTTPClient().Timeout; got != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", got)
		}
	})

	t.Run("valid proxy address", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient(WithProxy("127.0.0.1:9050"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.ProxyAddress() != "127.0.0.1:9050" {
			t.Errorf("ProxyAddress() = %q, want %q", c.ProxyAddress(), "127.0.0.1:9050")
		}
	})

	invalid := []string{"127.0.0.1", ":9050", "localhost:", "localhost:0", "localhost:65536", "localhost:abc"}
	for _, addr := range invalid {
		t.Run("invalid proxy "+addr, func(t *testing.T) {
			t.Parallel()

			_, err := NewClient(WithProxy(addr))
			if !errors.Is(err, ErrInvalidProxyAddress) {
				t.Errorf("NewClient(WithProxy(%q)) error = %v, want ErrInvalidProxyAddress", addr, err)
			}
		})
	}
}

func TestHTTPClient_InjectsHeaders(t *testing.T) {
	t.Parallel()

	type seen struct {
		ua, extra string
	}
	got := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- seen{ua: r.UserAgent(), extra: r.Header.Get("X-Site")}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(WithUserAgent("sitekit-test/0.1"), WithHeader("X-Site", "dashboard"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(c.CloseIdleConnections)

	resp, err := c.HTTPClient().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	s := <-got
	if s.ua != "sitekit-test/0.1" {
		t.Errorf("User-Agent = %q, want %q", s.ua, "sitekit-test/0.1")
	}
	if s.extra != "dashboard" {
		t.Errorf("X-Site = %q, want %q", s.extra, "dashboard")
	}
}

// fakeProxy accepts one connection, reads the greeting and writes reply.
func fakeProxy(t *testing.T, reply []byte) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan struct{})
	t.Cleanup(func() { <-done })
	t.Cleanup(func() { ln.Close() })
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		greeting := make([]byte, 3)
		if _, err := io.ReadFull(conn, greeting); err != nil {
			return
		}
		_, _ = conn.Write(reply)
	}()

	return ln.Addr().String()
}

func TestCheckProxy(t *testing.T) {
	t.Parallel()

	t.Run("direct", func(t *testing.T) {
		t.Parallel()

		c, _ := NewClient()
		if got := c.CheckProxy(context.Background()); got != ProxyStatusDirect {
			t.Errorf("CheckProxy() = %v, want %v", got, ProxyStatusDirect)
		}
	})

	t.Run("socks5 proxy", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient(WithProxy(fakeProxy(t, []byte{socks5Version, socks5AuthNone})))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.CheckProxy(context.Background()); got != ProxyStatusOK {
			t.Errorf("CheckProxy() = %v, want %v", got, ProxyStatusOK)
		}
	})

	t.Run("not socks5", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient(WithProxy(fakeProxy(t, []byte("HTTP/1.1 400 Bad Request\r\n\r\n"))))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := c.CheckProxy(context.Background())
		if got != ProxyStatusWrongType {
			t.Errorf("CheckProxy() = %v, want %v", got, ProxyStatusWrongType)
		}
		if !errors.Is(got.Err(), ErrProxyNotSOCKS5) {
			t.Errorf("Err() = %v, want ErrProxyNotSOCKS5", got.Err())
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient(WithProxy(fakeProxy(t, []byte{socks5Version, 0xFF})))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.CheckProxy(context.Background()); got != ProxyStatusWrongType {
			t.Errorf("CheckProxy() = %v, want %v", got, ProxyStatusWrongType)
		}
	})

	t.Run("nothing listening", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		addr := ln.Addr().String()
		ln.Close()

		c, err := NewClient(WithProxy(addr))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.CheckProxy(context.Background()); got != ProxyStatusCannotConnect {
			t.Errorf("CheckProxy() = %v, want %v", got, ProxyStatusCannotConnect)
		}
	})
}

func TestProxyStatus_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status ProxyStatus
		want   string
	}{
		{ProxyStatusOK, "OK"},
		{ProxyStatusWrongType, "wrong type (not SOCKS5)"},
		{ProxyStatusCannotConnect, "cannot connect"},
		{ProxyStatusTimeout, "timeout"},
		{ProxyStatusDirect, "direct (no proxy)"},
		{ProxyStatus(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("ProxyStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
