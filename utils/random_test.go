package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLocalDrawSourceSeededSequence(t *testing.T) {
	a := NewLocalDrawSource(1234)
	b := NewLocalDrawSource(1234)

	for i := 0; i < 50; i++ {
		va, err := a.Draw(context.Background())
		if err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		vb, err := b.Draw(context.Background())
		if err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		if va != vb {
			t.Fatalf("draw %d diverged between same-seed sources: %v vs %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %v outside [0,1)", va)
		}
	}
}

func TestLocalDrawSourceDifferentSeedsDiverge(t *testing.T) {
	a := NewLocalDrawSource(1)
	b := NewLocalDrawSource(2)

	same := true
	for i := 0; i < 10; i++ {
		va, _ := a.Draw(context.Background())
		vb, _ := b.Draw(context.Background())
		if va != vb {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced the same first 10 draws")
	}
}

func TestLocalDrawSourceHonoursCancelledContext(t *testing.T) {
	s := NewLocalDrawSource(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Draw(ctx); err == nil {
		t.Fatal("want error from cancelled context")
	}
}

func TestRandomOrgClientDraw(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    float64
		wantErr string
	}{
		{"plain value", http.StatusOK, "0.37", 0.37, ""},
		{"trailing newline", http.StatusOK, "0.02\n", 0.02, ""},
		{"non-numeric body", http.StatusOK, "service overloaded", 0, "invalid response"},
		{"server error", http.StatusServiceUnavailable, "", 0, "status 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := &RandomOrgClient{URL: srv.URL, HTTPClient: srv.Client()}
			got, err := client.Draw(context.Background())

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("want error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("draw failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("draw = %v, want %v", got, tt.want)
			}
		})
	}
}

// countingDraws hands out 0.1, 0.2, ... and counts upstream calls.
type countingDraws struct {
	calls int
}

func (c *countingDraws) Draw(ctx context.Context) (float64, error) {
	c.calls++
	return float64(c.calls%10) / 10, nil
}

func TestDrawPoolTopUpAndDrain(t *testing.T) {
	upstream := &countingDraws{}
	pool := NewDrawPool(upstream, 4)

	added, err := pool.TopUp(context.Background())
	if err != nil {
		t.Fatalf("top-up failed: %v", err)
	}
	if added != 4 || pool.Buffered() != 4 {
		t.Fatalf("top-up added %d (buffered %d), want 4", added, pool.Buffered())
	}

	callsAfterFill := upstream.calls
	for i := 0; i < 4; i++ {
		if _, err := pool.Draw(context.Background()); err != nil {
			t.Fatalf("pooled draw failed: %v", err)
		}
	}
	if upstream.calls != callsAfterFill {
		t.Fatal("draining the buffer must not hit the upstream")
	}

	// Empty pool falls back to the upstream directly.
	if _, err := pool.Draw(context.Background()); err != nil {
		t.Fatalf("fallback draw failed: %v", err)
	}
	if upstream.calls != callsAfterFill+1 {
		t.Fatal("empty pool should fall back to one upstream call")
	}
}

func TestDrawPoolTopUpStopsWhenFull(t *testing.T) {
	upstream := &countingDraws{}
	pool := NewDrawPool(upstream, 2)

	if _, err := pool.TopUp(context.Background()); err != nil {
		t.Fatalf("top-up failed: %v", err)
	}
	added, err := pool.TopUp(context.Background())
	if err != nil {
		t.Fatalf("second top-up failed: %v", err)
	}
	if added != 0 {
		t.Fatalf("full pool accepted %d more draws", added)
	}
}

func TestDrawPoolTopUpHonoursCancelledContext(t *testing.T) {
	pool := NewDrawPool(&countingDraws{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pool.TopUp(ctx); err == nil {
		t.Fatal("want error from cancelled context")
	}
}
