package ratelimit

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestMemoryLimiter_AllowWithinLimit(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	defer l.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "key")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("attempt %d denied, want allowed", i+1)
		}
	}

	ok, err := l.Allow(ctx, "key")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Error("attempt over the limit allowed")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	defer l.Close()
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatal("first attempt for a denied")
	}
	if ok, _ := l.Allow(ctx, "a"); ok {
		t.Error("second attempt for a allowed")
	}
	if ok, _ := l.Allow(ctx, "b"); !ok {
		t.Error("first attempt for b denied")
	}
}

func TestMemoryLimiter_WindowExpires(t *testing.T) {
	l := NewMemoryLimiter(1, 30*time.Millisecond)
	defer l.Close()
	ctx := context.Background()

	l.Allow(ctx, "key")
	if ok, _ := l.Allow(ctx, "key"); ok {
		t.Fatal("attempt over the limit allowed")
	}

	time.Sleep(40 * time.Millisecond)

	if ok, _ := l.Allow(ctx, "key"); !ok {
		t.Error("attempt after window expiry denied")
	}
}

func TestMemoryLimiter_DeniedAttemptsDoNotExtendWindow(t *testing.T) {
	l := NewMemoryLimiter(1, 30*time.Millisecond)
	defer l.Close()
	ctx := context.Background()

	l.Allow(ctx, "key")
	for i := 0; i < 5; i++ {
		l.Allow(ctx, "key")
	}

	time.Sleep(40 * time.Millisecond)

	// Hammering while denied must not push the reset further out.
	if ok, _ := l.Allow(ctx, "key"); !ok {
		t.Error("window should have reset despite denied attempts")
	}
}

func TestMemoryLimiter_Reset(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	defer l.Close()
	ctx := context.Background()

	l.Allow(ctx, "key")
	if ok, _ := l.Allow(ctx, "key"); ok {
		t.Fatal("attempt over the limit allowed")
	}

	if err := l.Reset(ctx, "key"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ok, _ := l.Allow(ctx, "key"); !ok {
		t.Error("attempt after reset denied")
	}
}

func TestMemoryLimiter_ResetAt(t *testing.T) {
	l := NewMemoryLimiter(5, time.Minute)
	defer l.Close()

	// Unknown key resets now.
	if got := l.ResetAt("unknown"); time.Until(got) > time.Second {
		t.Errorf("ResetAt for unknown key = %v, want about now", got)
	}

	l.Allow(context.Background(), "key")
	d := time.Until(l.ResetAt("key"))
	if d <= 50*time.Second || d > time.Minute {
		t.Errorf("ResetAt %v out, want close to one minute", d)
	}
}

func TestMemoryLimiter_Remaining(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	defer l.Close()
	ctx := context.Background()

	if got := l.Remaining("key"); got != 3 {
		t.Errorf("Remaining = %d, want 3", got)
	}
	l.Allow(ctx, "key")
	l.Allow(ctx, "key")
	if got := l.Remaining("key"); got != 1 {
		t.Errorf("Remaining = %d, want 1", got)
	}
	l.Allow(ctx, "key")
	l.Allow(ctx, "key")
	if got := l.Remaining("key"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	l := NewMemoryLimiter(50, time.Minute)
	defer l.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Allow(ctx, "key")
			if err != nil {
				t.Errorf("Allow: %v", err)
				return
			}
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("%d attempts allowed, want exactly 50", allowed)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr",
			remoteAddr: "192.0.2.1:54321",
			want:       "192.0.2.1",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 70.41.3.18, 150.172.238.178"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded-for wins over real-ip",
			remoteAddr: "10.0.0.1:80",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.7",
				"X-Real-IP":       "203.0.113.9",
			},
			want: "203.0.113.7",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "[2001:db8::1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
