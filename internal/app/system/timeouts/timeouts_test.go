package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/suvana/suvana/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// restoreDefaults puts the package timeouts back after a test changes them.
func restoreDefaults(t *testing.T) {
	t.Cleanup(func() {
		timeouts.Configure(timeouts.Config{
			Ping:   timeouts.DefaultPing,
			Short:  timeouts.DefaultShort,
			Medium: timeouts.DefaultMedium,
			Sweep:  timeouts.DefaultSweep,
		})
	})
}

func TestDefaults(t *testing.T) {
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"ping", timeouts.Ping(), timeouts.DefaultPing},
		{"short", timeouts.Short(), timeouts.DefaultShort},
		{"medium", timeouts.Medium(), timeouts.DefaultMedium},
		{"sweep", timeouts.Sweep(), timeouts.DefaultSweep},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	restoreDefaults(t)

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	if timeouts.Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", timeouts.Short())
	}
	if timeouts.Medium() != timeouts.DefaultMedium {
		t.Errorf("Medium() changed to %v", timeouts.Medium())
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), 10*time.Millisecond, zap.NewNop(), "test")
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not expire")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}
