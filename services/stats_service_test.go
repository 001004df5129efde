package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestLeaderboardRejectsUnknownSortKey(t *testing.T) {
	s := &StatsService{}

	for _, key := range []string{"price", "WINS", "wins;drop table meals", "name"} {
		if _, err := s.Leaderboard(key); !errors.Is(err, ErrInvalidSortKey) {
			t.Fatalf("sort key %q: want ErrInvalidSortKey, got %v", key, err)
		}
	}
}

func TestRetryableTxError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization failure", fmt.Errorf("ERROR: could not serialize access (SQLSTATE 40001)"), true},
		{"deadlock sqlstate", fmt.Errorf("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{"wrapped deadlock", fmt.Errorf("failed to lock stats row: %w", errors.New("deadlock detected")), true},
		{"plain failure", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableTxError(tt.err); got != tt.want {
				t.Fatalf("retryableTxError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
