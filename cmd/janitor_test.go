package cmd

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"venue-booking/internal/data/repository"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSessions struct {
	repository.SessionRepository
	calls atomic.Int32
}

func (s *countingSessions) CleanExpiredSessions(context.Context) (int64, error) {
	s.calls.Add(1)
	return 2, nil
}

func TestSessionJanitor(t *testing.T) {
	sessions := &countingSessions{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		SessionJanitor(ctx, sessions, 5*time.Millisecond, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return sessions.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}
