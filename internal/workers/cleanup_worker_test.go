package workers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-catalog-backend/internal/auth"
)

func TestCleanupWorker_RunOnce(t *testing.T) {
	var a, b int
	w := NewCleanupWorker(time.Hour,
		CleanupTask{Name: "a", Run: func() int { a++; return 1 }},
		CleanupTask{Name: "b", Run: func() int { b++; return 0 }},
	)

	w.RunOnce()
	w.RunOnce()

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
}

func TestCleanupWorker_StartStop(t *testing.T) {
	var calls atomic.Int32
	w := NewCleanupWorker(5*time.Millisecond, CleanupTask{
		Name: "count",
		Run:  func() int { calls.Add(1); return 0 },
	})

	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	// повторный Start не запускает второй цикл
	require.NoError(t, w.Start())

	w.Stop()
	assert.False(t, w.IsRunning())

	// после Stop задачи больше не вызываются
	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())

	// повторный Stop ничего не делает
	w.Stop()
}

func TestCleanupWorker_SweepsRevokedTokens(t *testing.T) {
	revoked := auth.NewMemoryRevocationStore()
	ctx := t.Context()
	require.NoError(t, revoked.Revoke(ctx, "expired", time.Now().Add(-time.Minute)))
	require.NoError(t, revoked.Revoke(ctx, "live", time.Now().Add(time.Hour)))

	w := NewCleanupWorker(time.Hour, CleanupTask{Name: "revoked_tokens", Run: revoked.Sweep})
	w.RunOnce()

	assert.Equal(t, 1, revoked.Len())
	isRevoked, err := revoked.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, isRevoked)
}

func TestCleanupWorker_StopRightAfterStart(t *testing.T) {
	w := NewCleanupWorker(time.Hour)
	require.NoError(t, w.Start())
	w.Stop()
	assert.False(t, w.IsRunning())
}

func TestCleanupWorker_NonPositiveInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		w := NewCleanupWorker(d)
		assert.Error(t, w.Start())
		assert.False(t, w.IsRunning())
		w.Stop()
	}
}
