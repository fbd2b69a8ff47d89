package workers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingEvicter struct {
	calls atomic.Int32
	ttl   atomic.Int64
}

func (c *countingEvicter) Evict(ttl time.Duration) int {
	c.calls.Add(1)
	c.ttl.Store(int64(ttl))
	return 1
}

func TestDraftSweeper_SweepsUntilStopped(t *testing.T) {
	ev := &countingEvicter{}
	w := NewDraftSweeper(ev, zap.NewNop(), 5*time.Millisecond, 2*time.Hour)
	w.Start()

	require.Eventually(t, func() bool { return ev.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()
	assert.Equal(t, 2*time.Hour, time.Duration(ev.ttl.Load()), "ttl passed through")

	after := ev.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ev.calls.Load(), "sweeper kept running after Stop")

	// Stop is idempotent.
	w.Stop()
}
