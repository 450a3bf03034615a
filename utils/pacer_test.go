package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerFirstWaitIsFree(t *testing.T) {
	var slept []time.Duration
	p := NewPacer(2*time.Second, 5*time.Second)
	p.Sleep = recordingSleep(&slept)
	p.Jitter = func(n int64) int64 { return n - 1 }

	d, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d)
	assert.Empty(t, slept)

	d, err = p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
	assert.Equal(t, []time.Duration{5 * time.Second}, slept)
}

func TestPacerDelayWithinBounds(t *testing.T) {
	p := NewPacer(2*time.Second, 5*time.Second)
	for i := 0; i < 200; i++ {
		d := p.Next()
		if d < 2*time.Second || d > 5*time.Second {
			t.Fatalf("delay %v outside [2s, 5s]", d)
		}
	}
}

func TestPacerSwapsInvertedBounds(t *testing.T) {
	p := NewPacer(5*time.Second, 2*time.Second)
	assert.Equal(t, 2*time.Second, p.Min)
	assert.Equal(t, 5*time.Second, p.Max)
}

func TestPacerFixedDelay(t *testing.T) {
	p := NewPacer(time.Second, time.Second)
	assert.Equal(t, time.Second, p.Next())
}
