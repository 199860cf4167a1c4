package main

import (
	"testing"

	"github.com/milk9111/slimearena/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRates(t *testing.T) {
	rates, err := parseRates("30, 60,,144")
	require.NoError(t, err)
	assert.Equal(t, []int{30, 60, 144}, rates)

	for _, bad := range []string{"", "fast", "0", "60,-1"} {
		_, err := parseRates(bad)
		assert.Error(t, err, bad)
	}
}

func TestSimulateClearsAtEveryRate(t *testing.T) {
	opts, err := arena.LoadOptions()
	require.NoError(t, err)

	results, err := simulate(opts, config{rates: []int{30, 60, 144}, maxTime: 120, playerHP: 1000})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.cleared, "%d fps: %d slimes left", r.rate, r.slimesLeft)
		assert.Zero(t, r.slimesLeft)
		assert.Greater(t, r.playerHP, 0)
		assert.Greater(t, r.physicsSteps, 0)
	}
	assert.Equal(t, 5, opts.Player.Damageable.MaxHealth, "caller options are left alone")
}
