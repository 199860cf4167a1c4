// Command simulate plays the arena headlessly with the autopilot at one or
// more frame rates and logs how each run ended.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/milk9111/slimearena/arena"
	"github.com/milk9111/slimearena/logger"
	"github.com/milk9111/slimearena/prefabs"
	"github.com/sirupsen/logrus"
)

type config struct {
	rates    []int
	maxTime  float64
	reach    float64
	playerHP int
}

type result struct {
	rate         int
	cleared      bool
	elapsed      float64
	playerHP     int
	slimesLeft   int
	physicsSteps int
}

func main() {
	rates := flag.String("rates", "60", "comma separated frame rates to simulate")
	maxTime := flag.Float64("max", 120, "simulated seconds before a run gives up")
	reach := flag.Float64("reach", 0.7, "distance at which the autopilot stops walking")
	playerHP := flag.Int("hp", 0, "override the player's max health (0 keeps the prefab value)")
	prefabDir := flag.String("prefabs", prefabs.DiskRoot, "directory checked for prefab overrides")
	flag.Parse()

	logger.Init()
	prefabs.DiskRoot = *prefabDir
	log := logger.With("simulate")

	parsed, err := parseRates(*rates)
	if err != nil {
		log.WithError(err).Fatal("bad -rates")
	}

	opts, err := arena.LoadOptions()
	if err != nil {
		log.WithError(err).Fatal("load prefabs")
	}

	results, err := simulate(opts, config{rates: parsed, maxTime: *maxTime, reach: *reach, playerHP: *playerHP})
	if err != nil {
		log.WithError(err).Fatal("simulate")
	}

	failed := false
	for _, r := range results {
		entry := log.WithFields(logrus.Fields{
			"fps":           r.rate,
			"cleared":       r.cleared,
			"elapsed":       fmt.Sprintf("%.2fs", r.elapsed),
			"player_hp":     r.playerHP,
			"slimes_left":   r.slimesLeft,
			"physics_steps": r.physicsSteps,
		})
		if r.cleared {
			entry.Info("arena cleared")
		} else {
			failed = true
			entry.Warn("arena not cleared")
		}
	}
	if failed {
		os.Exit(1)
	}
}

func parseRates(s string) ([]int, error) {
	var rates []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("rate %d must be positive", n)
		}
		rates = append(rates, n)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no rates given")
	}
	return rates, nil
}

// simulate builds a fresh arena per rate and lets the autopilot play it.
func simulate(opts arena.Options, cfg config) ([]result, error) {
	if cfg.playerHP > 0 && opts.Player != nil {
		player := *opts.Player
		player.Damageable.MaxHealth = cfg.playerHP
		opts.Player = &player
	}

	results := make([]result, 0, len(cfg.rates))
	for _, rate := range cfg.rates {
		a, err := arena.New(opts)
		if err != nil {
			return nil, err
		}
		pilot := arena.NewAutopilot()
		if cfg.reach > 0 {
			pilot.Reach = cfg.reach
		}
		elapsed := pilot.Run(a, 1.0/float64(rate), cfg.maxTime)

		r := result{
			rate:         rate,
			cleared:      a.Cleared(),
			elapsed:      elapsed,
			slimesLeft:   a.SlimesAlive(),
			physicsSteps: a.PhysicsSteps(),
		}
		if st := a.PlayerState(); st != nil {
			r.playerHP = st.CurrentHealth()
		}
		results = append(results, r)
		a.Close()
	}
	return results, nil
}
