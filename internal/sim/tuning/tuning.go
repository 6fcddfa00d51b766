// Package tuning loads simulation tuning from yaml. Values left at zero fall
// back to the world config defaults.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"seedworld/internal/sim/world"
	"seedworld/internal/sim/world/terrain"
)

type Tuning struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	TickRateHz int `yaml:"tick_rate_hz"`

	InitialAgents    int `yaml:"initial_agents"`
	MaxSpawnAttempts int `yaml:"max_spawn_attempts"`

	Noise  NoiseTuning `yaml:"noise"`
	Agents AgentTuning `yaml:"agents"`

	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`
}

type NoiseTuning struct {
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Scale       float64 `yaml:"scale"`
}

type AgentTuning struct {
	MaxHunger float64 `yaml:"max_hunger"`
	MaxEnergy float64 `yaml:"max_energy"`

	HungerRate  float64 `yaml:"hunger_rate"`
	EnergyDecay float64 `yaml:"energy_decay"`

	WanderHunger   float64 `yaml:"wander_hunger"`
	IdleStepChance float64 `yaml:"idle_step_chance"`
	MoveHungerCost float64 `yaml:"move_hunger_cost"`

	EatAmount          float64 `yaml:"eat_amount"`
	HungerPerFood      float64 `yaml:"hunger_per_food"`
	EnergyPerFood      float64 `yaml:"energy_per_food"`
	AdequateVegetation float64 `yaml:"adequate_vegetation"`

	ReproHungerBelow   float64 `yaml:"repro_hunger_below"`
	ReproEnergyCost    float64 `yaml:"repro_energy_cost"`
	ReproMinVegetation float64 `yaml:"repro_min_vegetation"`
	ReproCooldownTicks int     `yaml:"repro_cooldown_ticks"`
	ChildHunger        float64 `yaml:"child_hunger"`

	MutationChance   float64 `yaml:"mutation_chance"`
	SpeedMutationMax float64 `yaml:"speed_mutation_max"`
	SenseMutationMax float64 `yaml:"sense_mutation_max"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// WorldConfig maps tuning onto a world config; zero values stay zero so the
// world's applyDefaults fills them.
func (t Tuning) WorldConfig() world.Config {
	return world.Config{
		Width:            t.Width,
		Height:           t.Height,
		Seed:             t.Seed,
		InitialAgents:    t.InitialAgents,
		MaxSpawnAttempts: t.MaxSpawnAttempts,
		Noise: terrain.NoiseParams{
			Octaves:     t.Noise.Octaves,
			Persistence: t.Noise.Persistence,
			Scale:       t.Noise.Scale,
		},
		Agents: world.AgentParams{
			MaxHunger:          t.Agents.MaxHunger,
			MaxEnergy:          t.Agents.MaxEnergy,
			HungerRate:         t.Agents.HungerRate,
			EnergyDecay:        t.Agents.EnergyDecay,
			WanderHunger:       t.Agents.WanderHunger,
			IdleStepChance:     t.Agents.IdleStepChance,
			MoveHungerCost:     t.Agents.MoveHungerCost,
			EatAmount:          t.Agents.EatAmount,
			HungerPerFood:      t.Agents.HungerPerFood,
			EnergyPerFood:      t.Agents.EnergyPerFood,
			AdequateVegetation: t.Agents.AdequateVegetation,
			ReproHungerBelow:   t.Agents.ReproHungerBelow,
			ReproEnergyCost:    t.Agents.ReproEnergyCost,
			ReproMinVegetation: t.Agents.ReproMinVegetation,
			ReproCooldownTicks: t.Agents.ReproCooldownTicks,
			ChildHunger:        t.Agents.ChildHunger,
			MutationChance:     t.Agents.MutationChance,
			SpeedMutationMax:   t.Agents.SpeedMutationMax,
			SenseMutationMax:   t.Agents.SenseMutationMax,
		},
	}
}
