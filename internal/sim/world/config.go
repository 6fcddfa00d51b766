package world

import "seedworld/internal/sim/world/terrain"

// Config carries everything a world needs to be rebuilt bit-for-bit:
// dimensions, seed, generation tuning and the agent behavior constants.
type Config struct {
	Width  int
	Height int
	Seed   int64

	InitialAgents    int
	MaxSpawnAttempts int

	Noise  terrain.NoiseParams
	Agents AgentParams
}

// AgentParams are the fixed behavioral constants shared by every agent.
// Heritable traits (speed, sense radius) live on the Agent itself.
type AgentParams struct {
	MaxHunger float64
	MaxEnergy float64

	HungerRate  float64 // hunger gained per tick
	EnergyDecay float64 // energy lost per tick

	WanderHunger   float64 // above this, an idle agent starts foraging
	IdleStepChance float64
	MoveHungerCost float64 // per unit distance, scaled by speed

	EatAmount          float64 // vegetation consumed per eating tick
	HungerPerFood      float64 // hunger relieved per unit consumed
	EnergyPerFood      float64 // energy gained per unit consumed
	AdequateVegetation float64 // enough to stop and eat

	ReproHungerBelow   float64
	ReproEnergyCost    float64
	ReproMinVegetation float64
	ReproCooldownTicks int
	ChildHunger        float64

	MutationChance   float64
	SpeedMutationMax float64
	SenseMutationMax float64
	SpeedMin         float64
	SpeedMax         float64
	SenseMin         float64
	SenseMax         float64
}

func (c *Config) applyDefaults() {
	if c.Width <= 0 {
		c.Width = 64
	}
	if c.Height <= 0 {
		c.Height = 64
	}
	if c.InitialAgents <= 0 {
		c.InitialAgents = 20
	}
	if c.MaxSpawnAttempts <= 0 {
		c.MaxSpawnAttempts = 100
	}
	c.Noise = withNoiseDefaults(c.Noise)
	c.Agents.applyDefaults()
}

func withNoiseDefaults(p terrain.NoiseParams) terrain.NoiseParams {
	d := terrain.DefaultNoiseParams()
	if p.Octaves <= 0 {
		p.Octaves = d.Octaves
	}
	if p.Persistence <= 0 {
		p.Persistence = d.Persistence
	}
	if p.Scale <= 0 {
		p.Scale = d.Scale
	}
	return p
}

func (p *AgentParams) applyDefaults() {
	if p.MaxHunger <= 0 {
		p.MaxHunger = 100
	}
	if p.MaxEnergy <= 0 {
		p.MaxEnergy = 100
	}
	if p.HungerRate <= 0 {
		p.HungerRate = 0.5
	}
	if p.EnergyDecay <= 0 {
		p.EnergyDecay = 0.2
	}
	if p.WanderHunger <= 0 {
		p.WanderHunger = 30
	}
	if p.IdleStepChance <= 0 {
		p.IdleStepChance = 0.1
	}
	if p.MoveHungerCost <= 0 {
		p.MoveHungerCost = 0.1
	}
	if p.EatAmount <= 0 {
		p.EatAmount = 0.1
	}
	if p.HungerPerFood <= 0 {
		p.HungerPerFood = 60
	}
	if p.EnergyPerFood <= 0 {
		p.EnergyPerFood = 40
	}
	if p.AdequateVegetation <= 0 {
		p.AdequateVegetation = 0.2
	}
	if p.ReproHungerBelow <= 0 {
		p.ReproHungerBelow = 25
	}
	if p.ReproEnergyCost <= 0 {
		p.ReproEnergyCost = 50
	}
	if p.ReproMinVegetation <= 0 {
		p.ReproMinVegetation = 0.3
	}
	if p.ReproCooldownTicks <= 0 {
		p.ReproCooldownTicks = 100
	}
	if p.ChildHunger <= 0 {
		p.ChildHunger = 20
	}
	if p.MutationChance <= 0 {
		p.MutationChance = 0.25
	}
	if p.SpeedMutationMax <= 0 {
		p.SpeedMutationMax = 0.15
	}
	if p.SenseMutationMax <= 0 {
		p.SenseMutationMax = 1
	}
	if p.SpeedMin <= 0 {
		p.SpeedMin = 0.5
	}
	if p.SpeedMax <= 0 {
		p.SpeedMax = 2
	}
	if p.SenseMin <= 0 {
		p.SenseMin = 2
	}
	if p.SenseMax <= 0 {
		p.SenseMax = 10
	}
}
