package world

import (
	"math"

	"seedworld/internal/sim/rng"
)

// AgentState is the closed FSM state enum.
type AgentState uint8

const (
	StateIdle AgentState = iota
	StateForaging
	StateEating
	StateReproducing
	StateDead
)

func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateForaging:
		return "FORAGING"
	case StateEating:
		return "EATING"
	case StateReproducing:
		return "REPRODUCING"
	case StateDead:
		return "DEAD"
	}
	return "UNKNOWN"
}

// Agent is one autonomous entity. The ID is immutable and strictly
// increasing across a world's lifetime; everything else mutates tick to
// tick. Position is continuous; Cell() gives the grid cell under the agent.
type Agent struct {
	ID uint64

	X, Y float64

	Hunger float64
	Energy float64

	// Heritable traits, mutated at reproduction.
	Speed       float64
	SenseRadius float64

	MaxHunger float64
	MaxEnergy float64

	ReproCooldown int
	State         AgentState
}

func (a *Agent) Cell() (int, int) {
	return int(a.X), int(a.Y)
}

// update advances the agent one tick. Starvation is checked before any
// behavior: an agent at max hunger dies immediately and does nothing else.
func (w *World) updateAgent(a *Agent) {
	p := w.cfg.Agents

	if a.ReproCooldown > 0 {
		a.ReproCooldown--
	}
	a.Energy -= p.EnergyDecay
	if a.Energy < 0 {
		a.Energy = 0
	}
	a.Hunger += p.HungerRate
	if a.Hunger >= a.MaxHunger {
		a.Hunger = a.MaxHunger
		a.State = StateDead
		return
	}

	switch a.State {
	case StateIdle:
		w.agentIdle(a)
	case StateForaging:
		w.agentForage(a)
	case StateEating:
		w.agentEat(a)
	case StateReproducing:
		// Resolved by the world at the tick boundary; nothing to do here.
	case StateDead:
		// Unreachable: dead agents are dropped from the roster.
	}
}

func (w *World) agentIdle(a *Agent) {
	if w.reproductionGate(a) {
		a.State = StateReproducing
		return
	}
	if a.Hunger > w.cfg.Agents.WanderHunger {
		a.State = StateForaging
		return
	}
	if w.rng.Next() < w.cfg.Agents.IdleStepChance {
		ang := w.rng.Range(0, 2*math.Pi)
		step := a.Speed * 0.5
		w.moveAgent(a, math.Cos(ang)*step, math.Sin(ang)*step)
	}
}

func (w *World) agentForage(a *Agent) {
	p := w.cfg.Agents
	cx, cy := a.Cell()
	if w.vegetation.At(cx, cy) >= p.AdequateVegetation {
		a.State = StateEating
		return
	}

	// Score candidate cells inside the sense window. Closer food beats
	// slightly richer but farther food.
	r := int(a.SenseRadius)
	bestScore := 0.0
	bestX, bestY := 0, 0
	found := false
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := cx+dx, cy+dy
			v := w.vegetation.At(nx, ny)
			if v < p.AdequateVegetation {
				continue
			}
			d := math.Sqrt(float64(dx*dx + dy*dy))
			score := v / (1 + d)
			if score > bestScore {
				bestScore = score
				bestX, bestY = nx, ny
				found = true
			}
		}
	}

	if !found {
		ang := w.rng.Range(0, 2*math.Pi)
		w.moveAgent(a, math.Cos(ang)*a.Speed, math.Sin(ang)*a.Speed)
		return
	}

	// One step toward the best cell's center, capped by speed.
	tx := float64(bestX) + 0.5
	ty := float64(bestY) + 0.5
	dx := tx - a.X
	dy := ty - a.Y
	dist := math.Hypot(dx, dy)
	if dist <= a.Speed {
		w.moveAgent(a, dx, dy)
	} else {
		w.moveAgent(a, dx/dist*a.Speed, dy/dist*a.Speed)
	}

	cx, cy = a.Cell()
	if (cx == bestX && cy == bestY) || w.vegetation.At(cx, cy) >= p.AdequateVegetation {
		a.State = StateEating
	}
}

func (w *World) agentEat(a *Agent) {
	p := w.cfg.Agents
	cx, cy := a.Cell()

	consumed := w.vegetation.Consume(cx, cy, p.EatAmount)
	a.Hunger -= consumed * p.HungerPerFood
	if a.Hunger < 0 {
		a.Hunger = 0
	}
	a.Energy += consumed * p.EnergyPerFood
	if a.Energy > a.MaxEnergy {
		a.Energy = a.MaxEnergy
	}

	if a.Hunger == 0 {
		a.State = StateIdle
		return
	}
	if consumed == 0 || w.vegetation.At(cx, cy) <= 0 {
		a.State = StateForaging
	}
}

// reproductionGate is the conjunction an idle agent must satisfy before
// spawning: low hunger, banked energy, a fed cell and an elapsed cooldown.
func (w *World) reproductionGate(a *Agent) bool {
	p := w.cfg.Agents
	if a.ReproCooldown != 0 {
		return false
	}
	if a.Hunger >= p.ReproHungerBelow {
		return false
	}
	if a.Energy < p.ReproEnergyCost {
		return false
	}
	cx, cy := a.Cell()
	return w.vegetation.At(cx, cy) >= p.ReproMinVegetation
}

// reproduce deducts the energy cost, starts the parent's cooldown and
// returns the offspring: fresh id, parent's position, inherited traits each
// independently mutated with fixed probability and bounded magnitude.
func (a *Agent) reproduce(id uint64, r rng.Stream, p AgentParams) *Agent {
	a.Energy -= p.ReproEnergyCost
	if a.Energy < 0 {
		a.Energy = 0
	}
	a.ReproCooldown = p.ReproCooldownTicks

	speed := a.Speed
	sense := a.SenseRadius
	if r.Next() < p.MutationChance {
		speed += r.Range(-p.SpeedMutationMax, p.SpeedMutationMax)
		speed = clamp(speed, p.SpeedMin, p.SpeedMax)
	}
	if r.Next() < p.MutationChance {
		sense += r.Range(-p.SenseMutationMax, p.SenseMutationMax)
		sense = clamp(sense, p.SenseMin, p.SenseMax)
	}

	return &Agent{
		ID:            id,
		X:             a.X,
		Y:             a.Y,
		Hunger:        p.ChildHunger,
		Energy:        0,
		Speed:         speed,
		SenseRadius:   sense,
		MaxHunger:     p.MaxHunger,
		MaxEnergy:     p.MaxEnergy,
		ReproCooldown: p.ReproCooldownTicks,
		State:         StateIdle,
	}
}

// moveAgent applies a displacement, charges the hunger cost of the distance
// actually requested scaled by speed, and clamps the position to the grid.
func (w *World) moveAgent(a *Agent, dx, dy float64) {
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	a.X += dx
	a.Y += dy
	a.X = clamp(a.X, 0, float64(w.cfg.Width)-1e-9)
	a.Y = clamp(a.Y, 0, float64(w.cfg.Height)-1e-9)

	a.Hunger += dist * a.Speed * w.cfg.Agents.MoveHungerCost
	if a.Hunger > a.MaxHunger {
		a.Hunger = a.MaxHunger
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
