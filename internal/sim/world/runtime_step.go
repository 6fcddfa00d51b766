package world

import (
	"fmt"
	"sort"
)

// Tick advances the simulation by one atomic step: strided vegetation
// regrowth, then every agent in ascending id order. There are no suspension
// points and no partial state is observable; callers see pre- or post-tick
// snapshots only. Concurrent Tick calls on one World are a caller bug.
func (w *World) Tick() error {
	if w.rng == nil {
		return ErrNoEntropySource
	}
	nowTick := w.tick

	w.vegetation.Regrow(nowTick)

	// Deterministic iteration order is mandatory: map-order or
	// insertion-order iteration here would be a correctness bug.
	roster := w.sortedAgents()

	next := make([]*Agent, 0, len(roster))
	for _, a := range roster {
		w.updateAgent(a)

		switch a.State {
		case StateDead:
			cx, cy := a.Cell()
			w.vegetation.Deposit(cx, cy, deathNutrientBonus)
			w.logEvent(HistoryEvent{
				Tick:        nowTick,
				Kind:        EventAgentDied,
				HasLocation: true,
				X:           cx,
				Y:           cy,
				Detail:      fmt.Sprintf("agent %d starved", a.ID),
			})
			// Dropped from the next roster.
		case StateReproducing:
			child := a.reproduce(w.nextAgentID, w.rng, w.cfg.Agents)
			w.nextAgentID++
			a.State = StateIdle
			cx, cy := child.Cell()
			w.logEvent(HistoryEvent{
				Tick:        nowTick,
				Kind:        EventAgentSpawned,
				HasLocation: true,
				X:           cx,
				Y:           cy,
				Detail:      fmt.Sprintf("agent %d born of %d", child.ID, a.ID),
			})
			next = append(next, a, child)
		default:
			next = append(next, a)
		}
	}

	w.agents = next
	w.tick++
	return nil
}

func (w *World) sortedAgents() []*Agent {
	sort.Slice(w.agents, func(i, j int) bool { return w.agents[i].ID < w.agents[j].ID })
	return w.agents
}
