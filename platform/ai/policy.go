package ai

import (
	"math/rand"
	"sort"
	"time"

	"github.com/tycopoly/tycopoly-backend/platform/board"
	"github.com/tycopoly/tycopoly-backend/platform/engine"
)

// cashReserve is the minimum balance the AI keeps after a purchase.
const cashReserve = 300

// Policy decides buy/sell actions from engine snapshots. It never touches
// session state itself; everything it decides is executed through the same
// public operations a human uses.
type Policy struct {
	rng *rand.Rand
}

// NewPolicy builds a policy around the given random source. Pass a seeded
// source for deterministic behavior in tests; nil gets a time-seeded one.
func NewPolicy(rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Policy{rng: rng}
}

// ShouldBuy decides whether the player at playerIndex buys the field it is
// standing on. Cheap fields are bought eagerly, fields extending an owned
// color group more eagerly still, everything else by a price-scaled chance.
func (p *Policy) ShouldBuy(snap engine.Snapshot, playerIndex int, field board.Field) bool {
	if playerIndex < 0 || playerIndex >= len(snap.Players) {
		return false
	}
	player := snap.Players[playerIndex]
	if field.Type != board.Property || field.OwnerID != 0 || field.Price == 0 {
		return false
	}
	if player.Cash < field.Price || player.Cash-field.Price < cashReserve {
		return false
	}
	if field.Price < 150 {
		return p.rng.Float64() < 0.7
	}
	sameColor := 0
	for _, f := range snap.Board {
		if f.Type == board.Property && f.Color == field.Color && f.OwnerID == player.ID {
			sameColor++
		}
	}
	if sameColor > 0 {
		return p.rng.Float64() < 0.4+float64(sameColor)*0.2
	}
	priceFactor := 1 - float64(field.Price)/400
	return p.rng.Float64() < priceFactor*0.4
}

// SaleOrder returns the player's holdings in forced-sale order: unimproved
// fields first, then by ascending price, so improvements are liquidated
// last.
func (p *Policy) SaleOrder(snap engine.Snapshot, playerIndex int) []int {
	if playerIndex < 0 || playerIndex >= len(snap.Players) {
		return nil
	}
	fieldByID := make(map[int]board.Field, len(snap.Board))
	for _, f := range snap.Board {
		fieldByID[f.ID] = f
	}
	ids := append([]int(nil), snap.Players[playerIndex].Properties...)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := fieldByID[ids[i]], fieldByID[ids[j]]
		if (a.Level > 0) != (b.Level > 0) {
			return a.Level == 0
		}
		return a.Price < b.Price
	})
	return ids
}

// BuildTargets lists fields the player could raise by one level right now:
// completed color groups only, cheapest improvement first, respecting the
// cash reserve.
func (p *Policy) BuildTargets(snap engine.Snapshot, playerIndex int) []int {
	if playerIndex < 0 || playerIndex >= len(snap.Players) {
		return nil
	}
	player := snap.Players[playerIndex]
	var targets []int
	costs := make(map[int]int)
	for _, f := range snap.Board {
		if f.Type != board.Property || f.OwnerID != player.ID || f.Level >= 3 {
			continue
		}
		owned := true
		for _, g := range board.Group(snap.Board, f.Color) {
			if g.OwnerID != player.ID {
				owned = false
				break
			}
		}
		if !owned {
			continue
		}
		if f.Level == 2 && !snap.CircuitCompleted[playerIndex] {
			continue
		}
		cost := board.ImprovementCost(f.Color, f.Level+1)
		if player.Cash-cost < cashReserve {
			continue
		}
		targets = append(targets, f.ID)
		costs[f.ID] = cost
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return costs[targets[i]] < costs[targets[j]]
	})
	return targets
}
