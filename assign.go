package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
)

// assignRolesCustom deals an explicit role pool. The pool must cover every
// player; on any setup failure no player is mutated.
func assignRolesCustom(g *Game, pool []RoleID) error {
	if len(g.Players) < appConfig.MinPlayers {
		return fmt.Errorf("not enough players: %d/%d", len(g.Players), appConfig.MinPlayers)
	}
	if len(pool) != len(g.Players) {
		return fmt.Errorf("role pool size (%d) must match player count (%d)", len(pool), len(g.Players))
	}
	for _, id := range pool {
		if _, ok := roleByID(id); !ok {
			return fmt.Errorf("unknown role %q in pool", id)
		}
	}

	dealt := make([]RoleID, len(pool))
	copy(dealt, pool)
	shuffleRoles(dealt)
	dealRoles(g, dealt)

	// Evil team type drives pack coordination messages: Fire > Wolf > Killer.
	hasFire, hasWolf, hasKiller := false, false, false
	for _, p := range g.Players {
		switch p.team() {
		case TeamFire:
			hasFire = true
		case TeamWolf:
			hasWolf = true
		case TeamKiller:
			hasKiller = true
		}
	}
	switch {
	case hasFire:
		g.EvilTeamType = TeamFire
	case hasWolf:
		g.EvilTeamType = TeamWolf
	case hasKiller:
		g.EvilTeamType = TeamKiller
	default:
		g.EvilTeamType = TeamWolf
	}

	log.Printf("Game %s: assigned %d custom roles (evil team: %s)", g.Code, len(dealt), g.EvilTeamType)
	return nil
}

// evilCount picks how many evil roles to deal for the roster size and
// difficulty setting.
func evilCount(g *Game, numPlayers int) int {
	difficulty := g.Settings.Difficulty
	switch {
	case numPlayers < 7:
		switch difficulty {
		case "easy":
			return 1
		case "hard":
			return 2
		default:
			return 1 + g.rng.Intn(2)
		}
	case numPlayers < 10:
		switch difficulty {
		case "easy":
			return 2
		case "hard":
			return 3
		default:
			return 2 + g.rng.Intn(2)
		}
	default:
		base := numPlayers * appConfig.EvilPercent / 100
		switch difficulty {
		case "easy":
			return max(2, base-1)
		case "hard":
			return min(numPlayers/2, base+1)
		default:
			hi := max(3, base)
			return 3 + g.rng.Intn(hi-3+1)
		}
	}
}

// assignRolesBalanced builds a balanced pool for the roster and deals it.
// Duplicates are forbidden except Twin (always a pair) and Villager fill.
func assignRolesBalanced(g *Game) error {
	numPlayers := len(g.Players)
	if numPlayers < appConfig.MinPlayers {
		return fmt.Errorf("not enough players: %d/%d", numPlayers, appConfig.MinPlayers)
	}

	numEvil := evilCount(g, numPlayers)
	log.Printf("Game %s: dealing %d evil roles for %d players", g.Code, numEvil, numPlayers)

	var selectedEvil []RoleID
	if numPlayers < 10 {
		selectedEvil = sampleRoles(g, basicEvilRoles, min(numEvil, len(basicEvilRoles)))
		hasWolf := containsAny(selectedEvil, RoleWerewolf, RoleAlphaWolf)
		hasFire := containsAny(selectedEvil, RoleArsonist, RoleBlazebringer)
		if numPlayers >= 7 {
			if hasWolf && len(selectedEvil) < numEvil && g.chance(60) {
				selectedEvil = append(selectedEvil, RoleWolfShaman)
			} else if hasFire && len(selectedEvil) < numEvil && g.chance(60) {
				selectedEvil = append(selectedEvil, RoleAccelerantExp)
			}
			// Remaining specialists before any duplication.
			if len(selectedEvil) < numEvil && hasWolf && !contains(selectedEvil, RoleWolfShaman) {
				selectedEvil = append(selectedEvil, RoleWolfShaman)
			}
			if len(selectedEvil) < numEvil && hasFire && !contains(selectedEvil, RoleAccelerantExp) {
				selectedEvil = append(selectedEvil, RoleAccelerantExp)
			}
		}
		for len(selectedEvil) < numEvil {
			log.Printf("Game %s: duplicating evil roles to reach %d", g.Code, numEvil)
			selectedEvil = append(selectedEvil, basicEvilRoles[g.rng.Intn(len(basicEvilRoles))])
		}
	} else {
		available := append([]RoleID(nil), basicEvilRoles...)
		for len(selectedEvil) < numEvil && len(available) > 0 {
			i := g.rng.Intn(len(available))
			chosen := available[i]
			available = append(available[:i], available[i+1:]...)
			selectedEvil = append(selectedEvil, chosen)
			if (chosen == RoleWerewolf || chosen == RoleAlphaWolf) && !contains(selectedEvil, RoleWolfShaman) && !contains(available, RoleWolfShaman) && g.chance(50) {
				available = append(available, RoleWolfShaman)
			}
			if (chosen == RoleArsonist || chosen == RoleBlazebringer) && !contains(selectedEvil, RoleAccelerantExp) && !contains(available, RoleAccelerantExp) && g.chance(50) {
				available = append(available, RoleAccelerantExp)
			}
		}
		for len(selectedEvil) < numEvil {
			selectedEvil = append(selectedEvil, basicEvilRoles[g.rng.Intn(len(basicEvilRoles))])
		}
	}

	pool := append([]RoleID(nil), selectedEvil...)
	switch {
	case containsAny(selectedEvil, RoleWerewolf, RoleAlphaWolf, RoleWolfShaman):
		g.EvilTeamType = TeamWolf
	case containsAny(selectedEvil, RoleArsonist, RoleBlazebringer, RoleAccelerantExp):
		g.EvilTeamType = TeamFire
	default:
		g.EvilTeamType = TeamKiller
	}

	// One investigative and one protective role, always.
	pool = append(pool, investigativeRoles[g.rng.Intn(len(investigativeRoles))])
	pool = append(pool, protectiveRoles[g.rng.Intn(len(protectiveRoles))])

	assigned := make(map[RoleID]bool)
	for _, id := range pool {
		assigned[id] = true
	}

	specials := append([]RoleID(nil), specialVillagerRoles...)
	g.rng.Shuffle(len(specials), func(i, j int) { specials[i], specials[j] = specials[j], specials[i] })
	for _, id := range specials {
		if len(pool) >= numPlayers {
			break
		}
		if !assigned[id] {
			pool = append(pool, id)
			assigned[id] = true
		}
	}

	neutrals := append([]RoleID(nil), chanceNeutralRoles...)
	g.rng.Shuffle(len(neutrals), func(i, j int) { neutrals[i], neutrals[j] = neutrals[j], neutrals[i] })
	for _, id := range neutrals {
		if len(pool) >= numPlayers {
			break
		}
		if !assigned[id] && g.chance(10) {
			pool = append(pool, id)
			assigned[id] = true
		}
	}

	if len(pool) <= numPlayers-2 && !assigned[RoleTwin] && g.chance(20) {
		pool = append(pool, RoleTwin, RoleTwin)
		assigned[RoleTwin] = true
	}

	for len(pool) < numPlayers {
		pool = append(pool, RoleVillager)
	}
	if len(pool) != numPlayers {
		return fmt.Errorf("role pool mismatch: %d roles for %d players", len(pool), numPlayers)
	}

	shuffleRoles(pool)
	dealRoles(g, pool)
	log.Printf("Game %s: balanced deal complete (evil team: %s)", g.Code, g.EvilTeamType)
	return nil
}

// dealRoles writes the shuffled pool onto the roster and wires deal-time
// role state (twin pairing, executioner target).
func dealRoles(g *Game, pool []RoleID) {
	players := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, p)
	}
	g.rng.Shuffle(len(players), func(i, j int) { players[i], players[j] = players[j], players[i] })

	g.TwinsIDs = nil
	for i, p := range players {
		p.Role = pool[i]
		if p.Role == RoleTwin {
			g.TwinsIDs = append(g.TwinsIDs, p.ID)
		}
	}
	for _, p := range players {
		if p.Role == RoleExecutioner {
			var candidates []*Player
			for _, other := range players {
				if other.ID != p.ID {
					candidates = append(candidates, other)
				}
			}
			if len(candidates) > 0 {
				p.ExecutionerTarget = candidates[g.rng.Intn(len(candidates))].ID
			}
		}
	}
}

// shuffleRoles shuffles a role pool using crypto/rand.
func shuffleRoles(roles []RoleID) {
	for i := len(roles) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			// Fallback: just swap with previous element
			roles[i], roles[i-1] = roles[i-1], roles[i]
			continue
		}
		j := int(jBig.Int64())
		roles[i], roles[j] = roles[j], roles[i]
	}
}

// sampleRoles picks n distinct roles uniformly from candidates.
func sampleRoles(g *Game, candidates []RoleID, n int) []RoleID {
	pool := append([]RoleID(nil), candidates...)
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n]
}

func contains(roles []RoleID, id RoleID) bool {
	for _, r := range roles {
		if r == id {
			return true
		}
	}
	return false
}

func containsAny(roles []RoleID, ids ...RoleID) bool {
	for _, id := range ids {
		if contains(roles, id) {
			return true
		}
	}
	return false
}
