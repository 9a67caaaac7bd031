package main

import (
	mrand "math/rand"
	"testing"
)

func isEvilTeam(team Team) bool {
	return team == TeamWolf || team == TeamFire || team == TeamKiller
}

func TestBalancedDealCoversEveryPlayer(t *testing.T) {
	ctx := newTestContext(t)

	for seed := int64(0); seed < 25; seed++ {
		g, players := ctx.newTestGame(
			RoleVillager, RoleVillager, RoleVillager, RoleVillager,
			RoleVillager, RoleVillager, RoleVillager, RoleVillager)
		g.rng = mrand.New(mrand.NewSource(seed))

		if err := assignRolesBalanced(g); err != nil {
			t.Fatalf("seed %d: balanced deal failed: %v", seed, err)
		}

		var investigative, protective, evil int
		for _, p := range players {
			if _, ok := roleByID(p.Role); !ok {
				t.Fatalf("seed %d: player dealt unknown role %q", seed, p.Role)
			}
			if contains(investigativeRoles, p.Role) {
				investigative++
			}
			if contains(protectiveRoles, p.Role) {
				protective++
			}
			if isEvilTeam(p.team()) {
				evil++
			}
		}
		if investigative == 0 {
			t.Errorf("seed %d: no investigative role dealt", seed)
		}
		if protective == 0 {
			t.Errorf("seed %d: no protective role dealt", seed)
		}
		if evil == 0 {
			t.Errorf("seed %d: no evil role dealt", seed)
		}
		if evil >= len(players)/2+1 {
			t.Errorf("seed %d: evil outnumbers the village at the deal (%d/%d)", seed, evil, len(players))
		}
		registry.remove(g.Code)
	}
}

func TestEvilCountFollowsDifficulty(t *testing.T) {
	ctx := newTestContext(t)
	g, _ := ctx.newTestGame(RoleVillager, RoleVillager, RoleVillager)
	g.rng = mrand.New(mrand.NewSource(1))

	cases := []struct {
		players    int
		difficulty string
		min, max   int
	}{
		{5, "easy", 1, 1},
		{5, "hard", 2, 2},
		{5, "normal", 1, 2},
		{8, "easy", 2, 2},
		{8, "hard", 3, 3},
		{8, "normal", 2, 3},
		{12, "easy", 2, 2},
		{12, "hard", 4, 4},
	}
	for _, tc := range cases {
		g.Settings.Difficulty = tc.difficulty
		for i := 0; i < 10; i++ {
			n := evilCount(g, tc.players)
			if n < tc.min || n > tc.max {
				t.Errorf("%d players / %s: evil count %d outside [%d,%d]", tc.players, tc.difficulty, n, tc.min, tc.max)
			}
		}
	}
}

func TestCustomDealRejectsBadPools(t *testing.T) {
	ctx := newTestContext(t)
	g, players := ctx.newTestGame(RoleVillager, RoleVillager, RoleVillager)
	for _, p := range players {
		p.Role = ""
	}

	if err := assignRolesCustom(g, []RoleID{RoleWerewolf, RoleVillager}); err == nil {
		t.Error("expected an undersized pool to be rejected")
	}
	if err := assignRolesCustom(g, []RoleID{RoleWerewolf, RoleVillager, "chupacabra"}); err == nil {
		t.Error("expected an unknown role to be rejected")
	}

	// A failed setup must not leave a half-dealt roster.
	for _, p := range players {
		if p.Role != "" {
			t.Errorf("player %d was mutated by a rejected deal: %q", p.ID, p.Role)
		}
	}
}

func TestCustomDealShufflesThePool(t *testing.T) {
	ctx := newTestContext(t)
	g, players := ctx.newTestGame(RoleVillager, RoleVillager, RoleVillager, RoleVillager)

	pool := []RoleID{RoleWerewolf, RoleSeer, RoleDoctor, RoleVillager}
	if err := assignRolesCustom(g, pool); err != nil {
		t.Fatalf("custom deal failed: %v", err)
	}

	seen := make(map[RoleID]int)
	for _, p := range players {
		seen[p.Role]++
	}
	for _, id := range pool {
		seen[id]--
	}
	for id, n := range seen {
		if n != 0 {
			t.Errorf("dealt roles do not match the pool: %q off by %d", id, n)
		}
	}
}

func TestCustomDealEvilTeamPrecedence(t *testing.T) {
	ctx := newTestContext(t)

	g, _ := ctx.newTestGame(RoleVillager, RoleVillager, RoleVillager)
	if err := assignRolesCustom(g, []RoleID{RoleArsonist, RoleWerewolf, RoleVillager}); err != nil {
		t.Fatalf("custom deal failed: %v", err)
	}
	if g.EvilTeamType != TeamFire {
		t.Errorf("fire should outrank wolf, got %q", g.EvilTeamType)
	}
	registry.remove(g.Code)

	g, _ = ctx.newTestGame(RoleVillager, RoleVillager, RoleVillager)
	if err := assignRolesCustom(g, []RoleID{RoleSerialKiller, RoleWerewolf, RoleVillager}); err != nil {
		t.Fatalf("custom deal failed: %v", err)
	}
	if g.EvilTeamType != TeamWolf {
		t.Errorf("wolf should outrank killer, got %q", g.EvilTeamType)
	}
}

func TestDealWiresExecutionerContract(t *testing.T) {
	ctx := newTestContext(t)
	g, players := ctx.newTestGame(RoleVillager, RoleVillager, RoleVillager)

	if err := assignRolesCustom(g, []RoleID{RoleExecutioner, RoleWerewolf, RoleVillager}); err != nil {
		t.Fatalf("custom deal failed: %v", err)
	}

	var exec *Player
	for _, p := range players {
		if p.Role == RoleExecutioner {
			exec = p
		}
	}
	if exec == nil {
		t.Fatal("executioner was not dealt")
	}
	if exec.ExecutionerTarget == 0 || exec.ExecutionerTarget == exec.ID {
		t.Errorf("executioner needs a target other than themself, got %d", exec.ExecutionerTarget)
	}
	if g.player(exec.ExecutionerTarget) == nil {
		t.Errorf("executioner target %d is not in the game", exec.ExecutionerTarget)
	}
}

func TestDealPairsTwins(t *testing.T) {
	ctx := newTestContext(t)
	g, _ := ctx.newTestGame(RoleVillager, RoleVillager, RoleVillager, RoleVillager)

	if err := assignRolesCustom(g, []RoleID{RoleTwin, RoleTwin, RoleWerewolf, RoleVillager}); err != nil {
		t.Fatalf("custom deal failed: %v", err)
	}
	if len(g.TwinsIDs) != 2 {
		t.Fatalf("expected two twins recorded, got %d", len(g.TwinsIDs))
	}
	if g.TwinsIDs[0] == g.TwinsIDs[1] {
		t.Error("twins must be distinct players")
	}
}

func TestSampleRolesPicksDistinct(t *testing.T) {
	ctx := newTestContext(t)
	g, _ := ctx.newTestGame(RoleVillager, RoleVillager, RoleVillager)
	g.rng = mrand.New(mrand.NewSource(7))

	picked := sampleRoles(g, basicEvilRoles, 3)
	if len(picked) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(picked))
	}
	seen := make(map[RoleID]bool)
	for _, id := range picked {
		if seen[id] {
			t.Errorf("role %q sampled twice", id)
		}
		seen[id] = true
		if !contains(basicEvilRoles, id) {
			t.Errorf("role %q is not in the candidate set", id)
		}
	}
}
