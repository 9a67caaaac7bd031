package main

import (
	"log"
)

// handleWSDetectiveCheck is the Detective's daytime legwork: one exact-role
// report per day.
func handleWSDetectiveCheck(client *Client, msg WSMessage) {
	g, ok := gameForPlayer(client.playerID)
	if !ok {
		sendErrorToast(client.playerID, "You are not in a game")
		return
	}
	if g.Phase != PhaseDay {
		sendErrorToast(client.playerID, "Investigations happen in daylight")
		return
	}

	detective := g.player(client.playerID)
	if detective == nil || !detective.Alive {
		sendErrorToast(client.playerID, "Dead players cannot investigate")
		return
	}
	if detective.effectiveRole() != RoleDetective {
		sendErrorToast(client.playerID, "Only the Detective can investigate by day")
		return
	}
	if detective.HasActed {
		sendErrorToast(client.playerID, "You have already investigated today")
		return
	}

	targetID, okID := parseTargetID(msg.TargetID)
	target := g.player(targetID)
	if !okID || target == nil || !target.Alive || targetID == detective.ID {
		sendErrorToast(client.playerID, "Pick a living player other than yourself")
		return
	}

	detective.HasActed = true
	g.recordAction(detective.ID, "detective_check")

	seen := target.Role
	log.Printf("Game %s: detective %s (%d) checked %s (%d): %s", g.Code, detective.Name, detective.ID, target.Name, target.ID, seen)
	notify.Notify(detective.ID, Event{Kind: EventReport, GameCode: g.Code, Target: target.ID,
		Role: seen, Outcome: "detective",
		Message: "Your investigation concludes: " + target.Name + " is the " + roleCatalog[seen].Name + "."})
}

// handleWSMayorReveal makes the Mayor's office public; from here on their
// lynch vote counts twice. Irreversible.
func handleWSMayorReveal(client *Client, msg WSMessage) {
	g, ok := gameForPlayer(client.playerID)
	if !ok {
		sendErrorToast(client.playerID, "You are not in a game")
		return
	}
	if g.Phase != PhaseDay && g.Phase != PhaseVoting {
		sendErrorToast(client.playerID, "The office opens in daylight")
		return
	}

	mayor := g.player(client.playerID)
	if mayor == nil || !mayor.Alive {
		sendErrorToast(client.playerID, "Dead players hold no office")
		return
	}
	if mayor.Role != RoleMayor {
		sendErrorToast(client.playerID, "You are not the Mayor")
		return
	}
	if mayor.MayorRevealed {
		sendErrorToast(client.playerID, "The village already knows")
		return
	}

	mayor.MayorRevealed = true
	g.recordAction(mayor.ID, "mayor_reveal")
	log.Printf("Game %s: mayor %s (%d) revealed", g.Code, mayor.Name, mayor.ID)
	notify.Broadcast(g, Event{Kind: EventMayor, Phase: g.Phase, Day: g.DayNumber,
		Target: mayor.ID, Role: RoleMayor, Team: TeamVillager,
		Message: mayor.Name + " steps forward: they are the Mayor. Their vote now counts twice."})
}
