package graph

import (
	"fmt"

	"github.com/sociogram-live/influence-lab/internal/channels"
)

// Role is a structural role label derived from centrality.
type Role string

const (
	RoleBridge     Role = "Bridge"
	RoleInitiator  Role = "Initiator"
	RoleAmplifier  Role = "Amplifier"
	RoleConnector  Role = "Connector"
	RoleStabilizer Role = "Stabilizer"
)

// ClassifyRole maps centrality to a role. The conditions are evaluated in a
// fixed priority order; the first match wins.
func ClassifyRole(c Centrality) Role {
	switch {
	case c.Betweenness > 2:
		return RoleBridge
	case float64(c.OutDegree) > float64(c.InDegree)*1.5:
		return RoleInitiator
	case float64(c.InDegree) > float64(c.OutDegree)*1.5:
		return RoleAmplifier
	case c.InDegree > 3 && c.OutDegree > 3:
		return RoleConnector
	default:
		return RoleStabilizer
	}
}

var roleClauses = map[Role]string{
	RoleBridge:     "links groups that would otherwise stay apart",
	RoleInitiator:  "reaches out more than they are sought",
	RoleAmplifier:  "draws in more attention than they send",
	RoleConnector:  "trades influence heavily in both directions",
	RoleStabilizer: "keeps a steady, balanced presence",
}

// Describe produces a one-sentence profile naming the dominant channel, the
// role, and an interaction-volume tier. Empty when the node has no
// interactions at all.
func Describe(v Vector, role Role, c Centrality) string {
	if c.TotalVolume == 0 {
		return ""
	}
	dominant, ok := v.Dominant()
	if !ok {
		// no incoming weight yet; an all-zero vector resolves to the first channel
		dominant = channels.All()[0].ID
	}
	tier := "selective interactions"
	if c.TotalVolume > 10 {
		tier = "high interaction volume"
	} else if c.TotalVolume > 5 {
		tier = "moderate interaction volume"
	}
	return fmt.Sprintf("Strongest on the %s channel, %s, with %s.",
		channels.LabelOf(dominant), roleClauses[role], tier)
}
