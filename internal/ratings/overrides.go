package ratings

// InjuryTier grades how much a missing player matters
type InjuryTier string

const (
	InjuryTierStar     InjuryTier = "star"
	InjuryTierStarter  InjuryTier = "starter"
	InjuryTierRotation InjuryTier = "rotation"
	InjuryTierBench    InjuryTier = "bench"
)

// Rating penalty per missing player, by tier
var tierPenalty = map[InjuryTier]float64{
	InjuryTierStar:     65,
	InjuryTierStarter:  30,
	InjuryTierRotation: 10,
	InjuryTierBench:    3,
}

// InjuryImpact is one unavailable player on a roster
type InjuryImpact struct {
	Player string
	Tier   InjuryTier
}

// RosterOverrides is an explicit, immutable-by-convention snapshot of
// roster availability passed into model construction. It replaces any
// ambient per-season override tables.
type RosterOverrides struct {
	injuries map[string][]InjuryImpact
}

// NewRosterOverrides builds an empty override set
func NewRosterOverrides() *RosterOverrides {
	return &RosterOverrides{injuries: make(map[string][]InjuryImpact)}
}

// WithInjury returns the overrides with an injury recorded for a team
func (r *RosterOverrides) WithInjury(team, player string, tier InjuryTier) *RosterOverrides {
	r.injuries[team] = append(r.injuries[team], InjuryImpact{Player: player, Tier: tier})
	return r
}

// Injuries lists the recorded injuries for a team
func (r *RosterOverrides) Injuries(team string) []InjuryImpact {
	if r == nil {
		return nil
	}
	return r.injuries[team]
}

// Penalty returns the total rating points a team loses to injuries
func (r *RosterOverrides) Penalty(team string) float64 {
	total := 0.0
	for _, inj := range r.Injuries(team) {
		total += tierPenalty[inj.Tier]
	}
	return total
}
