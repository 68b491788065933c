// Package league maps point totals to league tiers.
package league

// Tier names in ascending order.
const (
	Bronze    = "Bronze"
	Silver    = "Silver"
	Gold      = "Gold"
	Platinum  = "Platinum"
	Legendary = "Legendary"
)

type threshold struct {
	below int64
	tier  string
}

// thresholds are half-open upper bounds; anything past the last is Legendary.
var thresholds = []threshold{
	{below: 100, tier: Bronze},
	{below: 250, tier: Silver},
	{below: 500, tier: Gold},
	{below: 1000, tier: Platinum},
}

// Classify returns the tier for a non-negative point total.
func Classify(points int64) string {
	for _, t := range thresholds {
		if points < t.below {
			return t.tier
		}
	}
	return Legendary
}

// Rank returns the 0-based position of tier in ascending order, or -1 for
// an unknown name.
func Rank(tier string) int {
	switch tier {
	case Bronze:
		return 0
	case Silver:
		return 1
	case Gold:
		return 2
	case Platinum:
		return 3
	case Legendary:
		return 4
	default:
		return -1
	}
}
