package board

// MaxLevel is the highest improvement level; level 4 is a hotel.
const MaxLevel = 4

// improvementBase maps a color group to its base improvement cost.
var improvementBase = map[string]int{
	GroupBrown:     50,
	GroupLightBlue: 50,
	GroupPink:      100,
	GroupOrange:    100,
	GroupRed:       150,
	GroupYellow:    150,
	GroupGreen:     200,
	GroupNavy:      200,
}

// levelCostMultiplier scales the base cost for levels 1..4 (hotel).
var levelCostMultiplier = []float64{1, 1.5, 2, 3}

// rentMultiplier scales base rent by improvement level 0..4. A hotel pays
// the same multiplier as level 3 until a dedicated hotel rent exists.
var rentMultiplier = []int{1, 2, 3, 5, 5}

// ImprovementCost returns the cost of buying the given improvement level
// (1..4) on a property of the given color group. Unmapped groups cost the
// default base of 100.
func ImprovementCost(color string, level int) int {
	if level < 1 || level > MaxLevel {
		return 0
	}
	base, ok := improvementBase[color]
	if !ok {
		base = 100
	}
	return int(float64(base) * levelCostMultiplier[level-1])
}

// RentMultiplier returns the rent factor for an improvement level.
func RentMultiplier(level int) int {
	if level < 0 {
		return rentMultiplier[0]
	}
	if level >= len(rentMultiplier) {
		return rentMultiplier[len(rentMultiplier)-1]
	}
	return rentMultiplier[level]
}
