package metrics

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/registry"
)

// IncubationDays is the fixed hatch time reported while eggs are incubating.
const IncubationDays = 21

// GramsPerKilogram converts feed weights for the gram sensors.
const GramsPerKilogram = 1000

// Feed names a feed with both a weight and a cost input.
type Feed string

const (
	FeedPellets       Feed = "pellets"
	FeedScratchGrains Feed = "scratch_grains"
)

// WeightKey returns the input key holding the feed weight in kg.
func (f Feed) WeightKey() string { return string(f) + "_kg" }

// CostKey returns the input key holding the feed cost.
func (f Feed) CostKey() string { return string(f) + "_cost" }

var costKeys = []string{registry.PelletsCost, registry.ScratchGrainsCost, registry.BeddingCost, registry.MiscCost}

// ZeroGuard is the division policy for per-unit metrics: the ratio rounded to
// two decimals when the denominator is positive, 0 otherwise.
func ZeroGuard(numerator, denominator float64) float64 {
	if denominator > 0 {
		return Round2(numerator / denominator)
	}
	return 0
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SubtotalEggs sums today's counts of every egg color.
func SubtotalEggs(s Snapshot) (float64, error) {
	keys := make([]string, 0, len(models.EggColors))
	for _, c := range models.EggColors {
		keys = append(keys, c.DailyField())
	}
	return s.Sum(keys...)
}

// TotalEggs is the subtotal minus broken eggs.
func TotalEggs(s Snapshot) (float64, error) {
	subtotal, err := SubtotalEggs(s)
	if err != nil {
		return 0, err
	}
	broken, err := s.Float(registry.BrokenEggs)
	if err != nil {
		return 0, err
	}
	return subtotal - broken, nil
}

// EggsInStorage is total eggs minus used, hatchery and sold eggs.
func EggsInStorage(s Snapshot) (float64, error) {
	total, err := TotalEggs(s)
	if err != nil {
		return 0, err
	}
	used, err := s.Float(registry.EggsUsed)
	if err != nil {
		return 0, err
	}
	hatchery, err := s.Float(registry.EggsToHatchery)
	if err != nil {
		return 0, err
	}
	sold, err := s.Float(registry.EggsSoldAmount)
	if err != nil {
		return 0, err
	}
	return total - used - hatchery - sold, nil
}

// TotalCosts sums feed, bedding and miscellaneous costs.
func TotalCosts(s Snapshot) (float64, error) {
	return s.Sum(costKeys...)
}

// TotalProfit is egg revenue minus total costs.
func TotalProfit(s Snapshot) (float64, error) {
	revenue, err := s.Float(registry.EggsSoldValue)
	if err != nil {
		return 0, err
	}
	costs, err := TotalCosts(s)
	if err != nil {
		return 0, err
	}
	return revenue - costs, nil
}

// ProfitPerEgg divides total profit over sold eggs under ZeroGuard. Nothing
// beyond the sold amount is read while it is zero.
func ProfitPerEgg(s Snapshot) (float64, error) {
	sold, err := s.Float(registry.EggsSoldAmount)
	if err != nil {
		return 0, err
	}
	if sold <= 0 {
		return 0, nil
	}
	profit, err := TotalProfit(s)
	if err != nil {
		return 0, err
	}
	return ZeroGuard(profit, sold), nil
}

// CostPerKg divides a feed's cost over its weight under ZeroGuard.
func CostPerKg(s Snapshot, feed Feed) (float64, error) {
	kg, err := s.Float(feed.WeightKey())
	if err != nil {
		return 0, err
	}
	if kg <= 0 {
		return 0, nil
	}
	cost, err := s.Float(feed.CostKey())
	if err != nil {
		return 0, err
	}
	return ZeroGuard(cost, kg), nil
}

// WeightGrams converts a feed weight to grams.
func WeightGrams(s Snapshot, feed Feed) (float64, error) {
	kg, err := s.Float(feed.WeightKey())
	if err != nil {
		return 0, err
	}
	return kg * GramsPerKilogram, nil
}

// TotalChickens is hens plus roosters minus died and butchered birds.
func TotalChickens(s Snapshot) (float64, error) {
	hens, err := s.Float(registry.NumberOfHens)
	if err != nil {
		return 0, err
	}
	roosters, err := s.Float(registry.NumberOfRoosters)
	if err != nil {
		return 0, err
	}
	died, err := s.Float(registry.ChickenDied)
	if err != nil {
		return 0, err
	}
	butchered, err := s.Float(registry.ChickenButchered)
	if err != nil {
		return 0, err
	}
	return hens + roosters - died - butchered, nil
}

// DaysToHatch reports IncubationDays while any egg is in the hatchery. It is a
// constant, not a countdown.
func DaysToHatch(s Snapshot) (float64, error) {
	incubating, err := s.Float(registry.EggsInHatchery)
	if err != nil {
		return 0, err
	}
	if incubating > 0 {
		return IncubationDays, nil
	}
	return 0, nil
}

// HatcheryStatus summarizes the hatchery counters.
func HatcheryStatus(s Snapshot) (string, error) {
	incubating, err := s.Float(registry.EggsInHatchery)
	if err != nil {
		return "", err
	}
	hatched, err := s.Float(registry.HatchedEggs)
	if err != nil {
		return "", err
	}
	died, err := s.Float(registry.DiedEggs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("In hatchery: %s, Hatched: %s, Died: %s",
		formatCount(incubating), formatCount(hatched), formatCount(died)), nil
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
