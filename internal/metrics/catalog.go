package metrics

import "github.com/mamadbah2/chickenfarm/internal/registry"

// Metric keys.
const (
	SubtotalEggsKey              = "subtotal_eggs"
	TotalEggsKey                 = "total_eggs"
	EggsInStorageKey             = "eggs_in_storage"
	TotalCostsKey                = "total_costs"
	TotalProfitKey               = "total_profit"
	ProfitSubtotalKey            = "profit_subtotal"
	ProfitPerEggKey              = "profit_per_egg"
	PelletsCostPerKgKey          = "pellets_cost_per_kg"
	ScratchGrainsCostPerKgKey    = "scratch_grains_cost_per_kg"
	PelletsWeightGramsKey        = "pellets_weight_grams"
	ScratchGrainsWeightGramsKey  = "scratch_grains_weight_grams"
	TotalChickensKey             = "total_chickens"
	DaysToHatchKey               = "days_to_hatch"
	HatcheryStatusKey            = "hatchery_status"
	LastPelletsPurchaseKey       = "last_pellets_purchase"
	LastScratchGrainsPurchaseKey = "last_scratch_grains_purchase"
	LastBeddingPurchaseKey       = "last_bedding_purchase"
)

const (
	unitGram      = "g"
	unitEuroPerKg = registry.UnitEuro + "/" + registry.UnitKilogram
	unitDays      = "d"
)

func costPerKg(feed Feed) Compute {
	return Numeric(func(s Snapshot) (float64, error) { return CostPerKg(s, feed) })
}

func weightGrams(feed Feed) Compute {
	return Numeric(func(s Snapshot) (float64, error) { return WeightGrams(s, feed) })
}

func passthrough(key string) func(Snapshot) (float64, error) {
	return func(s Snapshot) (float64, error) { return s.Float(key) }
}

func dateText(key string) Compute {
	return Textual(func(s Snapshot) (string, error) { return s.Text(key) })
}

// DefaultMetrics returns the farm's derived sensor catalog.
func DefaultMetrics() []Metric {
	return []Metric{
		{Key: SubtotalEggsKey, Name: "Subtotal Eggs", Icon: "mdi:egg", Compute: Numeric(SubtotalEggs)},
		{Key: TotalEggsKey, Name: "Total Eggs", Icon: "mdi:egg", Compute: Numeric(TotalEggs)},
		{Key: EggsInStorageKey, Name: "Eggs in Storage", Icon: "mdi:fridge", Compute: Numeric(EggsInStorage)},
		{Key: TotalCostsKey, Name: "Total Costs", Icon: "mdi:cash-minus", Unit: registry.UnitEuro, Compute: Numeric(TotalCosts)},
		{Key: TotalProfitKey, Name: "Total Profit", Icon: "mdi:cash-plus", Unit: registry.UnitEuro, Compute: Numeric(TotalProfit)},
		{Key: ProfitSubtotalKey, Name: "Profit Subtotal", Icon: "mdi:cash", Unit: registry.UnitEuro, Compute: Numeric(passthrough(registry.EggsSoldValue))},
		{Key: ProfitPerEggKey, Name: "Profit per Egg", Icon: "mdi:cash", Unit: registry.UnitEuro, Compute: Numeric(ProfitPerEgg)},
		{Key: PelletsCostPerKgKey, Name: "Pellets Cost per kg", Icon: "mdi:scale", Unit: unitEuroPerKg, Compute: costPerKg(FeedPellets)},
		{Key: ScratchGrainsCostPerKgKey, Name: "Scratch Grains Cost per kg", Icon: "mdi:scale", Unit: unitEuroPerKg, Compute: costPerKg(FeedScratchGrains)},
		{Key: PelletsWeightGramsKey, Name: "Pellets Weight", Icon: "mdi:weight-gram", Unit: unitGram, Compute: weightGrams(FeedPellets)},
		{Key: ScratchGrainsWeightGramsKey, Name: "Scratch Grains Weight", Icon: "mdi:weight-gram", Unit: unitGram, Compute: weightGrams(FeedScratchGrains)},
		{Key: TotalChickensKey, Name: "Total Chickens", Icon: "mdi:bird", Compute: Numeric(TotalChickens)},
		{Key: DaysToHatchKey, Name: "Days to Hatch", Icon: "mdi:timer-sand", Unit: unitDays, Compute: Numeric(DaysToHatch)},
		{Key: HatcheryStatusKey, Name: "Hatchery Status", Icon: "mdi:egg-outline", Compute: Textual(HatcheryStatus)},
		{Key: LastPelletsPurchaseKey, Name: "Last Pellets Purchase", Icon: "mdi:calendar", Compute: dateText(registry.PelletsPurchaseDate)},
		{Key: LastScratchGrainsPurchaseKey, Name: "Last Scratch Grains Purchase", Icon: "mdi:calendar", Compute: dateText(registry.ScratchGrainsPurchaseDate)},
		{Key: LastBeddingPurchaseKey, Name: "Last Bedding Purchase", Icon: "mdi:calendar", Compute: dateText(registry.BeddingPurchaseDate)},
	}
}
