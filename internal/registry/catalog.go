package registry

import "github.com/mamadbah2/chickenfarm/internal/domain/models"

// Units used by the catalog.
const (
	UnitKilogram = "kg"
	UnitEuro     = "€"
)

// Field keys referenced outside the catalog.
const (
	BrokenEggs        = "broken_eggs"
	EggsUsed          = "eggs_used"
	EggsToHatchery    = "eggs_to_hatchery"
	EggsSoldAmount    = "eggs_sold_amount"
	EggsSoldValue     = "eggs_sold_value"
	PelletsKg         = "pellets_kg"
	PelletsCost       = "pellets_cost"
	ScratchGrainsKg   = "scratch_grains_kg"
	ScratchGrainsCost = "scratch_grains_cost"
	BeddingCost       = "bedding_cost"
	MiscCost          = "misc_cost"
	NumberOfHens      = "number_of_hens"
	NumberOfRoosters  = "number_of_roosters"
	ChickenDied       = "chicken_died"
	ChickenButchered  = "chicken_butchered"
	EggsInHatchery    = "eggs_in_hatchery"
	HatchedEggs       = "hatched_eggs"
	DiedEggs          = "died_eggs"
	PurchaseWeight    = "purchase_weight"
	PurchaseCost      = "purchase_cost"

	PelletsPurchaseDate       = "pellets_purchase_date"
	ScratchGrainsPurchaseDate = "scratch_grains_purchase_date"
	BeddingPurchaseDate       = "bedding_purchase_date"
)

func count(key, label, icon string, max float64) models.FieldSpec {
	return models.FieldSpec{Key: key, Label: label, Icon: icon, Min: 0, Max: max, Step: 1, Kind: models.FieldNumber}
}

func money(key, label string, max float64) models.FieldSpec {
	return models.FieldSpec{Key: key, Label: label, Icon: "mdi:cash", Min: 0, Max: max, Step: 0.01, Unit: UnitEuro, Kind: models.FieldNumber}
}

func weight(key, label string) models.FieldSpec {
	return models.FieldSpec{Key: key, Label: label, Icon: "mdi:weight-kilogram", Min: 0, Max: 1000, Step: 0.1, Unit: UnitKilogram, Kind: models.FieldNumber}
}

func date(key, label string) models.FieldSpec {
	return models.FieldSpec{Key: key, Label: label, Icon: "mdi:calendar", Kind: models.FieldDate}
}

// DefaultFields returns the farm's input catalog.
func DefaultFields() []models.FieldSpec {
	specs := []models.FieldSpec{
		count(models.EggWhite.DailyField(), "White Eggs Today", "mdi:egg", 100),
		count(models.EggBeige.DailyField(), "Beige Eggs Today", "mdi:egg", 100),
		count(models.EggMint.DailyField(), "Mint Eggs Today", "mdi:egg", 100),
		count(models.EggOlive.DailyField(), "Olive Eggs Today", "mdi:egg", 100),
		count(models.EggBrown.DailyField(), "Brown Eggs Today", "mdi:egg", 100),
		count(models.EggChocolate.DailyField(), "Chocolate Eggs Today", "mdi:egg", 100),
		count(BrokenEggs, "Broken Eggs", "mdi:egg-off", 100),

		count(EggsUsed, "Eggs Used", "mdi:egg-off", 1000),
		count(EggsToHatchery, "Eggs to Hatchery", "mdi:egg-easter", 1000),
		count(EggsSoldAmount, "Eggs Sold (Amount)", "mdi:egg", 10000),
		money(EggsSoldValue, "Eggs Sold (Value)", 10000),

		weight(PelletsKg, "Pellets Weight (KG)"),
		money(PelletsCost, "Pellets Cost", 1000),
		weight(ScratchGrainsKg, "Scratch Grains Weight (KG)"),
		money(ScratchGrainsCost, "Scratch Grains Cost", 1000),
		money(BeddingCost, "Bedding Cost", 1000),
		money(MiscCost, "Miscellaneous Cost", 1000),

		count(NumberOfHens, "Number of Hens", "mdi:gender-female", 1000),
		count(NumberOfRoosters, "Number of Roosters", "mdi:gender-male", 100),
		count(ChickenDied, "Chickens Died", "mdi:cross", 1000),
		count(ChickenButchered, "Chickens Butchered", "mdi:knife", 1000),

		count(EggsInHatchery, "Eggs in Hatchery", "mdi:egg-easter", 1000),
		count(HatchedEggs, "Hatched Eggs", "mdi:egg-easter", 1000),
		count(DiedEggs, "Died Eggs", "mdi:egg-off", 1000),

		weight(PurchaseWeight, "Purchase Weight"),
		money(PurchaseCost, "Purchase Cost", 1000),

		date(PelletsPurchaseDate, "Pellets Purchase Date"),
		date(ScratchGrainsPurchaseDate, "Scratch Grains Purchase Date"),
		date(BeddingPurchaseDate, "Bedding Purchase Date"),
	}
	return specs
}
