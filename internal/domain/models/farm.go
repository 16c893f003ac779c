package models

import "time"

// FarmSize enumerates the supported farm sizes.
type FarmSize string

const (
	FarmSizeSmall  FarmSize = "Small"
	FarmSizeMedium FarmSize = "Medium"
	FarmSizeLarge  FarmSize = "Large"
)

// FarmSizes lists valid sizes in display order.
var FarmSizes = []FarmSize{FarmSizeSmall, FarmSizeMedium, FarmSizeLarge}

// ChickenType enumerates the supported breeds.
type ChickenType string

const (
	ChickenRhodeIslandRed ChickenType = "Rhode Island Red"
	ChickenPlymouthRock   ChickenType = "Plymouth Rock"
	ChickenSussex         ChickenType = "Sussex"
)

// ChickenTypes lists valid breeds in display order.
var ChickenTypes = []ChickenType{ChickenRhodeIslandRed, ChickenPlymouthRock, ChickenSussex}

// Defaults offered by the setup form.
const (
	DefaultFarmName    = "My Chicken Farm"
	DefaultFarmSize    = FarmSizeSmall
	DefaultChickenType = ChickenRhodeIslandRed
)

// Valid reports whether s is one of the enumerated sizes.
func (s FarmSize) Valid() bool {
	for _, v := range FarmSizes {
		if v == s {
			return true
		}
	}
	return false
}

// Valid reports whether c is one of the enumerated breeds.
func (c ChickenType) Valid() bool {
	for _, v := range ChickenTypes {
		if v == c {
			return true
		}
	}
	return false
}

// FarmConfig is the one-time setup record of a deployment.
type FarmConfig struct {
	Name        string      `bson:"farm_name" json:"farm_name"`
	Size        FarmSize    `bson:"farm_size" json:"farm_size"`
	ChickenType ChickenType `bson:"chicken_type" json:"chicken_type"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}
