package models

import (
	"strings"
	"time"
)

// PurchaseType enumerates the purchase categories a farmer can record.
type PurchaseType string

const (
	PurchasePellets       PurchaseType = "Pellets"
	PurchaseScratchGrains PurchaseType = "Scratch Grains"
	PurchaseBedding       PurchaseType = "Bedding"
	PurchaseMisc          PurchaseType = "Misc"
)

// PurchaseTypes lists the accepted purchase types.
var PurchaseTypes = []PurchaseType{PurchasePellets, PurchaseScratchGrains, PurchaseBedding, PurchaseMisc}

// ParsePurchaseType matches raw input against the enumerated purchase types.
// Matching is exact after trimming surrounding whitespace.
func ParsePurchaseType(raw string) (PurchaseType, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, t := range PurchaseTypes {
		if string(t) == trimmed {
			return t, true
		}
	}
	return "", false
}

// EggColor identifies one of the tracked shell colors.
type EggColor string

const (
	EggWhite     EggColor = "white"
	EggBeige     EggColor = "beige"
	EggMint      EggColor = "mint"
	EggOlive     EggColor = "olive"
	EggBrown     EggColor = "brown"
	EggChocolate EggColor = "chocolate"
)

// EggColors lists the colors in their canonical order.
var EggColors = []EggColor{EggWhite, EggBeige, EggMint, EggOlive, EggBrown, EggChocolate}

// DailyField returns the input field key holding today's count for the color.
func (c EggColor) DailyField() string {
	return string(c) + "_eggs_daily"
}

// PurchaseRequest is the payload of the record purchase command.
type PurchaseRequest struct {
	Type   string  `json:"purchase_type" binding:"required"`
	Weight float64 `json:"purchase_weight" binding:"gte=0"`
	Cost   float64 `json:"purchase_cost" binding:"gte=0"`
	Date   string  `json:"purchase_date" binding:"required"`
}

// EggCollectionRequest is the payload of the record daily eggs command.
type EggCollectionRequest struct {
	White     float64 `json:"white_eggs" binding:"gte=0"`
	Beige     float64 `json:"beige_eggs" binding:"gte=0"`
	Mint      float64 `json:"mint_eggs" binding:"gte=0"`
	Olive     float64 `json:"olive_eggs" binding:"gte=0"`
	Brown     float64 `json:"brown_eggs" binding:"gte=0"`
	Chocolate float64 `json:"chocolate_eggs" binding:"gte=0"`
}

// Counts maps the request onto egg colors.
func (r EggCollectionRequest) Counts() map[EggColor]float64 {
	return map[EggColor]float64{
		EggWhite:     r.White,
		EggBeige:     r.Beige,
		EggMint:      r.Mint,
		EggOlive:     r.Olive,
		EggBrown:     r.Brown,
		EggChocolate: r.Chocolate,
	}
}

// Purchase is a routed purchase as written to the ledger.
type Purchase struct {
	Type       PurchaseType `json:"purchase_type"`
	Weight     float64      `json:"purchase_weight"`
	Cost       float64      `json:"purchase_cost"`
	Date       string       `json:"purchase_date"`
	RecordedAt time.Time    `json:"recorded_at"`
}
