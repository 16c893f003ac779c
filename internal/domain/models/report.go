package models

import "time"

// EggCollection is the archived result of a daily egg collection.
type EggCollection struct {
	ID        string               `bson:"_id" json:"id"`
	Date      time.Time            `bson:"date" json:"date"`
	Counts    map[EggColor]float64 `bson:"counts" json:"counts"`
	Subtotal  float64              `bson:"subtotal" json:"subtotal"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// SensorReading is one evaluated derived metric.
type SensorReading struct {
	Key       string `bson:"key" json:"key"`
	Name      string `bson:"name" json:"name"`
	Icon      string `bson:"icon,omitempty" json:"icon,omitempty"`
	Unit      string `bson:"unit,omitempty" json:"unit,omitempty"`
	State     any    `bson:"state" json:"state"`
	Available bool   `bson:"available" json:"available"`
}

// DailyReport represents the aggregated daily data to be stored in MongoDB.
type DailyReport struct {
	ID        string          `bson:"_id" json:"id"`
	FarmName  string          `bson:"farm_name" json:"farm_name"`
	Date      time.Time       `bson:"date" json:"date"`
	Readings  []SensorReading `bson:"readings" json:"readings"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
}

// Reading returns the reading with the given key.
func (r DailyReport) Reading(key string) (SensorReading, bool) {
	for _, reading := range r.Readings {
		if reading.Key == key {
			return reading, true
		}
	}
	return SensorReading{}, false
}
