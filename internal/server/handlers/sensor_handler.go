package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
)

// SensorReader evaluates derived sensors. *metrics.Reader implements it.
type SensorReader interface {
	Read(key string) (models.SensorReading, error)
	ReadAll() []models.SensorReading
}

// SensorHandler serves the derived sensor endpoints.
type SensorHandler struct {
	sensors SensorReader
}

// NewSensorHandler constructs the sensor handler.
func NewSensorHandler(sensors SensorReader) *SensorHandler {
	return &SensorHandler{sensors: sensors}
}

// List evaluates every sensor from one snapshot.
func (h *SensorHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sensors": h.sensors.ReadAll()})
}

// Get evaluates one sensor.
func (h *SensorHandler) Get(c *gin.Context) {
	reading, err := h.sensors.Read(c.Param("key"))
	if err != nil {
		notFound(c, "unknown sensor")
		return
	}
	c.JSON(http.StatusOK, reading)
}
