package router

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/server/handlers"
)

// Handlers groups the API handlers mounted by New.
type Handlers struct {
	Field   *handlers.FieldHandler
	Sensor  *handlers.SensorHandler
	Command *handlers.CommandHandler
	Setup   *handlers.SetupHandler
}

// New wires the Gin engine with required routes and middlewares. Write routes
// require adminToken as a bearer token; an empty token leaves them open. A nil
// gatherer disables /metrics.
func New(h Handlers, adminToken string, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	admin := adminMiddleware(adminToken)
	if adminToken == "" {
		logger.Warn("ADMIN_TOKEN is empty, write routes are unauthenticated")
	}

	api := r.Group("/api/v1")

	fields := api.Group("/fields")
	fields.GET("", h.Field.List)
	fields.GET("/:key", h.Field.Get)
	fields.PUT("/:key", admin, h.Field.Update)

	sensors := api.Group("/sensors")
	sensors.GET("", h.Sensor.List)
	sensors.GET("/:key", h.Sensor.Get)

	commands := api.Group("/commands", admin)
	commands.POST("/record-purchase", h.Command.RecordPurchase)
	commands.POST("/record-daily-eggs", h.Command.RecordDailyEggs)
	commands.POST("/reset-daily-eggs", h.Command.ResetDailyEggs)
	commands.POST("/reset-purchase-inputs", h.Command.ResetPurchaseInputs)

	setup := api.Group("/setup")
	setup.GET("", h.Setup.Begin)
	setup.POST("", admin, h.Setup.Submit)
	setup.GET("/options", h.Setup.Options)
	setup.PUT("/options", admin, h.Setup.SubmitOptions)

	logger.Info("router initialized")

	return r
}

func adminMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		presented, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
