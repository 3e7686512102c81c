// Package http wires the gin routes: REST under /api/*, the WebSocket
// upgrade at /api/ws/signal and Prometheus counters at /metrics.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/avdeev/peerdrop/internal/adapters/signal"
	"github.com/avdeev/peerdrop/internal/app"
	"github.com/avdeev/peerdrop/internal/config"
	"github.com/avdeev/peerdrop/internal/metrics"
)

func SetupRouter(ctx context.Context, cfg *config.Config, rt *app.Router, m *metrics.Metrics, iceServers []webrtc.ICEServer) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	ctl := signal.NewController(cfg, rt)

	api := r.Group("/api")

	api.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "running",
			"timestamp":   time.Now().UnixMilli(),
			"rooms":       rt.Rooms.Count(),
			"connections": rt.Registry.Count(),
		})
	})

	api.GET("/ice", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers})
	})

	api.GET("/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	r.GET("/metrics", gin.WrapH(metrics.PrometheusHandler(m)))

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
