package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"canchas-backend/config"
	"canchas-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router. A nil gatherer leaves
// the metrics endpoint out.
func NewRouter(handler *Handler, cfg *config.Config, metrics *mw.HTTPMetrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.Default()
	r.Use(mw.CORS())
	if metrics != nil {
		r.Use(metrics.Middleware())
	}

	if gatherer != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Public GET responses are cached briefly and dropped on any successful mutation.
	pages := mw.NewResponseCache(cfg.Server.CacheTTL)
	caching := pages.Cache()

	ownerAuth := mw.OwnerAuth(handler.issuer, false)
	slotOwner := mw.OwnerAuth(handler.issuer, cfg.Auth.LegacyOpenOwnerRoutes)

	api := r.Group("/api")
	api.Use(rateLimiter, pages.Invalidate())
	{
		api.GET("/canchas", caching, handler.ListFields)
		api.GET("/turnos_canchas", caching, handler.ListSlots)
		api.GET("/turnos_canchas/canchas", caching, handler.ListSlotsByField)
		api.POST("/turnos_canchas", slotOwner, handler.CreateSlot)
		api.POST("/turnos_canchas/lote", slotOwner, handler.CreateSlotBatch)
		api.DELETE("/turnos_canchas/:id", slotOwner, handler.DeleteSlot)

		api.PUT("/turnos/:id", handler.BookSlot)
		api.PUT("/turnos/confirmar/:id", slotOwner, handler.ConfirmSlot)
		api.PUT("/turnos/liberar/:id", slotOwner, handler.ReleaseSlot)

		api.GET("/vistas/canchas", caching, handler.FieldDirectory)
		api.GET("/vistas/canchas/:id/turnos", caching, handler.FieldToday)
		api.GET("/vistas/agenda", ownerAuth, handler.OwnerAgenda)

		api.POST("/auth/login", handler.Login)

		cuenta := api.Group("/cuenta", ownerAuth)
		cuenta.GET("", handler.GetAccount)
		cuenta.PUT("/credenciales", handler.UpdateCredentials)
		cuenta.PUT("/suscripcion", handler.PutSubscription)
		cuenta.DELETE("/suscripcion", handler.DeleteSubscription)

		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
