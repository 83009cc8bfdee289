package httpapi

import (
	"github.com/gin-gonic/gin"

	"mslscheduler/internal/metrics"
)

// RegisterRoutes wires the solver's HTTP surface onto a gin engine that
// already carries the ambient middleware chain (CORS, request id,
// recovery, logging, error handler).
func RegisterRoutes(r *gin.Engine, h *Handler, metricsSvc *metrics.Service) {
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/solve", h.PostSolve)
		v1.GET("/solve/:jobId", h.GetSolve)
		v1.DELETE("/solve/:jobId", h.CancelSolve)
	}
}
