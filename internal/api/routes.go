package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/analyze", handler.Analyze)
		api.GET("/analyses", handler.ListAnalyses)
		api.GET("/analyses/:run_id", handler.GetAnalysis)
		api.GET("/parcels", handler.LookupParcels)
		api.GET("/comparables", handler.ListComparables)
		api.POST("/comparables", handler.ImportComparables)
		api.GET("/comparables/geojson", handler.ComparablesGeoJSON)
		api.GET("/checklist", handler.Checklist)
		api.GET("/health", handler.Health)
	}
}
