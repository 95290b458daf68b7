package routes

import (
	"github.com/gin-gonic/gin"

	"gpx_tracker/internal/controllers"
)

func CatalogRoutes(r *gin.Engine, cc *controllers.CatalogController) {
	db := r.Group("/db")
	{
		db.POST("/ingest", cc.Ingest)
		db.GET("/status", cc.Status)
		db.GET("/documents", cc.ListDocuments)
		db.DELETE("/documents", cc.ClearDocuments)
		db.DELETE("/documents/:id", cc.DeleteDocument)
		db.GET("/documents/:id/routes", cc.ListRoutes)
		db.GET("/routes/:id/waypoints", cc.ListWaypoints)
		db.GET("/routes/:id/geometry", cc.RouteGeometry)
	}
}
