package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"gpx_tracker/internal/controllers"
	"gpx_tracker/internal/middleware"
)

// Deps are the controllers the router dispatches to.
type Deps struct {
	Files   *controllers.FileController
	Catalog *controllers.CatalogController
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger(
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/healthz"}),
	))
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	FileRoutes(r, deps.Files)
	CatalogRoutes(r, deps.Catalog)

	return r
}
