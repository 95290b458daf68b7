package routes

import (
	"github.com/gin-gonic/gin"

	"gpx_tracker/internal/controllers"
	"gpx_tracker/internal/middleware"
)

// uploads larger than this are refused
const maxUploadSize = 32 << 20

func FileRoutes(r *gin.Engine, fc *controllers.FileController) {
	r.POST("/upload", middleware.MaxBodySize(maxUploadSize), fc.Upload)
	r.GET("/uploads/:name", fc.Download)

	files := r.Group("/files")
	{
		files.GET("", fc.ListFiles)
		files.GET("/log", fc.FileLog)
		files.GET("/:name/components", fc.Components)
		files.GET("/:name/components/:component/otherdata", fc.OtherData)
		files.PUT("/:name/components", fc.RenameComponent)
	}
}
