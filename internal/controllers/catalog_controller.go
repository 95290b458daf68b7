package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"gpx_tracker/internal/ingest"
	"gpx_tracker/internal/store"
)

// CatalogController triggers ingestion and serves the imported tables.
type CatalogController struct {
	store    *store.Store
	pipeline *ingest.Pipeline
}

func NewCatalogController(st *store.Store, pipeline *ingest.Pipeline) *CatalogController {
	return &CatalogController{store: st, pipeline: pipeline}
}

// Ingest runs one ingestion pass over the uploads directory.
func (cc *CatalogController) Ingest(c *gin.Context) {
	report, err := cc.pipeline.Run(c.Request.Context())
	switch {
	case errors.Is(err, ingest.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ingest.ErrSchemaMissing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "report": report})
		return
	case err != nil:
		logrus.WithError(err).Error("Ingest: run aborted")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "totals": report.Totals()})
}

// Status returns the row count of each table.
func (cc *CatalogController) Status(c *gin.Context) {
	st, err := cc.store.Status(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Status: count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st})
}

func (cc *CatalogController) ListDocuments(c *gin.Context) {
	docs, err := cc.store.ListDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// ListRoutes returns the routes stored for a document.
func (cc *CatalogController) ListRoutes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	routes, err := cc.store.RoutesOf(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// ListWaypoints returns a route's waypoints ordered by index.
func (cc *CatalogController) ListWaypoints(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	wpts, err := cc.store.WaypointsOf(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"waypoints": wpts})
}

// RouteGeometry returns a route as a GeoJSON LineString.
func (cc *CatalogController) RouteGeometry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ls, err := cc.store.RouteGeometry(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	b, err := gjson.Marshal(ls)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", b)
}

// DeleteDocument removes one document together with its routes and waypoints.
func (cc *CatalogController) DeleteDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := cc.store.DeleteDocument(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// ClearDocuments empties all three tables.
func (cc *CatalogController) ClearDocuments(c *gin.Context) {
	n, err := cc.store.DeleteAll(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("ClearDocuments: delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logrus.WithField("documents", n).Info("ClearDocuments: catalog cleared")
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func writeStoreError(c *gin.Context, err error) {
	if store.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	logrus.WithError(err).Error("catalog query failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
