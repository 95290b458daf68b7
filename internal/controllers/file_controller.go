package controllers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gpx_tracker/internal/gpxfile"
)

// FileController serves the uploads directory: upload, download, the file
// log and the per-file component view.
type FileController struct {
	uploads *gpxfile.Uploads
	parser  *gpxfile.Parser
}

func NewFileController(uploads *gpxfile.Uploads, parser *gpxfile.Parser) *FileController {
	return &FileController{uploads: uploads, parser: parser}
}

// Upload stores a multipart "uploadFile" into the uploads directory.
func (fc *FileController) Upload(c *gin.Context) {
	file, err := c.FormFile("uploadFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files were uploaded."})
		return
	}

	name := filepath.Base(file.Filename)
	if !gpxfile.IsGPXFile(name) && !gpxfile.IsSchemaFile(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .gpx and .xsd files are accepted"})
		return
	}
	dst, err := fc.uploads.Path(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fc.uploads.Exists(name) {
		c.JSON(http.StatusConflict, gin.H{"error": "a file with that name already exists"})
		return
	}

	if err := c.SaveUploadedFile(file, dst); err != nil {
		logrus.WithError(err).WithField("file", name).Error("Upload: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store file: " + err.Error()})
		return
	}
	logrus.WithField("file", name).Info("Upload: stored")
	c.JSON(http.StatusCreated, gin.H{"file": name})
}

// Download returns a stored file as is.
func (fc *FileController) Download(c *gin.Context) {
	path, ok := fc.existingPath(c)
	if !ok {
		return
	}
	c.File(path)
}

// ListFiles returns the names of every stored file.
func (fc *FileController) ListFiles(c *gin.Context) {
	names, err := fc.uploads.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filenames": names})
}

// FileLog returns the header summary of every GPX file that decodes.
func (fc *FileController) FileLog(c *gin.Context) {
	names, err := fc.uploads.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]gpxfile.FileSummary, 0, len(names))
	for _, name := range names {
		if !gpxfile.IsGPXFile(name) {
			continue
		}
		path, err := fc.uploads.Path(name)
		if err != nil {
			continue
		}
		s, err := fc.parser.Summary(c.Request.Context(), path)
		if err != nil {
			logrus.WithError(err).WithField("file", name).Debug("FileLog: skipping undecodable file")
			continue
		}
		summaries = append(summaries, s)
	}
	c.JSON(http.StatusOK, gin.H{"files": summaries})
}

// Components lists the routes and tracks of one file.
func (fc *FileController) Components(c *gin.Context) {
	path, ok := fc.existingPath(c)
	if !ok {
		return
	}
	comps, err := fc.parser.Components(c.Request.Context(), path)
	if err != nil {
		writeParseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"components": comps})
}

// OtherData lists the descriptive elements of a named route or track.
func (fc *FileController) OtherData(c *gin.Context) {
	path, ok := fc.existingPath(c)
	if !ok {
		return
	}
	data, err := fc.parser.OtherData(c.Request.Context(), path, c.Param("component"))
	if err != nil {
		writeParseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"otherData": data})
}

type renameInput struct {
	OldName string `json:"old_name" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

// RenameComponent renames a route or track inside the stored file.
func (fc *FileController) RenameComponent(c *gin.Context) {
	path, ok := fc.existingPath(c)
	if !ok {
		return
	}

	var input renameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("RenameComponent: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	renamed, err := fc.parser.Rename(c.Request.Context(), path, input.OldName, input.NewName)
	if err != nil {
		writeParseError(c, err)
		return
	}
	if !renamed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
		return
	}
	logrus.WithFields(logrus.Fields{
		"file": c.Param("name"),
		"from": input.OldName,
		"to":   input.NewName,
	}).Info("RenameComponent: renamed")
	c.JSON(http.StatusOK, gin.H{"renamed": true})
}

func (fc *FileController) existingPath(c *gin.Context) (string, bool) {
	name := c.Param("name")
	path, err := fc.uploads.Path(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	if !fc.uploads.Exists(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return "", false
	}
	return path, true
}

func writeParseError(c *gin.Context, err error) {
	if errors.Is(err, gpxfile.ErrDecode) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	logrus.WithError(err).Error("gpx operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
