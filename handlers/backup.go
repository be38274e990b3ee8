package handlers

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus_share/persist"
	"campus_share/store"
)

// CreateBackup streams a ZIP holding one JSON file per collection.
func (h *Handler) CreateBackup(c *gin.Context) {
	snap := h.store.Snapshot()

	filename := fmt.Sprintf("campusshare-backup-%s.zip", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	zipWriter := zip.NewWriter(c.Writer)
	defer zipWriter.Close()

	entries := []struct {
		name string
		v    any
	}{
		{persist.Resources, snap.Resources},
		{persist.Reviews, snap.Reviews},
		{persist.Bookmarks, snap.Bookmarks},
	}
	for _, e := range entries {
		w, err := zipWriter.Create(e.name + ".json")
		if err != nil {
			h.log.Error("Failed to create backup entry", zap.String("entry", e.name), zap.Error(err))
			return
		}
		if err := json.NewEncoder(w).Encode(e.v); err != nil {
			h.log.Error("Failed to encode backup entry", zap.String("entry", e.name), zap.Error(err))
			return
		}
	}
}

// RestoreBackup replaces the store contents with an uploaded backup ZIP.
func (h *Handler) RestoreBackup(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer f.Close()

	zipReader, err := zip.NewReader(f, fileHeader.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zip file"})
		return
	}

	var snap store.Snapshot
	targets := map[string]any{
		persist.Resources + ".json": &snap.Resources,
		persist.Reviews + ".json":   &snap.Reviews,
		persist.Bookmarks + ".json": &snap.Bookmarks,
	}
	seen := 0
	for _, zf := range zipReader.File {
		target, ok := targets[zf.Name]
		if !ok {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read " + zf.Name})
			return
		}
		err = json.NewDecoder(rc).Decode(target)
		rc.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + zf.Name})
			return
		}
		seen++
	}
	if snap.Resources == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resources.json not found"})
		return
	}

	if err := h.store.Restore(c.Request.Context(), snap); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Restored %d resources from %d collections", len(h.store.Resources()), seen),
	})
}
