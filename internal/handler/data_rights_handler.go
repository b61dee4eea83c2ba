package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/blkoutuk/community-api/internal/handler/dto"
	apperrors "github.com/blkoutuk/community-api/internal/pkg/errors"
	"github.com/blkoutuk/community-api/internal/service"
)

// DataRightsHandler handles GDPR export and erasure requests.
type DataRightsHandler struct {
	dataRightsService *service.DataRightsService
}

// NewDataRightsHandler creates a new data-rights handler.
func NewDataRightsHandler(dataRightsService *service.DataRightsService) *DataRightsHandler {
	return &DataRightsHandler{dataRightsService: dataRightsService}
}

// Preview handles GET /api/community/data-rights?email=. An unknown
// email is found:false, not an error.
func (h *DataRightsHandler) Preview(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email parameter is required"})
		return
	}

	preview, err := h.dataRightsService.Preview(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"found":   false,
				"message": "No data found for this email address",
			})
			return
		}
		log.Printf("[DataRightsHandler] preview failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"found":   true,
		"preview": preview,
		"actions": gin.H{
			"export": `POST /api/community/data-rights with { email, type: "export" }`,
			"delete": `POST /api/community/data-rights with { email, type: "delete" }`,
		},
	})
}

// HandleRequest handles POST /api/community/data-rights.
func (h *DataRightsHandler) HandleRequest(c *gin.Context) {
	var req dto.DataRightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	switch req.Type {
	case dto.DataRightsTypeExport:
		h.handleExport(c, &req)
	case dto.DataRightsTypeDelete:
		h.handleDelete(c, &req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request type"})
	}
}

func (h *DataRightsHandler) handleExport(c *gin.Context, req *dto.DataRightsRequest) {
	// The format must be rejected before Export runs: the export itself
	// is audited, so a bad request must not leave a data_exported entry
	// behind a 400.
	switch req.Format {
	case "", dto.ExportFormatJSON, dto.ExportFormatCSV, dto.ExportFormatXLSX:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid export format"})
		return
	}

	bundle, exportedAt, err := h.dataRightsService.Export(req.Email)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	switch req.Format {
	case dto.ExportFormatCSV:
		h.exportCSV(c, bundle, exportFilename(exportedAt))
	case dto.ExportFormatXLSX:
		h.exportXLSX(c, bundle, exportFilename(exportedAt))
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Your data export is ready",
			"data":       bundle,
			"exportedAt": exportedAt,
		})
	}
}

func (h *DataRightsHandler) handleDelete(c *gin.Context, req *dto.DataRightsRequest) {
	confirmation, err := h.dataRightsService.RequestDeletion(c.Request.Context(), req.Email)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"message":              confirmation.Message,
		"deletionScheduledFor": confirmation.DeletionScheduledFor,
	})
}

func (h *DataRightsHandler) writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No account found with this email address"})
		return
	}
	log.Printf("[DataRightsHandler] request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process request"})
}

func exportFilename(exportedAt time.Time) string {
	return fmt.Sprintf("blkout-data-export-%s", exportedAt.Format("2006-01-02"))
}

// exportCSV streams the bundle as a CSV attachment: profile fields as
// key/value rows, then the consent history.
func (h *DataRightsHandler) exportCSV(c *gin.Context, bundle *dto.ExportBundle, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	for _, row := range profileRows(bundle) {
		writer.Write([]string{sanitizeForExport(row[0]), sanitizeForExport(row[1])})
	}

	writer.Write(nil)
	writer.Write([]string{"Action", "Timestamp", "Details"})
	for _, entry := range bundle.AuditLog {
		writer.Write([]string{
			sanitizeForExport(entry.Action),
			entry.Timestamp.Format(time.RFC3339),
			sanitizeForExport(detailsJSON(entry.Details)),
		})
	}
}

// exportXLSX streams the bundle as an Excel attachment using a
// StreamWriter, one worksheet holding profile and history.
func (h *DataRightsHandler) exportXLSX(c *gin.Context, bundle *dto.ExportBundle, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Data Export"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[DataRightsHandler] failed to create StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create Excel file"})
		return
	}

	rowNum := 1
	writeRow := func(cells ...interface{}) {
		cell := fmt.Sprintf("A%d", rowNum)
		if err := sw.SetRow(cell, cells); err != nil {
			log.Printf("[DataRightsHandler] failed to write row %d: %v", rowNum, err)
		}
		rowNum++
	}

	for _, row := range profileRows(bundle) {
		writeRow(sanitizeForExport(row[0]), sanitizeForExport(row[1]))
	}

	writeRow()
	writeRow("Action", "Timestamp", "Details")
	for _, entry := range bundle.AuditLog {
		writeRow(
			sanitizeForExport(entry.Action),
			entry.Timestamp.Format(time.RFC3339),
			sanitizeForExport(detailsJSON(entry.Details)),
		)
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[DataRightsHandler] failed to flush StreamWriter: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[DataRightsHandler] failed to write Excel response: %v", err)
	}
}

// profileRows flattens the bundle's profile fields into label/value pairs.
func profileRows(bundle *dto.ExportBundle) [][2]string {
	consentTimestamp := ""
	if bundle.ConsentTimestamp != nil {
		consentTimestamp = bundle.ConsentTimestamp.Format(time.RFC3339)
	}
	subscriptions, _ := json.Marshal(bundle.Subscriptions)

	return [][2]string{
		{"Email", bundle.Email},
		{"First name", bundle.FirstName},
		{"Preferred name", bundle.PreferredName},
		{"Pronouns", bundle.Pronouns},
		{"Subscriptions", string(subscriptions)},
		{"Consent given", fmt.Sprintf("%t", bundle.ConsentGiven)},
		{"Consent timestamp", consentTimestamp},
		{"Signup source", bundle.SignupSource},
		{"Member since", bundle.CreatedAt.Format(time.RFC3339)},
	}
}

func detailsJSON(details map[string]interface{}) string {
	if details == nil {
		return ""
	}
	b, err := json.Marshal(details)
	if err != nil {
		return ""
	}
	return string(b)
}

// sanitizeForExport escapes values that would start a formula in
// Excel/LibreOffice, protecting against formula injection.
func sanitizeForExport(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
