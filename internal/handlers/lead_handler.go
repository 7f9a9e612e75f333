package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vinesrealty/leadsecure-backend/internal/database"
	"github.com/vinesrealty/leadsecure-backend/internal/models"
	"github.com/vinesrealty/leadsecure-backend/internal/services"
)

// LeadHandler handles lead intake and triage HTTP requests
type LeadHandler struct {
	leadService *services.LeadService
	logger      *logrus.Logger
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *services.LeadService, logger *logrus.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// Create persists a new lead submission
func (h *LeadHandler) Create(c *gin.Context) {
	var input models.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lead, err := h.leadService.Submit(input)
	if err != nil {
		if errors.Is(err, database.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		h.logger.WithError(err).Error("Lead creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add lead"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lead added successfully", "lead": lead})
}

// List retrieves leads for the requested filter
// (?filter=all|today|week|pending|approved, default all)
func (h *LeadHandler) List(c *gin.Context) {
	filter, err := models.ParseLeadFilter(c.DefaultQuery("filter", "all"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leads, err := h.leadService.List(filter)
	if err != nil {
		h.logger.WithError(err).Error("Lead listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return
	}

	if leads == nil {
		leads = []*models.Lead{}
	}
	c.JSON(http.StatusOK, leads)
}

// Approve bulk-transitions leads to APPROVED
func (h *LeadHandler) Approve(c *gin.Context) {
	var req models.ApproveLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	count, err := h.leadService.Approve(req.IDs)
	if err != nil {
		if errors.Is(err, database.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No leads selected"})
			return
		}
		h.logger.WithError(err).Error("Lead approval failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Leads approved successfully", "updated": count})
}

// Toggle flips a single lead between PENDING and APPROVED
func (h *LeadHandler) Toggle(c *gin.Context) {
	var req models.ToggleLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lead, err := h.leadService.Toggle(req.ID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		h.logger.WithError(err).Error("Lead toggle failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle lead"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "lead": lead})
}

// Import ingests a CSV file of leads uploaded as multipart form field "file"
func (h *LeadHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing CSV file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded CSV")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	summary, err := h.leadService.ImportCSV(file)
	if err != nil {
		if errors.Is(err, database.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Lead CSV import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}
