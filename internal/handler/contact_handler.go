package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"contact_manager/internal/metrics"
	"contact_manager/internal/middleware"
	"contact_manager/internal/model"
	"contact_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler handles contact related requests
type ContactHandler struct {
	service   service.ContactService
	collector *metrics.Collector // may be nil in tests
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(s service.ContactService, collector *metrics.Collector) *ContactHandler {
	return &ContactHandler{service: s, collector: collector}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contact, err := h.service.CreateContact(c.Request.Context(), userID, req)
	if err != nil {
		log.Printf("Error creating contact: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}
	if h.collector != nil {
		h.collector.RecordContactCreated()
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) GetMyContacts(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	contacts, err := h.service.GetUserContacts(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		log.Printf("Error getting user contacts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}
	if contacts == nil {
		contacts = []model.Contact{} // Empty list, not null, in the JSON body
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	contactID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var req model.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contact, err := h.service.UpdateContact(c.Request.Context(), contactID, userID, req)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			log.Printf("Error updating contact: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		}
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	contactID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	err = h.service.DeleteContact(c.Request.Context(), contactID, userID)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			log.Printf("Error deleting contact: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		}
		return
	}
	if h.collector != nil {
		h.collector.RecordContactDeleted()
	}
	// Deleted id goes back so the client can reconcile its local list
	c.JSON(http.StatusOK, gin.H{"id": contactID})
}

func (h *ContactHandler) ExportContactsCSV(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	csvBuffer, err := h.service.ExportContactsCSV(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error exporting contacts to CSV: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export contacts to CSV"})
		return
	}

	fileName := fmt.Sprintf("contacts_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", csvBuffer.Bytes())
}

// RegisterContactRoutes registers contact routes
func (h *ContactHandler) RegisterContactRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	contactRoutes := rg.Group("/contacts")
	contactRoutes.Use(authMW) // All routes in this group require authentication
	{
		contactRoutes.GET("", h.GetMyContacts)
		contactRoutes.POST("", h.CreateContact)
		contactRoutes.PUT("/:id", h.UpdateContact)       // Service layer handles ownership
		contactRoutes.DELETE("/:id", h.DeleteContact)    // Service layer handles ownership
		contactRoutes.GET("/export/csv", h.ExportContactsCSV)
	}
}
