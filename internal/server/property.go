package server

import (
	"fmt"
	"net/http"
	"strings"

	propertydomain "github.com/brokerbase/polisdesk/internal/property/domain"
	"github.com/brokerbase/polisdesk/pkg/tenantctx"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateProperty(c *gin.Context) {
	var req propertydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.propertySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "property.create", resp.ID, map[string]any{"ownerName": resp.OwnerName})

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Property created successfully",
		"property": resp,
	})
}

func (s *Server) ListProperties(c *gin.Context) {
	properties, err := s.propertySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(properties),
		"properties": properties,
	})
}

func (s *Server) GetPropertyByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.propertySvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"property": resp,
	})
}

func (s *Server) UpdateProperty(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req propertydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.propertySvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "property.update", id, nil)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Property updated successfully",
		"property": resp,
	})
}

func (s *Server) DeleteProperty(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.propertySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "property.delete", id, nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Property deleted successfully",
	})
}

func (s *Server) SearchProperties(c *gin.Context) {
	query := c.Query("query")
	properties, err := s.propertySvc.Search(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(properties),
		"properties": properties,
	})
}

func (s *Server) GetPropertiesByStatus(c *gin.Context) {
	status := propertydomain.Status(strings.TrimSpace(c.Param("status")))
	properties, err := s.propertySvc.ListByStatus(c.Request.Context(), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(properties),
		"properties": properties,
	})
}

func (s *Server) GetPropertyStats(c *gin.Context) {
	stats, err := s.propertySvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

func (s *Server) CheckExpiredProperties(c *gin.Context) {
	tenant, ok := tenantctx.TenantHandle(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	count, err := s.propertySvc.SweepExpired(c.Request.Context(), tenant)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("%d policies updated to expired status", count),
		"expiredCount": count,
	})
}
