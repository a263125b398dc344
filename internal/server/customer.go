package server

import (
	"fmt"
	"net/http"
	"strings"

	customerdomain "github.com/brokerbase/polisdesk/internal/customer/domain"
	"github.com/brokerbase/polisdesk/pkg/tenantctx"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.create", resp.ID, map[string]any{"name": resp.Name})

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Customer created successfully",
		"customer": resp,
	})
}

func (s *Server) ListCustomers(c *gin.Context) {
	customers, err := s.customerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(customers),
		"customers": customers,
	})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.customerSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"customer": resp,
	})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req customerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.update", id, nil)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Customer updated successfully",
		"customer": resp,
	})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.customerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.delete", id, nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer deleted successfully",
	})
}

func (s *Server) SearchCustomers(c *gin.Context) {
	query := c.Query("query")
	customers, err := s.customerSvc.Search(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(customers),
		"customers": customers,
	})
}

func (s *Server) GetCustomerStats(c *gin.Context) {
	stats, err := s.customerSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

func (s *Server) CheckExpiredCustomers(c *gin.Context) {
	tenant, ok := tenantctx.TenantHandle(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	count, err := s.customerSvc.SweepExpired(c.Request.Context(), tenant)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("%d customers updated to expired status", count),
		"expiredCount": count,
	})
}

// audit records an action best-effort; a failed insert never fails the
// request.
func (s *Server) audit(c *gin.Context, action, targetID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(c.Request.Context(), action, targetID, metadata)
}
