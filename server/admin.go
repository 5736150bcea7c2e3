package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/tmstore/pkg/admin"
	"github.com/example/tmstore/pkg/models"
	"github.com/example/tmstore/pkg/order"
	"github.com/example/tmstore/pkg/repository"
	"github.com/example/tmstore/pkg/upload"
	"github.com/gin-gonic/gin"
)

type reorderRequest struct {
	Order []admin.Position `json:"order" binding:"required"`
}

func (s *Server) reorderResource(c *gin.Context) {
	var req reorderRequest
	if err := c.BindJSON(&req); err != nil {
		clientError(c, http.StatusBadRequest, err.Error())
		return
	}

	actor := c.GetString(gin.AuthUserKey)
	resource := c.Param("resource")

	if err := s.deps.Reorder.Reorder(c.Request.Context(), actor, resource, req.Order); err != nil {
		if errors.Is(err, admin.ErrUnknownResource) {
			clientError(c, http.StatusNotFound, "unknown resource")
			return
		}
		serverError(c, s.logger, err)
		return
	}

	// Reordered catalog records must show up in storefront listings
	// immediately.
	s.deps.Catalog.InvalidateCache(c.Request.Context())

	respond(c, http.StatusOK, gin.H{"reordered": len(req.Order)})
}

func (s *Server) listReorderable(c *gin.Context) {
	views, err := s.deps.Reorder.List(c.Request.Context(), c.Param("resource"))
	if err != nil {
		if errors.Is(err, admin.ErrUnknownResource) {
			clientError(c, http.StatusNotFound, "unknown resource")
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, views)
}

type statusUpdateRequest struct {
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		clientError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" && req.PaymentStatus == "" {
		clientError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	updated, err := s.deps.Orders.UpdateStatus(c.Request.Context(), c.GetString(gin.AuthUserKey), c.Param("orderNumber"), req.Status, req.PaymentStatus)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			clientError(c, http.StatusNotFound, "order not found")
			return
		}
		var ve *order.ValidationError
		if errors.As(err, &ve) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":  ve.Error(),
				"fields": ve.Fields,
			})
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, s.orderViewOf(updated))
}

const defaultAuditLimit = 50

// listAuditLogs reads back the trail written by admin mutations.
func (s *Server) listAuditLogs(c *gin.Context) {
	resource := c.Query("resource")
	if resource == "" {
		clientError(c, http.StatusBadRequest, "resource is required")
		return
	}

	limit := int64(defaultAuditLimit)
	if v := c.Query("limit"); v != "" {
		if l, err := strconv.ParseInt(v, 10, 64); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}

	logs, err := s.deps.Audit.AuditTrail(c.Request.Context(), resource, c.Query("entityId"), limit)
	if err != nil {
		serverError(c, s.logger, err)
		return
	}
	if logs == nil {
		logs = []*repository.AuditLog{}
	}
	respond(c, http.StatusOK, logs)
}

func (s *Server) uploadFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		clientError(c, http.StatusBadRequest, "missing file field")
		return
	}

	name, err := s.deps.Uploads.Save(fh)
	if err != nil {
		var inv *upload.InvalidError
		if errors.As(err, &inv) {
			clientError(c, http.StatusBadRequest, inv.Error())
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"filename": name})
}
