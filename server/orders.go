package server

import (
	"errors"
	"net/http"

	"github.com/example/tmstore/pkg/cart"
	"github.com/example/tmstore/pkg/catalog"
	"github.com/example/tmstore/pkg/models"
	"github.com/example/tmstore/pkg/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type orderView struct {
	OrderNumber     string               `json:"orderNumber"`
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	CustomerEmail   string               `json:"customerEmail,omitempty"`
	ShippingAddress string               `json:"shippingAddress"`
	Items           []models.OrderItem   `json:"items"`
	Total           int64                `json:"total"`
	Status          models.OrderStatus   `json:"status"`
	PaymentStatus   models.PaymentStatus `json:"paymentStatus"`
	CreatedAt       string               `json:"createdAt"`
}

func (s *Server) orderViewOf(o *models.Order) orderView {
	items, err := order.ParseItems(o)
	if err != nil {
		s.logger.Warn("Failed to parse order items",
			zap.String("order_number", o.OrderNumber), zap.Error(err))
		items = []models.OrderItem{}
	}
	if items == nil {
		items = []models.OrderItem{}
	}
	return orderView{
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		Total:           o.Total,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		CreatedAt:       o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// createOrder is the persisted checkout path. Submissions without explicit
// items fall back to the session cart, which is cleared once the order is
// stored.
func (s *Server) createOrder(c *gin.Context) {
	var sub order.Submission
	if err := c.BindJSON(&sub); err != nil {
		clientError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	sid := s.sessionID(c)
	sub.SessionID = sid

	fromSessionCart := false
	if len(sub.Items) == 0 {
		crt, err := s.deps.Carts.Load(ctx, sid)
		if err != nil {
			serverError(c, s.logger, err)
			return
		}
		sub.Items = crt.Items
		fromSessionCart = true
	} else if !s.repriceItems(c, sub.Items) {
		return
	}

	created, err := s.deps.Orders.Create(ctx, sub)
	if err != nil {
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

	if fromSessionCart {
		if err := s.deps.Carts.Delete(ctx, sid); err != nil {
			s.logger.Warn("Failed to clear session cart after checkout",
				zap.String("order_number", created.OrderNumber), zap.Error(err))
		}
	}

	respond(c, http.StatusCreated, s.orderViewOf(created))
}

// repriceItems replaces client-supplied names and prices on explicit
// checkout lines with the catalog's. Only the variant selection and
// quantity are trusted from the request. Returns false after writing the
// error response.
func (s *Server) repriceItems(c *gin.Context, items []cart.Item) bool {
	ctx := c.Request.Context()
	for i := range items {
		product, err := s.deps.Catalog.GetProductByID(ctx, items[i].ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				clientError(c, http.StatusBadRequest, "unknown product in items")
				return false
			}
			serverError(c, s.logger, err)
			return false
		}
		items[i].ProductName = product.Name
		items[i].Price = product.Price
		items[i].ID = cart.LineID(product.ID, items[i].Size, items[i].Color)
	}
	return true
}

// whatsAppLink is the second checkout path: it composes the deep link but
// records nothing server-side.
func (s *Server) whatsAppLink(c *gin.Context) {
	var sub order.Submission
	if err := c.BindJSON(&sub); err != nil {
		clientError(c, http.StatusBadRequest, err.Error())
		return
	}

	if len(sub.Items) == 0 {
		sid := s.sessionID(c)
		crt, err := s.deps.Carts.Load(c.Request.Context(), sid)
		if err != nil {
			serverError(c, s.logger, err)
			return
		}
		sub.Items = crt.Items
	}
	if len(sub.Items) == 0 {
		clientError(c, http.StatusBadRequest, "cart is empty")
		return
	}

	message := order.WhatsAppMessage(s.config.Store.Name, s.config.Store.Currency, sub)
	link := order.WhatsAppLink(s.config.Store.WhatsAppNumber, message)

	respond(c, http.StatusOK, gin.H{"url": link, "message": message})
}

func (s *Server) myOrders(c *gin.Context) {
	sid := c.GetHeader("X-Session-ID")
	if sid == "" {
		clientError(c, http.StatusUnauthorized, "missing session")
		return
	}

	orders, err := s.deps.Orders.ListBySession(c.Request.Context(), sid)
	if err != nil {
		serverError(c, s.logger, err)
		return
	}

	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = s.orderViewOf(&orders[i])
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) getOrder(c *gin.Context) {
	found, err := s.deps.Orders.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			clientError(c, http.StatusNotFound, "order not found")
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, s.orderViewOf(found))
}
