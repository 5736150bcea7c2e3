package server

import (
	"errors"
	"net/http"

	"github.com/example/tmstore/pkg/catalog"
	"github.com/example/tmstore/pkg/cart"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newSessionID() string {
	return uuid.NewString()
}

type cartView struct {
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalPrice int64       `json:"totalPrice"`
}

func viewOf(c *cart.Cart) cartView {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartView{
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

func (s *Server) getCart(c *gin.Context) {
	sid := s.sessionID(c)
	crt, err := s.deps.Carts.Load(c.Request.Context(), sid)
	if err != nil {
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, viewOf(crt))
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// addCartItem resolves the product server-side so the snapshot price comes
// from the catalog, never from the client.
func (s *Server) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.BindJSON(&req); err != nil {
		clientError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	product, err := s.deps.Catalog.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			clientError(c, http.StatusNotFound, "product not found")
			return
		}
		serverError(c, s.logger, err)
		return
	}

	sid := s.sessionID(c)
	crt, err := s.deps.Carts.Load(ctx, sid)
	if err != nil {
		serverError(c, s.logger, err)
		return
	}
	crt.AddItem(*product, req.Size, req.Color, req.Quantity)

	if err := s.deps.Carts.Save(ctx, sid, crt); err != nil {
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, viewOf(crt))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.BindJSON(&req); err != nil {
		clientError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	sid := s.sessionID(c)
	crt, err := s.deps.Carts.Load(ctx, sid)
	if err != nil {
		serverError(c, s.logger, err)
		return
	}

	crt.UpdateQuantity(c.Param("itemId"), req.Quantity)

	if err := s.deps.Carts.Save(ctx, sid, crt); err != nil {
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, viewOf(crt))
}

func (s *Server) removeCartItem(c *gin.Context) {
	ctx := c.Request.Context()
	sid := s.sessionID(c)
	crt, err := s.deps.Carts.Load(ctx, sid)
	if err != nil {
		serverError(c, s.logger, err)
		return
	}

	crt.RemoveItem(c.Param("itemId"))

	if err := s.deps.Carts.Save(ctx, sid, crt); err != nil {
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, viewOf(crt))
}

func (s *Server) clearCart(c *gin.Context) {
	sid := s.sessionID(c)
	if err := s.deps.Carts.Delete(c.Request.Context(), sid); err != nil {
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, viewOf(cart.New()))
}
