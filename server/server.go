package server

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/example/tmstore/pkg/admin"
	"github.com/example/tmstore/pkg/cart"
	"github.com/example/tmstore/pkg/config"
	"github.com/example/tmstore/pkg/models"
	"github.com/example/tmstore/pkg/order"
	"github.com/example/tmstore/pkg/repository"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// CatalogProvider serves products and categories to the storefront.
type CatalogProvider interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	InvalidateCache(ctx context.Context)
}

// OrderService covers both checkout paths and the admin status transitions.
type OrderService interface {
	Create(ctx context.Context, sub order.Submission) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, actor, orderNumber string, status models.OrderStatus, payment models.PaymentStatus) (*models.Order, error)
}

// CMSProvider serves the blog and static pages.
type CMSProvider interface {
	ListPosts(ctx context.Context, offset, limit int) ([]models.BlogPost, int64, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListPages(ctx context.Context) ([]models.Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*models.Page, error)
}

type ContactCreator interface {
	Create(ctx context.Context, name, email, message string) (*models.ContactMessage, error)
}

// ReorderService is the admin drag-and-drop reorder action.
type ReorderService interface {
	Reorder(ctx context.Context, actor, resource string, positions []admin.Position) error
	List(ctx context.Context, resource string) ([]admin.ViewRecord, error)
}

// AuditProvider reads back the admin audit trail.
type AuditProvider interface {
	AuditTrail(ctx context.Context, resource, entityID string, limit int64) ([]*repository.AuditLog, error)
}

type UploadSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// Deps bundles everything the HTTP surface delegates to.
type Deps struct {
	Catalog  CatalogProvider
	Carts    cart.Store
	Orders   OrderService
	CMS      CMSProvider
	Contacts ContactCreator
	Reorder  ReorderService
	Audit    AuditProvider
	Uploads  UploadSaver
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine
	deps   Deps
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(recoveryMiddleware(logger))
	router.Use(loggerMiddleware(logger))

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
		deps:   deps,
	}
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", s.listProducts)
			products.GET("/featured", s.featuredProducts)
			products.GET("/:slug", s.getProduct)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", s.listCategories)
			categories.GET("/:slug", s.getCategory)
		}

		blog := api.Group("/blog")
		{
			blog.GET("", s.listPosts)
			blog.GET("/:slug", s.getPost)
		}

		pages := api.Group("/pages")
		{
			pages.GET("", s.listPages)
			pages.GET("/:slug", s.getPage)
		}

		cartRoutes := api.Group("/cart")
		{
			cartRoutes.GET("", s.getCart)
			cartRoutes.POST("/items", s.addCartItem)
			cartRoutes.PATCH("/items/:itemId", s.updateCartItem)
			cartRoutes.DELETE("/items/:itemId", s.removeCartItem)
			cartRoutes.DELETE("", s.clearCart)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", s.createOrder)
			orders.POST("/whatsapp-link", s.whatsAppLink)
			orders.GET("/my-orders", s.myOrders)
			orders.GET("/:orderNumber", s.getOrder)
		}

		api.POST("/contact", s.createContact)

		adminRoutes := api.Group("/admin", gin.BasicAuth(gin.Accounts{
			s.config.Admin.Username: s.config.Admin.Password,
		}))
		{
			adminRoutes.POST("/:resource/reorder", s.reorderResource)
			adminRoutes.GET("/:resource/reorder", s.listReorderable)
			adminRoutes.PATCH("/orders/:orderNumber/status", s.updateOrderStatus)
			adminRoutes.GET("/audit-logs", s.listAuditLogs)
			adminRoutes.POST("/uploads", s.uploadFile)
		}
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("API server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the configured engine for handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// meta carries pagination data inside the response envelope.
type meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func newMeta(total int64, page, limit int) meta {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return meta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

func respondPage(c *gin.Context, data interface{}, m meta) {
	c.JSON(http.StatusOK, gin.H{"data": data, "meta": m})
}

// serverError is the generic 500 shape; 4xx responses use a flat
// {"error": message} body.
func serverError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{"message": "internal server error", "status": http.StatusInternalServerError},
	})
}

func clientError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// sessionID reads the storefront session from the request, minting one if
// absent. The minted ID is echoed back so the client can persist it.
func (s *Server) sessionID(c *gin.Context) string {
	id := c.GetHeader("X-Session-ID")
	if id == "" {
		id = newSessionID()
	}
	c.Header("X-Session-ID", id)
	return id
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{"message": "internal server error", "status": http.StatusInternalServerError},
				})
			}
		}()
		c.Next()
	}
}
