package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/example/tmstore/pkg/cart"
	"github.com/example/tmstore/pkg/models"
	"github.com/example/tmstore/pkg/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// FieldError names one offending submission field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every missing field at once rather than a single
// opaque message.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("invalid order submission: %s", strings.Join(names, ", "))
}

// Submission carries the cart contents plus customer and shipping fields
// collected at checkout.
type Submission struct {
	SessionID       string      `json:"-"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerEmail   string      `json:"customerEmail"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []cart.Item `json:"items"`
}

// Notifier receives a fire-and-forget confirmation after an order persists.
type Notifier interface {
	OrderCreated(order *models.Order, items []models.OrderItem)
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
	audit    *repository.MongoRepository
	logger   *zap.Logger
	rng      *rand.Rand
	now      func() time.Time
	insert   func(ctx context.Context, order *models.Order) error
}

func NewService(db *gorm.DB, notifier Notifier, audit *repository.MongoRepository, logger *zap.Logger) *Service {
	s := &Service{
		db:       db,
		notifier: notifier,
		audit:    audit,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
	s.insert = func(ctx context.Context, order *models.Order) error {
		return s.db.WithContext(ctx).Create(order).Error
	}
	return s
}

// Validate checks the submission minimums: non-empty item list, customer
// name, phone and shipping address.
func Validate(s Submission) error {
	var fields []FieldError
	if len(s.Items) == 0 {
		fields = append(fields, FieldError{Field: "items", Message: "cart is empty"})
	}
	if strings.TrimSpace(s.CustomerName) == "" {
		fields = append(fields, FieldError{Field: "customerName", Message: "customer name is required"})
	}
	if strings.TrimSpace(s.CustomerPhone) == "" {
		fields = append(fields, FieldError{Field: "customerPhone", Message: "customer phone is required"})
	}
	if strings.TrimSpace(s.ShippingAddress) == "" {
		fields = append(fields, FieldError{Field: "shippingAddress", Message: "shipping address is required"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// orderNumber formats TM{YY}{MM}{DD}-{4-digit-random}.
func orderNumber(now time.Time, rng *rand.Rand) string {
	return fmt.Sprintf("TM%02d%02d%02d-%04d",
		now.Year()%100, int(now.Month()), now.Day(), rng.Intn(10000))
}

// Create validates the submission, snapshots the cart lines into an order
// record and persists it. The random order-number suffix can collide; the
// insert is retried with a fresh number a bounded number of times.
func (s *Service) Create(ctx context.Context, sub Submission) (*models.Order, error) {
	if err := Validate(sub); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(sub.Items))
	var total int64
	for i, it := range sub.Items {
		items[i] = models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Size:        it.Size,
			Color:       it.Color,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
		total += it.Price * int64(it.Quantity)
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize items: %w", err)
	}

	order := &models.Order{
		ID:              uuid.NewString(),
		SessionID:       sub.SessionID,
		CustomerName:    sub.CustomerName,
		CustomerPhone:   sub.CustomerPhone,
		CustomerEmail:   sub.CustomerEmail,
		ShippingAddress: sub.ShippingAddress,
		Items:           string(itemsJSON),
		Total:           total,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
	}

	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		order.OrderNumber = orderNumber(s.now(), s.rng)
		err = s.insert(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		s.logger.Warn("Order number collision, retrying",
			zap.String("order_number", order.OrderNumber))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(order, items)
	}

	return order, nil
}

func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListBySession returns the orders placed during one storefront session,
// newest first.
func (s *Service) ListBySession(ctx context.Context, sessionID string) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus applies an admin status transition. Either status may be
// empty to leave it unchanged. Every applied transition is audit-logged.
func (s *Service) UpdateStatus(ctx context.Context, actor, orderNumber string, status models.OrderStatus, payment models.PaymentStatus) (*models.Order, error) {
	order, err := s.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": s.now()}
	if status != "" {
		if !validOrderStatus(status) {
			return nil, &ValidationError{Fields: []FieldError{{Field: "status", Message: "unknown order status"}}}
		}
		updates["status"] = status
		order.Status = status
	}
	if payment != "" {
		if !validPaymentStatus(payment) {
			return nil, &ValidationError{Fields: []FieldError{{Field: "paymentStatus", Message: "unknown payment status"}}}
		}
		updates["payment_status"] = payment
		order.PaymentStatus = payment
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_number = ?", orderNumber).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &repository.AuditLog{
			Actor:    actor,
			Action:   "status-update",
			Resource: "orders",
			EntityID: orderNumber,
			Data:     bson.M{"status": string(status), "payment_status": string(payment)},
		}); err != nil {
			s.logger.Warn("Failed to write status audit log", zap.Error(err))
		}
	}
	return order, nil
}

// ParseItems decodes the snapshotted JSON lines of a persisted order.
func ParseItems(order *models.Order) ([]models.OrderItem, error) {
	if order.Items == "" {
		return nil, nil
	}
	var items []models.OrderItem
	if err := json.Unmarshal([]byte(order.Items), &items); err != nil {
		return nil, fmt.Errorf("failed to parse order items: %w", err)
	}
	return items, nil
}

func validOrderStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderPending, models.OrderPaid, models.OrderShipped,
		models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}

func validPaymentStatus(s models.PaymentStatus) bool {
	switch s {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
		return true
	}
	return false
}
