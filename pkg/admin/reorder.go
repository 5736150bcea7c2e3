package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/tmstore/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrUnknownResource = errors.New("unknown reorderable resource")

// Position is one {id, order} pair produced by a drag-and-drop reindex on
// the admin client. Order is the new 1-based position.
type Position struct {
	ID    string `json:"id" binding:"required"`
	Order int    `json:"order"`
}

// ViewRecord is the read-path projection of a reorderable record.
type ViewRecord struct {
	ID    string `gorm:"column:id" json:"id"`
	Title string `gorm:"column:title" json:"title"`
	Order int    `gorm:"column:sort_order" json:"order"`
}

// Store persists and reads the explicit order field of one resource.
type Store interface {
	Apply(ctx context.Context, positions []Position) error
	List(ctx context.Context) ([]ViewRecord, error)
}

// Service dispatches reorder requests to the store registered for the
// resource name and writes an audit trail entry per applied batch.
type Service struct {
	stores map[string]Store
	audit  *repository.MongoRepository
	logger *zap.Logger
}

func NewService(audit *repository.MongoRepository, logger *zap.Logger) *Service {
	return &Service{
		stores: make(map[string]Store),
		audit:  audit,
		logger: logger,
	}
}

func (s *Service) RegisterResource(name string, store Store) {
	s.stores[name] = store
}

func (s *Service) Reorder(ctx context.Context, actor, resource string, positions []Position) error {
	store, ok := s.stores[resource]
	if !ok {
		return ErrUnknownResource
	}
	if err := store.Apply(ctx, positions); err != nil {
		return err
	}

	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &repository.AuditLog{
			Actor:    actor,
			Action:   "reorder",
			Resource: resource,
			Data:     bson.M{"count": len(positions)},
		}); err != nil {
			s.logger.Warn("Failed to write reorder audit log", zap.Error(err))
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, resource string) ([]ViewRecord, error) {
	store, ok := s.stores[resource]
	if !ok {
		return nil, ErrUnknownResource
	}
	return store.List(ctx)
}

// AuditTrail reads back the audit entries written for a resource, newest
// first, optionally narrowed to one entity.
func (s *Service) AuditTrail(ctx context.Context, resource, entityID string, limit int64) ([]*repository.AuditLog, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.GetAuditLogs(ctx, resource, entityID, limit)
}

// GormStore implements Store for one GORM model. titleColumn names the
// column projected as the view title.
type GormStore struct {
	db          *gorm.DB
	model       interface{}
	titleColumn string
}

func NewGormStore(db *gorm.DB, model interface{}, titleColumn string) *GormStore {
	return &GormStore{db: db, model: model, titleColumn: titleColumn}
}

// Apply writes every position inside a single transaction so a failure
// mid-batch never leaves a mixed ordering.
func (g *GormStore) Apply(ctx context.Context, positions []Position) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range positions {
			res := tx.Model(g.model).Where("id = ?", p.ID).Update("sort_order", p.Order)
			if res.Error != nil {
				return fmt.Errorf("failed to reorder %s: %w", p.ID, res.Error)
			}
		}
		return nil
	})
}

// List returns records sorted by order ascending, ties broken by creation
// time ascending.
func (g *GormStore) List(ctx context.Context) ([]ViewRecord, error) {
	var views []ViewRecord
	if err := g.db.WithContext(ctx).Model(g.model).
		Select(fmt.Sprintf("id, %s AS title, sort_order", g.titleColumn)).
		Order("sort_order ASC, created_at ASC").
		Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
