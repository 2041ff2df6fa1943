package pkg

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/recipebook/internal/domain"
)

// Scope narrows a query.
type Scope = func(db *gorm.DB) *gorm.DB

// Store is the GORM persistence shared by the resource repositories. Reads
// expand the configured associations; writes never cascade into them, and the
// written entity is reloaded so its associations reflect the stored foreign keys.
// All errors are mapped with MapDBError.
type Store[T domain.Entity] struct {
	db       *gorm.DB
	order    string
	preloads []string
}

// NewStore creates a Store that lists rows in the given order and preloads
// the named associations on every read.
func NewStore[T domain.Entity](db *gorm.DB, order string, preloads ...string) *Store[T] {
	return &Store[T]{db: db, order: order, preloads: preloads}
}

// DB returns the underlying handle for queries the Store does not cover.
func (s *Store[T]) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store[T]) expand(db *gorm.DB) *gorm.DB {
	for _, name := range s.preloads {
		db = db.Preload(name)
	}
	return db
}

// Count returns the number of rows matching scopes.
func (s *Store[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&total).Error; err != nil {
		return 0, MapDBError(err)
	}
	return total, nil
}

// Find returns the rows matching scopes within the [skip, skip+limit) window.
// A non-positive limit returns every match.
func (s *Store[T]) Find(ctx context.Context, skip, limit int, scopes ...Scope) ([]T, error) {
	items := []T{}
	q := s.db.WithContext(ctx).Scopes(scopes...).Scopes(s.expand, Window(skip, limit))
	if s.order != "" {
		q = q.Order(s.order)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, MapDBError(err)
	}
	return items, nil
}

// FindByID returns the row with the given primary key.
func (s *Store[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := s.db.WithContext(ctx).Scopes(s.expand).First(&item, id).Error; err != nil {
		return nil, MapDBError(err)
	}
	return &item, nil
}

// FindBy returns the first row whose column equals value.
func (s *Store[T]) FindBy(ctx context.Context, column string, value any) (*T, error) {
	var item T
	err := s.db.WithContext(ctx).Scopes(s.expand).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		First(&item).Error
	if err != nil {
		return nil, MapDBError(err)
	}
	return &item, nil
}

// Insert stores entity and reloads it with its associations.
func (s *Store[T]) Insert(ctx context.Context, entity *T) error {
	return s.write(ctx, entity, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
}

// Update saves every column of entity and reloads it with its associations.
func (s *Store[T]) Update(ctx context.Context, entity *T) error {
	return s.write(ctx, entity, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(entity).Error
	})
}

func (s *Store[T]) write(ctx context.Context, entity *T, op func(tx *gorm.DB) error) error {
	err := WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := op(tx); err != nil {
			return err
		}
		var fresh T
		if err := tx.Scopes(s.expand).First(&fresh, (*entity).GetID()).Error; err != nil {
			return err
		}
		*entity = fresh
		return nil
	})
	return MapDBError(err)
}

// Delete removes the row with the given primary key.
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return MapDBError(gorm.ErrRecordNotFound)
	}
	return nil
}
