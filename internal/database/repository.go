package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Query narrows a Find. Where is applied as equality conditions.
type Query struct {
	Where map[string]any
	Order string
}

// Repository persists one model type. Every write saves the whole row, so a
// parent and its embedded attachments are always stored together.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) Create(ctx context.Context, m *T) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Save writes every column of m. Concurrent saves of the same row are last
// writer wins.
func (r *Repository[T]) Save(ctx context.Context, m *T) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *Repository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var m T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *Repository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	tx := r.db.WithContext(ctx)
	if len(q.Where) > 0 {
		tx = tx.Where(q.Where)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}

	items := make([]T, 0)
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error
	return total, err
}

// Delete removes the row with id, or returns ErrNotFound.
func (r *Repository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Each walks the table in primary key batches of size, handing every row to
// fn. Returning an error from fn stops the walk.
func (r *Repository[T]) Each(ctx context.Context, size int, fn func(*T) error) error {
	var batch []T
	return r.db.WithContext(ctx).FindInBatches(&batch, size, func(_ *gorm.DB, _ int) error {
		for i := range batch {
			if err := fn(&batch[i]); err != nil {
				return err
			}
		}
		return nil
	}).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
