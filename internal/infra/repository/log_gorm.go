package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/mood-journal/internal/domain/journal"
	"github.com/BruksfildServices01/mood-journal/internal/models"
)

type LogGormRepository struct {
	db *gorm.DB
}

func NewLogGormRepository(db *gorm.DB) *LogGormRepository {
	return &LogGormRepository{db: db}
}

func (r *LogGormRepository) Insert(
	ctx context.Context,
	l *models.Log,
) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return classifyLogError("insert", l.UserID, err)
	}
	return nil
}

func (r *LogGormRepository) Get(
	ctx context.Context,
	id uint,
) (*models.Log, error) {

	var l models.Log
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, classifyLogError("get", nil, err)
	}
	return &l, nil
}

func (r *LogGormRepository) List(
	ctx context.Context,
	filter journal.ListFilter,
) ([]models.Log, error) {

	q := r.db.WithContext(ctx).Model(&models.Log{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	logs := []models.Log{}
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, classifyLogError("list", nil, err)
	}
	return logs, nil
}

func (r *LogGormRepository) Update(
	ctx context.Context,
	id uint,
	changes map[string]any,
) (*models.Log, error) {

	if len(changes) > 0 {
		var userID *uint
		if v, ok := changes["user_id"].(*uint); ok {
			userID = v
		}

		res := r.db.WithContext(ctx).
			Model(&models.Log{}).
			Where("id = ?", id).
			Omit("id", "created_at").
			Updates(changes)
		if res.Error != nil {
			return nil, classifyLogError("update", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, journal.ErrNotFound
		}
	}

	return r.Get(ctx, id)
}

func (r *LogGormRepository) Delete(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.Log{}, id)
	if res.Error != nil {
		return classifyLogError("delete", nil, res.Error)
	}
	if res.RowsAffected == 0 {
		return journal.ErrNotFound
	}
	return nil
}

func classifyLogError(op string, userID *uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return journal.ErrNotFound
	}
	if isForeignKeyViolation(err) {
		msg := "Invalid pk - object does not exist."
		if userID != nil {
			msg = fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *userID)
		}
		return journal.NewValidationError("user", msg)
	}
	return &journal.StorageError{Op: op, Err: err}
}

// Compile-time check
var _ journal.Repository = (*LogGormRepository)(nil)
