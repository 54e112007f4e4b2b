package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/dealspot/internal/apperrors"
	"github.com/example/dealspot/internal/models"
)

// Lookup answers existence checks for entities referenced by a deal. A
// lookup failure is a store error, never silently treated as "absent".
type Lookup struct {
	db *gorm.DB
}

// NewLookup constructs a Lookup over a shared connection.
func NewLookup(db *gorm.DB) *Lookup {
	return &Lookup{db: db}
}

func (l *Lookup) exists(ctx context.Context, op string, model interface{}, id string) (bool, error) {
	var count int64
	if err := l.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.E(op, err)
	}
	return count > 0, nil
}

// ProductExists reports whether a product with the id exists.
func (l *Lookup) ProductExists(ctx context.Context, id string) (bool, error) {
	return l.exists(ctx, "lookup.ProductExists", &models.Product{}, id)
}

// BusinessExists reports whether a business with the id exists.
func (l *Lookup) BusinessExists(ctx context.Context, id string) (bool, error) {
	return l.exists(ctx, "lookup.BusinessExists", &models.Business{}, id)
}

// UserExists reports whether a user with the id exists.
func (l *Lookup) UserExists(ctx context.Context, id string) (bool, error) {
	return l.exists(ctx, "lookup.UserExists", &models.User{}, id)
}

// BusinessByID loads a business; used to default a deal's location.
func (l *Lookup) BusinessByID(ctx context.Context, id string) (*models.Business, bool, error) {
	const op = "lookup.BusinessByID"

	var business models.Business
	err := l.db.WithContext(ctx).First(&business, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.E(op, err)
	}
	return &business, true, nil
}
