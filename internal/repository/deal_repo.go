package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/example/dealspot/internal/apperrors"
	"github.com/example/dealspot/internal/models"
)

// DealRepository implements persistence for deals.
type DealRepository struct {
	db *gorm.DB
}

// NewDealRepository constructs a DealRepository over a shared connection.
func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

// NearbyDeal is a deal paired with its distance from a query point.
type NearbyDeal struct {
	models.Deal
	DistanceKm float64 `json:"distance_km"`
}

// Create persists a new deal. Referential validity is checked by the caller
// beforehand; a dangling reference that slips through between check and write
// surfaces as a typed dependency error, never a crash.
func (r *DealRepository) Create(ctx context.Context, deal *models.Deal) error {
	const op = "deals.Create"

	if err := r.db.WithContext(ctx).Create(deal).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return apperrors.DependencyMissing(op, "referenced entity", pgErr.ConstraintName)
			case "23505":
				return apperrors.Conflict(op, "deal already exists")
			}
		}
		return apperrors.E(op, err)
	}
	return nil
}

// FindByID loads a single deal; the boolean reports existence.
func (r *DealRepository) FindByID(ctx context.Context, id string) (*models.Deal, bool, error) {
	const op = "deals.FindByID"

	var deal models.Deal
	err := r.db.WithContext(ctx).First(&deal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.E(op, err)
	}
	return &deal, true, nil
}

// FindNear returns deals within radiusKm of the point that are live at the
// given instant, nearest first; ties are broken by earliest end date so the
// soonest-to-expire deal surfaces first. The page limit and offset bound the
// result after ordering.
func (r *DealRepository) FindNear(ctx context.Context, lng, lat, radiusKm float64, now time.Time, limit, offset int) ([]NearbyDeal, error) {
	const op = "deals.FindNear"

	minLng, minLat, maxLng, maxLat := boundingBox(lng, lat, radiusKm)

	var candidates []models.Deal
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date > ?", now, now).
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLng, maxLng).
		Find(&candidates).Error
	if err != nil {
		return nil, apperrors.E(op, err)
	}

	matches := make([]NearbyDeal, 0, len(candidates))
	for _, deal := range candidates {
		distance := haversineKm(lng, lat, deal.Longitude, deal.Latitude)
		if distance <= radiusKm {
			matches = append(matches, NearbyDeal{Deal: deal, DistanceKm: distance})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].EndDate.Before(matches[j].EndDate)
	})

	if offset >= len(matches) {
		return []NearbyDeal{}, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// DeleteByID removes the deal and reports whether anything was removed. A
// missing id is not an error at this level.
func (r *DealRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	const op = "deals.DeleteByID"

	res := r.db.WithContext(ctx).Delete(&models.Deal{}, "id = ?", id)
	if res.Error != nil {
		return false, apperrors.E(op, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ExpireBulk removes every deal whose end date has passed and returns the
// number removed. Re-running with the same or a later instant removes nothing
// it already removed.
func (r *DealRepository) ExpireBulk(ctx context.Context, now time.Time) (int64, error) {
	const op = "deals.ExpireBulk"

	res := r.db.WithContext(ctx).Where("end_date <= ?", now).Delete(&models.Deal{})
	if res.Error != nil {
		return 0, apperrors.E(op, res.Error)
	}
	return res.RowsAffected, nil
}
