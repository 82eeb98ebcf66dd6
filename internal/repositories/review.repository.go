package repositories

import (
	"context"
	"errors"

	"innkeep/internal/apperrors"
	. "innkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Review, error)
	List(ctx context.Context, tx *gorm.DB, guestID *uuid.UUID) ([]*Review, error)
	ExistsForReservation(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, review *Review) error
	Save(ctx context.Context, tx *gorm.DB, review *Review) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type reviewRepository struct{}

func NewReviewRepository() ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Review, error) {
	log := logger.New("reviewRepository").Function("GetByID")

	var review Review
	if err := tx.WithContext(ctx).
		Preload("Reservation").
		First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review")
		}
		return nil, log.Err("failed to get review", err, "reviewID", id)
	}

	return &review, nil
}

func (r *reviewRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	guestID *uuid.UUID,
) ([]*Review, error) {
	log := logger.New("reviewRepository").Function("List")

	query := tx.WithContext(ctx).
		Preload("Reservation").
		Order("created_at DESC")

	if guestID != nil {
		query = query.Where("guest_id = ?", *guestID)
	}

	var reviews []*Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, log.Err("failed to list reviews", err)
	}

	return reviews, nil
}

func (r *reviewRepository) ExistsForReservation(
	ctx context.Context,
	tx *gorm.DB,
	reservationID uuid.UUID,
) (bool, error) {
	log := logger.New("reviewRepository").Function("ExistsForReservation")

	var count int64
	if err := tx.WithContext(ctx).Model(&Review{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check review existence", err, "reservationID", reservationID)
	}

	return count > 0, nil
}

func (r *reviewRepository) Create(ctx context.Context, tx *gorm.DB, review *Review) error {
	log := logger.New("reviewRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(review).Error; err != nil {
		return log.Err(
			"failed to create review",
			err,
			"reservationID", review.ReservationID,
			"guestID", review.GuestID,
		)
	}

	return nil
}

func (r *reviewRepository) Save(ctx context.Context, tx *gorm.DB, review *Review) error {
	log := logger.New("reviewRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(review).Error; err != nil {
		return log.Err("failed to save review", err, "reviewID", review.ID)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.New("reviewRepository").Function("Delete")

	result := tx.WithContext(ctx).Delete(&Review{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete review", result.Error, "reviewID", id)
	}

	if result.RowsAffected == 0 {
		return apperrors.NotFound("review")
	}

	return nil
}
