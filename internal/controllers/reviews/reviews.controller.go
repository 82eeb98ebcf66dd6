package reviews

import (
	"context"

	"innkeep/internal/apperrors"
	"innkeep/internal/database"
	"innkeep/internal/models"
	"innkeep/internal/policies"
	"innkeep/internal/repositories"
	"innkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Controller owns guest reviews: one per reservation, written by the
// owning guest after checkout.
type Controller struct {
	db              *gorm.DB
	reviewRepo      repositories.ReviewRepository
	reservationRepo repositories.ReservationRepository
	tx              services.TxExecutor
	log             logger.Logger
}

func New(db database.DB, repos repositories.Repository, service services.Service) *Controller {
	return &Controller{
		db:              db.SQL,
		reviewRepo:      repos.Review,
		reservationRepo: repos.Reservation,
		tx:              service.Transaction,
		log:             logger.New("reviewsController"),
	}
}

type CreateRequest struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
}

// Create writes a review for a checked-out reservation. Only the guest
// who stayed can review, and only once; the existence check and the
// insert share a transaction so a double submit cannot slip through.
func (c *Controller) Create(
	ctx context.Context,
	actor *models.User,
	req CreateRequest,
) (*models.Review, error) {
	log := c.log.Function("Create")

	if actor == nil {
		return nil, apperrors.Authorization("authentication required")
	}
	if !models.ValidRating(req.Rating) {
		return nil, apperrors.Validation(
			apperrors.ReasonInvalidRating,
			"rating must be between %d and %d", models.MinRating, models.MaxRating,
		)
	}

	review := &models.Review{
		ReservationID: req.ReservationID,
		GuestID:       actor.ID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		reservation, err := c.reservationRepo.GetByID(ctx, tx, req.ReservationID)
		if err != nil {
			return err
		}

		if reservation.GuestID != actor.ID {
			return apperrors.Authorization("only the guest who stayed can review")
		}

		if reservation.Status != models.ReservationCheckedOut {
			return apperrors.Validation(
				apperrors.ReasonNotCheckedOut,
				"reviews are only allowed after checkout",
			)
		}

		exists, err := c.reviewRepo.ExistsForReservation(ctx, tx, req.ReservationID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Validation(
				apperrors.ReasonReviewExists,
				"this reservation has already been reviewed",
			)
		}

		return c.reviewRepo.Create(ctx, tx, review)
	})
	if err != nil {
		return nil, err
	}

	log.Info("review created", "reviewID", review.ID, "reservationID", review.ReservationID)

	return review, nil
}

func (c *Controller) Get(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) (*models.Review, error) {
	review, err := c.reviewRepo.GetByID(ctx, c.db, id)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewReview(actor, review) {
		return nil, apperrors.Authorization("not permitted to view this review")
	}

	return review, nil
}

// List returns reviews visible to the actor: guests see their own, staff
// see all.
func (c *Controller) List(
	ctx context.Context,
	actor *models.User,
) ([]*models.Review, error) {
	return c.reviewRepo.List(ctx, c.db, policies.ReservationScope(actor))
}

type UpdateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Update rewrites a review's rating and comment. Moderation only: guests
// cannot revise their reviews once posted.
func (c *Controller) Update(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
	req UpdateRequest,
) (*models.Review, error) {
	if !policies.CanOperateReservations(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if !models.ValidRating(req.Rating) {
		return nil, apperrors.Validation(
			apperrors.ReasonInvalidRating,
			"rating must be between %d and %d", models.MinRating, models.MaxRating,
		)
	}

	review, err := c.reviewRepo.GetByID(ctx, c.db, id)
	if err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.Comment = req.Comment

	if err := c.reviewRepo.Save(ctx, c.db, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review. Moderation only; guests cannot retract their
// own reviews.
func (c *Controller) Delete(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) error {
	if !policies.CanOperateReservations(actor) {
		return apperrors.Authorization("staff role required")
	}

	return c.reviewRepo.Delete(ctx, c.db, id)
}
