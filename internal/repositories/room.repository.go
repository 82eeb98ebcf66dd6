package repositories

import (
	"context"
	"errors"

	"innkeep/internal/apperrors"
	"innkeep/internal/constants"
	"innkeep/internal/database"
	. "innkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomFilter narrows room listings. Zero values mean no filtering.
type RoomFilter struct {
	Status      *RoomStatus
	RoomTypeID  *uuid.UUID
	MinCapacity *int
}

type RoomRepository interface {
	GetRoomTypes(ctx context.Context, tx *gorm.DB) ([]*RoomType, error)
	GetRoomTypeByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*RoomType, error)
	CreateRoomType(ctx context.Context, tx *gorm.DB, roomType *RoomType) error
	UpdateRoomType(ctx context.Context, tx *gorm.DB, roomType *RoomType) error
	DeleteRoomType(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	GetRooms(ctx context.Context, tx *gorm.DB, filter RoomFilter) ([]*Room, error)
	GetRoomByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	// LockRoomByID fetches the room under a row lock so the overlap check
	// and the reservation write serialize per room.
	LockRoomByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	CreateRoom(ctx context.Context, tx *gorm.DB, room *Room) error
	UpdateRoom(ctx context.Context, tx *gorm.DB, room *Room) error
	DeleteRoom(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	SetStatus(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, status RoomStatus) error

	// GetBookableRooms returns rooms in a bookable status, optionally
	// narrowed by capacity, excluding the given room ids.
	GetBookableRooms(
		ctx context.Context,
		tx *gorm.DB,
		minCapacity *int,
		excludeIDs []uuid.UUID,
	) ([]*Room, error)
}

type roomRepository struct {
	cache database.CacheClient
}

func NewRoomRepository(cache database.CacheClient) RoomRepository {
	return &roomRepository{cache: cache}
}

func (r *roomRepository) GetRoomTypes(ctx context.Context, tx *gorm.DB) ([]*RoomType, error) {
	log := logger.New("roomRepository").Function("GetRoomTypes")

	var cached []*RoomType
	found, err := database.NewCacheBuilder(r.cache, constants.RoomTypesCacheKey).
		WithContext(ctx).
		WithHash(constants.CatalogCachePrefix).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get room types from cache", "error", err)
	}

	if found {
		return cached, nil
	}

	var roomTypes []*RoomType
	if err := tx.WithContext(ctx).Order("name ASC").Find(&roomTypes).Error; err != nil {
		return nil, log.Err("failed to get room types", err)
	}

	err = database.NewCacheBuilder(r.cache, constants.RoomTypesCacheKey).
		WithContext(ctx).
		WithHash(constants.CatalogCachePrefix).
		WithStruct(roomTypes).
		WithTTL(constants.CatalogCacheExpiry).
		Set()
	if err != nil {
		log.Warn("failed to set room types in cache", "error", err)
	}

	return roomTypes, nil
}

func (r *roomRepository) GetRoomTypeByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*RoomType, error) {
	log := logger.New("roomRepository").Function("GetRoomTypeByID")

	var roomType RoomType
	if err := tx.WithContext(ctx).First(&roomType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("room type")
		}
		return nil, log.Err("failed to get room type", err, "roomTypeID", id)
	}

	return &roomType, nil
}

func (r *roomRepository) CreateRoomType(
	ctx context.Context,
	tx *gorm.DB,
	roomType *RoomType,
) error {
	log := logger.New("roomRepository").Function("CreateRoomType")

	if err := tx.WithContext(ctx).Create(roomType).Error; err != nil {
		return log.Err("failed to create room type", err, "name", roomType.Name)
	}

	r.clearCatalogCache(ctx)

	return nil
}

func (r *roomRepository) UpdateRoomType(
	ctx context.Context,
	tx *gorm.DB,
	roomType *RoomType,
) error {
	log := logger.New("roomRepository").Function("UpdateRoomType")

	if err := tx.WithContext(ctx).Save(roomType).Error; err != nil {
		return log.Err("failed to update room type", err, "roomTypeID", roomType.ID)
	}

	r.clearCatalogCache(ctx)

	return nil
}

func (r *roomRepository) DeleteRoomType(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.New("roomRepository").Function("DeleteRoomType")

	var referencing int64
	if err := tx.WithContext(ctx).Model(&Room{}).
		Where("room_type_id = ?", id).
		Count(&referencing).Error; err != nil {
		return log.Err("failed to count rooms for room type", err, "roomTypeID", id)
	}

	if referencing > 0 {
		return apperrors.Validation(
			apperrors.ReasonResourceInUse,
			"room type is referenced by %d rooms", referencing,
		)
	}

	result := tx.WithContext(ctx).Delete(&RoomType{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete room type", result.Error, "roomTypeID", id)
	}

	if result.RowsAffected == 0 {
		return apperrors.NotFound("room type")
	}

	r.clearCatalogCache(ctx)

	return nil
}

func (r *roomRepository) GetRooms(
	ctx context.Context,
	tx *gorm.DB,
	filter RoomFilter,
) ([]*Room, error) {
	log := logger.New("roomRepository").Function("GetRooms")

	query := tx.WithContext(ctx).Preload("RoomType").Order("number ASC")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RoomTypeID != nil {
		query = query.Where("room_type_id = ?", *filter.RoomTypeID)
	}
	if filter.MinCapacity != nil {
		query = query.Where(
			"room_type_id IN (?)",
			tx.Model(&RoomType{}).Select("id").Where("capacity >= ?", *filter.MinCapacity),
		)
	}

	var rooms []*Room
	if err := query.Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to get rooms", err)
	}

	return rooms, nil
}

func (r *roomRepository) GetRoomByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Room, error) {
	log := logger.New("roomRepository").Function("GetRoomByID")

	var room Room
	if err := tx.WithContext(ctx).
		Preload("RoomType").
		First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("room")
		}
		return nil, log.Err("failed to get room", err, "roomID", id)
	}

	return &room, nil
}

func (r *roomRepository) LockRoomByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Room, error) {
	log := logger.New("roomRepository").Function("LockRoomByID")

	// Preload issues a separate query; only the room row itself is locked.
	var room Room
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("room")
		}
		return nil, log.Err("failed to lock room", err, "roomID", id)
	}

	var roomType RoomType
	if err := tx.WithContext(ctx).
		First(&roomType, "id = ?", room.RoomTypeID).Error; err != nil {
		return nil, log.Err("failed to load room type for locked room", err, "roomID", id)
	}
	room.RoomType = &roomType

	return &room, nil
}

func (r *roomRepository) CreateRoom(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := logger.New("roomRepository").Function("CreateRoom")

	if err := tx.WithContext(ctx).Create(room).Error; err != nil {
		return log.Err("failed to create room", err, "number", room.Number)
	}

	r.clearCatalogCache(ctx)

	return nil
}

func (r *roomRepository) UpdateRoom(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := logger.New("roomRepository").Function("UpdateRoom")

	if err := tx.WithContext(ctx).Save(room).Error; err != nil {
		return log.Err("failed to update room", err, "roomID", room.ID)
	}

	r.clearCatalogCache(ctx)

	return nil
}

func (r *roomRepository) DeleteRoom(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.New("roomRepository").Function("DeleteRoom")

	var referencing int64
	if err := tx.WithContext(ctx).Model(&Reservation{}).
		Where("room_id = ?", id).
		Count(&referencing).Error; err != nil {
		return log.Err("failed to count reservations for room", err, "roomID", id)
	}

	if referencing > 0 {
		return apperrors.Validation(
			apperrors.ReasonResourceInUse,
			"room is referenced by %d reservations", referencing,
		)
	}

	result := tx.WithContext(ctx).Delete(&Room{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete room", result.Error, "roomID", id)
	}

	if result.RowsAffected == 0 {
		return apperrors.NotFound("room")
	}

	r.clearCatalogCache(ctx)

	return nil
}

func (r *roomRepository) SetStatus(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	status RoomStatus,
) error {
	log := logger.New("roomRepository").Function("SetStatus")

	result := tx.WithContext(ctx).Model(&Room{}).
		Where("id = ?", roomID).
		Update("status", status)
	if result.Error != nil {
		return log.Err("failed to set room status", result.Error, "roomID", roomID, "status", status)
	}

	if result.RowsAffected == 0 {
		return apperrors.NotFound("room")
	}

	r.clearCatalogCache(ctx)

	return nil
}

func (r *roomRepository) GetBookableRooms(
	ctx context.Context,
	tx *gorm.DB,
	minCapacity *int,
	excludeIDs []uuid.UUID,
) ([]*Room, error) {
	log := logger.New("roomRepository").Function("GetBookableRooms")

	query := tx.WithContext(ctx).
		Preload("RoomType").
		Where("status IN ?", BookableRoomStatuses).
		Order("number ASC")

	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if minCapacity != nil {
		query = query.Where(
			"room_type_id IN (?)",
			tx.Model(&RoomType{}).Select("id").Where("capacity >= ?", *minCapacity),
		)
	}

	var rooms []*Room
	if err := query.Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to get bookable rooms", err)
	}

	return rooms, nil
}

func (r *roomRepository) clearCatalogCache(ctx context.Context) {
	log := logger.New("roomRepository").Function("clearCatalogCache")

	err := database.NewCacheBuilder(r.cache, constants.RoomTypesCacheKey).
		WithContext(ctx).
		WithHash(constants.CatalogCachePrefix).
		Delete()
	if err != nil {
		log.Warn("failed to clear catalog cache", "error", err)
	}
}
