package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hotel-reservation/models"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

// RoomFilter narrows List. A nil RoomTypeID means all types.
type RoomFilter struct {
	RoomTypeID    *uint
	AvailableOnly bool
}

func (s *RoomService) List(filter RoomFilter) ([]models.Room, error) {
	query := s.DB.Preload("RoomType")
	if filter.RoomTypeID != nil {
		query = query.Where("room_type_id = ?", *filter.RoomTypeID)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	var rooms []models.Room
	if err := query.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(id uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("RoomType").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, ErrRoomNotFound
		}
		return room, fmt.Errorf("failed to load room %d: %w", id, err)
	}
	return room, nil
}

func (s *RoomService) Create(room *models.Room) error {
	var rt models.RoomType
	if err := s.DB.First(&rt, room.RoomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomTypeNotFound
		}
		return fmt.Errorf("failed to check room type %d: %w", room.RoomTypeID, err)
	}

	if err := s.DB.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (s *RoomService) Update(id uint, name string, roomTypeID uint, description string, isAvailable bool) (models.Room, error) {
	room, err := s.GetByID(id)
	if err != nil {
		return room, err
	}

	var rt models.RoomType
	if err := s.DB.First(&rt, roomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, ErrRoomTypeNotFound
		}
		return room, fmt.Errorf("failed to check room type %d: %w", roomTypeID, err)
	}

	updates := map[string]interface{}{
		"name":         name,
		"room_type_id": roomTypeID,
		"description":  description,
		"is_available": isAvailable,
	}
	if err := s.DB.Model(&room).Updates(updates).Error; err != nil {
		return room, fmt.Errorf("failed to update room %d: %w", id, err)
	}
	return room, nil
}

// Delete removes a room. Blocked while the room has bookings in an
// active status (confirmed or checked_in).
func (s *RoomService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	var active int64
	err := s.DB.Model(&models.Booking{}).
		Where("room_id = ? AND status IN ?", id, []string{models.StatusConfirmed, models.StatusCheckedIn}).
		Count(&active).Error
	if err != nil {
		return fmt.Errorf("failed to count active bookings for room %d: %w", id, err)
	}
	if active > 0 {
		return fmt.Errorf("%w: %d active bookings", ErrRoomHasActiveBookings, active)
	}

	if err := s.DB.Delete(&models.Room{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete room %d: %w", id, err)
	}
	return nil
}

// AvailableCount returns how many rooms of a type can currently be
// claimed. No date scoping: a room booked for a future week still
// counts until the moment it is checked in.
func (s *RoomService) AvailableCount(roomTypeID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Room{}).
		Where("room_type_id = ? AND is_available = ?", roomTypeID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count available rooms for type %d: %w", roomTypeID, err)
	}
	return count, nil
}

func (s *RoomService) AvailableRooms(roomTypeID uint) ([]models.Room, error) {
	typeID := roomTypeID
	return s.List(RoomFilter{RoomTypeID: &typeID, AvailableOnly: true})
}

// claimRoom flips a room to occupied with a compare-and-swap on
// is_available, so the loser of a concurrent claim gets a
// deterministic ErrRoomNotAvailable instead of a double booking.
func claimRoom(tx *gorm.DB, roomID uint) error {
	res := tx.Model(&models.Room{}).
		Where("id = ? AND is_available = ?", roomID, true).
		Update("is_available", false)
	if res.Error != nil {
		return fmt.Errorf("failed to claim room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: room %d", ErrRoomNotAvailable, roomID)
	}
	return nil
}

func releaseRoom(tx *gorm.DB, roomID uint) error {
	err := tx.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("is_available", true).Error
	if err != nil {
		return fmt.Errorf("failed to release room %d: %w", roomID, err)
	}
	return nil
}
