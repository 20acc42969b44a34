package services

import (
	"errors"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"hotel-reservation/models"
)

type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

func (s *RoomTypeService) Create(rt *models.RoomType) error {
	if err := s.DB.Create(rt).Error; err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: room type %q", ErrDuplicateName, rt.Name)
		}
		return fmt.Errorf("failed to create room type: %w", err)
	}
	return nil
}

func (s *RoomTypeService) GetAll() ([]models.RoomType, error) {
	var types []models.RoomType
	if err := s.DB.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	return types, nil
}

func (s *RoomTypeService) GetByID(id uint) (models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rt, ErrRoomTypeNotFound
		}
		return rt, fmt.Errorf("failed to load room type %d: %w", id, err)
	}
	return rt, nil
}

func (s *RoomTypeService) Update(id uint, name, description string, price float64) (models.RoomType, error) {
	rt, err := s.GetByID(id)
	if err != nil {
		return rt, err
	}

	updates := map[string]interface{}{
		"name":        name,
		"description": description,
		"price":       price,
	}
	if err := s.DB.Model(&rt).Updates(updates).Error; err != nil {
		if isDuplicateKeyError(err) {
			return rt, fmt.Errorf("%w: room type %q", ErrDuplicateName, name)
		}
		return rt, fmt.Errorf("failed to update room type %d: %w", id, err)
	}
	return rt, nil
}

// Delete removes a room type. Blocked while any room references it.
func (s *RoomTypeService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	var roomCount int64
	if err := s.DB.Model(&models.Room{}).Where("room_type_id = ?", id).Count(&roomCount).Error; err != nil {
		return fmt.Errorf("failed to count rooms for room type %d: %w", id, err)
	}
	if roomCount > 0 {
		return fmt.Errorf("%w: %d rooms attached", ErrRoomTypeInUse, roomCount)
	}

	if err := s.DB.Delete(&models.RoomType{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete room type %d: %w", id, err)
	}
	return nil
}

// isDuplicateKeyError detects unique-constraint violations from both
// MySQL (error 1062) and the sqlite driver used in tests.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysqldriver.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique")
}
