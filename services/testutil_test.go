// services/testutil_test.go
package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotel-reservation/models"
	"hotel-reservation/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newBookingService(db *gorm.DB) *services.BookingService {
	return services.NewBookingService(db, services.NewCurrencyService())
}

func createUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "not-a-real-hash",
		Role:     role,
		APIToken: "token-" + email,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createRoomType(t *testing.T, db *gorm.DB, name string, price float64) models.RoomType {
	t.Helper()
	rt := models.RoomType{Name: name, Description: name, Price: price}
	if err := db.Create(&rt).Error; err != nil {
		t.Fatalf("create room type: %v", err)
	}
	return rt
}

func createRooms(t *testing.T, db *gorm.DB, roomTypeID uint, count int) []models.Room {
	t.Helper()
	rooms := make([]models.Room, 0, count)
	for i := 0; i < count; i++ {
		room := models.Room{
			Name:        fmt.Sprintf("Room %d-%d", roomTypeID, i+1),
			RoomTypeID:  roomTypeID,
			IsAvailable: true,
		}
		if err := db.Create(&room).Error; err != nil {
			t.Fatalf("create room: %v", err)
		}
		rooms = append(rooms, room)
	}
	return rooms
}

// stayDates returns a check-in tomorrow and a check-out after the
// given number of nights.
func stayDates(nights int) (time.Time, time.Time) {
	checkIn := time.Now().UTC().AddDate(0, 0, 1)
	return checkIn, checkIn.AddDate(0, 0, nights)
}

func dateOf(t time.Time) datatypes.Date {
	return datatypes.Date(t)
}

func loadRoom(t *testing.T, db *gorm.DB, id uint) models.Room {
	t.Helper()
	var room models.Room
	if err := db.First(&room, id).Error; err != nil {
		t.Fatalf("load room %d: %v", id, err)
	}
	return room
}

func loadGroup(t *testing.T, db *gorm.DB, groupID string) []models.Booking {
	t.Helper()
	var bookings []models.Booking
	if err := db.Where("booking_group_id = ?", groupID).Order("id").Find(&bookings).Error; err != nil {
		t.Fatalf("load group %s: %v", groupID, err)
	}
	return bookings
}
