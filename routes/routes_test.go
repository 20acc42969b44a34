// routes/routes_test.go
package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel-reservation/controllers"
	"hotel-reservation/models"
	"hotel-reservation/routes"
	"hotel-reservation/services"
)

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:apidb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.Payment{},
	))

	currency := services.NewCurrencyService()
	users := services.NewUserService(db)
	bookings := services.NewBookingService(db, currency)
	payments := services.NewPaymentService(db, currency)

	router := routes.SetupRouter(
		users,
		controllers.NewAuthController(users),
		controllers.NewRoomTypeController(services.NewRoomTypeService(db)),
		controllers.NewRoomController(services.NewRoomService(db)),
		controllers.NewBookingController(bookings),
		controllers.NewCheckInController(bookings),
		controllers.NewPaymentController(payments),
	)
	return router, db
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestBookingFlowOverHTTP(t *testing.T) {
	router, db := setupAPI(t)

	double := models.RoomType{Name: "Double Room", Price: 89.99}
	require.NoError(t, db.Create(&double).Error)
	require.NoError(t, db.Create(&models.Room{Name: "Room 101", RoomTypeID: double.ID, IsAvailable: true}).Error)

	// Register and log in.
	w, env := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	require.NotEmpty(t, registered.Token)

	// Booking without a token is rejected.
	w, _ = doJSON(t, router, http.MethodPost, "/api/bookings", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	checkIn := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	checkOut := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	w, env = doJSON(t, router, http.MethodPost, "/api/bookings", registered.Token, gin.H{
		"room_type_ids":  []uint{double.ID},
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"guests":         2,
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "success", env.Status)

	var summary services.GroupSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.InDelta(t, 179.98, summary.TotalPrice, 0.001)

	// The guest sees the group in their listing and detail.
	w, env = doJSON(t, router, http.MethodGet, "/api/bookings", registered.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var groups []services.GroupProjection
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, summary.BookingGroupID, groups[0].BookingGroupID)

	w, _ = doJSON(t, router, http.MethodGet, "/api/bookings/"+summary.BookingGroupID, registered.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Admin surface is closed to regular users.
	w, _ = doJSON(t, router, http.MethodGet, "/api/admin/bookings", registered.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCheckInOverHTTP(t *testing.T) {
	router, db := setupAPI(t)

	double := models.RoomType{Name: "Double Room", Price: 89.99}
	require.NoError(t, db.Create(&double).Error)
	room := models.Room{Name: "Room 101", RoomTypeID: double.ID, IsAvailable: true}
	require.NoError(t, db.Create(&room).Error)

	users := services.NewUserService(db)
	guest, err := users.Register("Guest", "guest@example.com", "secret123", models.RoleUser)
	require.NoError(t, err)
	admin, err := users.Register("Admin", "admin@example.com", "secret123", models.RoleAdmin)
	require.NoError(t, err)

	checkIn := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	checkOut := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	w, env := doJSON(t, router, http.MethodPost, "/api/bookings", guest.APIToken, gin.H{
		"room_type_ids":  []uint{double.ID},
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"guests":         2,
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var summary services.GroupSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))

	// Front desk reviews, then checks the group in.
	w, _ = doJSON(t, router, http.MethodGet, "/api/admin/checkin/group/"+summary.BookingGroupID+"/details", admin.APIToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, router, http.MethodPost, "/api/admin/checkin/group/"+summary.BookingGroupID, admin.APIToken, gin.H{
		"room_assignments": []gin.H{{"room_type_id": double.ID, "room_ids": []uint{room.ID}}},
		"payment_info":     gin.H{"status": "paid", "method": "cash"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", env.Status)

	var fresh models.Room
	require.NoError(t, db.First(&fresh, room.ID).Error)
	assert.False(t, fresh.IsAvailable)

	// Check the group out again over HTTP.
	w, _ = doJSON(t, router, http.MethodPost, "/api/admin/checkout/group/"+summary.BookingGroupID, admin.APIToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&fresh, room.ID).Error)
	assert.True(t, fresh.IsAvailable)
}
