// routes/routes.go
package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-reservation/controllers"
	"hotel-reservation/middleware"
	"hotel-reservation/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires every endpoint. Guest endpoints require a bearer
// token; everything under /api/admin additionally requires the admin
// role.
func SetupRouter(
	users *services.UserService,
	ac *controllers.AuthController,
	rtc *controllers.RoomTypeController,
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	cc *controllers.CheckInController,
	pc *controllers.PaymentController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
		}

		// Public browsing of the catalog.
		api.GET("/room-types", rtc.List)
		api.GET("/room-types/:id", rtc.Get)
		api.GET("/rooms", rc.List)
		api.GET("/rooms/:id", rc.Get)

		bookings := api.Group("/bookings", middleware.RequireAuth(users))
		{
			bookings.POST("", bc.Create)
			bookings.GET("", bc.ListMine)
			bookings.GET("/:groupId", bc.GroupDetail)
		}

		admin := api.Group("/admin", middleware.RequireAuth(users), middleware.RequireAdmin())
		{
			admin.POST("/auth/register-admin", ac.RegisterAdmin)

			admin.GET("/bookings", bc.AdminList)
			admin.POST("/bookings/:id/cancel", cc.CancelBooking)
			admin.PUT("/bookings/:id/group", cc.UpdateGroup)
			admin.DELETE("/bookings/group/:groupId", cc.DeleteGroup)

			checkin := admin.Group("/checkin")
			{
				checkin.POST("/assign-rooms", cc.AssignRooms)
				checkin.GET("/group/:groupId/details", cc.CheckInDetails)
				checkin.GET("/group/:groupId/assignments", cc.RoomAssignments)
				checkin.POST("/group/:groupId", cc.CheckInGroup)
				checkin.POST("/group/:groupId/assign", cc.AssignGroupRooms)
				checkin.POST("/booking/:id", cc.CheckInBooking)
				checkin.POST("/booking/:id/process", cc.ProcessCheckIn)
			}

			checkout := admin.Group("/checkout")
			{
				checkout.POST("/booking/:id", cc.CheckOutBooking)
				checkout.POST("/group/:groupId", cc.CheckOutGroup)
			}

			admin.POST("/payments/group/:groupId", pc.ProcessGroupPayment)
			admin.GET("/payments", pc.List)

			admin.POST("/rooms", rc.Create)
			admin.PUT("/rooms/:id", rc.Update)
			admin.DELETE("/rooms/:id", rc.Delete)

			admin.POST("/room-types", rtc.Create)
			admin.PUT("/room-types/:id", rtc.Update)
			admin.DELETE("/room-types/:id", rtc.Delete)
			admin.GET("/room-types/:id/available-rooms", rc.AvailableByType)
		}
	}

	return r
}
