package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-reservation/config"
	"hotel-reservation/controllers"
	"hotel-reservation/routes"
	"hotel-reservation/services"
)

func main() {
	backfill := flag.Bool("backfill-group-ids", false, "assign group ids to legacy ungrouped bookings and exit")
	flag.Parse()

	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Initialize services
	currencyService := services.NewCurrencyService()
	userService := services.NewUserService(db)
	roomTypeService := services.NewRoomTypeService(db)
	roomService := services.NewRoomService(db)
	bookingService := services.NewBookingService(db, currencyService)
	paymentService := services.NewPaymentService(db, currencyService)

	if *backfill {
		groups, updated, err := bookingService.BackfillGroupIDs()
		if err != nil {
			log.Fatalf("❌ Backfill failed: %v", err)
		}
		log.Printf("✅ Backfill complete: %d bookings grouped into %d groups", updated, groups)
		return
	}

	// Initialize controllers
	authController := controllers.NewAuthController(userService)
	roomTypeController := controllers.NewRoomTypeController(roomTypeService)
	roomController := controllers.NewRoomController(roomService)
	bookingController := controllers.NewBookingController(bookingService)
	checkInController := controllers.NewCheckInController(bookingService)
	paymentController := controllers.NewPaymentController(paymentService)

	router := routes.SetupRouter(
		userService,
		authController,
		roomTypeController,
		roomController,
		bookingController,
		checkInController,
		paymentController,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
