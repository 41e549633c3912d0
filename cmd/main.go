package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/db"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/handlers"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/middleware"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/notify"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/repository"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/services"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/session"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/storage"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/twofactor"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	// Initialize Fiber
	app := fiber.New()
	// Initialize MinIO
	storage.InitMinio()
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Get MongoDB URI from environment
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017/saferide" // Default fallback
	}

	// Connect to MongoDB
	mongoDB := db.ConnectMongoDB(mongoURI, "saferide")

	// Connect to Redis (sessions and two-factor tokens)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr, Password: os.Getenv("REDIS_PASSWORD")})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	// Repositories
	userRepo := repository.NewMongoUserRepo(mongoDB)
	driverRepo := repository.NewMongoDriverRepo(mongoDB)
	passangerRepo := repository.NewMongoPassangerRepo(mongoDB)
	rideRepo := repository.NewMongoRideRepo(mongoDB)

	// Mail and two-factor delivery
	mailer := notify.NewClient(os.Getenv("BREVO_API_KEY"), os.Getenv("MAIL_FROM_EMAIL"), os.Getenv("MAIL_FROM_NAME"))
	tokenTTL := 5 * time.Minute
	if minutes, err := strconv.Atoi(os.Getenv("TWO_FACTOR_TTL_MINUTES")); err == nil && minutes > 0 {
		tokenTTL = time.Duration(minutes) * time.Minute
	}
	twoFactor := twofactor.NewService(twofactor.NewRedisStore(rdb), mailer, tokenTTL)

	// Services
	userService := services.NewUserService(userRepo, mailer, twoFactor)
	driverService := services.NewDriverService(driverRepo, userService)
	passangerService := services.NewPassangerService(passangerRepo, userService)
	// The registries check each other for cross-role duplicates, so the
	// sibling lookups are bound after both exist.
	driverService.SetSibling(passangerService)
	passangerService.SetSibling(driverService)
	rideService := services.NewRideService(rideRepo, passangerService, driverService)

	sessionTTL := 24 * time.Hour
	if minutes, err := strconv.Atoi(os.Getenv("SESSION_TTL_MINUTES")); err == nil && minutes > 0 {
		sessionTTL = time.Duration(minutes) * time.Minute
	}
	sessions := session.NewStore(rdb, userRepo, sessionTTL)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, sessions, twoFactor)
	driverHandler := handlers.NewDriverHandler(driverService)
	passangerHandler := handlers.NewPassangerHandler(passangerService)
	rideHandler := handlers.NewRideHandler(rideService)

	// Auth Routes
	auth := app.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/session/:id", authHandler.Session)
	auth.Post("/change-password", middleware.AuthMiddleware, authHandler.ChangePassword)
	auth.Put("/profile", middleware.AuthMiddleware, authHandler.UpdateProfile)
	auth.Get("/verify-status/:email", authHandler.VerificationStatus)
	auth.Post("/verify-email", authHandler.VerifyEmail)
	auth.Post("/send-verification-email", authHandler.SendVerificationEmail)
	auth.Post("/2fa/send", authHandler.SendToken)
	auth.Post("/2fa/resend", authHandler.ResendToken)
	auth.Post("/2fa/verify", authHandler.VerifyToken)

	// Driver Routes
	drivers := app.Group("/drivers")
	drivers.Post("/", driverHandler.Create)
	drivers.Get("/", middleware.AuthMiddleware, driverHandler.List)
	drivers.Get("/online", middleware.AuthMiddleware, driverHandler.ListOnline)
	drivers.Get("/:email", middleware.AuthMiddleware, driverHandler.GetByEmail)
	drivers.Put("/:email", middleware.AuthMiddleware, driverHandler.UpdateByEmail)
	drivers.Post("/:email/verify", middleware.AuthMiddleware, middleware.RequireRole("admin"), driverHandler.Verify)
	drivers.Post("/:email/profile-image", middleware.AuthMiddleware, driverHandler.UploadProfileImage)

	// Passanger Routes
	passangers := app.Group("/passangers")
	passangers.Post("/", passangerHandler.Create)
	passangers.Get("/", middleware.AuthMiddleware, passangerHandler.List)
	passangers.Get("/:email", middleware.AuthMiddleware, passangerHandler.GetByEmail)
	passangers.Put("/:email", middleware.AuthMiddleware, passangerHandler.UpdateByEmail)
	passangers.Post("/:email/profile-image", middleware.AuthMiddleware, passangerHandler.UploadProfileImage)

	// Ride Routes
	rides := app.Group("/rides", middleware.AuthMiddleware)
	rides.Post("/", rideHandler.Create)
	rides.Get("/", rideHandler.List)
	rides.Get("/passenger/:email", rideHandler.ListByPassenger)
	rides.Get("/driver/:email", rideHandler.ListByDriver)
	rides.Get("/:id", rideHandler.GetByID)
	rides.Put("/:id", middleware.RequireRole("admin"), rideHandler.Update)
	rides.Post("/:id/transition", rideHandler.Transition)
	rides.Post("/:id/cancel", rideHandler.Cancel)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Default port
	}

	// Start server
	log.Fatal(app.Listen(":" + port))
}
