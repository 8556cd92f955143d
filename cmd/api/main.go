package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/careflow/booking-api/internal/config"
	"github.com/careflow/booking-api/internal/handlers"
	"github.com/careflow/booking-api/internal/logger"
	"github.com/careflow/booking-api/internal/middleware"
	"github.com/careflow/booking-api/internal/services"
	"github.com/careflow/booking-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	gin.SetMode(cfg.GinMode)

	// --- Database connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zapLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, nil); err != nil {
		zapLogger.Fatal("MongoDB is unreachable", zap.Error(err))
	}
	db := client.Database(cfg.MongoDatabase)
	zapLogger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	st := store.New(db)
	if err := st.EnsureIndexes(ctx); err != nil {
		zapLogger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	// --- Services ---
	notifier := services.NewNotificationService(cfg, zapLogger)
	waitlistSvc := services.NewWaitlistService(st, st, notifier, zapLogger)

	h := handlers.NewHandler(handlers.Deps{
		Appointments: st,
		Users:        st,
		Waitlist:     st,
		Notifier:     notifier,
		WaitlistSvc:  waitlistSvc,
		Logger:       zapLogger,
		JWTSecret:    cfg.JWTSecret,
		StoreTimeout: cfg.StoreTimeout,
	})

	// --- Router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
	}

	api := r.Group("/")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		api.GET("/appointments", h.SearchAppointments)
		api.POST("/appointments", h.CreateAppointment)
		api.PUT("/appointments/:id", middleware.RequireRoles("provider", "staff"), h.UpdateAppointment)
		api.DELETE("/appointments/:id", middleware.RequireRoles("provider", "staff"), h.DeleteAppointment)

		api.POST("/waitlist", h.JoinWaitlist)
		api.GET("/users/:id", h.GetUser)
	}

	zapLogger.Info("starting server", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}
