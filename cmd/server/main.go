package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"food-delivery-api/internal/config"
	"food-delivery-api/internal/db"
	"food-delivery-api/internal/events"
	"food-delivery-api/internal/httpapi"
	"food-delivery-api/internal/logger"
	"food-delivery-api/internal/menu"
	"food-delivery-api/internal/metrics"
	"food-delivery-api/internal/order"
	"food-delivery-api/internal/restaurant"
	"food-delivery-api/internal/user"

	"github.com/redis/go-redis/v9"
)

const (
	menuCacheTTL = 5 * time.Minute
	ordersTopic  = "orders"
)

// Indirections so run() is testable without a database or a listener.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
	}

	publisher := events.NewPublisher(cfg.KafkaBroker, ordersTopic)
	defer publisher.Close()

	router := newServer(cfg, database, redisClient, publisher)

	log.Printf("food delivery API listening on :%s", cfg.AppPort)
	return startServerFunc(":"+cfg.AppPort, router)
}

func newServer(
	cfg *config.Config,
	database *sql.DB,
	redisClient *redis.Client,
	publisher *events.Publisher,
) http.Handler {
	registry := metrics.NewRegistry()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	restaurantRepo := restaurant.NewRepository(database)
	restaurantSvc := restaurant.NewService(restaurantRepo)

	var menuCache *menu.Cache
	if redisClient != nil {
		menuCache = menu.NewCache(redisClient, menuCacheTTL)
	}
	menuRepo := menu.NewRepository(database)
	menuSvc := menu.NewService(menuRepo, menuCache, cfg.TaxRate)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, restaurantRepo, menuRepo, publisher, registry)

	handler := httpapi.NewHandler(userSvc, restaurantSvc, menuSvc, orderSvc, registry)
	return httpapi.NewRouter(handler)
}
