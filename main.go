package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/kenylson23/lastortillas-backend/cart"
	"github.com/kenylson23/lastortillas-backend/catalog"
	"github.com/kenylson23/lastortillas-backend/config"
	"github.com/kenylson23/lastortillas-backend/database"
	"github.com/kenylson23/lastortillas-backend/middlewares"
	"github.com/kenylson23/lastortillas-backend/router"
	"github.com/kenylson23/lastortillas-backend/services"
	"github.com/kenylson23/lastortillas-backend/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.Seed(db, cfg.Locations); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed database: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	// Session store: Redis when configured, in-memory otherwise.
	var store cart.Store
	if rdb := config.NewRedis(cfg); rdb != nil {
		store = cart.NewRedisStore(rdb)
		utils.InfoLogger.Printf("Using Redis session store at %s", cfg.RedisAddr)
	} else {
		store = cart.NewMemoryStore()
		utils.InfoLogger.Println("REDIS_ADDR not set, using in-memory session store")
	}

	reader := catalog.NewGormReader(db)
	carts := cart.NewService(store, reader)
	tables := services.NewTableService(db)
	orders := services.NewOrderService(db, reader, tables, cfg)

	// Polling fallback of the sync layer; push broadcasts happen inline in
	// the services.
	monitor := services.NewChangeMonitor(db, cfg.MonitorInterval)
	monitor.Start()
	defer monitor.Stop()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(router.Deps{
		DB:      db,
		Cfg:     cfg,
		Catalog: reader,
		Carts:   carts,
		Tables:  tables,
		Orders:  orders,
	})
	r.Use(rateLimiter.RateLimit())

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
