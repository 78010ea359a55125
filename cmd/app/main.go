package main

import (
	"fmt"
	nethttp "net/http"
	"os"

	"fieldservice/cmd"
	httpserver "fieldservice/internal/adapters/in/http"
	"fieldservice/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	configs := getConfigs(logger)

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err = postgres.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	root := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Fatal("Failed to start jobs", zap.Error(err))
	}
	defer jobManager.StopAll()

	startWebServer(&root, configs.HTTPPort, logger)
}

func getConfigs(logger *zap.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn("No .env file found, relying on environment", zap.Error(err))
	}

	return cmd.Config{
		HTTPPort:                os.Getenv("HTTP_PORT"),
		DBHost:                  os.Getenv("DB_HOST"),
		DBPort:                  os.Getenv("DB_PORT"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSslMode:               os.Getenv("DB_SSLMODE"),
		StaleSessionMaxAgeHours: os.Getenv("STALE_SESSION_MAX_AGE_HOURS"),
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)
	return gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
}

func startWebServer(root *cmd.CompositionRoot, port string, logger *zap.Logger) {
	server := httpserver.NewServer(
		root.CreateCreateOrderCommandHandler(),
		root.CreateUpdateStatusCommandHandler(),
		root.CreateUpdateTimestampsCommandHandler(),
		root.CreateScheduleOrderCommandHandler(),
		root.CreateStartSessionCommandHandler(),
		root.CreateStopSessionCommandHandler(),
		root.CreateGetOrderQueryHandler(),
		root.CreateGetOpenSessionsQueryHandler(),
		root.CreateGetAuditTrailQueryHandler(),
	)

	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})
	server.RegisterRoutes(e)

	logger.Info("Starting HTTP server", zap.String("port", port))
	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
