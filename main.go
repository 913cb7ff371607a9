package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/devsearch-backend/api"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/config"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	env := config.New()
	setupLogging(env)
	log.Info().Msg("Initializing app...")

	ctx := context.Background()
	if err := config.LoadSSM(ctx, env); err != nil {
		log.Fatal().Err(err).Msg("Error loading parameters from SSM")
	}
	settings := config.Load(env)
	if settings.UsesInsecureSecret() {
		log.Warn().Msg("SECRET_KEY is not set; tokens are signed with an insecure default key")
	}

	db, err := database.Open(database.Options{
		URL:         settings.DatabaseURL,
		ReplicaURLs: settings.DatabaseReplicaURLs,
		LogLevel:    settings.DBLogLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if strings.ToLower(config.GetString(env, "GENERATE_MODELS", "")) == "true" {
		log.Info().Msg("Generating models and query helpers...")
		models.GenerateModels(db, config.GetString(env, "GENERATE_OUT_PATH", "./query"))
		return
	}

	// If generating column mismatch report, run report and exit
	if strings.ToLower(config.GetString(env, "GENERATE_COLUMN_REPORT", "")) == "true" {
		log.Info().Msg("Generating column mismatch report...")
		if mismatches := models.GenerateColumnMismatchReport(db); mismatches > 0 {
			os.Exit(1)
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	store, err := media.Open(ctx, media.Options{
		Backend:   settings.MediaBackend,
		Root:      settings.StaticDir,
		Bucket:    settings.MediaBucket,
		PublicURL: settings.MediaPublicURL,
		Region:    settings.AWSRegion,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening media store")
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}
	images := media.NewIngestor(store, log.Logger)

	mailer := services.NewMailer(services.SMTPConfig{
		Host:     settings.SMTPHost,
		Port:     settings.SMTPPort,
		User:     settings.SMTPUser,
		Password: settings.SMTPPassword,
		From:     settings.FromEmail,
	})

	currentDB := database.New(db)
	svc := services.New(currentDB, auth.NewIssuer(settings.SecretKey), images, mailer, settings.BaseURL)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(settings, api.Deps{Database: currentDB, Services: svc, Images: images})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global logger.
func setupLogging(env map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(env, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(env, "LOG_FORMAT", "") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
