package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/roomstyler/backend/config"
	httpDelivery "github.com/roomstyler/backend/internal/delivery/http"
	"github.com/roomstyler/backend/internal/infrastructure/export"
	"github.com/roomstyler/backend/internal/infrastructure/gemini"
	"github.com/roomstyler/backend/internal/infrastructure/imagehost"
	"github.com/roomstyler/backend/internal/infrastructure/ratelimit"
	"github.com/roomstyler/backend/internal/infrastructure/serpapi"
	"github.com/roomstyler/backend/internal/infrastructure/sqlite"
	"github.com/roomstyler/backend/internal/infrastructure/vision"
	"github.com/roomstyler/backend/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "RoomStyler backend",
		Long: `RoomStyler backend redesigns room photos with a generative image model,
finds purchasable products for the furniture in the result and keeps a gallery
of saved designs.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Run one shopping search and print the normalised products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return search(cmd.Context(), strings.Join(args, " "))
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("RoomStyler backend v%s\n", version)
		},
	}

	rootCmd.AddCommand(serveCmd, searchCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and sets up logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logx.MustSetup(logx.LogConf{
		ServiceName: cfg.Log.ServiceName,
		Mode:        cfg.Log.Mode,
		Encoding:    cfg.Log.Encoding,
		Level:       cfg.Log.Level,
	})

	return cfg, nil
}

func newSearchClient(cfg *config.Config) *serpapi.Client {
	return serpapi.NewClient(serpapi.Options{
		APIKey:            cfg.SerpAPI.APIKey,
		BaseURL:           cfg.SerpAPI.BaseURL,
		Engine:            cfg.SerpAPI.Engine,
		Language:          cfg.SerpAPI.Language,
		Country:           cfg.SerpAPI.Country,
		Timeout:           cfg.SerpAPI.Timeout,
		RequestsPerSecond: cfg.SerpAPI.RequestsPerSecond,
		Burst:             cfg.SerpAPI.Burst,
	})
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logx.Infof("Starting RoomStyler Backend v%s", version)
	logx.Infof("Environment: %s", cfg.Server.Environment)
	logx.Infof("Port: %s", cfg.Server.Port)
	for _, warning := range cfg.Warnings() {
		logx.Infof("WARNING: %s", warning)
	}

	// Initialize infrastructure dependencies
	searchClient := newSearchClient(cfg)

	generator, err := gemini.NewImageGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.ImageModel)
	if err != nil {
		return err
	}

	extractor := vision.NewExtractor(vision.Options{
		APIKey:  cfg.Extractor.APIKey,
		BaseURL: cfg.Extractor.BaseURL,
		Model:   cfg.Extractor.Model,
		Timeout: cfg.Extractor.Timeout,
	})

	galleryRepo, err := sqlite.NewGalleryRepository(cfg.Gallery.DBPath)
	if err != nil {
		return err
	}
	defer galleryRepo.Close()
	logx.Infof("Gallery catalogue: %s", cfg.Gallery.DBPath)

	host, err := imagehost.NewCloudinary(
		cfg.Gallery.Cloudinary.CloudName,
		cfg.Gallery.Cloudinary.APIKey,
		cfg.Gallery.Cloudinary.APISecret,
		cfg.Gallery.Folder,
	)
	if err != nil {
		return err
	}

	// Initialize usecase layer
	matcher := usecase.NewMatchingService(searchClient, usecase.MatchConfig{
		Concurrency:   cfg.Matching.Concurrency,
		SearchTimeout: cfg.Matching.SearchTimeout,
	})
	pipeline := usecase.NewPipelineService(matcher)
	design := usecase.NewDesignService(generator, extractor, pipeline, usecase.DesignServiceConfig{
		ResultLimit: cfg.Matching.EnrichedLimit,
	})
	gallery := usecase.NewGalleryService(galleryRepo, host, export.XLSX{})

	logx.Infof("Matching: concurrency=%d, timeout=%s, limits=%d/%d",
		cfg.Matching.Concurrency,
		cfg.Matching.SearchTimeout,
		cfg.Matching.SimpleLimit,
		cfg.Matching.EnrichedLimit)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Searcher: searchClient,
		Matcher:  matcher,
		Pipeline: pipeline,
		Design:   design,
		Gallery:  gallery,
	}, httpDelivery.HandlerConfig{
		SimpleLimit:   cfg.Matching.SimpleLimit,
		EnrichedLimit: cfg.Matching.EnrichedLimit,
		DefaultBudget: cfg.Matching.DefaultBudget,
	})

	limiter := ratelimit.NewIPLimiter(cfg.RateLimit.PerIP)
	defer limiter.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           httpDelivery.SetupRouter(cfg, handler, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Infof("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logx.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func search(ctx context.Context, query string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	results, err := newSearchClient(cfg).Search(ctx, query)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]any{
		"query":   query,
		"results": results,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
