package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diner-pos-server/config"
	"diner-pos-server/database"
	"diner-pos-server/handlers"
	"diner-pos-server/services"
	"diner-pos-server/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.InitializeTables(ctx); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}

	st := store.New(db)

	var events services.Publisher = services.LogPublisher{}
	if cfg.RabbitMQURL != "" {
		rabbit, err := services.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, logging events instead: %v", err)
		} else {
			events = rabbit
		}
	}
	defer events.Close()

	var uploader services.ReceiptUploader
	if cfg.CloudinaryURL != "" {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryURL)
		if err != nil {
			log.Printf("Warning: Cloudinary disabled: %v", err)
		} else {
			uploader = cld
		}
	}

	alerts := services.NewNotificationService(cfg.ExpoPushURL, st)
	sales := services.NewSalesService(st, cfg.Location)

	h := handlers.New(handlers.Deps{
		Store:     st,
		Orders:    services.NewOrderService(st, events, cfg.TaxRate, cfg.LoyaltyPointsPerUnit),
		Payments:  services.NewPaymentService(st, events),
		Receipts:  services.NewReceiptService(st, uploader),
		Drawers:   services.NewDrawerService(st, events, alerts),
		Shifts:    services.NewShiftService(st),
		Inventory: services.NewInventoryService(st, events, alerts),
		Sales:     sales,
		JWTSecret: cfg.JWTSecret,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(handlers.RequestID())
	h.RegisterRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return services.NewRollupScheduler(sales, cfg.SalesRollupInterval).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
		return
	}
	log.Println("Server stopped")
}
