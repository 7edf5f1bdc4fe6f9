package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"purechain-store/config"
	"purechain-store/internal/api"
	"purechain-store/internal/broker"
	"purechain-store/internal/cart"
	"purechain-store/internal/gateway"
	"purechain-store/internal/orderstore"
	"purechain-store/internal/redisclient"
	"purechain-store/internal/sensor"
	"purechain-store/internal/service"
	"purechain-store/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	if cfg.Sheet.APIURL == "" {
		log.Fatal("SHEET_API_URL is required")
	}

	tp, err := util.InitTracer("purechain-storefront", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	gw := gateway.NewClient(cfg.Sheet.APIURL)

	// The row cache is an optimization, not a dependency: without Redis the
	// catalog just reads through to the gateway every time.
	var rowCache service.RowCache
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Redis unavailable, row caching disabled: %v", err)
	} else {
		defer redisClient.Close()
		rowCache = redisClient
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()
	eventPublisher := broker.NewEventPublisher(producer)
	log.Println("Kafka producer initialized")

	engine := sensor.NewEngine(cfg.Sheet.RealDataProductID)
	catalog := service.NewCatalogService(gw, rowCache, time.Duration(cfg.Sheet.RowCacheTTLSec)*time.Second, engine)

	sessionCart := cart.New()
	orders := orderstore.NewStore(cfg.Orders.File)
	checkout := service.NewCheckoutSequencer(gw, sessionCart, orders, eventPublisher)
	tracker := service.NewTracker(gw, orders)

	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()

	poller := service.NewPoller(tracker, time.Duration(cfg.Orders.PollSeconds)*time.Second)
	go func() {
		if err := poller.Start(pollerCtx); err != nil && err != context.Canceled {
			log.Printf("Order status poller error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalog, sessionCart, checkout, tracker, gw)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	pollerCancel()

	log.Println("Server exited")
}
