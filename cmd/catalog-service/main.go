package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fiyatly/price-catalog/internal/config"
	httpAPI "github.com/fiyatly/price-catalog/internal/http"
	"github.com/fiyatly/price-catalog/internal/http/controller"
	"github.com/fiyatly/price-catalog/internal/logger"
	"github.com/fiyatly/price-catalog/internal/metrics"
	reposql "github.com/fiyatly/price-catalog/internal/repository/sql"
	"github.com/fiyatly/price-catalog/internal/service"
	sqspkg "github.com/fiyatly/price-catalog/internal/sqs"
	"github.com/gin-gonic/gin"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := reposql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)

	// Create repositories
	productRepository := reposql.NewProductRepository(db)
	listingRepository := reposql.NewListingRepository(db)
	eventRepository := reposql.NewEventRepository(db)
	transactionalRepository := reposql.NewTransactionalRepository(db)

	// Initialize the SQS publisher for the catalog event feed
	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
	handleErr("creating SQS client", err)
	sqsPublisher := sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)

	// Create services
	productService := service.NewProductService(productRepository)
	listingService := service.NewListingService(productRepository, listingRepository, transactionalRepository)

	// Start outbox worker to publish pending catalog events every 2 seconds
	outboxWorker := service.NewOutboxWorker(eventRepository, sqsPublisher, 2*time.Second)
	go outboxWorker.Start(ctx)

	// Start HTTP server
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	ctr := controller.New(db)
	productCtr := controller.NewProductController(productService)
	listingCtr := controller.NewListingController(listingService, productService)
	httpServer := gin.New()
	httpServer = httpAPI.InitRouter(conf, httpServer, ctr, productCtr, listingCtr)

	go func() {
		err = httpServer.Run(":" + conf.HTTPServer.Port)
		if err != nil {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down gracefully...")
	outboxWorker.Stop()
	cancel()
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
