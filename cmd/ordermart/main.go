package main

import (
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/drycleanhub/ordermart/internal"
)

func main() {
	//decimals at json as string
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true
	rand.Seed(time.Now().UnixNano())

	cfg := NewConfig()
	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger := z.Sugar()

	repository, err := NewRepository(cfg.DatabaseURI, sugaredLogger)
	if err != nil {
		sugaredLogger.Fatal(err)
	}

	pricing := NewPricingService(repository, nil, sugaredLogger)
	service := NewService(repository, pricing, cfg.JWTSecret, sugaredLogger)
	handlers := NewHandlers(service, pricing, cfg.JWTSecret, sugaredLogger)

	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")

	op := api.Group("/operator")
	op.Post("/login", handlers.Login)
	op.Post("/register", handlers.Register)

	orders := api.Group("/orders")
	orders.Post("/", handlers.CreateOrder)
	orders.Get("/", handlers.GetOrders)
	orders.Get("/receipt/:number", handlers.GetOrderByReceipt)
	orders.Patch("/:id/status", handlers.UpdateOrderStatus)
	orders.Post("/:id/cancel", handlers.CancelOrder)
	orders.Post("/:id/payments", handlers.AddPayment)

	api.Get("/services", handlers.GetServices)
	api.Patch("/items/:id/status", handlers.UpdateItemStatus)
	api.Post("/pricing/calculate", handlers.CalculatePrice)

	go sugaredLogger.Fatal(app.Listen(cfg.RunAddress))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("Shutting down service...")
}
