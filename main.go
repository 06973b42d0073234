package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/config"
	"github.com/joy095/salon/config/db"
	redisclient "github.com/joy095/salon/config/redis"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/middlewares/cors"
	"github.com/joy095/salon/models/cart_models"
	"github.com/joy095/salon/models/payment_ledger_models"
	"github.com/joy095/salon/routes"
	"github.com/joy095/salon/session"
	"github.com/joy095/salon/utils/mail"
)

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	db.Connect()
	defer db.Close()

	rdb, err := redisclient.GetRedisClient(context.Background())
	if err != nil {
		logger.ErrorLogger.Errorf("Redis is required for sessions and carts: %v", err)
		os.Exit(1)
	}
	defer redisclient.CloseRedis()

	backend := clients.NewBackendClient()
	sessions := session.NewRedisStore(rdb)
	carts := cart_models.NewRedisStore(rdb)
	ledger := payment_ledger_models.NewPgLedger(db.DB)
	mailer := mail.NewMailerFromEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.CorsMiddleware())

	routes.RegisterUserRoutes(r, backend, sessions)
	routes.RegisterShopRoutes(r, backend, sessions)
	routes.RegisterCartRoutes(r, backend, sessions, carts)
	routes.RegisterBookingRoutes(r, backend, sessions, mailer)
	routes.RegisterPaymentRoutes(r, backend, sessions, ledger, mailer)
	routes.RegisterDashboardRoutes(r, backend, sessions)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok from salon orchestrator"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		fmt.Printf("Salon orchestrator listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server failed to listen: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Server forced to shutdown: %v\n", err)
	}

	fmt.Println("Server exited gracefully.")
}
