package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet_console/internal/agent"
	"fleet_console/internal/feed"
	"fleet_console/internal/handlers"
	"fleet_console/internal/logger"
	"fleet_console/internal/repository"
	"fleet_console/internal/server"
	"fleet_console/internal/service"

	"github.com/spf13/viper"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// session state containers (live for the whole process, nothing persisted)
	repos := repository.NewRepository(viper.GetInt("runlog.capacity"))

	// analysis backend collaborator
	backend := agent.NewClient(viper.GetString("backend.base_url"), viper.GetDuration("backend.timeout"))

	// wire dependencies
	services := service.NewService(repos, backend, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the live twin feed subscription
	subscriber := feed.NewSubscriber(viper.GetString("feed.url"), repos.Twins, log)
	go subscriber.Run(ctx)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8090"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the feed subscription and other background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
