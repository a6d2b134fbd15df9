package main // Entry point package

import (
	"context"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/bookevntz/auditorium-backend/internal/config"
	"github.com/bookevntz/auditorium-backend/internal/database"
	"github.com/bookevntz/auditorium-backend/internal/handler"
	"github.com/bookevntz/auditorium-backend/internal/middleware"
	"github.com/bookevntz/auditorium-backend/internal/queue"
	"github.com/bookevntz/auditorium-backend/internal/repository"
	"github.com/bookevntz/auditorium-backend/internal/router"
	"github.com/bookevntz/auditorium-backend/internal/service"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	rdb := config.NewRedisClient()
	st := openStore(cfg, rdb)

	codes, err := service.LoadTicketCodes(cfg.TicketCodesPath)
	if err != nil {
		log.Printf("ticket code pool unavailable: %v; falling back to random IDs", err)
	}

	users := repository.NewUserRepo(st)
	events := repository.NewEventRepo(st)
	bookings := repository.NewBookingRepo(st, codes)
	attendance := repository.NewAttendanceRepo(st)
	auditoriums := repository.NewAuditoriumRepo(st)
	people := repository.NewPeopleRepo(st)

	publisher := service.NewPublisher(cfg.AMQPURL)
	mailer := &queue.Mailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Sender:   cfg.SMTPSender,
		Password: cfg.SMTPPass,
	}
	go queue.StartBookingConsumer(context.Background(), cfg.AMQPURL, mailer, cfg.LogDir)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: strings.Split(cfg.CORSOrigins, ","),
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Users:       handler.NewUserHandler(users),
		Events:      handler.NewEventHandler(events, people, auditoriums),
		Bookings:    handler.NewBookingHandler(bookings, events, users, publisher),
		Attendance:  handler.NewAttendanceHandler(attendance),
		Auditoriums: handler.NewAuditoriumHandler(auditoriums, events),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore builds the configured row store backend.  The memory store
// needs nothing; redis reuses the shared client; mysql opens a pooled
// connection and creates the sheet relations if absent.
func openStore(cfg config.Config, rdb *redis.Client) store.RowStore {
	switch cfg.StoreDriver {
	case config.DriverRedis:
		if rdb == nil {
			log.Fatal("STORE_DRIVER=redis but redis is unreachable")
		}
		return store.NewRedisStore(rdb, "sheet")
	case config.DriverMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open mysql: %v", err)
		}
		if err := database.Bootstrap(context.Background(), db); err != nil {
			log.Fatalf("bootstrap mysql: %v", err)
		}
		return store.NewSQLStore(db)
	default:
		return store.NewMemoryStore()
	}
}
