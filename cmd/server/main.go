package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/shashi-bhusan/fitpreneurs/internal/config"
	"github.com/shashi-bhusan/fitpreneurs/internal/db"
	"github.com/shashi-bhusan/fitpreneurs/internal/handler"
	"github.com/shashi-bhusan/fitpreneurs/internal/ports"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository/memory"
	"github.com/shashi-bhusan/fitpreneurs/internal/server"
	"github.com/shashi-bhusan/fitpreneurs/internal/service"
)

type stores struct {
	customers     service.CustomerStore
	employees     service.EmployeeStore
	users         service.UserStore
	notifications service.NotificationStore
	health        ports.HealthChecker
	close         func()
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer st.close()

	// Firebase Auth (optional)
	var firebaseAuth *auth.Client
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		firebaseAuth = client
	}

	// services
	authSvc := service.AuthService{Config: cfg, Users: st.users, Logger: logger, FirebaseAuth: firebaseAuth}
	if err := authSvc.BootstrapAdmin(ctx); err != nil {
		logger.Error("failed to bootstrap admin", "err", err)
		os.Exit(1)
	}
	membershipSvc := service.MembershipService{
		Customers:    st.customers,
		Employees:    st.employees,
		Logger:       logger,
		Location:     cfg.Location,
		MinStartDate: cfg.MinStartDate,
		Currency:     cfg.CurrencyCode,
	}
	employeeSvc := service.EmployeeService{Employees: st.employees, Customers: st.customers, Logger: logger}
	reminderSvc := service.ReminderService{
		Membership:    membershipSvc,
		Notifications: st.notifications,
		Logger:        logger,
		WindowDays:    cfg.ReminderWindowDays,
	}
	if cfg.SMSEnabled() {
		reminderSvc.SMS = service.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}
	if cfg.ReminderCron != "" {
		scheduler, err := reminderSvc.Start(ctx, cfg.ReminderCron)
		if err != nil {
			logger.Error("failed to start reminder scheduler", "err", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	// handlers
	router := server.NewRouter(cfg, logger, authSvc, server.Handlers{
		Health:        handler.HealthHandler{DB: st.health},
		Auth:          handler.AuthHandler{Service: authSvc},
		Customers:     handler.CustomerHandler{Service: membershipSvc, AllowBulkDelete: cfg.IsDevelopment()},
		Revenue:       handler.RevenueHandler{Service: membershipSvc},
		Employees:     handler.EmployeeHandler{Service: employeeSvc, Location: cfg.Location},
		Exports:       handler.ExportHandler{Membership: membershipSvc, Employees: employeeSvc},
		Notifications: handler.NotificationHandler{Service: reminderSvc},
	})

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("using in-memory store; data is lost on restart")
		m := memory.New()
		return stores{
			customers:     m.Customers(),
			employees:     m.Employees(),
			users:         m.Users(),
			notifications: m.Notifications(),
			health:        m,
			close:         func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			return stores{}, err
		}
		logger.Info("database migrations applied")
	}
	pg, err := db.New(ctx, cfg)
	if err != nil {
		return stores{}, err
	}
	return stores{
		customers:     repository.CustomerRepository{DB: pg},
		employees:     repository.EmployeeRepository{DB: pg},
		users:         repository.UserRepository{DB: pg},
		notifications: repository.NotificationRepository{DB: pg},
		health:        pg,
		close:         pg.Close,
	}, nil
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Inline JSON or base64-encoded JSON is accepted in place of a path.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
