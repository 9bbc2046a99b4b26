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

	"github.com/joho/godotenv"

	"github.com/stanfish/kids-todo/internal/api"
	"github.com/stanfish/kids-todo/internal/config"
	"github.com/stanfish/kids-todo/internal/service"
	"github.com/stanfish/kids-todo/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Best effort: a missing .env just means plain environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	kidRepo := store.NewKidRepository(db)
	taskRepo := store.NewTaskRepository(db)
	achievementRepo := store.NewAchievementRepository(db)

	kidSvc := service.NewKidService(kidRepo, taskRepo, achievementRepo)
	taskSvc := service.NewTaskService(taskRepo)
	recurringSvc := service.NewRecurringService(taskRepo)
	achievementSvc := service.NewAchievementService(achievementRepo)
	summarySvc := service.NewSummaryService(taskRepo)

	handler := api.NewHandler(kidSvc, taskSvc, recurringSvc, achievementSvc, summarySvc)
	router := api.NewRouter(handler)

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.SweepTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.SweepTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := sweepAll(jobCtx, kidSvc, recurringSvc); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("sweep: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule sweep: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Kids todo server listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}

// sweepAll runs the retention sweep for every kid.
func sweepAll(ctx context.Context, kids *service.KidService, recurring *service.RecurringService) error {
	all, err := kids.List(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for i := range all {
		if err := recurring.Sweep(ctx, all[i].ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
