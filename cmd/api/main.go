package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ayuu1305/squad-quest-sub002/internal/config"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/evidence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/geofence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/hub"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/profile"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/quest"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/rank"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/verification"
	"github.com/Ayuu1305/squad-quest-sub002/internal/firebase"
	"github.com/Ayuu1305/squad-quest-sub002/internal/handlers"
	apihttp "github.com/Ayuu1305/squad-quest-sub002/internal/http"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalf("firebase init failed: %v", err)
	}
	defer clients.Close()

	// Repositories
	hubRepo := hub.NewRepo(clients.Firestore)
	questRepo := quest.NewRepo(clients.Firestore)
	rankRepo := rank.NewRepo(clients.Firestore)
	verificationRepo := verification.NewRepo(clients.Firestore, questRepo)

	// Services
	questSvc := quest.NewService(questRepo, hubRepo)
	profileSvc := profile.NewService(clients.Firestore)
	rankSvc := rank.NewService(rankRepo)

	evidenceStore := evidence.NewStore(clients.Storage, cfg.StorageBucket)
	radius := geofence.RadiusFor(cfg)
	verificationSvc := verification.NewService(questSvc, verificationRepo, evidenceStore, radius)
	log.Printf("geofence radius: %.0fm (%s)", radius, cfg.AppEnv)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go verificationSvc.SweepLoop(sweepCtx, 5*time.Minute)

	photos := handlers.NewPhotos(cfg, clients)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:             cfg,
		AuthClient:      clients.Auth,
		QuestSvc:        questSvc,
		HubRepo:         hubRepo,
		VerificationSvc: verificationSvc,
		RankSvc:         rankSvc,
		ProfileSvc:      profileSvc,
		Photos:          photos,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Printf("API listening on :%s (project=%s)", cfg.Port, cfg.ProjectID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("shutting down...")
	_ = srv.Shutdown(ctxShutdown)
}
