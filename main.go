package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"tareas/cache"
	"tareas/config"
	"tareas/controllers"
	"tareas/db"
	"tareas/router"
	"tareas/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	conf := config.Get(getenv("CONFIG", "config.json"))

	level := slog.LevelInfo
	if conf.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	gdb, err := db.Connect(conf)
	if err != nil {
		log.Error("no se pudo conectar con la base", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer gdb.Close()

	ctx := context.Background()

	var denylist *cache.Denylist
	if conf.RedisAddr != "" {
		rdb, err := cache.Open(ctx, conf.RedisAddr)
		if err != nil {
			log.Warn("redis no disponible, denylist deshabilitada", slog.String("error", err.Error()))
		} else {
			defer rdb.Close()
			denylist = cache.NewDenylist(rdb)
		}
	}

	tokens := controllers.NewTokenManager(conf)

	if !conf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	router.Initialize(engine, router.Deps{
		DB:       gdb,
		Tokens:   tokens,
		Denylist: denylist,
		Cfg:      conf,
		Log:      log,
	})

	if conf.DispatchEnabled {
		go workers.StartTaskDispatcher(ctx, gdb, log, conf.DispatchInterval())
	}

	srv := &http.Server{
		Addr:              ":" + conf.ApiPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("api escuchando", slog.String("port", conf.ApiPort))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
