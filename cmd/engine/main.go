package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	_ "github.com/lintang-b-s/roadpath/docs"
	"github.com/lintang-b-s/roadpath/pkg/concurrent"
	"github.com/lintang-b-s/roadpath/pkg/config"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadpath/pkg/kv"
	"github.com/lintang-b-s/roadpath/pkg/server/rest"
	"github.com/lintang-b-s/roadpath/pkg/server/rest/service"
	"github.com/lintang-b-s/roadpath/pkg/snap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	configFile = flag.String("config", "", "path file konfigurasi toml")
	listenAddr = flag.String("listenaddr", "", "server listen address (default server.addr di config)")
)

//	@title			roadpath API
//	@version		1.0
//	@description	road network shortest path engine in go. bounded bellman-ford (dynamic programming) dengan path reconstruction.

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *listenAddr != "" {
		cfg.Server.Addr = *listenAddr
	}

	g, err := datastructure.LoadRoadGraph(cfg.Graph.SnapshotPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("road graph loaded: %d nodes, %d edges", g.NumNodes(), g.NumEdges())

	pool, err := concurrent.NewWorkerPool(cfg.Graph.Workers)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Release()

	routingAlgorithm, err := routingalgorithm.NewRouteAlgorithm(g, g.Index(),
		routingalgorithm.WithWorkerPool(pool),
		routingalgorithm.WithParallelThreshold(cfg.Graph.ParallelThreshold))
	if err != nil {
		log.Fatal(err)
	}

	var kvDB service.KVDB
	svcOpts := []service.Option{}
	if cfg.KV.Dir != "" {
		db, err := badger.Open(badger.DefaultOptions(cfg.KV.Dir))
		if err != nil {
			log.Fatal(err)
		}
		badgerKV := kv.NewKVDB(db, kv.WithRouteTTL(cfg.KV.RouteCacheTTL))
		defer badgerKV.Close()
		kvDB = badgerKV
	} else {
		log.Printf("kv.dir is empty, running without route cache")
		svcOpts = append(svcOpts, service.WithSnapper(snap.NewNodeSnapper(g.Coordinates())))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost%s/swagger/doc.json", cfg.Server.Addr)), //The url pointing to API definition
	))

	navigatorSvc := service.NewNavigationService(g, routingAlgorithm, kvDB, svcOpts...)
	rest.NavigatorRouter(r, navigatorSvc, m)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("\nserver started at %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
