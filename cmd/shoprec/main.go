package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/dataset"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/service"
	"github.com/rushteam/shoprec/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to yaml config file")
		dataPath   = flag.String("data", "", "path to csv data file (overrides config)")
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		uid        = flag.Int64("uid", 0, "run one-shot recommendation for this user id and exit")
		printCooc  = flag.Bool("print-cooccurrence", false, "print truncated co-occurrence table")
		maxSeeds   = flag.Int("max-seeds", 10, "seed products to show in co-occurrence print")
		maxSims    = flag.Int("max-sims", 5, "associated products to show per seed")
	)
	flag.Parse()

	uidSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "uid" {
			uidSet = true
		}
	})

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		cfg = loaded
	}
	if *dataPath != "" {
		cfg.Data = *dataPath
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	eng, err := buildEngine(context.Background(), cfg, log)
	if err != nil {
		log.Error().Err(err).Str("data", cfg.Data).Msg("recommendation engine not initialized")
		if uidSet {
			os.Exit(1)
		}
		// 服务模式下带着未就绪状态启动，查询边界统一应答 503
		eng = nil
	}

	if uidSet {
		runOnce(eng, *uid, *printCooc, *maxSeeds, *maxSims, log)
		return
	}

	serve(cfg.Listen, eng, log)
}

func buildEngine(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*engine.Engine, error) {
	rows, err := dataset.Load(cfg.Data)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, engine.WithLogger(log))

	// 缓存是软依赖：连不上只降级为本地重算，不影响启动
	if cfg.Redis != nil {
		if s, err := store.NewRedisStore(*cfg.Redis); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("cache unavailable, computing locally")
		} else {
			defer s.Close()
			opts = append(opts, engine.WithCache(s))
		}
	}

	return engine.New(ctx, rows, opts...)
}

func runOnce(eng *engine.Engine, uid int64, printCooc bool, maxSeeds, maxSims int, log zerolog.Logger) {
	if printCooc {
		dumpCooccurrence(eng, maxSeeds, maxSims)
	}

	rec, err := eng.Recommend(context.Background(), uid)
	if err != nil {
		log.Fatal().Err(err).Int64("uid", uid).Msg("recommend")
	}

	out, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Println(string(out))
}

func dumpCooccurrence(eng *engine.Engine, maxSeeds, maxSims int) {
	table := eng.Cooccurrence()

	seeds := make([]int64, 0, len(table))
	for pid := range table {
		seeds = append(seeds, pid)
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i] < seeds[j] })

	fmt.Println("=== Co-occurrence (truncated) ===")
	shown := seeds
	if len(shown) > maxSeeds {
		shown = shown[:maxSeeds]
	}
	for _, pid := range shown {
		sims := table[pid]
		if len(sims) > maxSims {
			sims = sims[:maxSims]
		}
		fmt.Printf("seed %d: %v\n", pid, sims)
	}
	if len(seeds) > maxSeeds {
		fmt.Printf("... truncated %d more seeds\n", len(seeds)-maxSeeds)
	}
}

func serve(listen string, eng *engine.Engine, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              listen,
		Handler:           service.NewServer(eng, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("listen", listen).Bool("ready", eng != nil).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("http server stopped")
}
