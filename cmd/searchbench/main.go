package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	gm "chess-core/chessmg"
	"chess-core/engine"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "engine config YAML (empty = defaults)")
	depthFlag := flag.Int("depth", 8, "search depth in plies (0 = config max_depth)")
	moveTime := flag.Duration("movetime", 0, "time budget per search, e.g. 2s (0 = none)")
	threads := flag.Int("threads", 0, "override the configured thread count")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", gm.FENStartPos, "FEN to search")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	flag.Parse()

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = engine.LoadConfigFile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if *threads > 0 {
		cfg.Threads = *threads
	}
	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	eng, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("engine setup")
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	limits := engine.Limits{Depth: *depthFlag, MoveTime: *moveTime}
	logger.Info().
		Str("fen", *fenFlag).
		Int("depth", limits.Depth).
		Dur("movetime", limits.MoveTime).
		Int("threads", cfg.Threads).
		Int("repeat", *repeatFlag).
		Msg("searchbench")

	startAll := time.Now()
	var totalNodes uint64
	for i := 0; i < *repeatFlag; i++ {
		// Fresh position and tables for each run
		board, err := gm.ParseFEN(*fenFlag)
		if err != nil {
			logger.Fatal().Err(err).Msg("bad position")
		}
		eng.NewGame()

		res, err := eng.Search(ctx, board, limits)
		if err != nil {
			logger.Fatal().Err(err).Msg("search failed")
		}
		totalNodes += res.Nodes
		fmt.Printf("iteration %d: bestmove %v score %s depth %d seldepth %d nodes %d nps %d tthits %d lmr %d time %v pv %s\n",
			i+1, res.BestMove, res.ScoreString(), res.Depth, res.SelDepth, res.Nodes, res.NPS(),
			res.TTHits, res.LMRSavings, res.Elapsed, res.PVString())
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v nodes %d nps %.0f\n", totalElapsed, totalNodes, float64(totalNodes)/totalElapsed.Seconds())
}
