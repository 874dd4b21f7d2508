// Profiling:
// go build ./profile/query
// ./query --entities 100000 --iterations 1000 --worlds 4 --mode cpu
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/TheBitDrifter/shelf"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

type health struct {
	Current, Max int
}

type options struct {
	configPath string
	entities   int
	iterations int
	worlds     int
	mode       string
	outDir     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Profile shelf queries over independent worlds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts)
		},
		SilenceUsage: true,
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML world config")
	flags.IntVar(&opts.entities, "entities", 100000, "entities per world")
	flags.IntVar(&opts.iterations, "iterations", 1000, "query passes per world")
	flags.IntVar(&opts.worlds, "worlds", 1, "independent worlds, each driven by its own goroutine")
	flags.StringVar(&opts.mode, "mode", "cpu", "profile mode: cpu, mem or none")
	flags.StringVar(&opts.outDir, "out", ".", "directory for profile output")
	return cmd
}

func loadConfig(path string) (shelf.Config, error) {
	if path == "" {
		return shelf.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return shelf.Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return shelf.LoadConfig(f)
}

func run(opts options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger, err := shelf.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	switch opts.mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.outDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(opts.outDir), profile.NoShutdownHook).Stop()
	case "none":
	default:
		return fmt.Errorf("unknown profile mode %q", opts.mode)
	}

	var g errgroup.Group
	for i := 0; i < opts.worlds; i++ {
		g.Go(func() error {
			world := shelf.Factory.NewWorld(
				shelf.WithConfig(cfg),
				shelf.WithEntityCapacity(max(cfg.EntityCapacity, opts.entities)),
				shelf.WithLogger(logger),
			)
			return simulate(world, opts, logger.With(zap.Int("worker", i)))
		})
	}
	return g.Wait()
}

func simulate(world *shelf.World, opts options, logger *zap.Logger) error {
	start := time.Now()
	for i := 0; i < opts.entities; i++ {
		e := world.NewEntity()
		shelf.AddComponent(world, e, position{})
		if i%2 == 0 {
			shelf.AddComponent(world, e, velocity{X: 1, Y: 0.5})
		}
		if i%3 == 0 {
			shelf.AddComponent(world, e, health{Current: 100, Max: 100})
		}
	}
	populated := time.Since(start)

	start = time.Now()
	moved := 0
	for i := 0; i < opts.iterations; i++ {
		shelf.Query2(world, shelf.Read[velocity](), shelf.Write[position](), func(vel *velocity, pos *position) {
			pos.X += vel.X
			pos.Y += vel.Y
			moved++
		})
		shelf.Query2WithID(world, shelf.Read[position](), shelf.Write[health](), func(e shelf.Entity, pos *position, h *health) {
			if pos.X > float64(opts.iterations)/2 && h.Current > 0 {
				h.Current--
			}
			if h.Current == 0 {
				shelf.EnqueueRemoveComponent[velocity](world, e)
			}
		})
	}

	logger.Info("simulation finished",
		zap.Int("entities", world.EntityCount()),
		zap.Stringers("components", iter_util.Collect(world.ComponentTypes())),
		zap.Duration("populate", populated),
		zap.Duration("queries", time.Since(start)),
		zap.Int("visits", moved),
	)
	return nil
}
