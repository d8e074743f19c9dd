// Package main provides the diceydrinks binary: roll a drink, simulate the
// balance of a pool, or browse the cookbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceydrinks/internal/config"
	"github.com/cory-johannsen/diceydrinks/internal/cookbook"
	"github.com/cory-johannsen/diceydrinks/internal/game/builder"
	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
	"github.com/cory-johannsen/diceydrinks/internal/game/roller"
	"github.com/cory-johannsen/diceydrinks/internal/observability"
	"github.com/cory-johannsen/diceydrinks/internal/storage/postgres"
	"github.com/cory-johannsen/diceydrinks/internal/tui"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and DICEY_ env only")
	inventoryPath := flag.String("inventory", "", "inventory snapshot YAML; overrides inventory.path")
	dealer := flag.Bool("dealer", true, "prompt on dealer's choice; false lets the dice decide every joker")
	drilldown := flag.Bool("drilldown", false, "pick spirit families first, then a brand per family (ORs with roll.family_drilldown)")
	simulate := flag.Int("simulate", 0, "run N automatic batch rolls of -category instead of building a drink")
	category := flag.String("category", "mixers", "pool to simulate: spirits, mixers or additives")
	count := flag.Int("count", 1, "items per simulated batch")
	lock := flag.String("lock", "", "comma-separated ids already locked for the simulation")
	save := flag.Bool("save", false, "save the built drink to the cookbook")
	name := flag.String("name", "", "cookbook name for -save (default \""+cookbook.DefaultName+"\")")
	rating := flag.Int("rating", 0, "cookbook rating 0-5 for -save")
	notes := flag.String("notes", "", "cookbook notes for -save")
	list := flag.Bool("list", false, "list the cookbook")
	search := flag.String("search", "", "filter -list by name, notes, method, style, ingredient or family")
	sortBy := flag.String("sort", "date", "sort -list by date, name or rating")
	remix := flag.String("remix", "", "rebuild a cookbook entry with the same shape, by id")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *inventoryPath != "" {
		cfg.Inventory.Path = *inventoryPath
	}
	cfg.Roll.FamilyDrilldown = cfg.Roll.FamilyDrilldown || *drilldown

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	store, closeStore, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("opening cookbook", zap.Error(err))
	}
	defer closeStore()

	if *list {
		entries, err := store.List(ctx)
		if err != nil {
			logger.Fatal("listing cookbook", zap.Error(err))
		}
		for _, e := range cookbook.Filter(entries, *search, cookbook.ParseSortBy(*sortBy)) {
			fmt.Println(e.ID)
			fmt.Println(tui.RenderEntry(e))
		}
		return
	}

	snap, err := inventory.Load(cfg.Inventory.Path)
	if err != nil {
		logger.Fatal("loading inventory", zap.Error(err))
	}
	for _, problem := range snap.Validate() {
		logger.Warn("inventory problem", zap.String("problem", problem))
	}
	logger.Info("inventory loaded",
		zap.String("path", cfg.Inventory.Path),
		zap.Int("spirits", len(snap.Inventory.Spirits)),
		zap.Int("mixers", len(snap.Inventory.Mixers)),
		zap.Int("additives", len(snap.Inventory.Additives)),
		zap.Duration("elapsed", time.Since(start)),
	)

	src := dice.NewCryptoSource()
	rl, err := roller.New(src, cfg.Roll.JokerFaces, logger)
	if err != nil {
		logger.Fatal("creating roller", zap.Error(err))
	}

	if *simulate > 0 {
		runSimulation(ctx, rl, snap, *simulate, *category, *count, *lock, logger)
		return
	}

	countDice, err := recipe.ParseCountDice(cfg.Roll.SpiritsDice, cfg.Roll.MixersDice, cfg.Roll.AdditivesDice)
	if err != nil {
		logger.Fatal("parsing count dice", zap.Error(err))
	}
	var chooser builder.Chooser
	if *dealer {
		chooser = tui.NewChooser(os.Stdin, os.Stdout, logger)
	}
	b, err := builder.New(snap, rl, builder.Options{
		CountDice:       countDice,
		FamilyDrilldown: cfg.Roll.FamilyDrilldown,
		MaxReverts:      cfg.Roll.MaxReverts,
	}, chooser, logger)
	if err != nil {
		logger.Fatal("creating builder", zap.Error(err))
	}

	title := cookbook.DefaultName
	if *name != "" {
		title = *name
	}
	var rep builder.Report
	if *remix != "" {
		id, err := uuid.Parse(*remix)
		if err != nil {
			logger.Fatal("parsing remix id", zap.String("id", *remix), zap.Error(err))
		}
		orig, err := store.Get(ctx, id)
		if err != nil {
			logger.Fatal("loading remix source", zap.Error(err))
		}
		var fresh recipe.State
		fresh, title = cookbook.Remix(orig)
		rep, err = b.Fill(ctx, fresh)
		if err != nil {
			logger.Fatal("remixing drink", zap.Error(err))
		}
	} else {
		rep, err = b.Build(ctx)
		if err != nil {
			logger.Fatal("building drink", zap.Error(err))
		}
	}
	if src.UsedFallback() {
		logger.Warn("system entropy unavailable, dice used the math/rand fallback")
	}

	fmt.Println(tui.RenderRecipe(title, rep.State))

	if *save {
		e, err := cookbook.NewEntry(title, *rating, *notes, rep.State, time.Now())
		if err != nil {
			logger.Fatal("preparing cookbook entry", zap.Error(err))
		}
		if _, err := store.Save(ctx, e); err != nil {
			logger.Fatal("saving cookbook entry", zap.Error(err))
		}
		logger.Info("saved to cookbook", zap.String("id", e.ID.String()), zap.String("name", e.Name))
		fmt.Println("saved as", e.ID)
	}
}

// openStore returns the PostgreSQL cookbook when enabled, else an in-memory
// one.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (cookbook.Store, func(), error) {
	if !cfg.Enabled {
		logger.Info("database disabled, cookbook kept in memory for this run")
		return cookbook.NewMemoryStore(), func() {}, nil
	}

	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Health(ctx, 5*time.Second); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("database health check: %w", err)
	}
	repo := postgres.NewCookbookRepository(pool.DB())
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("database connected",
		zap.String("host", cfg.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	return repo, pool.Close, nil
}

func runSimulation(ctx context.Context, rl *roller.Roller, snap *inventory.Snapshot, trials int, category string, count int, lock string, logger *zap.Logger) {
	c := inventory.Category(category)
	pool := snap.Pool(c)
	if pool == nil {
		logger.Fatal("unknown simulation category", zap.String("category", category))
	}

	byID := make(map[string]inventory.Item)
	names := make(map[string]string)
	for _, group := range [][]inventory.Item{snap.Inventory.Spirits, snap.Inventory.Mixers, snap.Inventory.Additives} {
		for _, it := range group {
			byID[it.ID] = it
			names[it.ID] = it.Name
		}
	}
	var locked []inventory.Item
	for _, id := range strings.Split(lock, ",") {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		it, ok := byID[id]
		if !ok {
			logger.Fatal("unknown locked id", zap.String("id", id))
		}
		locked = append(locked, it)
	}

	stats, err := rl.Simulate(ctx, trials, strings.TrimSuffix(category, "s"), count, pool, locked, snap.Rules)
	if err != nil {
		logger.Fatal("simulating", zap.Error(err))
	}
	fmt.Println(tui.RenderStats(stats, names))
}
