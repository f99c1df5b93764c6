package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/config"
	"github.com/scoremvp/scoremvp/internal/importer"
	"github.com/scoremvp/scoremvp/internal/store"
	"github.com/scoremvp/scoremvp/internal/store/repository"
)

const (
	appName    = "scoremvp-import-stats"
	appVersion = "1.0.0"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg)

	var (
		dsn     = flag.String("dsn", cfg.DatabaseURL, "Postgres DSN")
		file    = flag.String("file", "", "Semicolon separated stats sheet (CSV)")
		dryRun  = flag.Bool("dry-run", false, "Validate the sheet without writing to the database")
		migrate = flag.Bool("migrate", cfg.RunMigrations, "Apply database migrations first")
	)
	flag.Parse()

	log.Infof("=== %s v%s ===", appName, appVersion)

	if *file == "" {
		log.Fatal("Specify --file")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open sheet: %v", err)
	}
	defer f.Close()

	db, err := store.NewDatabase(*dsn)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrate && !*dryRun {
		if err := db.RunMigrations(ctx); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
	}

	im := importer.New(
		repository.NewPlayerRepository(db),
		repository.NewGameRepository(db),
		repository.NewStatsRepository(db),
	)

	report, err := im.Run(ctx, f, importer.Options{DryRun: *dryRun}, &consoleReporter{})
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	if report.Failed > 0 {
		log.Warnf("%d line(s) could not be imported", report.Failed)
	}
	log.Info("✓ Import completed successfully")
}

type consoleReporter struct {
	total int
	seen  int
}

func (c *consoleReporter) OnStart(rows int, dryRun bool) {
	c.total = rows
	log.Infof("Importing %d line(s) (dry_run=%v)", rows, dryRun)
}

func (c *consoleReporter) OnRow(row importer.Row, outcome importer.Outcome) {
	c.seen++
	log.Infof("[%d/%d] line %d %s vs %s %s: %s",
		c.seen, c.total, row.Line, row.PlayerName, row.Opponent, row.Date.Format("02/01/2006"), outcome)
}

func (c *consoleReporter) OnRowError(line int, err error) {
	c.seen++
	log.Warnf("[%d/%d] line %d: %v", c.seen, c.total, line, err)
}

func (c *consoleReporter) OnComplete(report *importer.Report) {
	log.Infof("Imported %d, skipped %d, failed %d (players created %d, games created %d)",
		report.Imported, report.Skipped, report.Failed, report.PlayersCreated, report.GamesCreated)
}
