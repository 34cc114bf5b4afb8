package container

import (
	"context"

	"gobenford/adapters/memory"
	"gobenford/adapters/postgres"
	"gobenford/app"
	"gobenford/internal"
	"gobenford/internal/analysis"
	"gobenford/internal/config"
	"gobenford/internal/errors"
	"gobenford/internal/migration"
	"gobenford/internal/plot"
	"gobenford/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	AnalysisRepo ports.AnalysisRepository

	// Analysis components
	Renderer        *plot.Renderer
	Orchestrator    *analysis.Orchestrator
	AnalysisService *app.AnalysisService
}

// New creates a new dependency injection container. When a database URL is
// configured it connects, migrates and keeps history in PostgreSQL;
// otherwise history lives in memory.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: cfg.Logger(),
	}

	if err := c.initRepositories(ctx); err != nil {
		return nil, err
	}
	c.initAnalysis()
	return c, nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		c.Logger.Info("no DATABASE_URL configured, keeping analysis history in memory")
		c.AnalysisRepo = memory.NewAnalysisRepository(c.Config.History.Limit * 10)
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.AnalysisRepo = postgres.NewAnalysisRepository(db)
	c.Logger.Info("analysis history stored in PostgreSQL")
	return nil
}

func (c *Container) initAnalysis() {
	c.Renderer = plot.NewRenderer(c.Config.Plot.WidthInches, c.Config.Plot.HeightInches)
	c.Orchestrator = analysis.NewOrchestrator(c.Renderer, c.Logger)
	c.AnalysisService = app.NewAnalysisService(c.Orchestrator, c.AnalysisRepo, c.Logger)
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
