// Package app wires configuration, the store handle and the pipeline
// together for the binaries.
package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gpx_tracker/internal/config"
	"gpx_tracker/internal/gpxfile"
	"gpx_tracker/internal/ingest"
	"gpx_tracker/internal/store"
)

type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Store    *store.Store
	Uploads  *gpxfile.Uploads
	Parser   *gpxfile.Parser
	Pipeline *ingest.Pipeline
}

// Bootstrap opens the database, makes sure the tables exist and builds the
// pipeline. Close must be called once the App is no longer needed.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := config.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	st := store.New(db)
	if err := st.EnsureSchema(ctx); err != nil {
		config.CloseDatabase(db)
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	uploads, err := gpxfile.NewUploads(cfg.UploadsDir)
	if err != nil {
		config.CloseDatabase(db)
		return nil, err
	}
	parser := gpxfile.NewParser()

	return &App{
		Config:   cfg,
		DB:       db,
		Store:    st,
		Uploads:  uploads,
		Parser:   parser,
		Pipeline: ingest.New(parser, uploads, st, cfg.IngestTimeout),
	}, nil
}

func (a *App) Close() {
	config.CloseDatabase(a.DB)
	gpxfile.Shutdown()
}
