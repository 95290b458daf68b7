// Package ingest imports the GPX documents of the uploads directory into the
// catalog tables.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gpx_tracker/internal/gpxfile"
	"gpx_tracker/internal/models"
	"gpx_tracker/internal/store"
)

var (
	// ErrSchemaMissing means the uploads directory holds no .xsd, so nothing
	// can be validated.
	ErrSchemaMissing = errors.New("no schema document in uploads")
	// ErrStoreUnavailable aborts a run when the ledger cannot be queried.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrRunInProgress    = errors.New("ingestion already running")
)

// Parser is the part of the parsing adapter the pipeline needs.
type Parser interface {
	IsUnnamed(name string) bool
	Validate(ctx context.Context, path, schemaPath string) bool
	DecodeHeader(ctx context.Context, path string) (gpxfile.Header, error)
	DecodeRoutes(ctx context.Context, path string) ([]gpxfile.RouteSummary, error)
	DecodeWaypoints(ctx context.Context, path, routeName string) ([]gpxfile.Point, error)
}

// Documents is the directory documents are read from.
type Documents interface {
	List() ([]string, error)
	SchemaName() (string, error)
	Path(name string) (string, error)
}

// Catalog is the ledger plus transactional access to the writer.
type Catalog interface {
	HasBeenImported(ctx context.Context, name string) (bool, error)
	WithinTx(ctx context.Context, fn func(w *store.Writer) error) error
}

// Pipeline runs ingestion passes. Only one pass runs at a time; a second
// caller gets ErrRunInProgress.
type Pipeline struct {
	parser  Parser
	docs    Documents
	catalog Catalog
	timeout time.Duration

	mu sync.Mutex
}

// New builds a pipeline. timeout bounds each ledger query and each
// document's transaction; zero means no bound.
func New(parser Parser, docs Documents, catalog Catalog, timeout time.Duration) *Pipeline {
	return &Pipeline{parser: parser, docs: docs, catalog: catalog, timeout: timeout}
}

// Run imports every new, valid document of the uploads directory. A document
// that fails is rolled back and reported; the run carries on with the next
// one. The returned error is only set when the whole run had to stop.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if !p.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.mu.Unlock()

	names, err := p.docs.List()
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	schema, err := p.docs.SchemaName()
	if err != nil {
		return nil, fmt.Errorf("locate schema: %w", err)
	}

	report := &Report{}
	candidates := make([]string, 0, len(names))
	for _, n := range names {
		if !gpxfile.IsSchemaFile(n) {
			candidates = append(candidates, n)
		}
	}

	if schema == "" {
		for _, n := range candidates {
			o := Outcome{Document: n, Status: StatusInvalid, Err: ErrSchemaMissing}
			report.add(o)
			logOutcome(o)
		}
		logrus.Error("ingest: no .xsd schema in uploads, nothing can be validated")
		return report, ErrSchemaMissing
	}
	schemaPath, err := p.docs.Path(schema)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"schema":     schema,
	}).Info("ingest: run started")

	for _, name := range candidates {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		o, err := p.processDocument(ctx, name, schemaPath)
		if err != nil {
			logrus.WithError(err).WithField("document", name).Error("ingest: run aborted")
			return report, err
		}
		report.add(o)
		logOutcome(o)
	}

	logrus.WithFields(logrus.Fields{
		"imported": report.Count(StatusImported),
		"skipped":  report.Count(StatusSkipped),
		"invalid":  report.Count(StatusInvalid),
		"failed":   report.Count(StatusFailed),
	}).Info("ingest: run finished")
	return report, nil
}

// processDocument moves one document through skip / validate / import. Only
// a ledger failure is returned as an error; everything else is an outcome.
func (p *Pipeline) processDocument(ctx context.Context, name, schemaPath string) (Outcome, error) {
	out := Outcome{Document: name}

	path, err := p.docs.Path(name)
	if err != nil {
		out.Status, out.Err = StatusFailed, err
		return out, nil
	}

	lctx, cancel := p.withTimeout(ctx)
	imported, err := p.catalog.HasBeenImported(lctx, name)
	cancel()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if imported {
		out.Status = StatusSkipped
		return out, nil
	}

	if !p.parser.Validate(ctx, path, schemaPath) {
		out.Status = StatusInvalid
		return out, nil
	}

	tctx, cancel := p.withTimeout(ctx)
	defer cancel()
	err = p.catalog.WithinTx(tctx, func(w *store.Writer) error {
		out.Routes, out.Waypoints = 0, 0
		return p.materialize(tctx, w, name, path, &out)
	})
	if err != nil {
		out.Status, out.Err = StatusFailed, err
		out.Routes, out.Waypoints = 0, 0
		return out, nil
	}
	out.Status = StatusImported
	return out, nil
}

// materialize writes document, routes and waypoints parent-first.
func (p *Pipeline) materialize(ctx context.Context, w *store.Writer, name, path string, out *Outcome) error {
	h, err := p.parser.DecodeHeader(ctx, path)
	if err != nil {
		return err
	}
	if h.Name != name {
		logrus.WithFields(logrus.Fields{"document": name, "header": h.Name}).
			Debug("ingest: header name differs from file name, keeping file name")
	}

	docID, err := w.InsertDocument(&models.Document{
		Name:    name,
		Version: h.Version,
		Creator: h.Creator,
	})
	if err != nil {
		return err
	}

	routes, err := p.parser.DecodeRoutes(ctx, path)
	if err != nil {
		return err
	}
	for _, r := range routes {
		routeID, err := w.InsertRoute(&models.Route{
			Name:   p.storedName(r.Name),
			Length: r.Length,
		}, docID)
		if err != nil {
			return err
		}
		out.Routes++

		// waypoints are looked up by the name the adapter gave us, placeholder included
		points, err := p.parser.DecodeWaypoints(ctx, path, r.Name)
		if err != nil {
			return err
		}
		for i, pt := range points {
			err := w.InsertWaypoint(&models.Waypoint{
				Index:     i,
				Latitude:  pt.Latitude,
				Longitude: pt.Longitude,
				Name:      pt.Name,
			}, routeID)
			if err != nil {
				return err
			}
			out.Waypoints++
		}
	}
	return nil
}

// storedName turns the unnamed placeholder into NULL.
func (p *Pipeline) storedName(name string) *string {
	if name == "" || p.parser.IsUnnamed(name) {
		return nil
	}
	return &name
}

func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func logOutcome(o Outcome) {
	entry := logrus.WithFields(logrus.Fields{
		"document": o.Document,
		"status":   o.Status,
	})
	switch o.Status {
	case StatusImported:
		entry.WithFields(logrus.Fields{"routes": o.Routes, "waypoints": o.Waypoints}).Info("ingest: document imported")
	case StatusFailed:
		entry.WithError(o.Err).Warn("ingest: document failed")
	default:
		entry.Info("ingest: document not imported")
	}
}
