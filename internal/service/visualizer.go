package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"clusterviz/internal/clusterparser"
	"clusterviz/internal/domain"
	"clusterviz/internal/embedding"
	"clusterviz/internal/plot"
	"clusterviz/internal/vectorstore"
	"clusterviz/internal/vectorstore/memory"
)

// clusterAware is implemented by indexes that annotate results with cluster ids.
type clusterAware interface {
	SetClusters(map[string]int)
}

// Visualizer loads cluster annotations and entity vectors and turns them
// into a plot.
type Visualizer struct {
	parser  *clusterparser.Parser
	source  domain.VectorSource
	reducer domain.Reducer
	index   vectorstore.Storage
	logger  *slog.Logger
}

// Option configures a Visualizer.
type Option func(*Visualizer)

// WithIndex searches neighbors in an index that already holds the vectors
// instead of building an in-memory one.
func WithIndex(idx vectorstore.Storage) Option {
	return func(v *Visualizer) { v.index = idx }
}

// WithLogger sets the logger for stage timings.
func WithLogger(l *slog.Logger) Option {
	return func(v *Visualizer) { v.logger = l }
}

// NewVisualizer wires the parser, vector source and reducer together.
func NewVisualizer(parser *clusterparser.Parser, source domain.VectorSource, reducer domain.Reducer, opts ...Option) *Visualizer {
	v := &Visualizer{
		parser:  parser,
		source:  source,
		reducer: reducer,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load parses the membership file and the enriched cluster directory, then
// fetches a vector for every entity the source knows about.
func (v *Visualizer) Load(ctx context.Context, clustersPath, relationsDir string) (*Session, error) {
	var membership domain.Membership
	err := v.timed("building cluster mapping", func() error {
		var err error
		membership, err = v.parser.ParseMembership(clustersPath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("parse clusters: %w", err)
	}

	var relations domain.ClusterRelations
	err = v.timed("reading entity relations", func() error {
		var err error
		relations, err = v.parser.ParseRelationsDir(ctx, relationsDir)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("parse relations: %w", err)
	}

	var vectors []domain.EntityVector
	err = v.timed("loading embeddings", func() error {
		var err error
		vectors, err = v.source.Vectors(ctx, membership.Entities())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}
	if len(vectors) == 0 {
		return nil, embedding.ErrNoVectors
	}

	clusters := membership.Inverse()
	idx := v.index
	if idx == nil {
		mem := memory.NewStorage(clusters)
		if err := mem.Upsert(ctx, vectors); err != nil {
			return nil, fmt.Errorf("index vectors: %w", err)
		}
		idx = mem
	} else if ca, ok := idx.(clusterAware); ok {
		ca.SetClusters(clusters)
	}

	v.logger.Info("loaded",
		"clusters", len(membership),
		"relation_files", len(relations),
		"vectors", len(vectors))

	return newSession(membership, relations, vectors, idx), nil
}

// Project reduces every vector of the session to plot coordinates.
func (v *Visualizer) Project(s *Session) ([]domain.Point, error) {
	raw := make([][]float64, len(s.vectors))
	for i, ev := range s.vectors {
		raw[i] = ev.Vector
	}
	var coords [][]float64
	err := v.timed("applying "+v.reducer.Name(), func() error {
		var err error
		coords, err = v.reducer.Reduce(raw)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}
	points := make([]domain.Point, len(coords))
	for i, c := range coords {
		tag := s.vectors[i].Tag
		id, _ := s.ClusterOf(tag)
		points[i] = domain.Point{Tag: tag, ClusterID: id, Coords: c}
	}
	return points, nil
}

// Plot runs the whole pipeline and writes the page into outputDir.
// It returns the written path.
func (v *Visualizer) Plot(ctx context.Context, clustersPath, relationsDir, outputDir, filename string, opts plot.Options) (string, error) {
	s, err := v.Load(ctx, clustersPath, relationsDir)
	if err != nil {
		return "", err
	}
	points, err := v.Project(s)
	if err != nil {
		return "", err
	}
	fig := plot.BuildFigure(points, s.membership, s.relations, opts)
	path := filepath.Join(outputDir, filename)
	if err := plot.WriteFile(path, fig); err != nil {
		return "", fmt.Errorf("write plot: %w", err)
	}
	v.logger.Info("plot written", "path", path, "traces", len(fig.Traces), "points", len(points))
	return path, nil
}

func (v *Visualizer) timed(stage string, fn func() error) error {
	v.logger.Info(stage + "...")
	start := time.Now()
	if err := fn(); err != nil {
		return err
	}
	v.logger.Info(stage+" done", "elapsed", time.Since(start))
	return nil
}
