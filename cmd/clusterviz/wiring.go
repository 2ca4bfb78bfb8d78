package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clusterviz/internal/clusterparser"
	"clusterviz/internal/config"
	"clusterviz/internal/domain"
	"clusterviz/internal/embedding"
	"clusterviz/internal/embedding/ollama"
	"clusterviz/internal/embedding/openai"
	"clusterviz/internal/embedding/textfile"
	"clusterviz/internal/embedding/tfidf"
	"clusterviz/internal/plot"
	"clusterviz/internal/reduce"
	"clusterviz/internal/service"
	"clusterviz/internal/vectorstore/qdrant"
)

var errNoVectorFile = errors.New("no vector file: pass --input or set embeddings.file")

func newParser(cfg *config.AppConfig, l *slog.Logger) *clusterparser.Parser {
	opts := []clusterparser.Option{
		clusterparser.WithStrictValues(cfg.Parser.StrictRelationValues),
		clusterparser.WithLogger(l),
	}
	if cfg.Parser.Workers > 0 {
		opts = append(opts, clusterparser.WithWorkers(cfg.Parser.Workers))
	}
	return clusterparser.New(opts...)
}

func newReducer(cfg *config.AppConfig) (domain.Reducer, error) {
	return reduce.New(reduce.Config{
		Type:         cfg.Reducer.Type,
		Components:   cfg.Reducer.Components,
		Perplexity:   cfg.Reducer.Perplexity,
		LearningRate: cfg.Reducer.LearningRate,
		Iterations:   cfg.Reducer.Iterations,
	})
}

// newSource picks the vector source. A non-empty input always means a
// vector file, whatever the configured type.
func newSource(cfg *config.AppConfig, input string) (domain.VectorSource, error) {
	if input != "" {
		return textfile.NewSource(input), nil
	}
	ec := cfg.Embeddings
	switch ec.Type {
	case "file", "":
		if ec.File == "" {
			return nil, errNoVectorFile
		}
		return textfile.NewSource(ec.File), nil
	case "qdrant":
		if ec.Qdrant == nil {
			return nil, errors.New("qdrant config missing")
		}
		return newQdrant(ec.Qdrant), nil
	case "tfidf":
		return embedding.NewEmbedderSource(tfidf.NewEmbedder()), nil
	case "openai":
		if ec.OpenAI == nil {
			return nil, errors.New("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   ec.OpenAI.BaseURL,
			APIKeyEnv: ec.OpenAI.APIKeyEnv,
			Model:     ec.OpenAI.Model,
			Timeout:   time.Duration(ec.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return embedding.NewEmbedderSource(client), nil
	case "ollama":
		oc := ollama.Config{}
		if ec.Ollama != nil {
			oc = ollama.Config{
				BaseURL: ec.Ollama.BaseURL,
				Model:   ec.Ollama.Model,
				Timeout: time.Duration(ec.Ollama.TimeoutSecs) * time.Second,
			}
		}
		return embedding.NewEmbedderSource(ollama.NewEmbedder(oc)), nil
	default:
		return nil, fmt.Errorf("unknown embeddings type: %s", ec.Type)
	}
}

func newQdrant(qc *config.QdrantConfig) *qdrant.Storage {
	return qdrant.NewStorage(qdrant.Config{
		URL:        qc.URL,
		APIKey:     qc.APIKey,
		Collection: qc.Collection,
		TagField:   qc.TagField,
		Timeout:    time.Duration(qc.TimeoutSecs) * time.Second,
	})
}

// newVisualizer assembles the pipeline. A Qdrant source also serves neighbor
// searches so vectors are not copied into memory twice.
func newVisualizer(a *app, input string) (*service.Visualizer, error) {
	src, err := newSource(a.cfg, input)
	if err != nil {
		return nil, err
	}
	red, err := newReducer(a.cfg)
	if err != nil {
		return nil, err
	}
	opts := []service.Option{service.WithLogger(a.logger)}
	if q, ok := src.(*qdrant.Storage); ok {
		opts = append(opts, service.WithIndex(q))
	}
	return service.NewVisualizer(newParser(a.cfg, a.logger), src, red, opts...), nil
}

func plotOptions(cfg *config.AppConfig) plot.Options {
	return plot.Options{
		Title:           cfg.Plot.Title,
		MarkerSize:      cfg.Plot.MarkerSize,
		Opacity:         cfg.Plot.Opacity,
		ShowUnclustered: cfg.Plot.ShowUnclustered,
		PlotlyURL:       cfg.Plot.PlotlyURL,
	}
}
