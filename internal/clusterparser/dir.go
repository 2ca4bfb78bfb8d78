package clusterparser

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"clusterviz/internal/domain"
)

// ParseRelationsDir parses every enriched_cluster_<id>.txt file directly
// inside dir. Sub-directories and files with other names are skipped. Files
// are parsed concurrently; the first failure cancels the scan and no mapping
// is returned.
func (p *Parser) ParseRelationsDir(ctx context.Context, dir string) (domain.ClusterRelations, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	out := make(domain.ClusterRelations)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := ClusterIDFromFilename(entry.Name())
		if !ok {
			p.logger.Debug("skipping file", "dir", dir, "name", entry.Name())
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			relations, err := p.ParseRelationFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = relations
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
