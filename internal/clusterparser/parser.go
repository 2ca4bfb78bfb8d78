package clusterparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"clusterviz/internal/domain"
)

var (
	// ErrOrphanEntity is returned when an entity line appears before any cluster header.
	ErrOrphanEntity = errors.New("entity line before first cluster header")
	// ErrOrphanValue is returned in strict mode when a relation value appears before any relation header.
	ErrOrphanValue = errors.New("relation value before first relation header")
)

var (
	clusterHeaderRe    = regexp.MustCompile(`(?i)^\[\[CLUSTER (\d+)\]\]`)
	relationHeaderRe   = regexp.MustCompile(`^Relation:\s([\p{L}\p{N}_\s]+?)\s+(\d+\.\d+)%$`)
	relationValueRe    = regexp.MustCompile(`^\s+↳\s(\d+\.\d+)%\s([\p{L}\p{N}_\s]+)$`)
	enrichedFilenameRe = regexp.MustCompile(`^enriched_cluster_(\d+)\.txt$`)
)

// maxLineSize bounds a single input line; entity names and relation lines are short.
const maxLineSize = 1024 * 1024

// Parser reads membership and enriched cluster files.
type Parser struct {
	strictValues bool
	workers      int
	logger       *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrictValues makes a relation value before the first relation header fatal.
func WithStrictValues(strict bool) Option {
	return func(p *Parser) { p.strictValues = strict }
}

// WithWorkers bounds how many enriched cluster files are parsed at once.
func WithWorkers(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger used for skipped files and lines.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Parser. Without options it is lenient about orphan values,
// uses one worker per CPU and discards logs.
func New(opts ...Option) *Parser {
	p := &Parser{
		workers: runtime.NumCPU(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseMembership reads a cluster membership file.
func (p *Parser) ParseMembership(path string) (domain.Membership, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := p.ReadMembership(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadMembership parses membership lines from r. Every line after a
// [[CLUSTER n]] header, up to the next header, is an entity of cluster n,
// kept verbatim apart from its line terminator. A repeated header starts the
// cluster over.
func (p *Parser) ReadMembership(r io.Reader) (domain.Membership, error) {
	mapping := make(domain.Membership)
	current := -1
	active := false
	lineNo := 0
	err := scanLines(r, func(line string) error {
		lineNo++
		if m := clusterHeaderRe.FindStringSubmatch(line); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return fmt.Errorf("line %d: cluster id %q: %w", lineNo, m[1], err)
			}
			mapping[id] = []string{}
			current = id
			active = true
			return nil
		}
		if !active {
			return fmt.Errorf("line %d: %w", lineNo, ErrOrphanEntity)
		}
		mapping[current] = append(mapping[current], line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

// ParseRelationFile reads a single enriched cluster file.
func (p *Parser) ParseRelationFile(path string) ([]*domain.Relation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	relations, err := p.ReadRelations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return relations, nil
}

// ReadRelations parses relation headers and their indented values from r.
// Lines matching neither shape are ignored.
func (p *Parser) ReadRelations(r io.Reader) ([]*domain.Relation, error) {
	relations := []*domain.Relation{}
	var current *domain.Relation
	lineNo := 0
	err := scanLines(r, func(line string) error {
		lineNo++
		if m := relationHeaderRe.FindStringSubmatch(line); m != nil {
			occ, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return fmt.Errorf("line %d: occurrence %q: %w", lineNo, m[2], err)
			}
			current = domain.NewRelation(strings.TrimSpace(m[1]), occ)
			relations = append(relations, current)
			return nil
		}
		if m := relationValueRe.FindStringSubmatch(line); m != nil {
			occ, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return fmt.Errorf("line %d: occurrence %q: %w", lineNo, m[1], err)
			}
			if current == nil {
				if p.strictValues {
					return fmt.Errorf("line %d: %w", lineNo, ErrOrphanValue)
				}
				p.logger.Debug("skipping relation value without header", "line", lineNo, "value", strings.TrimSpace(m[2]))
				return nil
			}
			current.AddValue(strings.TrimSpace(m[2]), occ)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return relations, nil
}

// ClusterIDFromFilename extracts the cluster id from an enriched cluster file
// name such as enriched_cluster_12.txt.
func ClusterIDFromFilename(name string) (int, bool) {
	m := enrichedFilenameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// scanLines calls fn for every line of r with the line terminator removed.
func scanLines(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := fn(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}
