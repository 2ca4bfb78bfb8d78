// Package plot renders reduced entity coordinates as an interactive plotly.js page.
package plot

import (
	_ "embed"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"

	"clusterviz/internal/domain"
	"clusterviz/internal/format"
)

//go:embed page.html.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

// Options controls the look of the figure.
type Options struct {
	Title           string
	MarkerSize      int
	Opacity         float64
	ShowUnclustered bool
	PlotlyURL       string
}

// Trace is one cluster's points.
type Trace struct {
	ClusterID int
	Name      string
	Color     string
	Tags      []string
	Coords    [][]float64
	Text      []string
}

// Figure is everything needed to render the page.
type Figure struct {
	Options
	Dimensions int
	Traces     []Trace
}

// BuildFigure groups points into one trace per cluster, ordered by cluster
// id. Clusters without any embedded entity are left out. Hover text lists the
// relations of the entity's cluster.
func BuildFigure(points []domain.Point, membership domain.Membership, relations domain.ClusterRelations, opts Options) Figure {
	dims := 0
	byCluster := make(map[int][]domain.Point)
	for _, p := range points {
		if p.ClusterID == domain.Unclustered && !opts.ShowUnclustered {
			continue
		}
		if dims == 0 {
			dims = len(p.Coords)
		}
		byCluster[p.ClusterID] = append(byCluster[p.ClusterID], p)
	}

	ids := make([]int, 0, len(byCluster))
	for id := range byCluster {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fig := Figure{Options: opts, Dimensions: dims}
	for _, id := range ids {
		pts := byCluster[id]
		size := membership.Size(id)
		if id == domain.Unclustered {
			size = len(pts)
		}
		tr := Trace{
			ClusterID: id,
			Name:      format.TraceName(id, size),
			Color:     format.Color(id),
		}
		for _, p := range pts {
			tr.Tags = append(tr.Tags, p.Tag)
			tr.Coords = append(tr.Coords, p.Coords)
			tr.Text = append(tr.Text, format.Tooltip(p.Tag, id, membership, relations))
		}
		fig.Traces = append(fig.Traces, tr)
	}
	return fig
}

// Render writes the figure as a self-contained HTML page.
func Render(w io.Writer, fig Figure) error {
	return page.Execute(w, struct {
		Title     string
		PlotlyURL string
		Traces    []map[string]any
		Layout    map[string]any
	}{
		Title:     fig.Title,
		PlotlyURL: fig.PlotlyURL,
		Traces:    plotlyTraces(fig),
		Layout:    plotlyLayout(fig),
	})
}

// WriteFile renders the figure to path, creating parent directories.
func WriteFile(path string, fig Figure) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Render(f, fig)
}

func plotlyTraces(fig Figure) []map[string]any {
	traceType := "scatter"
	if fig.Dimensions >= 3 {
		traceType = "scatter3d"
	}
	out := make([]map[string]any, 0, len(fig.Traces))
	for _, tr := range fig.Traces {
		t := map[string]any{
			"type":      traceType,
			"mode":      "markers",
			"name":      tr.Name,
			"text":      tr.Text,
			"hoverinfo": "text",
			"marker": map[string]any{
				"color":   tr.Color,
				"size":    fig.MarkerSize,
				"opacity": fig.Opacity,
				"line":    map[string]any{"width": 0.5},
			},
		}
		axes := []string{"x", "y", "z"}
		for a := 0; a < fig.Dimensions && a < len(axes); a++ {
			col := make([]float64, len(tr.Coords))
			for i, c := range tr.Coords {
				if a < len(c) {
					col[i] = c[a]
				}
			}
			t[axes[a]] = col
		}
		out = append(out, t)
	}
	return out
}

func plotlyLayout(fig Figure) map[string]any {
	return map[string]any{
		"title":     map[string]any{"text": fig.Title},
		"hovermode": "closest",
		"xaxis":     map[string]any{"zeroline": false},
		"yaxis":     map[string]any{"zeroline": false},
	}
}
