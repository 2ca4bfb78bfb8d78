package plot_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterviz/internal/domain"
	"clusterviz/internal/plot"
)

func fixture() ([]domain.Point, domain.Membership, domain.ClusterRelations) {
	points := []domain.Point{
		{Tag: "carol", ClusterID: 2, Coords: []float64{5, 6, 7}},
		{Tag: "alice", ClusterID: 0, Coords: []float64{1, 2, 3}},
		{Tag: "stray", ClusterID: domain.Unclustered, Coords: []float64{0, 0, 0}},
		{Tag: "bob", ClusterID: 0, Coords: []float64{2, 3, 4}},
	}
	membership := domain.Membership{0: {"alice", "bob", "dave"}, 2: {"carol"}, 9: {"nobody"}}
	relations := domain.ClusterRelations{0: {domain.NewRelation("knows", 10)}}
	return points, membership, relations
}

func TestBuildFigure(t *testing.T) {
	points, membership, relations := fixture()
	fig := plot.BuildFigure(points, membership, relations, plot.Options{Title: "T"})

	assert.Equal(t, 3, fig.Dimensions)
	require.Len(t, fig.Traces, 2)

	first := fig.Traces[0]
	assert.Equal(t, 0, first.ClusterID)
	assert.Equal(t, "CLUSTER #0 (3 entities)", first.Name)
	assert.Equal(t, "rgb(35, 133, 34)", first.Color)
	assert.Equal(t, []string{"alice", "bob"}, first.Tags)
	assert.Equal(t, [][]float64{{1, 2, 3}, {2, 3, 4}}, first.Coords)
	assert.Contains(t, first.Text[0], "<b>knows: 10.00%</b>")

	assert.Equal(t, "CLUSTER #2 (1 entities)", fig.Traces[1].Name)
}

func TestBuildFigure_ShowUnclustered(t *testing.T) {
	points, membership, relations := fixture()
	fig := plot.BuildFigure(points, membership, relations, plot.Options{ShowUnclustered: true})

	require.Len(t, fig.Traces, 3)
	assert.Equal(t, domain.Unclustered, fig.Traces[0].ClusterID)
	assert.Equal(t, "UNCLUSTERED (1 entities)", fig.Traces[0].Name)
	assert.Equal(t, []string{"Word: stray"}, fig.Traces[0].Text)
}

func TestRender(t *testing.T) {
	points, membership, relations := fixture()
	fig := plot.BuildFigure(points, membership, relations, plot.Options{
		Title:      "Doc2Vec <embeddings>",
		MarkerSize: 6,
		Opacity:    0.75,
		PlotlyURL:  "https://cdn.example/plotly.js",
	})

	var buf bytes.Buffer
	require.NoError(t, plot.Render(&buf, fig))
	out := buf.String()

	assert.Contains(t, out, "<title>Doc2Vec &lt;embeddings&gt;</title>")
	assert.Contains(t, out, `src="https://cdn.example/plotly.js"`)
	assert.Contains(t, out, `"type":"scatter3d"`)
	assert.Contains(t, out, `"name":"CLUSTER #0 (3 entities)"`)
	assert.Contains(t, out, `"z":[3,4]`)
	assert.Contains(t, out, `"hovermode":"closest"`)
	assert.NotContains(t, out, "<b>knows", "hover html must be escaped inside the script")
}

func TestRender_TwoDimensions(t *testing.T) {
	fig := plot.BuildFigure([]domain.Point{
		{Tag: "a", ClusterID: 1, Coords: []float64{1, 2}},
	}, domain.Membership{1: {"a"}}, nil, plot.Options{})

	var buf bytes.Buffer
	require.NoError(t, plot.Render(&buf, fig))
	assert.Contains(t, buf.String(), `"type":"scatter"`)
	assert.NotContains(t, buf.String(), `"z":`)
}

func TestWriteFile(t *testing.T) {
	points, membership, relations := fixture()
	path := filepath.Join(t.TempDir(), "out", "plot.html")
	require.NoError(t, plot.WriteFile(path, plot.BuildFigure(points, membership, relations, plot.Options{})))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Plotly.newPlot")
}
