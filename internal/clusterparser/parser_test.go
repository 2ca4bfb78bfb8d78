package clusterparser_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterviz/internal/clusterparser"
	"clusterviz/internal/domain"
)

func TestReadMembership(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Membership
	}{
		{
			name:  "two clusters",
			input: "[[CLUSTER 0]]\nalice\nbob\n[[CLUSTER 2]]\ncarol\n",
			want:  domain.Membership{0: {"alice", "bob"}, 2: {"carol"}},
		},
		{
			name:  "windows line endings",
			input: "[[CLUSTER 1]]\r\nalice\r\nbob\r\n",
			want:  domain.Membership{1: {"alice", "bob"}},
		},
		{
			name:  "case insensitive header",
			input: "[[cluster 4]]\nx\n",
			want:  domain.Membership{4: {"x"}},
		},
		{
			name:  "surrounding whitespace kept verbatim",
			input: "[[CLUSTER 0]]\n  padded name \n",
			want:  domain.Membership{0: {"  padded name "}},
		},
		{
			name:  "empty cluster",
			input: "[[CLUSTER 0]]\n[[CLUSTER 1]]\nz\n",
			want:  domain.Membership{0: {}, 1: {"z"}},
		},
		{
			name:  "bracket variant inside a line is an entity",
			input: "[[CLUSTER 0]]\nfoo [[CLUSTER 9]]\n",
			want:  domain.Membership{0: {"foo [[CLUSTER 9]]"}},
		},
		{
			name:  "repeated header resets the cluster",
			input: "[[CLUSTER 0]]\na\n[[CLUSTER 1]]\nb\n[[CLUSTER 0]]\nc\n",
			want:  domain.Membership{0: {"c"}, 1: {"b"}},
		},
		{
			name:  "no trailing newline",
			input: "[[CLUSTER 3]]\nlast",
			want:  domain.Membership{3: {"last"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  domain.Membership{},
		},
	}

	p := clusterparser.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ReadMembership(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadMembership_OrphanEntityIsFatal(t *testing.T) {
	p := clusterparser.New()
	got, err := p.ReadMembership(strings.NewReader("alice\n[[CLUSTER 0]]\nbob\n"))
	require.ErrorIs(t, err, clusterparser.ErrOrphanEntity)
	assert.Contains(t, err.Error(), "line 1")
	assert.Nil(t, got)
}

func TestReadMembership_Partitioning(t *testing.T) {
	input := "[[CLUSTER 0]]\na\nb\n[[CLUSTER 1]]\nc\n[[CLUSTER 7]]\nd\ne\nf\n"
	p := clusterparser.New()
	got, err := p.ReadMembership(strings.NewReader(input))
	require.NoError(t, err)

	var nonHeader []string
	for _, line := range strings.Split(strings.TrimSuffix(input, "\n"), "\n") {
		if !strings.HasPrefix(line, "[[") {
			nonHeader = append(nonHeader, line)
		}
	}
	seen := map[string]int{}
	for id, entities := range got {
		for _, e := range entities {
			_, dup := seen[e]
			assert.False(t, dup, "entity %q in two clusters", e)
			seen[e] = id
		}
	}
	assert.Len(t, seen, len(nonHeader))
	assert.Equal(t, nonHeader, got.Entities())
}

func TestParseMembership_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.txt")
	require.NoError(t, os.WriteFile(path, []byte("[[CLUSTER 0]]\nalice\n"), 0o644))

	got, err := clusterparser.New().ParseMembership(path)
	require.NoError(t, err)
	assert.Equal(t, domain.Membership{0: {"alice"}}, got)

	_, err = clusterparser.New().ParseMembership(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadRelations(t *testing.T) {
	input := "Relation: located in 42.50%\n\t↳ 30.10% country\nRelation: works at 5.00%\n"
	got, err := clusterparser.New().ReadRelations(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "located in", got[0].Name)
	assert.InDelta(t, 42.50, got[0].RelativeOccurrence, 1e-9)
	assert.Equal(t, []domain.RelationValue{{Name: "country", Occurrence: 30.10}}, got[0].Values())

	assert.Equal(t, "works at", got[1].Name)
	assert.InDelta(t, 5.0, got[1].RelativeOccurrence, 1e-9)
	assert.Zero(t, got[1].Len())
}

func TestReadRelations_ValueScoping(t *testing.T) {
	input := strings.Join([]string{
		"\t↳ 99.00% orphan",
		"Relation: located in 42.50%",
		"\t↳ 30.10% country",
		"    ↳ 12.40% city",
		"some unrelated text",
		"Relation: has role 18.00%",
		"\t↳ 18.00% director",
	}, "\n")

	got, err := clusterparser.New().ReadRelations(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []domain.RelationValue{
		{Name: "country", Occurrence: 30.10},
		{Name: "city", Occurrence: 12.40},
	}, got[0].Values())
	assert.Equal(t, []domain.RelationValue{{Name: "director", Occurrence: 18.00}}, got[1].Values())

	_, err = got[0].Occurrence("orphan")
	assert.ErrorIs(t, err, domain.ErrMissingRelationValue)
}

func TestReadRelations_StrictValues(t *testing.T) {
	p := clusterparser.New(clusterparser.WithStrictValues(true))
	_, err := p.ReadRelations(strings.NewReader("\t↳ 1.00% orphan\nRelation: a 2.00%\n"))
	require.ErrorIs(t, err, clusterparser.ErrOrphanValue)
}

func TestReadRelations_NameBoundary(t *testing.T) {
	tests := []struct {
		line string
		name string
		occ  float64
	}{
		{"Relation: top 10 12.50%", "top 10", 12.50},
		{"Relation: born in  3.25%", "born in", 3.25},
		{"Relation: x 100.00%", "x", 100},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := clusterparser.New().ReadRelations(strings.NewReader(tt.line))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.name, got[0].Name)
			assert.InDelta(t, tt.occ, got[0].RelativeOccurrence, 1e-9)
		})
	}
}

func TestReadRelations_IgnoresMalformedLines(t *testing.T) {
	input := "Relation: no percent 12.5\nRelation: 5%\n↳ 1.00% not indented\n"
	got, err := clusterparser.New().ReadRelations(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClusterIDFromFilename(t *testing.T) {
	tests := []struct {
		name string
		id   int
		ok   bool
	}{
		{"enriched_cluster_3.txt", 3, true},
		{"enriched_cluster_10.txt", 10, true},
		{"enriched_cluster_.txt", 0, false},
		{"enriched_cluster_3.txt.bak", 0, false},
		{"readme.txt", 0, false},
		{"cluster_3.txt", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := clusterparser.ClusterIDFromFilename(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}
