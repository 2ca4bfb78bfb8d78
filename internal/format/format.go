// Package format renders relations and clusters as plain text or HTML.
package format

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"clusterviz/internal/domain"
)

// RelationText renders a relation and its values, one value per tab-indented line.
func RelationText(r *domain.Relation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s%%", r.Name, percent(r.RelativeOccurrence))
	for _, v := range r.Values() {
		fmt.Fprintf(&b, "\n\t%s: %s%%", v.Name, percent(v.Occurrence))
	}
	return b.String()
}

// RelationHTML renders a relation as an HTML fragment for hover text.
func RelationHTML(r *domain.Relation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s: %s%%</b><br>", html.EscapeString(r.Name), percent(r.RelativeOccurrence))
	for _, v := range r.Values() {
		fmt.Fprintf(&b, "\t» %s: <i>%s%%</i><br>", html.EscapeString(v.Name), percent(v.Occurrence))
	}
	return b.String()
}

// ClusterText renders every relation of a cluster separated by blank lines.
func ClusterText(relations []*domain.Relation) string {
	parts := make([]string, len(relations))
	for i, r := range relations {
		parts[i] = RelationText(r)
	}
	return strings.Join(parts, "\n\n")
}

// Tooltip builds the hover text for an entity. Clustered entities list the
// relations known for their cluster.
func Tooltip(entity string, clusterID int, membership domain.Membership, relations domain.ClusterRelations) string {
	var b strings.Builder
	b.WriteString("Word: ")
	b.WriteString(html.EscapeString(entity))
	if clusterID == domain.Unclustered {
		return b.String()
	}
	fmt.Fprintf(&b, "<br><br><b>Cluster relations (%d entities):</b><br>", membership.Size(clusterID))
	parts := make([]string, 0, len(relations[clusterID]))
	for _, r := range relations[clusterID] {
		parts = append(parts, RelationHTML(r))
	}
	b.WriteString(strings.Join(parts, "<br>"))
	return b.String()
}

// Color returns a stable rgb() color for a cluster id.
func Color(clusterID int) string {
	if clusterID == domain.Unclustered {
		return "rgb(180, 180, 180)"
	}
	r := mod(35+clusterID*7, 255)
	g := mod(133+clusterID*13, 255)
	b := mod(289+clusterID*23, 255)
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// TraceName labels a cluster in the plot legend.
func TraceName(clusterID, size int) string {
	if clusterID == domain.Unclustered {
		return fmt.Sprintf("UNCLUSTERED (%d entities)", size)
	}
	return fmt.Sprintf("CLUSTER #%d (%d entities)", clusterID, size)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
