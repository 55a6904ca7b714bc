package graphstore

import (
	"sort"
	"strings"

	"github.com/knowledgehooks/khook/internal/rdf"
)

// Canonicalize encodes a SELECT result into the stable byte string
// described by spec §4.3 (ResultDelta): each row is sorted by variable
// name; rows are sorted lexicographically by their concatenated
// (variable, term) encodings; each term is encoded as
// "<I|L|B>\tlexical\tdatatypeIRI\tlang".
func Canonicalize(result QueryResult) []byte {
	rows := make([]string, 0, len(result.Bindings))
	for _, row := range result.Bindings {
		vars := make([]string, 0, len(row))
		for v := range row {
			vars = append(vars, v)
		}
		sort.Strings(vars)

		var sb strings.Builder
		for _, v := range vars {
			sb.WriteString(v)
			sb.WriteByte('\n')
			sb.WriteString(encodeTerm(row[v]))
			sb.WriteByte('\n')
		}
		rows = append(rows, sb.String())
	}
	sort.Strings(rows)
	return []byte(strings.Join(rows, "\x1e"))
}

func encodeTerm(t rdf.Term) string {
	var kind string
	switch t.Kind {
	case rdf.IRI:
		kind = "I"
	case rdf.BlankNode:
		kind = "B"
	default:
		kind = "L"
	}
	return strings.Join([]string{kind, t.Value, t.Datatype, t.Lang}, "\t")
}
