package graphstore

import (
	"fmt"
	"strings"

	"github.com/knowledgehooks/khook/internal/rdf"
)

type parser struct {
	toks     []string
	pos      int
	prefixes map[string]string
}

// parseQuery parses the SPARQL subset documented in SPEC_FULL.md:
// PREFIX declarations, ASK/SELECT/CONSTRUCT forms, basic graph
// patterns, FILTER, OPTIONAL, UNION, and ORDER BY.
func parseQuery(text string) (*query, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, prefixes: map[string]string{
		"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
		"xsd":  "http://www.w3.org/2001/XMLSchema#",
	}}
	for p.peekUpper() == "PREFIX" {
		if err := p.parsePrefixDecl(); err != nil {
			return nil, err
		}
	}

	q := &query{}
	switch p.peekUpper() {
	case "ASK":
		p.next()
		q.kind = KindASK
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		q.where = where
	case "SELECT":
		p.next()
		vars, err := p.parseSelectVars()
		if err != nil {
			return nil, err
		}
		q.kind = KindSELECT
		q.selectVars = vars
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		q.where = where
		if p.peekUpper() == "ORDER" {
			p.next()
			if p.peekUpper() != "BY" {
				return nil, fmt.Errorf("expected BY after ORDER")
			}
			p.next()
			for p.pos < len(p.toks) && strings.HasPrefix(p.peek(), "?") {
				q.orderBy = append(q.orderBy, strings.TrimPrefix(p.next(), "?"))
			}
		}
	case "CONSTRUCT":
		p.next()
		if p.next() != "{" {
			return nil, fmt.Errorf("expected '{' after CONSTRUCT")
		}
		tmpl, err := p.parseTriplePatterns("}")
		if err != nil {
			return nil, err
		}
		if p.next() != "}" {
			return nil, fmt.Errorf("expected '}' closing CONSTRUCT template")
		}
		q.kind = KindCONSTRUCT
		q.constructTmpl = tmpl
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		q.where = where
	default:
		return nil, fmt.Errorf("unsupported query form starting with %q", p.peek())
	}
	return q, nil
}

func (p *parser) parsePrefixDecl() error {
	p.next() // PREFIX
	ns := strings.TrimSuffix(p.next(), ":")
	iriTok := p.next()
	iri, err := stripIRI(iriTok)
	if err != nil {
		return err
	}
	p.prefixes[ns] = iri
	return nil
}

func (p *parser) parseSelectVars() ([]string, error) {
	if p.peek() == "*" {
		p.next()
		return nil, nil
	}
	var vars []string
	for strings.HasPrefix(p.peek(), "?") {
		vars = append(vars, strings.TrimPrefix(p.next(), "?"))
	}
	if len(vars) == 0 {
		return nil, fmt.Errorf("expected variable list or '*' after SELECT")
	}
	return vars, nil
}

func (p *parser) parseWhereClause() (groupGraphPattern, error) {
	if p.peekUpper() == "WHERE" {
		p.next()
	}
	if p.next() != "{" {
		return groupGraphPattern{}, fmt.Errorf("expected '{' opening WHERE group")
	}
	return p.parseGroupGraphPattern()
}

// parseGroupGraphPattern parses elements until the matching '}', which
// it consumes.
func (p *parser) parseGroupGraphPattern() (groupGraphPattern, error) {
	var group groupGraphPattern
	for {
		if p.pos >= len(p.toks) {
			return group, fmt.Errorf("unterminated group graph pattern")
		}
		tok := p.peek()
		if tok == "}" {
			p.next()
			return group, nil
		}
		if tok == "." {
			p.next()
			continue
		}
		switch strings.ToUpper(tok) {
		case "FILTER":
			p.next()
			expr, err := p.parseFilter()
			if err != nil {
				return group, err
			}
			group.elements = append(group.elements, filterElement{expr: expr})
		case "OPTIONAL":
			p.next()
			if p.next() != "{" {
				return group, fmt.Errorf("expected '{' after OPTIONAL")
			}
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return group, err
			}
			group.elements = append(group.elements, optionalElement{group: inner})
		case "{":
			p.next()
			left, err := p.parseGroupGraphPattern()
			if err != nil {
				return group, err
			}
			if p.peekUpper() == "UNION" {
				p.next()
				if p.next() != "{" {
					return group, fmt.Errorf("expected '{' after UNION")
				}
				right, err := p.parseGroupGraphPattern()
				if err != nil {
					return group, err
				}
				group.elements = append(group.elements, unionElement{left: left, right: right})
			} else {
				group.elements = append(group.elements, left.elements...)
			}
		default:
			tp, err := p.parseTriplePattern()
			if err != nil {
				return group, err
			}
			group.elements = append(group.elements, triplePatternElement{pattern: tp})
		}
	}
}

func (p *parser) parseTriplePatterns(stopTok string) ([]triplePattern, error) {
	var patterns []triplePattern
	for p.peek() != stopTok {
		tp, err := p.parseTriplePattern()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, tp)
		if p.peek() == "." {
			p.next()
		}
	}
	return patterns, nil
}

func (p *parser) parseTriplePattern() (triplePattern, error) {
	s, err := p.parsePatternTerm()
	if err != nil {
		return triplePattern{}, err
	}
	pred, err := p.parsePatternTerm()
	if err != nil {
		return triplePattern{}, err
	}
	o, err := p.parsePatternTerm()
	if err != nil {
		return triplePattern{}, err
	}
	if p.peek() == "." {
		p.next()
	}
	return triplePattern{subject: s, predicate: pred, object: o}, nil
}

func (p *parser) parsePatternTerm() (patternTerm, error) {
	tok := p.next()
	if tok == "" {
		return patternTerm{}, fmt.Errorf("unexpected end of query")
	}
	if strings.HasPrefix(tok, "?") {
		return patternTerm{isVar: true, name: strings.TrimPrefix(tok, "?")}, nil
	}
	if tok == "a" {
		return patternTerm{term: rdf.NewIRI(rdf.RDFType)}, nil
	}
	term, err := p.resolveTermToken(tok)
	if err != nil {
		return patternTerm{}, err
	}
	return patternTerm{term: term}, nil
}

func (p *parser) parseFilter() (filterExpr, error) {
	if p.peek() == "(" {
		p.next()
	}
	left, err := p.parseFilterOperand()
	if err != nil {
		return filterExpr{}, err
	}
	opTok := p.next()
	var op filterOp
	switch opTok {
	case "<":
		op = opLT
	case "<=":
		op = opLE
	case ">":
		op = opGT
	case ">=":
		op = opGE
	case "=":
		op = opEQ
	case "!=":
		op = opNE
	default:
		return filterExpr{}, fmt.Errorf("unsupported filter operator %q", opTok)
	}
	right, err := p.parseFilterOperand()
	if err != nil {
		return filterExpr{}, err
	}
	if p.peek() == ")" {
		p.next()
	}
	return filterExpr{left: left, right: right, op: op}, nil
}

func (p *parser) parseFilterOperand() (filterOperand, error) {
	tok := p.next()
	if strings.HasPrefix(tok, "?") {
		return filterOperand{isVar: true, varName: strings.TrimPrefix(tok, "?")}, nil
	}
	term, err := p.resolveTermToken(tok)
	if err != nil {
		return filterOperand{}, err
	}
	return filterOperand{literal: term}, nil
}

func (p *parser) resolveTermToken(tok string) (rdf.Term, error) {
	switch {
	case strings.HasPrefix(tok, "<"):
		iri, err := stripIRI(tok)
		if err != nil {
			return rdf.Term{}, err
		}
		return rdf.NewIRI(iri), nil
	case strings.HasPrefix(tok, "_:"):
		return rdf.NewBlankNode(strings.TrimPrefix(tok, "_:")), nil
	case strings.HasPrefix(tok, "\""):
		return parseQueryLiteral(tok)
	case tok == "true" || tok == "false":
		return rdf.NewLiteral(tok, "http://www.w3.org/2001/XMLSchema#boolean", ""), nil
	default:
		idx := strings.IndexByte(tok, ':')
		if idx < 0 {
			if isNumericToken(tok) {
				dt := "http://www.w3.org/2001/XMLSchema#integer"
				if strings.ContainsAny(tok, ".eE") {
					dt = "http://www.w3.org/2001/XMLSchema#double"
				}
				return rdf.NewLiteral(tok, dt, ""), nil
			}
			return rdf.Term{}, fmt.Errorf("unrecognised term %q", tok)
		}
		ns, local := tok[:idx], tok[idx+1:]
		base, ok := p.prefixes[ns]
		if !ok {
			return rdf.Term{}, fmt.Errorf("unknown prefix %q", ns)
		}
		return rdf.NewIRI(base + local), nil
	}
}

func isNumericToken(tok string) bool {
	if tok == "" {
		return false
	}
	for i, r := range tok {
		if r == '-' && i == 0 {
			continue
		}
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

func parseQueryLiteral(tok string) (rdf.Term, error) {
	i := 1
	for i < len(tok) {
		if tok[i] == '\\' {
			i += 2
			continue
		}
		if tok[i] == '"' {
			break
		}
		i++
	}
	value := unescapeQueryLiteral(tok[1:i])
	rest := tok[i+1:]
	if strings.HasPrefix(rest, "@") {
		return rdf.NewLiteral(value, "", rest[1:]), nil
	}
	if strings.HasPrefix(rest, "^^") {
		dt := strings.TrimPrefix(rest, "^^")
		iri, err := stripIRI(dt)
		if err != nil {
			return rdf.Term{}, err
		}
		return rdf.NewLiteral(value, iri, ""), nil
	}
	return rdf.NewLiteral(value, "http://www.w3.org/2001/XMLSchema#string", ""), nil
}

func unescapeQueryLiteral(s string) string {
	replacer := strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`, `\\`, `\`)
	return replacer.Replace(s)
}

func stripIRI(tok string) (string, error) {
	if !strings.HasPrefix(tok, "<") || !strings.HasSuffix(tok, ">") {
		return "", fmt.Errorf("expected IRI, got %q", tok)
	}
	return tok[1 : len(tok)-1], nil
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) peekUpper() string {
	return strings.ToUpper(p.peek())
}

func (p *parser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}
