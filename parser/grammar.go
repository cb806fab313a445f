package parser

import (
	"github.com/ava12/yydrive"
	"github.com/ava12/yydrive/grammar"
	"github.com/ava12/yydrive/internal/ints"
)

// Error codes for grammars that cannot be parsed predictively:
const (
	LeftRecursionError = yydrive.SyntaxErrors + iota
	ConflictError
	NullableLoopError
)

func leftRecursionError(name string) *yydrive.Error {
	return yydrive.FormatError(LeftRecursionError, "non-terminal %s is left-recursive", name)
}

func conflictError(nonTerm string, a, b grammar.Expr) *yydrive.Error {
	return yydrive.FormatError(ConflictError, "conflicting alternatives %s and %s in %s", a, b, nonTerm)
}

func nullableLoopError(nonTerm string, e grammar.Expr) *yydrive.Error {
	return yydrive.FormatError(NullableLoopError, "body of %s in %s may be empty", e, nonTerm)
}

// node is a compiled grammar expression.
type node struct {
	expr     grammar.Expr
	kind     grammar.ExprKind
	term     int // terminal id for token and literal nodes
	nonTerm  int // non-terminal index for reference nodes
	items    []*node
	first    *ints.Set
	nullable bool

	// for sequences: FIRST and nullability of items[i+1:]
	restFirst    []*ints.Set
	restNullable []bool
}

type compiler struct {
	p *Parser
}

func (c compiler) terminal(key string) int {
	id, f := c.p.termIds[key]
	if !f {
		id = len(c.p.terms)
		c.p.termIds[key] = id
		c.p.terms = append(c.p.terms, key)
	}
	return id
}

func (c compiler) build(e grammar.Expr) *node {
	n := &node{expr: e, kind: e.Kind, term: -1, nonTerm: -1, first: ints.NewSet()}
	switch e.Kind {
	case grammar.TokenExpr:
		n.term = c.terminal(tokenKey(e.Name))
		n.first.Add(n.term)
	case grammar.LiteralExpr:
		n.term = c.terminal(literalKey(e.Name))
		n.first.Add(n.term)
	case grammar.NonTermExpr:
		n.nonTerm = c.p.grammar.NonTermIndex(e.Name)
	case grammar.OptExpr, grammar.RepExpr:
		if len(e.Items) == 1 {
			n.items = []*node{c.build(e.Items[0])}
		} else {
			n.items = []*node{c.build(grammar.Seq(e.Items...))}
		}
		n.nullable = true
	default:
		n.items = make([]*node, len(e.Items))
		for i, item := range e.Items {
			n.items[i] = c.build(item)
		}
	}
	return n
}

// update recomputes FIRST set and nullability of n and its subtree, reports whether anything changed.
func (c compiler) update(n *node) bool {
	changed := false
	for _, item := range n.items {
		if c.update(item) {
			changed = true
		}
	}

	nullable := n.nullable
	switch n.kind {
	case grammar.NonTermExpr:
		body := c.p.nonTerms[n.nonTerm]
		nullable = body.nullable
		if n.first.Union(body.first) {
			changed = true
		}

	case grammar.SeqExpr:
		nullable = true
		for _, item := range n.items {
			if n.first.Union(item.first) {
				changed = true
			}
			if !item.nullable {
				nullable = false
				break
			}
		}

	case grammar.AltExpr:
		for _, item := range n.items {
			if n.first.Union(item.first) {
				changed = true
			}
			nullable = nullable || item.nullable
		}

	case grammar.OptExpr, grammar.RepExpr:
		if n.first.Union(n.items[0].first) {
			changed = true
		}
	}

	if nullable != n.nullable {
		n.nullable = nullable
		changed = true
	}
	return changed
}

func (c compiler) finishSeqs(n *node) {
	for _, item := range n.items {
		c.finishSeqs(item)
	}
	if n.kind != grammar.SeqExpr {
		return
	}

	size := len(n.items)
	n.restFirst = make([]*ints.Set, size)
	n.restNullable = make([]bool, size)
	first := ints.NewSet()
	nullable := true
	for i := size - 1; i >= 0; i-- {
		n.restFirst[i] = first.Copy()
		n.restNullable[i] = nullable
		item := n.items[i]
		if item.nullable {
			first.Union(item.first)
		} else {
			first = item.first.Copy()
			nullable = false
		}
	}
}

func (c compiler) check(n *node, nonTerm string) error {
	for _, item := range n.items {
		if e := c.check(item, nonTerm); e != nil {
			return e
		}
	}

	switch n.kind {
	case grammar.AltExpr:
		var nullableItem *node
		for i, a := range n.items {
			if a.nullable {
				if nullableItem != nil {
					return conflictError(nonTerm, nullableItem.expr, a.expr)
				}
				nullableItem = a
			}
			for _, b := range n.items[i+1:] {
				if !ints.Intersect(a.first, b.first).IsEmpty() {
					return conflictError(nonTerm, a.expr, b.expr)
				}
			}
		}

	case grammar.OptExpr, grammar.RepExpr:
		if n.items[0].nullable {
			return nullableLoopError(nonTerm, n.expr)
		}
	}
	return nil
}

func leftRefs(n *node, refs *ints.Set) {
	switch n.kind {
	case grammar.NonTermExpr:
		refs.Add(n.nonTerm)
	case grammar.SeqExpr:
		for _, item := range n.items {
			leftRefs(item, refs)
			if !item.nullable {
				break
			}
		}
	case grammar.AltExpr, grammar.OptExpr, grammar.RepExpr:
		for _, item := range n.items {
			leftRefs(item, refs)
		}
	}
}

func (c compiler) checkLeftRecursion() error {
	const (
		unvisited = iota
		visiting
		done
	)

	bodies := c.p.nonTerms
	edges := make([][]int, len(bodies))
	for i, body := range bodies {
		refs := ints.NewSet()
		leftRefs(body, refs)
		edges[i] = refs.ToSlice()
	}

	marks := make([]int, len(bodies))
	var visit func(i int) error
	visit = func(i int) error {
		marks[i] = visiting
		for _, j := range edges[i] {
			switch marks[j] {
			case visiting:
				return leftRecursionError(c.p.grammar.NonTerms[j].Name)
			case unvisited:
				if e := visit(j); e != nil {
					return e
				}
			}
		}
		marks[i] = done
		return nil
	}

	for i := range bodies {
		if marks[i] == unvisited {
			if e := visit(i); e != nil {
				return e
			}
		}
	}
	return nil
}

func (c compiler) compile() error {
	g := c.p.grammar
	for _, t := range g.Tokens {
		if t.Flags&(grammar.AsideToken|grammar.ErrorToken) == 0 {
			c.terminal(tokenKey(t.Name))
		}
	}

	c.p.nonTerms = make([]*node, len(g.NonTerms))
	for i, nt := range g.NonTerms {
		c.p.nonTerms[i] = c.build(nt.Body)
	}
	for _, text := range g.Sync {
		c.p.sync.Add(c.terminal(literalKey(text)))
	}
	c.p.eofId = c.terminal(tokenKey(EofToken))

	for changed := true; changed; {
		changed = false
		for _, body := range c.p.nonTerms {
			if c.update(body) {
				changed = true
			}
		}
	}

	if e := c.checkLeftRecursion(); e != nil {
		return e
	}

	for i, body := range c.p.nonTerms {
		if e := c.check(body, g.NonTerms[i].Name); e != nil {
			return e
		}
		c.finishSeqs(body)
	}
	return nil
}
