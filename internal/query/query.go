// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query builds parameterized SQL WHERE clauses from a small, closed
// set of typed predicates. Column names come from values created with
// MustColumn; user input only ever reaches the database as bound arguments.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

// Column is a validated SQL column reference such as "a.title".
type Column struct {
	name string
}

// MustColumn validates name as a (optionally table-qualified) lower-case
// identifier. It panics on anything else and is meant for package-level
// declarations.
func MustColumn(name string) Column {
	if !identifier.MatchString(name) {
		panic(fmt.Sprintf("query: invalid column %q", name))
	}
	return Column{name: name}
}

// String returns the column reference.
func (c Column) String() string { return c.name }

// Predicate is a node in a WHERE clause tree.
type Predicate interface {
	render(b *builder)
}

type builder struct {
	sb    strings.Builder
	args  []any
	first int
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(b.first+len(b.args)-1)
}

type eq struct {
	col Column
	val any
}

func (p eq) render(b *builder) {
	b.sb.WriteString(p.col.name + " = " + b.bind(p.val))
}

// Eq matches rows where col equals val.
func Eq(col Column, val any) Predicate { return eq{col: col, val: val} }

type ilike struct {
	col Column
	sub string
}

func (p ilike) render(b *builder) {
	b.sb.WriteString(p.col.name + " ILIKE " + b.bind("%"+EscapeLike(p.sub)+"%") + ` ESCAPE '\'`)
}

// ILike matches rows where col contains sub, ignoring case. LIKE wildcards
// in sub are matched literally.
func ILike(col Column, sub string) Predicate { return ilike{col: col, sub: sub} }

type isTrue struct {
	col Column
}

func (p isTrue) render(b *builder) {
	b.sb.WriteString(p.col.name + " IS TRUE")
}

// IsTrue matches rows where a boolean column is true.
func IsTrue(col Column) Predicate { return isTrue{col: col} }

type group struct {
	op    string
	empty string
	parts []Predicate
}

func (g group) render(b *builder) {
	switch len(g.parts) {
	case 0:
		b.sb.WriteString(g.empty)
		return
	case 1:
		g.parts[0].render(b)
		return
	}
	b.sb.WriteByte('(')
	for i, p := range g.parts {
		if i > 0 {
			b.sb.WriteString(" " + g.op + " ")
		}
		p.render(b)
	}
	b.sb.WriteByte(')')
}

func compact(ps []Predicate) []Predicate {
	out := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// And matches rows satisfying every predicate. Nil predicates are skipped;
// an empty And matches everything.
func And(ps ...Predicate) Predicate {
	return group{op: "AND", empty: "TRUE", parts: compact(ps)}
}

// Or matches rows satisfying at least one predicate. Nil predicates are
// skipped; an empty Or matches nothing.
func Or(ps ...Predicate) Predicate {
	return group{op: "OR", empty: "FALSE", parts: compact(ps)}
}

// Where renders p as a SQL boolean expression. Placeholders are numbered
// from first, so the clause can follow other bound arguments. A nil p
// renders as TRUE.
func Where(p Predicate, first int) (string, []any) {
	if p == nil {
		return "TRUE", nil
	}
	b := &builder{first: first}
	p.render(b)
	return b.sb.String(), b.args
}

// EscapeLike escapes the LIKE metacharacters %, _ and \ in s.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
