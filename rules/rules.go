// Package rules loads named pattern sets from YAML files and checks them.
// It is the collaborator side of the parser: it supplies each pattern's
// source location as the parse anchor and resolves call references between
// the patterns of a set.
package rules

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/patlang/repat/internal/types"
	"github.com/patlang/repat/syntax"
)

// Rule names reported by Check.
const (
	InvalidPattern      = "invalid-pattern"
	UnresolvedReference = "unresolved-reference"
)

// Pattern is one named pattern of a set, anchored at its scalar node in the
// YAML source so that parse diagnostics point into the file.
type Pattern struct {
	Name   string
	Source string
	Anchor syntax.Position
}

// Set is a named collection of patterns loaded from one file. Call
// references are resolved against the set's own pattern names.
type Set struct {
	Name     string
	File     string
	Patterns map[string]*Pattern

	order  []string
	parsed map[string]syntax.Node
}

// LoadFile reads and decodes the pattern-set file at path.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, path)
}

// Load decodes a pattern-set document. Decoding goes through yaml.Node so
// each pattern scalar keeps its line and column for use as a parse anchor.
func Load(r io.Reader, filename string) (*Set, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("%s: empty document", filename)
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: a pattern set must be a mapping", filename)
	}

	set := &Set{
		File:     filename,
		Patterns: make(map[string]*Pattern),
		parsed:   make(map[string]syntax.Node),
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name":
			set.Name = value.Value
		case "patterns":
			if value.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%s:%d: patterns must be a mapping", filename, value.Line)
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				nameNode, patNode := value.Content[j], value.Content[j+1]
				if _, dup := set.Patterns[nameNode.Value]; dup {
					return nil, fmt.Errorf("%s:%d: duplicate pattern %q", filename, nameNode.Line, nameNode.Value)
				}
				p := &Pattern{
					Name:   nameNode.Value,
					Source: patNode.Value,
					Anchor: scalarAnchor(filename, patNode),
				}
				set.Patterns[p.Name] = p
				set.order = append(set.order, p.Name)
			}
		}
	}
	return set, nil
}

// scalarAnchor derives the parse anchor for a pattern scalar. Quoted scalars
// start their content one column past the quote. Columns inside the pattern
// can still drift from the file when the scalar uses YAML escapes; that is
// accepted, the line is what matters for diagnostics.
func scalarAnchor(filename string, n *yaml.Node) syntax.Position {
	col := n.Column
	if n.Style == yaml.SingleQuotedStyle || n.Style == yaml.DoubleQuotedStyle {
		col++
	}
	return syntax.Position{Filename: filename, Line: n.Line, Column: col}
}

// Check parses every pattern in declaration order and verifies that every
// call reference resolves within the set. Each pattern contributes at most
// one parse issue (the parse stops at its first error) plus one issue per
// unresolved reference.
func (s *Set) Check() []types.Issue {
	var issues []types.Issue
	for _, name := range s.order {
		pat := s.Patterns[name]
		node, err := s.parse(pat)
		if err != nil {
			issues = append(issues, parseIssue(s.File, pat, err))
			continue
		}
		issues = append(issues, s.checkCalls(pat, node)...)
	}
	return issues
}

func parseIssue(filename string, pat *Pattern, err error) types.Issue {
	issue := types.Issue{
		Rule:     InvalidPattern,
		Category: "syntax",
		Filename: filename,
		Message:  fmt.Sprintf("pattern %q: %v", pat.Name, err),
		Severity: types.SeverityError,
		Start:    pat.Anchor,
		End:      pat.Anchor,
	}
	if perr, ok := err.(*syntax.ParseError); ok {
		issue.Message = fmt.Sprintf("pattern %q: %s", pat.Name, perr.Msg)
		issue.Start = perr.Pos
		issue.End = perr.Pos
	}
	return issue
}

func (s *Set) checkCalls(pat *Pattern, node syntax.Node) []types.Issue {
	var issues []types.Issue
	syntax.Walk(node, func(n syntax.Node) bool {
		call, ok := n.(*syntax.Call)
		if !ok {
			return true
		}
		if _, found := s.lookup(call.Name.Name); !found {
			issues = append(issues, types.Issue{
				Rule:     UnresolvedReference,
				Category: "reference",
				Filename: s.File,
				Message:  fmt.Sprintf("pattern %q calls undefined pattern %q", pat.Name, call.Name.Name),
				Note:     "call references resolve against the pattern names of this set",
				Severity: types.SeverityError,
				Start:    call.Name.Span().Start,
				End:      call.Name.Span().End,
			})
		}
		return true
	})
	return issues
}

// lookup resolves a call target: a bare pattern name, or the set name and a
// pattern name joined with a dot.
func (s *Set) lookup(ref string) (*Pattern, bool) {
	if p, ok := s.Patterns[ref]; ok {
		return p, true
	}
	if s.Name != "" {
		if rest, ok := strings.CutPrefix(ref, s.Name+"."); ok {
			p, ok := s.Patterns[rest]
			return p, ok
		}
	}
	return nil, false
}

// Resolve returns the parsed tree of a named pattern. The tree is built at
// most once per pattern and shared between calls; it is immutable.
func (s *Set) Resolve(name string) (syntax.Node, error) {
	pat, ok := s.lookup(name)
	if !ok {
		return nil, fmt.Errorf("no pattern %q in set %q", name, s.Name)
	}
	return s.parse(pat)
}

func (s *Set) parse(pat *Pattern) (syntax.Node, error) {
	if node, ok := s.parsed[pat.Name]; ok {
		return node, nil
	}
	node, err := syntax.ParseAt(pat.Source, pat.Anchor)
	if err != nil {
		return nil, err
	}
	s.parsed[pat.Name] = node
	return node, nil
}
