package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/patlang/repat/syntax"
)

var (
	parseJSONOutput bool
	showSpans       bool
)

var parseCmd = &cobra.Command{
	Use:   "parse PATTERN",
	Short: "Parse a single pattern and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := args[0]
		anchor := syntax.Position{Filename: "<arg>", Line: 1, Column: 1}

		node, err := syntax.ParseAt(pattern, anchor)
		if err != nil {
			reportParseError(pattern, err)
			os.Exit(1)
		}

		if parseJSONOutput {
			d, err := json.MarshalIndent(astValue(node), "", "  ")
			if err != nil {
				logger.Error("Error marshalling AST to JSON", zap.Error(err))
				os.Exit(1)
			}
			fmt.Println(string(d))
			return
		}

		if showSpans {
			printTree(node, 0)
			return
		}
		fmt.Println(node)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSONOutput, "json", false, "Output the syntax tree in JSON format")
	parseCmd.Flags().BoolVar(&showSpans, "pos", false, "Show the source span of every node")
}

// reportParseError prints the pattern with a caret under the failing offset.
func reportParseError(pattern string, err error) {
	var perr *syntax.ParseError
	if !errors.As(err, &perr) {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintln(os.Stderr, pattern)
	fmt.Fprintln(os.Stderr, strings.Repeat(" ", perr.Offset)+"^")
	fmt.Fprintf(os.Stderr, "error: %s\n", perr.Msg)
}

func printTree(n syntax.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s %s\n", indent, n.Kind(), nodeLabel(n), n.Span())
	for _, child := range childNodes(n) {
		printTree(child, depth+1)
	}
}

func nodeLabel(n syntax.Node) string {
	switch n := n.(type) {
	case *syntax.Atom:
		return fmt.Sprintf("%q", n.Source)
	case *syntax.Repeat:
		return n.Bounds.String()
	case *syntax.CaptureAs:
		return n.Name.Name
	case *syntax.Call:
		return n.Name.Name
	}
	return "-"
}

func childNodes(n syntax.Node) []syntax.Node {
	switch n := n.(type) {
	case *syntax.Sequence:
		return n.Items
	case *syntax.Alternation:
		return n.Alts
	case *syntax.Optional:
		return []syntax.Node{n.X}
	case *syntax.Repeat:
		return []syntax.Node{n.X}
	case *syntax.Capture:
		return []syntax.Node{n.X}
	case *syntax.CaptureAs:
		return []syntax.Node{n.X}
	}
	return nil
}

// astValue builds the JSON shape of a node.
func astValue(n syntax.Node) map[string]any {
	m := map[string]any{"kind": n.Kind().String()}
	if showSpans && n.Span().IsValid() {
		m["span"] = n.Span().String()
	}
	switch n := n.(type) {
	case *syntax.Atom:
		m["source"] = n.Source
	case *syntax.Sequence:
		m["items"] = astList(n.Items)
	case *syntax.Alternation:
		m["alts"] = astList(n.Alts)
	case *syntax.Optional:
		m["node"] = astValue(n.X)
	case *syntax.Repeat:
		m["min"] = n.Bounds.Min
		if n.Bounds.Max != syntax.Unbounded {
			m["max"] = n.Bounds.Max
		}
		m["node"] = astValue(n.X)
	case *syntax.Capture:
		m["node"] = astValue(n.X)
	case *syntax.CaptureAs:
		m["name"] = n.Name.Name
		m["node"] = astValue(n.X)
	case *syntax.Call:
		m["name"] = n.Name.Name
	}
	return m
}

func astList(nodes []syntax.Node) []map[string]any {
	values := make([]map[string]any, len(nodes))
	for i, node := range nodes {
		values[i] = astValue(node)
	}
	return values
}
