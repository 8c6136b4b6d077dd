package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/doctree"
)

// Regex patterns for recognizable string and number shapes
var (
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// Time format patterns (ordered by specificity - most specific first)
	rfc3339Regex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)
	iso8601Regex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`)
	dateOnlyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`)

	unixTimestampRegex = regexp.MustCompile(`^1[0-9]{9}$`)  // seconds since 1970
	unixMilliRegex     = regexp.MustCompile(`^1[0-9]{12}$`) // milliseconds
)

// Shape names reported in Stats.Shapes
const (
	ShapeUUID      = "uuid"
	ShapeTimestamp = "timestamp"
	ShapeDate      = "date"
	ShapeUnixTime  = "unix-time"
	ShapeInteger   = "integer"
	ShapeFloat     = "float"
)

// EnumViolation is a member whose value is outside its configured options
type EnumViolation struct {
	Pointer string
	Value   string
	Allowed []string
}

// Stats summarizes a document tree
type Stats struct {
	Nodes    int
	Kinds    map[doctree.Kind]int
	MaxDepth int
	Leaves   int
	// Keys lists distinct object keys in first-seen order.
	Keys []string
	// Labeled counts objects summarized by their "type"/"id" members.
	Labeled int
	// Types counts objects by their type hint.
	Types map[string]int
	// Shapes counts scalars that look like ids, times or numbers.
	Shapes         map[string]int
	EnumViolations []EnumViolation
}

// Analyzer walks document trees and collects Stats
type Analyzer struct {
	// config holds the enum rules checked during analysis
	config *config.Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{config: config.NewConfig()}
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Analyzer{config: cfg}
}

// Analyze collects Stats with the default configuration.
func Analyze(root *doctree.Node) Stats {
	return NewAnalyzer().Analyze(root)
}

type visit struct {
	node  *doctree.Node
	depth int
}

// Analyze walks the subtree rooted at root and returns its Stats.
func (a *Analyzer) Analyze(root *doctree.Node) Stats {
	stats := Stats{
		Kinds:  make(map[doctree.Kind]int),
		Types:  make(map[string]int),
		Shapes: make(map[string]int),
	}
	if root == nil {
		return stats
	}

	seenKeys := make(map[string]bool)
	stack := []visit{{node: root}}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, p := v.node, v.node.Value()
		if p == nil {
			continue
		}

		stats.Nodes++
		stats.Kinds[p.Kind]++
		stats.MaxDepth = max(stats.MaxDepth, v.depth)
		if n.Len() == 0 {
			stats.Leaves++
		}

		if p.Key != nil && n.Parent() != nil && n.Parent().Value().Kind == doctree.Object && !seenKeys[*p.Key] {
			seenKeys[*p.Key] = true
			stats.Keys = append(stats.Keys, *p.Key)
		}

		switch p.Kind {
		case doctree.Object:
			if doctree.Label(n) != p.String() {
				stats.Labeled++
			}
			if hint, ok := doctree.TypeHint(n); ok {
				stats.Types[hint]++
			}
		case doctree.KeyValuePair, doctree.Value:
			if shape := scalarShape(p.Scalar); shape != "" {
				stats.Shapes[shape]++
			}
			if p.Key != nil {
				a.checkEnum(&stats, n)
			}
		}

		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, visit{node: children[i], depth: v.depth + 1})
		}
	}
	return stats
}

func (a *Analyzer) checkEnum(stats *Stats, n *doctree.Node) {
	p := n.Value()
	rule, ok := a.config.FindEnum(*p.Key)
	if !ok {
		return
	}
	s, isString := p.Scalar.(string)
	if isString && slices.Contains(rule.Values, s) {
		return
	}
	value := fmt.Sprint(p.Scalar)
	if isString {
		value = s
	}
	stats.EnumViolations = append(stats.EnumViolations, EnumViolation{
		Pointer: doctree.PointerOf(n),
		Value:   value,
		Allowed: rule.Values,
	})
}

func scalarShape(v any) string {
	switch s := v.(type) {
	case string:
		return analyzeString(s)
	case json.Number:
		return analyzeNumber(s)
	}
	return ""
}

func analyzeString(s string) string {
	if uuidRegex.MatchString(s) {
		return ShapeUUID
	}
	if rfc3339Regex.MatchString(s) || iso8601Regex.MatchString(s) || dateTimeRegex.MatchString(s) {
		return ShapeTimestamp
	}
	if dateOnlyRegex.MatchString(s) {
		return ShapeDate
	}
	return ""
}

func analyzeNumber(num json.Number) string {
	numStr := string(num)

	if unixTimestampRegex.MatchString(numStr) || unixMilliRegex.MatchString(numStr) {
		return ShapeUnixTime
	}
	if _, err := num.Int64(); err == nil {
		return ShapeInteger
	}
	return ShapeFloat
}

// Report renders the stats as a short human-readable summary.
func (s Stats) Report() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "nodes:     %d\n", s.Nodes)
	fmt.Fprintf(&buf, "leaves:    %d\n", s.Leaves)
	fmt.Fprintf(&buf, "max depth: %d\n", s.MaxDepth)
	fmt.Fprintf(&buf, "keys:      %d distinct\n", len(s.Keys))
	fmt.Fprintf(&buf, "labeled:   %d\n", s.Labeled)

	buf.WriteString("kinds:\n")
	for _, k := range []doctree.Kind{doctree.Object, doctree.Array, doctree.KeyValuePair, doctree.Value, doctree.Null} {
		if c := s.Kinds[k]; c > 0 {
			fmt.Fprintf(&buf, "  %-15s %d\n", k, c)
		}
	}

	writeCounts(&buf, "types", s.Types)
	writeCounts(&buf, "shapes", s.Shapes)

	if len(s.EnumViolations) > 0 {
		buf.WriteString("enum violations:\n")
		for _, v := range s.EnumViolations {
			fmt.Fprintf(&buf, "  %s: %q not in %v\n", v.Pointer, v.Value, v.Allowed)
		}
	}
	return buf.String()
}

func writeCounts(buf *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	// Sort map keys for consistent output
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(buf, "%s:\n", title)
	for _, name := range names {
		fmt.Fprintf(buf, "  %-15s %d\n", name, counts[name])
	}
}
