package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"mend/internal/source"
	"mend/internal/syntax"
)

// FormatTreeOutline writes the indented one-node-per-line form.
func FormatTreeOutline(w io.Writer, tree *syntax.Tree) error {
	return syntax.Dump(w, tree)
}

// FormatTreeASCII draws the tree top-down:
//
//	Binary "+"
//	   / | \
//	   a   b
func FormatTreeASCII(w io.Writer, tree *syntax.Tree, fs *source.FileSet) error {
	if tree == nil || tree.Root == nil {
		_, err := fmt.Fprintln(w, "<empty>")
		return err
	}
	block := renderTree(buildTreeNode(tree, tree.RootID(), fs))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// NodeJSON is one syntax node in `mend tree --format json`.
type NodeJSON struct {
	ID       syntax.NodeID `json:"id"`
	Kind     string        `json:"kind"`
	Span     string        `json:"span"`
	Text     string        `json:"text,omitempty"`
	Missing  bool          `json:"missing,omitempty"`
	Children []*NodeJSON   `json:"children,omitempty"`
}

// FormatTreeJSON writes the tree as nested JSON objects.
func FormatTreeJSON(w io.Writer, tree *syntax.Tree, fs *source.FileSet) error {
	var root *NodeJSON
	if tree != nil && tree.Root != nil {
		root = buildNodeJSON(tree, tree.RootID(), fs)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func buildNodeJSON(tree *syntax.Tree, id syntax.NodeID, fs *source.FileSet) *NodeJSON {
	n := tree.Node(id)
	out := &NodeJSON{ID: id, Kind: n.Kind.String(), Span: formatSpan(tree.Span(id), fs)}
	if n.Kind.IsLeaf() {
		out.Text = n.Token.Text
		out.Missing = n.Token.Missing
	}
	for _, c := range tree.Children(id) {
		out.Children = append(out.Children, buildNodeJSON(tree, c, fs))
	}
	return out
}

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// buildTreeNode: листья подписываются своим текстом, внутренние узлы — видом
// и оператором, если он есть. Пунктуация (скобки, ';') в рисунок не попадает.
func buildTreeNode(tree *syntax.Tree, id syntax.NodeID, fs *source.FileSet) *treeNode {
	n := tree.Node(id)
	node := &treeNode{label: nodeLabel(tree, id, fs)}
	if n.Kind.IsLeaf() {
		return node
	}
	for _, c := range tree.Children(id) {
		cn := tree.Node(c)
		if cn.Kind == syntax.KindToken && !cn.Token.Missing {
			continue
		}
		node.children = append(node.children, buildTreeNode(tree, c, fs))
	}
	return node
}

func nodeLabel(tree *syntax.Tree, id syntax.NodeID, fs *source.FileSet) string {
	n := tree.Node(id)
	switch {
	case n.Kind.IsLeaf() && n.Token.Missing:
		return "<missing " + n.Token.Kind.String() + ">"
	case n.Kind.IsLeaf():
		return n.Token.Text
	case n.Kind == syntax.KindFile && fs != nil:
		if f := fs.Get(tree.File); f != nil {
			return fmt.Sprintf("%s (span: %s)", f.FormatPath("auto", fs.BaseDir()), formatSpan(tree.Span(id), fs))
		}
	case n.Kind == syntax.KindBinary || n.Kind == syntax.KindUnary:
		return n.Kind.String() + " " + strconv.Quote(n.OperatorKind().Spelling())
	}
	return n.Kind.String()
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art representation.
//
// The returned treeBlock.lines are the rendered lines of the node and its
// descendants; width is the display width of the block and root is the
// column of the root's vertical connector. Widths are display cells, so
// wide identifiers line up.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth, rootPos+1)
	rootLine := padRight(strings.Repeat(" ", shift)+label, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	lines := make([]string, 0, 2+maxChildHeight)
	lines = append(lines, rootLine, string(connector))
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(padRight(line, block.width))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		lines = append(lines, padRight(sb.String(), width))
	}

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
