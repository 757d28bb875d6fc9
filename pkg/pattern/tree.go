package pattern

import "strconv"

// Node is one element of a parsed pattern tree. The tree makes the
// grammar's structure explicit without expanding it: groups and transform
// calls hold their sub-tokens as children instead of raw text. The compiler
// does not consume trees; they exist for inspection and rendering.
type Node struct {
	Token Token
	// Children are the parsed bracket contents of group and transform
	// nodes, nil for leaves.
	Children []*Node
}

// Parse builds pattern trees for the top-level tokens of text, honoring the
// same recursion bound as compilation. Malformed tokens appear in the tree
// as [KindMalformed] leaves so a rendering can show exactly what the
// compiler would skip; tokenizer failures are soft here just as they are in
// [Compile].
func Parse(text string, opts Options) []*Node {
	opts.setDefaults()
	return parseLevel(text, 0, opts)
}

func parseLevel(text string, depth int, opts Options) []*Node {
	tokens, _ := Tokenize(text)

	nodes := make([]*Node, 0, len(tokens))
	for _, raw := range tokens {
		tok := Classify(raw)
		node := &Node{Token: tok}
		switch tok.Kind {
		case KindGroup, KindGroupRepeat, KindTransform:
			if depth < opts.MaxDepth {
				node.Children = parseLevel(tok.Inner, depth+1, opts)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Label returns a short human-readable description of the node for
// diagnostics and rendered trees.
func (n *Node) Label() string {
	tok := n.Token
	switch tok.Kind {
	case KindLiteral:
		return tok.Value
	case KindDirectRepeat:
		return tok.Text
	case KindGroup:
		return "group"
	case KindGroupRepeat:
		return "group *" + strconv.Itoa(tok.Count)
	case KindTransform:
		if tok.HasParam {
			return tok.Name + " " + strconv.Itoa(tok.Param)
		}
		return tok.Name
	default:
		return "malformed: " + clip(tok.Text, 20)
	}
}
