// Package jsparse wraps go-tree-sitter for the grammars debarrel needs
// (JavaScript, TypeScript, TSX), adapted from the teacher's own
// source-scanning parser so the barrel validator and import rewriter
// can walk and splice real module ASTs.
package jsparse

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// treeSitterMu serialises all parse calls. The underlying C library is
// not safe for concurrent use across goroutines sharing parser state,
// so every Parser funnels through one lock regardless of how many
// source files the host compiler transforms in parallel.
var treeSitterMu sync.Mutex

// Parser selects a tree-sitter grammar by file extension and parses
// source into a tree.
type Parser struct {
	js  *sitter.Language
	ts  *sitter.Language
	tsx *sitter.Language
}

func NewParser() *Parser {
	return &Parser{
		js:  javascript.GetLanguage(),
		ts:  tslang.GetLanguage(),
		tsx: tsxlang.GetLanguage(),
	}
}

// Parse parses content using the grammar selected by path's extension.
func (p *Parser) Parse(path string, content []byte) (*sitter.Tree, error) {
	lang, err := p.languageForPath(path)
	if err != nil {
		return nil, err
	}

	treeSitterMu.Lock()
	defer treeSitterMu.Unlock()

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree := parser.Parse(nil, content)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	return tree, nil
}

func (p *Parser) languageForPath(path string) (*sitter.Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs", ".mjs", ".jsx":
		return p.js, nil
	case ".ts", ".mts", ".cts":
		return p.ts, nil
	case ".tsx":
		return p.tsx, nil
	default:
		return nil, fmt.Errorf("unsupported extension: %s", filepath.Ext(path))
	}
}

// Walk visits every named descendant of node, depth-first, pre-order.
func Walk(node *sitter.Node, visit func(*sitter.Node)) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		visit(child)
		Walk(child, visit)
	}
}

// NodeText returns the source text spanned by node.
func NodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}

// FirstNamedChildOfType returns the first named child of node whose
// type is one of types, or nil.
func FirstNamedChildOfType(node *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		for _, typ := range types {
			if child.Type() == typ {
				return child
			}
		}
	}
	return nil
}

// ExtractStringLiteral unquotes a string-literal node's text.
func ExtractStringLiteral(node *sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	text := NodeText(node, content)
	if text == "" {
		return "", false
	}
	if len(text) >= 2 {
		quote := text[0]
		if (quote == '"' || quote == '\'') && text[len(text)-1] == quote {
			return text[1 : len(text)-1], true
		}
	}
	text = strings.Trim(text, "\"'`")
	if text == "" {
		return "", false
	}
	return text, true
}

// TopLevelStatements returns the named children of the module's root
// node — i.e. the statements the Transform Driver and Barrel Validator
// each iterate in source order.
func TopLevelStatements(tree *sitter.Tree) []*sitter.Node {
	root := tree.RootNode()
	statements := make([]*sitter.Node, 0, root.NamedChildCount())
	for i := 0; i < int(root.NamedChildCount()); i++ {
		statements = append(statements, root.NamedChild(i))
	}
	return statements
}
