package source

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// ScanReferences walks a file's tree and records every use-site of a name.
// It is called by the global graph builder, once per file per run.
func ScanReferences(f *SourceFile) []SymbolReference {
	if f.Tree() == nil {
		return nil
	}
	s := &referenceScanner{file: f}
	s.walk(f.Tree().RootNode(), "")
	return s.refs
}

type referenceScanner struct {
	file *SourceFile
	refs []SymbolReference
}

func (s *referenceScanner) walk(node *sitter.Node, scope string) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "class_declaration", "struct_declaration", "enum_declaration",
		"actor_declaration", "extension_declaration", "protocol_declaration",
		"function_declaration", "init_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			inner := name.Content(s.file.src)
			if scope != "" {
				inner = scope + "." + inner
			}
			s.scanInheritance(node, inner)
			s.walkChildren(node, inner)
			return
		}
	case "call_expression":
		s.addCall(node, scope)
	case "navigation_expression":
		s.addNavigation(node, scope)
	case "type_identifier", "user_type":
		s.add(node, normalizeTypeName(node.Content(s.file.src)), RefTypeReference, scope, "")
	case "simple_identifier":
		if !s.insideHandledExpression(node) {
			s.add(node, node.Content(s.file.src), RefIdentifier, scope, "")
		}
	}

	s.walkChildren(node, scope)
}

func (s *referenceScanner) walkChildren(node *sitter.Node, scope string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		s.walk(node.NamedChild(i), scope)
	}
}

// scanInheritance records superclass and conformance entries of a type
// declaration header.
func (s *referenceScanner) scanInheritance(node *sitter.Node, scope string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "inheritance_specifier" {
			continue
		}
		name := normalizeTypeName(child.Content(s.file.src))
		kind := RefConformance
		// First entry starting with an uppercase letter and no protocol
		// suffix heuristically stays a conformance; class inheritance and
		// protocol conformance are not distinguishable without resolution.
		s.add(child, name, kind, scope, "")
	}
}

func (s *referenceScanner) addCall(node *sitter.Node, scope string) {
	callee := node.NamedChild(0)
	if callee == nil {
		return
	}
	name := callee.Content(s.file.src)
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name = name[dot+1:]
	}
	name = normalizeTypeName(name)
	if name == "" {
		return
	}
	kind := RefCall
	if r := []rune(name)[0]; unicode.IsUpper(r) {
		// Capitalized callee is almost always Type(...) initialization.
		kind = RefInitializer
	}
	s.add(node, name, kind, scope, "")
}

func (s *referenceScanner) addNavigation(node *sitter.Node, scope string) {
	if node.NamedChildCount() < 2 {
		return
	}
	base := node.NamedChild(0).Content(s.file.src)
	member := node.NamedChild(int(node.NamedChildCount()) - 1).Content(s.file.src)
	member = strings.TrimPrefix(member, ".")
	if member == "" {
		return
	}
	s.refs = append(s.refs, SymbolReference{
		Name:       member,
		Expression: node.Content(s.file.src),
		Kind:       RefPropertyAccess,
		Location:   s.file.LocationOf(node),
		Scope:      scope,
		BaseType:   normalizeTypeName(base),
	})
}

// insideHandledExpression suppresses bare-identifier records for nodes a
// more specific case already covers.
func (s *referenceScanner) insideHandledExpression(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "call_expression", "navigation_expression", "navigation_suffix",
		"function_declaration", "class_declaration", "protocol_declaration",
		"pattern", "simple_identifier":
		return true
	}
	return false
}

func (s *referenceScanner) add(node *sitter.Node, name string, kind ReferenceKind, scope, baseType string) {
	if name == "" {
		return
	}
	s.refs = append(s.refs, SymbolReference{
		Name:       name,
		Expression: node.Content(s.file.src),
		Kind:       kind,
		Location:   s.file.LocationOf(node),
		Scope:      scope,
		BaseType:   baseType,
	})
}
