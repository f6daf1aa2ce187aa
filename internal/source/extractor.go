package source

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// declKeywords are the introducer tokens that decide a declaration's kind.
var declKeywords = map[string]SymbolKind{
	"class":     KindClass,
	"struct":    KindStruct,
	"enum":      KindEnum,
	"actor":     KindActor,
	"extension": KindExtension,
	"protocol":  KindProtocol,
}

var knownModifiers = map[string]struct{}{
	"weak": {}, "unowned": {}, "static": {}, "final": {}, "lazy": {},
	"override": {}, "nonisolated": {}, "mutating": {}, "indirect": {},
	"convenience": {}, "required": {}, "dynamic": {},
}

// extractSymbols walks the parse tree and materializes every declaration
// into a Symbol. It runs once during SourceFile construction.
func extractSymbols(f *SourceFile) []Symbol {
	if f.tree == nil {
		return nil
	}
	w := &symbolWalker{file: f}
	w.walk(f.tree.RootNode(), nil)
	return w.symbols
}

type symbolWalker struct {
	file    *SourceFile
	symbols []Symbol
}

func (w *symbolWalker) walk(node *sitter.Node, parent *Symbol) {
	if node == nil {
		return
	}

	current := parent
	if sym := w.extract(node, parent); sym != nil {
		w.symbols = append(w.symbols, *sym)
		current = sym
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.walk(node.NamedChild(i), current)
	}
}

// extract turns a declaration node into a Symbol, or returns nil for
// non-declaration nodes.
func (w *symbolWalker) extract(node *sitter.Node, parent *Symbol) *Symbol {
	var kind SymbolKind

	switch node.Type() {
	case "class_declaration", "struct_declaration", "enum_declaration",
		"actor_declaration", "extension_declaration":
		kind = w.declarationKind(node)
	case "protocol_declaration":
		kind = KindProtocol
	case "function_declaration":
		kind = KindFunction
	case "init_declaration":
		kind = KindInitializer
	case "property_declaration":
		// Locals inside function bodies are not part of the symbol table.
		if parent != nil && (parent.Kind == KindFunction || parent.Kind == KindInitializer) {
			return nil
		}
		kind = KindVariable
	case "typealias_declaration":
		kind = KindTypeAlias
	case "enum_entry":
		kind = KindEnumCase
	default:
		return nil
	}

	name := w.declarationName(node, kind)
	if name == "" {
		return nil
	}

	qualified := name
	var parentID SymbolID
	if parent != nil {
		qualified = parent.QualifiedName + "." + name
		parentID = parent.ID
	}

	loc := w.file.LocationOf(node)
	sym := &Symbol{
		ID:            BuildSymbolID(w.file.module, qualified, kind, w.file.path, loc.Line),
		Name:          name,
		QualifiedName: qualified,
		Module:        w.file.module,
		Kind:          kind,
		Location:      loc,
		EndLine:       int(node.EndPoint().Row) + 1,
		Accessibility: AccessInternal,
		Parent:        parentID,
	}
	w.scanHeader(node, sym)
	return sym
}

// declarationKind resolves which introducer keyword a class_declaration
// style node actually carries.
func (w *symbolWalker) declarationKind(node *sitter.Node) SymbolKind {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if k, ok := declKeywords[child.Type()]; ok {
			return k
		}
		if !child.IsNamed() {
			if k, ok := declKeywords[child.Content(w.file.src)]; ok {
				return k
			}
		}
	}
	return KindClass
}

func (w *symbolWalker) declarationName(node *sitter.Node, kind SymbolKind) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return n.Content(w.file.src)
	}
	switch kind {
	case KindInitializer:
		return "init"
	case KindVariable:
		// Name lives inside the binding pattern.
		if id := firstDescendantOfType(node, "simple_identifier"); id != nil {
			return id.Content(w.file.src)
		}
	case KindExtension:
		if id := firstDescendantOfType(node, "type_identifier", "user_type"); id != nil {
			return normalizeTypeName(id.Content(w.file.src))
		}
	case KindEnumCase:
		if id := firstDescendantOfType(node, "simple_identifier"); id != nil {
			return id.Content(w.file.src)
		}
	}
	return ""
}

// scanHeader fills accessibility, modifiers, attributes and the
// inheritance clause by scanning the declaration's children up to its body.
func (w *symbolWalker) scanHeader(node *sitter.Node, sym *Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_body", "enum_class_body", "protocol_body", "function_body", "code_block":
			return
		case "inheritance_specifier":
			if t := normalizeTypeName(child.Content(w.file.src)); t != "" {
				sym.InheritedTypes = append(sym.InheritedTypes, t)
			}
		case "attribute":
			sym.Attributes = append(sym.Attributes, strings.TrimSpace(child.Content(w.file.src)))
		case "modifiers":
			w.scanModifierList(child, sym)
		default:
			w.applyModifierText(child.Content(w.file.src), sym)
		}
	}
}

func (w *symbolWalker) scanModifierList(node *sitter.Node, sym *Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "attribute" {
			sym.Attributes = append(sym.Attributes, strings.TrimSpace(child.Content(w.file.src)))
			continue
		}
		w.applyModifierText(child.Content(w.file.src), sym)
	}
}

func (w *symbolWalker) applyModifierText(text string, sym *Symbol) {
	text = strings.TrimSpace(text)
	switch text {
	case "public":
		sym.Accessibility = AccessPublic
	case "open":
		sym.Accessibility = AccessOpen
	case "private":
		sym.Accessibility = AccessPrivate
	case "fileprivate":
		sym.Accessibility = AccessFilePrivate
	case "internal":
		sym.Accessibility = AccessInternal
	default:
		if strings.HasPrefix(text, "@") && !strings.Contains(text, "\n") {
			sym.Attributes = append(sym.Attributes, text)
			return
		}
		if _, ok := knownModifiers[text]; ok {
			sym.Modifiers = append(sym.Modifiers, text)
		}
	}
}

// firstDescendantOfType finds the first named descendant matching any of
// the given types, depth first.
func firstDescendantOfType(node *sitter.Node, types ...string) *sitter.Node {
	want := make(map[string]struct{}, len(types))
	for _, t := range types {
		want[t] = struct{}{}
	}
	var visit func(n *sitter.Node) *sitter.Node
	visit = func(n *sitter.Node) *sitter.Node {
		if n == nil {
			return nil
		}
		if _, ok := want[n.Type()]; ok {
			return n
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if found := visit(n.NamedChild(i)); found != nil {
				return found
			}
		}
		return nil
	}
	return visit(node)
}
