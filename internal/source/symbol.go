package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SymbolKind classifies a declared symbol.
type SymbolKind string

const (
	KindClass       SymbolKind = "class"
	KindStruct      SymbolKind = "struct"
	KindEnum        SymbolKind = "enum"
	KindProtocol    SymbolKind = "protocol"
	KindActor       SymbolKind = "actor"
	KindFunction    SymbolKind = "function"
	KindVariable    SymbolKind = "variable"
	KindExtension   SymbolKind = "extension"
	KindTypeAlias   SymbolKind = "typeAlias"
	KindInitializer SymbolKind = "initializer"
	KindEnumCase    SymbolKind = "enumCase"
)

// IsType reports whether the kind declares a nominal type.
func (k SymbolKind) IsType() bool {
	switch k {
	case KindClass, KindStruct, KindEnum, KindProtocol, KindActor:
		return true
	}
	return false
}

// AccessLevel mirrors the declared visibility of a symbol.
type AccessLevel string

const (
	AccessPrivate     AccessLevel = "private"
	AccessFilePrivate AccessLevel = "fileprivate"
	AccessInternal    AccessLevel = "internal"
	AccessPublic      AccessLevel = "public"
	AccessOpen        AccessLevel = "open"
)

// SymbolID is a deterministic symbol identity. The same logical symbol
// resolves to the same ID across repeated runs on the same tree.
type SymbolID string

// BuildSymbolID derives an ID from the module, qualified name, kind and a
// short hash of the declaration site.
func BuildSymbolID(module, qualifiedName string, kind SymbolKind, file string, line int) SymbolID {
	if module == "" {
		module = "_"
	}
	fingerprint := fmt.Sprintf("%s|%d", file, line)
	sum := sha256.Sum256([]byte(fingerprint))
	short := hex.EncodeToString(sum[:8])
	return SymbolID(fmt.Sprintf("%s/%s:%s:%s", module, qualifiedName, kind, short))
}

// Symbol is a single declaration extracted from a source file.
type Symbol struct {
	ID            SymbolID    `json:"id"`
	Name          string      `json:"name"`
	QualifiedName string      `json:"qualified_name"`
	Module        string      `json:"module"`
	Kind          SymbolKind  `json:"kind"`
	Location      Location    `json:"location"`
	EndLine       int         `json:"end_line"`
	Accessibility AccessLevel `json:"accessibility"`
	Attributes    []string    `json:"attributes,omitempty"`
	Modifiers     []string    `json:"modifiers,omitempty"`
	// InheritedTypes lists the textual inheritance clause entries
	// (superclass and protocol conformances, unresolved).
	InheritedTypes []string `json:"inherited_types,omitempty"`
	Parent         SymbolID `json:"parent,omitempty"`
}

// HasAttribute checks the attribute list for an exact entry like "@main".
func (s Symbol) HasAttribute(name string) bool {
	for _, a := range s.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// HasModifier checks declaration modifiers such as "weak" or "static".
func (s Symbol) HasModifier(name string) bool {
	for _, m := range s.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// ReferenceKind classifies how a name is used at a reference site.
type ReferenceKind string

const (
	RefCall            ReferenceKind = "call"
	RefPropertyAccess  ReferenceKind = "propertyAccess"
	RefTypeReference   ReferenceKind = "typeReference"
	RefInheritance     ReferenceKind = "inheritance"
	RefConformance     ReferenceKind = "conformance"
	RefIdentifier      ReferenceKind = "identifier"
	RefExtensionTarget ReferenceKind = "extensionTarget"
	RefEnumCase        ReferenceKind = "enumCase"
	RefInitializer     ReferenceKind = "initializer"
	RefGenericArgument ReferenceKind = "genericArgument"
)

// SymbolReference is a single use-site of a name.
type SymbolReference struct {
	Name       string        `json:"name"`
	Expression string        `json:"expression"`
	Kind       ReferenceKind `json:"kind"`
	Location   Location      `json:"location"`
	// Scope is the qualified name of the enclosing declaration, or ""
	// for file scope.
	Scope string `json:"scope,omitempty"`
	// BaseType is a best-effort inferred base for member accesses.
	BaseType string `json:"base_type,omitempty"`
}

// normalizeTypeName strips sugar so "[*Foo]?" style spellings index cleanly.
func normalizeTypeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, "?")
	name = strings.TrimSuffix(name, "!")
	name = strings.TrimPrefix(name, "[")
	name = strings.TrimSuffix(name, "]")
	if i := strings.Index(name, "<"); i > 0 {
		name = name[:i]
	}
	return name
}
