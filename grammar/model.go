// Package grammar loads an ASDL-style abstract grammar description and
// materializes it into an immutable model: every declared type, its
// fields, qualifiers, and a dense type-id assignment used throughout the
// rest of the pipeline for the structural tag and the parent-types set.
//
// The model is computed once per deployment and handed around by
// reference (spec.md §9, "global mutable state"); nothing here mutates
// after Load returns.
package grammar

import "fmt"

// Qualifier describes how a field's value relates to its declared Kind.
type Qualifier int

const (
	// Required means exactly one value of Kind is present.
	Required Qualifier = iota
	// Optional means zero or one value of Kind is present.
	Optional
	// Sequence means zero or more values of Kind are present, in order.
	Sequence
)

func (q Qualifier) String() string {
	switch q {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Sequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// PrimitiveKind enumerates the non-grammar field kinds.
type PrimitiveKind int

const (
	// NotPrimitive marks a Kind that refers to a grammar type, not a primitive.
	NotPrimitive PrimitiveKind = iota
	Int
	String
	Identifier
	Constant
)

// Kind is either a primitive scalar kind or a reference to another
// grammar-declared type, named by Type.
type Kind struct {
	Primitive PrimitiveKind
	Type      string // grammar type name, set iff Primitive == NotPrimitive
}

func (k Kind) String() string {
	switch k.Primitive {
	case Int:
		return "int"
	case String:
		return "string"
	case Identifier:
		return "identifier"
	case Constant:
		return "constant"
	default:
		return k.Type
	}
}

// IsGrammarType reports whether the field holds another declared type
// (and therefore becomes a link, not a property, in the schema generator).
func (k Kind) IsGrammarType() bool { return k.Primitive == NotPrimitive }

// Field is one named, qualified, kinded member of a product or constructor.
type Field struct {
	Name      string
	Kind      Kind
	Qualifier Qualifier
}

// Constructor is one arm of a polymorphic sum: a product with its own name.
type Constructor struct {
	Name   string
	Fields []Field
}

// Type is one grammar-declared type: either a sum (IsSum) or a bare
// product (fields directly on Type, Constructors empty).
//
// A sum is enum-like iff every constructor is field-less; IsEnum caches
// that classification once computed by the annotation pass in Load.
type Type struct {
	Name         string
	IsSum        bool
	IsEnum       bool
	Constructors []*Constructor // non-empty iff IsSum
	Fields       []Field        // non-empty iff !IsSum
	Attributes   []Field        // position/module/tag-like attributes, declared via "attributes (...)"
	TypeID       int            // dense id assigned in declaration order, 1-based

	// ModuleAnnotated marks a type participating in the module back-link
	// and structural-tag invariants of spec.md §3 (expressions, statements,
	// declarations in the reference Go grammar).
	ModuleAnnotated bool
}

// AllFields returns the type's own fields (product) or, for a sum, is
// empty — sums have no fields of their own, only per-constructor fields.
func (t *Type) AllFields() []Field {
	if t.IsSum {
		return nil
	}
	return t.Fields
}

// Model is the fully loaded, annotated grammar: every declared type,
// indexed by name, plus the declaration order (stable across runs since
// TypeID depends on it).
type Model struct {
	Types []*Type
	byName map[string]*Type
}

// Lookup returns the declared type named name, or nil if undeclared.
func (m *Model) Lookup(name string) *Type {
	return m.byName[name]
}

// MustLookup is Lookup but panics on an undeclared type; used internally
// once a grammar has already been validated by Load.
func (m *Model) MustLookup(name string) *Type {
	t := m.byName[name]
	if t == nil {
		panic(fmt.Sprintf("grammar: undeclared type %q", name))
	}
	return t
}

// BaseOf returns the sum type that declares name as one of its
// constructors, or nil if name isn't a constructor of any declared
// sum — either because it's a product type's own name, or because the
// name is undeclared. Serialization uses this to decide whether a
// constructor instance inherits its sum's module-annotation.
func (m *Model) BaseOf(name string) *Type {
	for _, t := range m.Types {
		if !t.IsSum {
			continue
		}
		for _, c := range t.Constructors {
			if c.Name == name {
				return t
			}
		}
	}
	return nil
}

// index builds byName and returns an error for any field referencing an
// undeclared grammar type — a GrammarError per spec.md §7.
func (m *Model) index() error {
	m.byName = make(map[string]*Type, len(m.Types))
	for _, t := range m.Types {
		if _, dup := m.byName[t.Name]; dup {
			return &GrammarError{Reason: fmt.Sprintf("duplicate type declaration %q", t.Name)}
		}
		m.byName[t.Name] = t
	}
	check := func(f Field) error {
		if f.Kind.IsGrammarType() {
			if _, ok := m.byName[f.Kind.Type]; !ok {
				return &GrammarError{Reason: fmt.Sprintf("field %q references undeclared type %q", f.Name, f.Kind.Type)}
			}
		}
		return nil
	}
	for _, t := range m.Types {
		for _, f := range t.Attributes {
			if err := check(f); err != nil {
				return err
			}
		}
		if t.IsSum {
			for _, c := range t.Constructors {
				for _, f := range c.Fields {
					if err := check(f); err != nil {
						return err
					}
				}
			}
		} else {
			for _, f := range t.Fields {
				if err := check(f); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// classify assigns IsEnum and TypeID, in declaration order, and marks
// a type module-annotated iff its "attributes" declare a synthetic
// "_module" attribute (conventionally the "Expr"/"Stmt"/"Decl"-like
// top-level sums).
func (m *Model) classify() {
	for i, t := range m.Types {
		t.TypeID = i + 1
		if t.IsSum {
			t.IsEnum = true
			for _, c := range t.Constructors {
				if len(c.Fields) > 0 {
					t.IsEnum = false
					break
				}
			}
		}
		for _, a := range t.Attributes {
			if a.Name == "_module" {
				t.ModuleAnnotated = true
			}
		}
	}
}
