package types

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a [Type].
type Kind int

const (
	KindPrimitive    Kind = iota // primitive
	KindTypeVariable             // typename
	KindVariant                  // variant
	KindArray                    // array
	KindNArgs                    // nargs
	KindLambda                   // lambda
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindTypeVariable:
		return "typename"
	case KindVariant:
		return "variant"
	case KindArray:
		return "array"
	case KindNArgs:
		return "nargs"
	case KindLambda:
		return "lambda"
	default:
		return "unknown"
	}
}

// Type describes a value type of the expression language.
//
// Types are compared nominally: two types are equal if and only if their
// names are equal. See [Equal].
type Type interface {
	Member

	Kind() Kind
	Name() string
	String() string
}

// Member is an element of a variant type's member list.
// Every [Type] is a Member; so is a [Deferred] constructor.
type Member interface {
	resolve(self *VariantType) Type
}

// Deferred constructs a variant member from the variant being built.
// It is called exactly once, while the variant's member list is populated,
// which allows a variant to contain types that refer back to it.
type Deferred func(self *VariantType) Type

func (d Deferred) resolve(self *VariantType) Type { return d(self) }

// named holds the canonical name shared by every concrete type.
type named struct {
	name string
}

// Name returns the canonical type name.
func (n *named) Name() string { return n.name }

// String returns the canonical type name.
func (n *named) String() string { return n.name }

// MarshalText encodes the type as its canonical name.
func (n *named) MarshalText() ([]byte, error) { return []byte(n.name), nil }

// MarshalYAML encodes the type as its canonical name.
func (n *named) MarshalYAML() (any, error) { return n.name, nil }

// Primitive is an atomic type identified only by its name.
type Primitive struct{ named }

// NewPrimitive returns the primitive type with the given name.
func NewPrimitive(name string) *Primitive {
	return &Primitive{named{name}}
}

func (*Primitive) Kind() Kind                 { return KindPrimitive }
func (p *Primitive) resolve(*VariantType) Type { return p }

// TypeVariable is a placeholder for a type bound elsewhere, such as the
// element type shared by the branches of a generic operator.
type TypeVariable struct {
	named

	Variable string
}

// NewTypeVariable returns a type variable named "typename <name>".
func NewTypeVariable(name string) *TypeVariable {
	return &TypeVariable{named{"typename " + name}, name}
}

func (*TypeVariable) Kind() Kind                 { return KindTypeVariable }
func (t *TypeVariable) resolve(*VariantType) Type { return t }

// placeholderName is the name a variant carries while its members are
// being resolved.
const placeholderName = "(recursive_wrapper)"

// VariantType is a union of member types.
type VariantType struct {
	named

	Members []Type
}

// Variant returns the union of the given members, named by joining the
// member names with " | ".
//
// Members given as [Deferred] receive the variant under construction, whose
// name is still "(recursive_wrapper)" at that point.
func Variant(members ...Member) *VariantType {
	v := buildVariant(placeholderName, members)
	v.name = joinNames(v.Members, " | ")

	return v
}

// NamedVariant returns the union of the given members under a fixed alias.
// The alias is also the name seen by [Deferred] members, so a recursive
// variant named "Value" yields members such as "Array<Value>".
func NamedVariant(alias string, members ...Member) *VariantType {
	return buildVariant(alias, members)
}

func buildVariant(name string, members []Member) *VariantType {
	v := &VariantType{named: named{name}}

	resolved := make([]Type, 0, len(members))
	for _, m := range members {
		resolved = append(resolved, m.resolve(v))
	}

	v.Members = resolved

	return v
}

func (*VariantType) Kind() Kind                 { return KindVariant }
func (v *VariantType) resolve(*VariantType) Type { return v }

// ArrayType is a homogeneous array with an optional fixed length.
type ArrayType struct {
	named

	Item Type
	N    int
	// Fixed reports whether N is meaningful.
	Fixed bool
}

// Array returns the variable-length array type "Array<item>".
func Array(item Type) *ArrayType {
	return &ArrayType{named: named{"Array<" + item.Name() + ">"}, Item: item}
}

// ArrayN returns the fixed-length array type "Array<item,n>".
func ArrayN(item Type, n int) *ArrayType {
	return &ArrayType{
		named: named{"Array<" + item.Name() + "," + strconv.Itoa(n) + ">"},
		Item:  item,
		N:     n,
		Fixed: true,
	}
}

// Length returns the fixed length of the array, if any.
func (a *ArrayType) Length() (int, bool) { return a.N, a.Fixed }

func (*ArrayType) Kind() Kind                 { return KindArray }
func (a *ArrayType) resolve(*VariantType) Type { return a }

// NArgsType is a variadic call signature accepting N repetitions of Types.
type NArgsType struct {
	named

	Types []Type
	N     int
}

// NArgs returns the variadic signature "A, B, ...".
func NArgs(n int, types ...Type) *NArgsType {
	return &NArgsType{
		named: named{joinNames(types, ", ") + ", ..."},
		Types: types,
		N:     n,
	}
}

func (*NArgsType) Kind() Kind                 { return KindNArgs }
func (t *NArgsType) resolve(*VariantType) Type { return t }

// LambdaType is a call signature.
type LambdaType struct {
	named

	Result Type
	Params []Type
}

// Lambda returns the signature "(A, B) => R".
func Lambda(result Type, params ...Type) *LambdaType {
	return &LambdaType{
		named:  named{"(" + joinNames(params, ", ") + ") => " + result.Name()},
		Result: result,
		Params: params,
	}
}

func (*LambdaType) Kind() Kind                 { return KindLambda }
func (l *LambdaType) resolve(*VariantType) Type { return l }

// Equal reports whether a and b have the same name.
// A nil Type equals only another nil Type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Name() == b.Name()
}

func joinNames(types []Type, sep string) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}

	return strings.Join(names, sep)
}

// Predefined types.
var (
	Null    = NewPrimitive("Null")
	Number  = NewPrimitive("Number")
	String  = NewPrimitive("String")
	Boolean = NewPrimitive("Boolean")
	Color   = NewPrimitive("Color")
	Object  = NewPrimitive("Object")

	// Value is any value representable in feature data, including arrays
	// of values.
	Value = NamedVariant(
		"Value",
		Null,
		Number,
		String,
		Boolean,
		Object,
		Deferred(func(self *VariantType) Type { return Array(self) }),
	)

	// Interpolation is the opaque type of interpolation selectors such as
	// ["step"] and ["exponential", base].
	Interpolation = NewPrimitive("interpolation_type")
)
