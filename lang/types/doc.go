// Package types describes the value types of the style expression language.
//
// The package is a description language, not an inference engine. Each
// constructor derives a canonical name from its arguments, and that name is
// the type's identity: [Equal] compares names, never structure.
//
//	types.ArrayN(types.Number, 3).Name() // "Array<Number,3>"
//	types.Lambda(types.Color, types.String).Name() // "(String) => Color"
//
// # Recursive variants
//
// A variant may contain members that refer to the variant itself. Such
// members are given as [Deferred] constructors, which receive the variant
// while it is being built:
//
//	types.NamedVariant("Value",
//		types.Null, types.Number,
//		types.Deferred(func(self *types.VariantType) types.Type {
//			return types.Array(self) // "Array<Value>"
//		}),
//	)
//
// The predefined [Value] type is built this way.
package types
