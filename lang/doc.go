// Package lang parses style expressions into typed expression trees.
//
// An expression is decoded JSON or YAML data in nested-array form:
//
//	["curve", ["exponential", 1.5], ["zoom"], 0, 1, 22, 8]
//
// The first element of an array names an operator; the rest are its
// arguments. Strings, numbers, booleans and null are literals. Arrays and
// objects are given literally with ["literal", payload].
//
// [Parse] resolves operators against a [Definitions] table, usually
// [DefaultDefinitions] merged with tables loaded by [ReadDefinitions], and
// returns an [*Expression] whose nodes carry their declared [types.Type] and
// a positional key. Malformed input yields a [*ParseError] identifying the
// first offending node:
//
//	defs := lang.DefaultDefinitions()
//	node, _ := lang.DecodeString(ctx, `["max", 1, ["zoom"]]`, lang.FormatJSON)
//
//	_, err := lang.Parse(ctx, defs, node)
//	// err: 2: The "zoom" expression may only be used as the input to a
//	//      top-level "curve" expression.
//
// Two operators are checked beyond name lookup. "zoom" may appear only as
// the input of a top-level "curve", optionally wrapped in "coalesce". "match"
// separates its literal labels from its outputs:
//
//	["match", input, labels_1, output_1, ..., labels_n, output_n, fallback]
//
// The parsed node's Arguments are [input, output_1, ..., output_n, fallback]
// and its MatchInputs are the parsed label groups.
package lang
