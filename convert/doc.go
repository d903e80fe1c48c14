// Package convert rewrites legacy stop-based style functions as expression
// programs.
//
// A legacy function maps zoom, a feature property, or both through a table
// of stops:
//
//	{"property": "rank", "type": "interval", "stops": [[0, 2], [10, 4]]}
//
// [Function] produces the equivalent program, always wrapped in "coalesce"
// so that a failed property read falls through to the default:
//
//	["coalesce",
//	  ["curve", ["step"],
//	    ["case", ["==", "Number", ["typeof", ["get", "rank"]]],
//	      ["number", ["get", "rank"]], null],
//	    0, 2, 10, 4],
//	  <default>]
//
// The property's [PropertySpec] selects how values and the default are
// coerced and, when the function has no explicit type, whether it
// interpolates.
package convert
