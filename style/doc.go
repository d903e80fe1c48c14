// Package style loads documents of style properties and converts their
// legacy functions to expression programs in bulk.
//
// A document maps property names to a spec and either a function or a
// constant value:
//
//	properties:
//	  line-width:
//	    spec: {type: number, function: interpolated, default: 1}
//	    function:
//	      stops: [[10, 1], [18, 6]]
//	  line-color:
//	    spec: {type: color, default: "#000"}
//	    value: "#3887be"
package style
