package cmd

import (
	"context"

	"github.com/ardnew/stylexpr/cli/cmd/repl"
	"github.com/ardnew/stylexpr/log"
)

// Repl starts an interactive session for parsing expressions.
type Repl struct {
	History bool   `default:"true"     help:"Persist input history in the cache directory." negatable:""`
	Cache   string `default:"${cache}" hidden:""                                               type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	dir := r.Cache
	if !r.History {
		dir = ""
	}

	return repl.Run(ctx, definitionsFrom(ctx), dir, log.Default())
}
