package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/ofx-import/cmd/batch"
	"fjacquet/ofx-import/cmd/history"
	"fjacquet/ofx-import/cmd/importcmd"
	"fjacquet/ofx-import/cmd/parse"
	"fjacquet/ofx-import/cmd/root"
	"fjacquet/ofx-import/cmd/rules"
	"fjacquet/ofx-import/cmd/taxonomy"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(history.Cmd)
	root.Cmd.AddCommand(taxonomy.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
