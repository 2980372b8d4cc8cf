package main

import (
	"context"
	"os"

	"github.com/zelus-routing/zelus/src/internal/commands"
	"github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/log"
)

func main() {
	ctx := commands.NewAppContext()
	if err := commands.Root(ctx).ExecuteContext(context.Background()); err != nil {
		log.Critical(ctx.Logger).Error(err)
		os.Exit(errors.ExitCode(err))
	}
}
