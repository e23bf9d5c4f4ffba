package main

import (
	"context"
	"os"

	"github.com/citizenwallet/tokenwallet/internal/bootstrap"
	"github.com/citizenwallet/tokenwallet/internal/commands"
	"github.com/citizenwallet/tokenwallet/internal/config"
)

func main() {
	open := func(ctx context.Context, envpath string) (commands.Wallet, error) {
		conf, err := config.New(ctx, envpath)
		if err != nil {
			return nil, err
		}

		return bootstrap.Open(ctx, conf)
	}

	if err := commands.NewRootCommand(open).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
