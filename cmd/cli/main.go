package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rentwheels/marketplace/internal/client/cli"
)

func main() {
	app := cli.NewApp(os.Stdout)
	if err := app.RootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
