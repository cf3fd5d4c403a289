package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/playlake/internal/app"
)

func main() {
	var cfgPath string
	var inputRoot string
	var outputRoot string
	var dryRun bool
	flag.StringVar(&cfgPath, "config", "config.yaml", "path to the YAML config file")
	flag.StringVar(&inputRoot, "input", "", "override the input local root or bucket")
	flag.StringVar(&outputRoot, "output", "", "override the output local root or bucket")
	flag.BoolVar(&dryRun, "dry-run", false, "derive all tables but skip every write")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, app.Options{
		ConfigPath: cfgPath,
		InputRoot:  inputRoot,
		OutputRoot: outputRoot,
		DryRun:     dryRun,
	})
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		application.Log.Error("Run failed", "error", err.Error())
		os.Exit(1)
	}
}
