package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/haipham/newsdeck/internal/app"
	"github.com/haipham/newsdeck/internal/common"
)

func main() {
	var (
		configPath string
		showVer    bool
	)

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		common.LoadVersionFromFile()
		fmt.Printf("newsdeck %s\n", common.GetFullVersion())
		return
	}

	nav := newTerminalNavigator()

	a, err := app.NewApp(configPath, nav)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config, a.Logger)

	runShell(a)

	common.PrintShutdownBanner(a.Logger)
	a.Close()
}
