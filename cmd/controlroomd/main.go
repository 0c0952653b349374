package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vmunix/controlroom/internal/config"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: discovered)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	initConfig := flag.Bool("init", false, "Write a default config file and exit")
	force := flag.Bool("force", false, "With -init, overwrite an existing config file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("controlroomd %s\n", version)
		os.Exit(0)
	}

	if *initConfig {
		if err := runInit(os.Stdout, *configPath, *force); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		path = found
	}

	if err := runServer(path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
