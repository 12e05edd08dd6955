package main

import (
	"context"
	"flag"
	"os"
	"time"

	"meshcast/commands"
	"meshcast/config"
	"meshcast/helper/logfmt"

	log "github.com/sirupsen/logrus"
)

func setLogLevel(level string) {
	l, err := log.ParseLevel(level)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	log.SetLevel(l)
}

func registerGlobalFlags(fset *flag.FlagSet) {
	flag.VisitAll(func(f *flag.Flag) {
		fset.Var(f.Value, f.Name, f.Usage)
	})
}

// main is the entry point of the application.
func main() {
	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configFile := flag.String("config", "", "Path to config file")
	logLevel := flag.String("loglevel", "info", "Log level")

	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	registerGlobalFlags(initCmd)

	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	period := serveCmd.Uint64("period", 0, "Messaging period in seconds")
	port := serveCmd.Uint("port", 0, "Port to listen on")
	connect := serveCmd.String("connect", "", "Connect to a peer at ADDRESS")
	registerGlobalFlags(serveCmd)

	if len(os.Args) < 2 {
		log.WithField("args", os.Args).Fatal("Expected a subcommand")
	}
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "init":
		initCmd.Parse(args)
		setLogLevel(*logLevel)
		if *configFile == "" {
			log.Fatal("Config file not specified")
		}
		commands.RunInit(ctx, config.NewEmptyConfig(*configFile))
	case "serve":
		serveCmd.Parse(args)
		setLogLevel(*logLevel)
		log.SetFormatter(&logfmt.UptimeFormatter{Start: start})

		cfg := config.NewEmptyConfig(*configFile)
		if *configFile != "" {
			loaded, err := config.NewConfigFromFile(*configFile)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}
			cfg = loaded
		}

		// Flags override file values.
		if *period != 0 {
			cfg.Gossip.PeriodSeconds = *period
		}
		if *port != 0 {
			if *port > 65535 {
				log.Fatalf("Invalid port %d", *port)
			}
			cfg.Network.Port = uint16(*port)
		}
		if *connect != "" {
			cfg.Network.Connect = *connect
		}

		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
		commands.RunServe(ctx, cfg)
	default:
		log.Fatalf("Invalid subcommand '%s'", os.Args[1])
	}
}
