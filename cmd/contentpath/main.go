package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/contentpath/adapters"
	"github.com/brettbedarf/contentpath/config"
	"github.com/brettbedarf/contentpath/internal/util"
	"github.com/brettbedarf/contentpath/resolver"
	"github.com/urfave/cli"
)

var mainOpts = struct {
	config  string
	verbose int
}{}

func main() {
	app := cli.NewApp()
	app.Name = "contentpath"
	app.Usage = "Resolve content identifiers to local paths, types and bytes"
	app.HideVersion = true
	app.EnableBashCompletion = true
	app.Commands = []cli.Command{
		resolveCmd,
		mimeCmd,
		catCmd,
		stripCmd,
		classifyCmd,
		cacheCmd,
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Usage:       "Config override file (.yaml, .yml or .json)",
			EnvVar:      "CONTENTPATH_CONFIG",
			Destination: &mainOpts.config,
		},
		cli.IntFlag{
			Name:        "verbose, v",
			Usage:       "Log verbosity between 1 (error) and 5 (trace)",
			Value:       config.InfoVerbose,
			Destination: &mainOpts.verbose,
		},
	}

	if err := app.Run(os.Args); err != nil {
		util.GetLogger("main").Fatal().Err(err).Msg("contentpath failed")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if mainOpts.config != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(mainOpts.config); err != nil {
			return nil, err
		}
	}
	if c.GlobalIsSet("verbose") || mainOpts.config == "" {
		cfg.Merge(&config.ConfigOverride{LogLvl: util.Pointer(mainOpts.verbose)})
	}
	util.InitializeLogger(cfg.LogLvl)
	return cfg, nil
}

// newResolver wires the declared providers and the asset directory
func newResolver(c *cli.Context) (*resolver.Resolver, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	reg := adapters.NewRegistry()
	adapters.RegisterBuiltins(reg)
	router, err := adapters.NewRouterFromSpecs(reg, cfg.Providers)
	if err != nil {
		return nil, err
	}

	util.GetLogger("main").Debug().
		Int("providers", len(cfg.Providers)).
		Str("cache", cfg.CacheDir).
		Msg("Resolver initialized")
	return resolver.New(cfg,
		resolver.WithContentResolver(router),
		resolver.WithAssetStore(adapters.DirAssets{Root: cfg.AssetDir}),
	), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
