package main

import (
	"fmt"

	"github.com/brettbedarf/contentpath/cache"
	"github.com/urfave/cli"
)

var cacheOpts = struct {
	maxSize int64
}{}

var cacheCmd = cli.Command{
	Name:  "cache",
	Usage: "Inspect or trim the download cache",
	Subcommands: []cli.Command{
		{
			Name:  "usage",
			Usage: "Print the number of cached files and their total size",
			Action: func(c *cli.Context) error {
				d, err := openCache(c)
				if err != nil {
					return err
				}
				u, err := d.Usage()
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%d files\t%d bytes\n", d.Root(), u.Files, u.Bytes)
				return nil
			},
		},
		{
			Name:  "trim",
			Usage: "Evict the oldest cached files until the cache fits its size limit",
			Flags: []cli.Flag{
				cli.Int64Flag{
					Name:        "max-size, m",
					Usage:       "Size limit in bytes, overriding the configured one; 0 empties the cache",
					Destination: &cacheOpts.maxSize,
				},
			},
			Action: func(c *cli.Context) error {
				d, err := openCache(c)
				if err != nil {
					return err
				}
				var evicted []string
				if c.IsSet("max-size") {
					evicted, err = d.TrimTo(cacheOpts.maxSize)
				} else {
					evicted, err = d.Trim()
				}
				for _, p := range evicted {
					fmt.Println(p)
				}
				return err
			},
		},
	},
}

func openCache(c *cli.Context) (*cache.Dir, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.CacheDir, cfg.CacheMaxSize), nil
}
