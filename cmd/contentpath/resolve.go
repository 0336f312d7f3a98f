package main

import (
	"fmt"

	"github.com/urfave/cli"
)

var resolveOpts = struct {
	explain bool
}{}

var resolveCmd = cli.Command{
	Name:  "resolve",
	Usage: "Resolve identifiers to local file paths",
	Description: `Each identifier is resolved to a real path when possible and
	passed through unchanged otherwise. Remote-only content is copied
	into the cache directory first.

	  contentpath resolve content://com.android.externalstorage.documents/document/primary%3ADCIM%2Fa.jpg`,
	ArgsUsage: "identifier ...",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:        "explain, e",
			Usage:       "Also print the provider and the strategy that produced each path",
			Destination: &resolveOpts.explain,
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.NewExitError("at least one identifier is required", 1)
		}
		r, err := newResolver(c)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		for _, arg := range c.Args() {
			res := r.ResolveRealPath(ctx, arg)
			if resolveOpts.explain {
				fmt.Printf("%s\t%s\t%s\n", res.Provider, strategyOrNone(string(res.Strategy)), res)
				continue
			}
			fmt.Println(res)
		}
		return nil
	},
}

func strategyOrNone(s string) string {
	if s == "" {
		return "passthrough"
	}
	return s
}
