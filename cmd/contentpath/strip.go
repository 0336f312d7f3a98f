package main

import (
	"fmt"

	"github.com/brettbedarf/contentpath/resolver"
	"github.com/urfave/cli"
)

var stripCmd = cli.Command{
	Name:      "strip",
	Usage:     "Remove a leading file:// from each argument",
	ArgsUsage: "string ...",
	Action: func(c *cli.Context) error {
		for _, arg := range c.Args() {
			fmt.Println(resolver.StripFileProtocol(arg))
		}
		return nil
	},
}
