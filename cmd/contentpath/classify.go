package main

import (
	"fmt"

	"github.com/brettbedarf/contentpath"
	"github.com/urfave/cli"
)

var classifyCmd = cli.Command{
	Name:      "classify",
	Usage:     "Print the well-known provider behind each identifier",
	ArgsUsage: "identifier ...",
	Action: func(c *cli.Context) error {
		for _, arg := range c.Args() {
			id := contentpath.Parse(arg)
			fmt.Printf("%s\t%s\n", contentpath.Classify(id), arg)
		}
		return nil
	},
}
