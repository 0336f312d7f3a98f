package main

import (
	"fmt"

	"github.com/urfave/cli"
)

var mimeCmd = cli.Command{
	Name:      "mime",
	Usage:     "Print the MIME type of each identifier",
	ArgsUsage: "identifier ...",
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
			fmt.Println(r.MimeType(ctx, arg))
		}
		return nil
	},
}
