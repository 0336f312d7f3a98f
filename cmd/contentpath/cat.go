package main

import (
	"io"
	"os"

	"github.com/urfave/cli"
)

var catCmd = cli.Command{
	Name:  "cat",
	Usage: "Write the bytes behind an identifier to stdout",
	Description: `Content identifiers are opened through their provider, asset
	identifiers (file:///android_asset/...) through the asset directory and
	anything else as a local file.`,
	ArgsUsage: "identifier",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.NewExitError("exactly one identifier is required", 1)
		}
		r, err := newResolver(c)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		rc, err := r.OpenByteStream(ctx, c.Args().First())
		if err != nil {
			return err
		}
		defer rc.Close() // nolint:errcheck

		_, err = io.Copy(os.Stdout, rc)
		return err
	},
}
