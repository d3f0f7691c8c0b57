package main

import "github.com/urfave/cli/v2"

// version is the demo CLI's own version, independent of any library
// versioning — fop the library has no version constant of its own
// (the spec is stateless and has no "release" concept); this is the
// CLI binary's.
const version = "0.1.0"

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the fop CLI version",
		Action: func(c *cli.Context) error {
			_, err := c.App.Writer.Write([]byte(c.App.Version + "\n"))
			return err
		},
	}
}
