package main

import "github.com/urfave/cli/v2"

// pipelineFlags are shared between run and stats: they configure which
// recipe is built and how its stages behave.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a fop.yaml defaults file",
		},
		&cli.StringFlag{
			Name:  "recipe",
			Usage: "recipe to run: simple or bounded",
			Value: "simple",
		},
		&cli.BoolFlag{
			Name:  "guard",
			Usage: "attach a Config error to fops with an empty file-or-pattern",
		},
		&cli.BoolFlag{
			Name:  "fail-fast",
			Usage: "abort the whole run on the first errored fop instead of dropping it",
		},
		&cli.BoolFlag{
			Name:  "as-text",
			Usage: "decode file and subprocess content as UTF-8 text where possible",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "record-encoding",
			Usage: "tag fops with the encoding ReadContent used (utf8/binary)",
		},
		&cli.IntFlag{
			Name:  "scan-permits",
			Usage: "Glob's concurrent directory-traversal cap (0 = default)",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "shared permit pool size for the bounded recipe",
			Value: 4,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log stage entry/exit and errors to stderr",
		},
		&cli.StringFlag{
			Name:  "notify-webhook",
			Usage: "POST a completion event to this URL when the run finishes",
		},
		&cli.StringFlag{
			Name:  "notify-redis",
			Usage: "PUBLISH a completion event to this Redis URL when the run finishes",
		},
	}
}

// runOnlyFlags configures run's output format and optional sink; stats
// never writes content anywhere, so it doesn't take these.
func runOnlyFlags() []cli.Flag {
	return append(pipelineFlags(),
		&cli.StringFlag{
			Name:  "format",
			Usage: "output format: text, json, or msgpack",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "sink-fs",
			Usage: "write each matched fop's content under this directory",
		},
		&cli.StringFlag{
			Name:  "sink-s3",
			Usage: "write each matched fop's content to this S3 bucket[/prefix]",
		},
		&cli.StringFlag{
			Name:  "sink-s3-region",
			Usage: "AWS region for --sink-s3",
		},
	)
}

func statsOnlyFlags() []cli.Flag {
	return append(pipelineFlags(),
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "show a live-updating stats view while the pipeline runs",
		},
	)
}
