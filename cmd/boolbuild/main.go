// Command boolbuild builds a boolsearch index from a tokenised corpus and
// a morphology source.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/alistra/boolsearch/build"
)

func main() {
	app := &cli.App{
		Name:  "boolbuild",
		Usage: "build a Boolean search index from a corpus and a morphology source",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "index-dir", Value: "index", Usage: "destination index directory"},
			&cli.StringFlag{Name: "corpus", Required: true, Usage: "tokenised corpus file (##TITLE## delimited)"},
			&cli.StringFlag{Name: "morphology", Required: true, Usage: "morphology source file (surface base1 base2 ...)"},
			&cli.IntFlag{Name: "prefix-len", Value: 3, Usage: "shard prefix length"},
			&cli.BoolFlag{Name: "compressed", Usage: "gzip-wrap and gap-code shards"},
			&cli.BoolFlag{Name: "stemmed", Usage: "apply Porter2 stemming after lemmatisation"},
			&cli.BoolFlag{Name: "debug", Usage: "print build progress"},
		},
		Action: func(c *cli.Context) error {
			opts := build.Options{
				IndexDir:   c.String("index-dir"),
				PrefixLen:  c.Int("prefix-len"),
				Compressed: c.Bool("compressed"),
				Stemmed:    c.Bool("stemmed"),
				Debug:      c.Bool("debug"),
			}
			return build.BuildIndex(opts, c.String("corpus"), c.String("morphology"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("boolbuild: %v", err))
		os.Exit(1)
	}
}
