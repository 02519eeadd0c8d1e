// Command boolsearch runs a batch or interactive query session against a
// boolsearch index.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/alistra/boolsearch/cache"
	"github.com/alistra/boolsearch/codec"
	"github.com/alistra/boolsearch/engine"
	"github.com/alistra/boolsearch/lexindex"
	"github.com/alistra/boolsearch/morph"
	"github.com/alistra/boolsearch/query"
)

const defaultBatchSize = 50

func main() {
	app := &cli.App{
		Name:  "boolsearch",
		Usage: "batch or interactive Boolean query driver",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "index-dir", Value: "index", Usage: "index directory to query"},
			&cli.BoolFlag{Name: "i", Usage: "interactive mode: evaluate one query at a time"},
			&cli.BoolFlag{Name: "lru", Usage: "use a bounded prefix-LRU cache sized to total system memory instead of clearing at every batch"},
			&cli.BoolFlag{Name: "stemmed", Usage: "the index was built with stemming: reduce query terms the same way"},
		},
		Action: run,
	}

	// Ctrl-C ends the session cleanly instead of dying mid-batch with a
	// non-zero status.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		os.Exit(0)
	}()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("boolsearch: %v", err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// Side files must be read before the caches are sized, since a
	// prefix-LRU cache needs the index's actual prefix length to derive a
	// word's shard key.
	prefixLen, err := peekPrefixLength(c.String("index-dir"))
	if err != nil {
		return err
	}

	positional, nonPositional, morphCache := buildCaches(c.Bool("lru"), prefixLen)

	idx, err := lexindex.Open(c.String("index-dir"), positional, nonPositional)
	if err != nil {
		return err
	}
	m := morph.Open(idx.MorphologyDir(), idx.PrefixLen, idx.Compressed, morphCache)
	eng := engine.New(m, idx)
	eng.Stemmed = c.Bool("stemmed")

	batchSize := defaultBatchSize
	if c.Bool("i") {
		batchSize = 1
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		var queries []*query.Query
		more := true
		for len(queries) < batchSize {
			if !scanner.Scan() {
				more = false
				break
			}
			q, err := query.Parse(scanner.Text())
			if err != nil {
				fmt.Fprintln(os.Stderr, color.RedString("boolsearch: %v", err))
				continue
			}
			queries = append(queries, q)
		}

		if len(queries) > 0 {
			results, err := eng.Search(queries)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Println("QUERY:", r.Query.String(), "TOTAL:", len(r.Titles))
				for _, t := range r.Titles {
					fmt.Println(t)
				}
			}
		}

		if !more {
			break
		}
	}
	return scanner.Err()
}

func buildCaches(lru bool, prefixLen int) (cache.WordCache[codec.Posting], cache.WordCache[codec.NonPositional], cache.WordCache[[]string]) {
	if !lru {
		return cache.NewBatchCache[codec.Posting](), cache.NewBatchCache[codec.NonPositional](), cache.NewBatchCache[[]string]()
	}
	indexCap := cache.SizedIndexCapacity()
	morphCap := cache.SizedMorphCapacity()
	return cache.NewPrefixLRU[codec.Posting](indexCap, prefixLen), cache.NewPrefixLRU[codec.NonPositional](indexCap, prefixLen), cache.NewPrefixLRU[[]string](morphCap, prefixLen)
}

// peekPrefixLength reads the PREFIX_LENGTH side file directly, ahead of the
// full lexindex.Open call, so cache construction can use the index's real
// shard width.
func peekPrefixLength(dir string) (int, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "PREFIX_LENGTH"))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, err
	}
	return n, nil
}
