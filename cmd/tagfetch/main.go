// Command tagfetch fetches the tag list of a forum post and prints the
// result as JSON. Intended for verifying scanner markers against the live
// forum after a front-end build changes its class hashes.
//
// Usage:
//
//	tagfetch [-exclude 其他,杂项] [-replace 其他=杂项] <post-url>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/Dadihu123/ST-Manager/internal/forum"
	"github.com/Dadihu123/ST-Manager/internal/infrastructure/config"
	"github.com/Dadihu123/ST-Manager/internal/logging"
)

func main() {
	exclude := flag.String("exclude", "", "comma-separated tags to drop")
	replace := flag.String("replace", "", "comma-separated old=new substitution rules")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tagfetch [flags] <post-url>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.LoadOrDefault()

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		log = logging.NewNop()
	}
	defer log.Sync()

	scanner, err := forum.NewTagScanner(forum.Markers{
		Container: cfg.Scanner.ContainerMarker,
		Pill:      cfg.Scanner.PillMarker,
		Exclusion: cfg.Scanner.ExclusionMarker,
		Text:      cfg.Scanner.TextMarker,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tagfetch: %v\n", err)
		os.Exit(1)
	}

	fetcher := forum.NewFetcher(cfg.Forum, scanner, log, nil)
	result := fetcher.FetchTags(context.Background(), flag.Arg(0))
	result.Tags = forum.Process(result.Tags, parseExclude(*exclude), parseReplace(*replace))

	out, err := sonic.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "tagfetch: encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
}

func parseExclude(spec string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tag := range strings.Split(spec, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

func parseReplace(spec string) map[string]string {
	rules := make(map[string]string)
	for _, rule := range strings.Split(spec, ",") {
		old, repl, ok := strings.Cut(strings.TrimSpace(rule), "=")
		if ok && old != "" {
			rules[old] = repl
		}
	}
	return rules
}
