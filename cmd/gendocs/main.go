package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra/doc"
	"github.com/zhengda-lu/scanmenu/internal/cli"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	dir := "./docs/man"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("failed to create man page directory")
	}
	header := &doc.GenManHeader{
		Title:   "SCANMENU",
		Section: "1",
	}
	if err := doc.GenManTree(cli.RootCmd(), header, dir); err != nil {
		log.Fatal().Err(err).Msg("failed to generate man pages")
	}
}
