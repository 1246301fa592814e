package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/quillhost/quill/cmd/quill/commands"
	"github.com/quillhost/quill/internal/version"
)

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("quill"),
		kong.Description("GitHub-backed blogging engine"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("quill %s (built %s, commit %s)", version.Version, version.BuildTime, version.GitCommit)},
	)

	if err := ctx.Run(&commands.Global{}); err != nil {
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		os.Exit(1)
	}
}
