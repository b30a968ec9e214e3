package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/flnk/internal/cli"
	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	err := rootCmd.Execute()
	if err != nil && !cli.Reported(err) {
		errorStyle := style.Get("Failed")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("flnk: %s", errors.Message(err))))
	}
	os.Exit(cli.ExitCode(err))
}
