// pbsadmin is the command-line host for the PBS Admin automation
// engine and entity store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pbsadmin/internal/cli"
)

func main() {
	// Local .env is optional; real env vars win.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := cli.NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra printed nothing; surface the error once, then map it
		// onto the documented exit codes.
		root.PrintErrln("Error:", err.Error())
		os.Exit(cli.GetExitCode(err))
	}
}
