package main

import (
	"errors"
	"fmt"
	"os"

	"xattrtest/internal/tools"
)

func main() {
	// ./xattrtest -f 10000 -x 4 -s 512 -y -p /mnt/zfs/xattrtest -t ./post-phase.sh
	app := tools.NewApp(tools.Execute)
	if err := app.Run(tools.ExpandShortOptions(os.Args)); err != nil {
		var cfgErr *tools.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", cfgErr)
		}
		os.Exit(tools.ExitCode(err))
	}
}
