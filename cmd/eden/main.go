package main

import (
	"os"

	"github.com/yacchi/eden-cli/packages/eden/app"
)

func main() {
	if err := app.Run(); err != nil {
		exitCode := app.HandleError(err)
		os.Exit(int(exitCode))
	}
}
