package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/zurustar/ippcode/pkg/app"
)

func main() {
	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		if err := stdout.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})

	application := app.New(app.WithStdout(stdout))
	err := application.Run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	atexit.Exit(app.ExitCode(err))
}
