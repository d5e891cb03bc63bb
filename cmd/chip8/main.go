package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"
)

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Usage = "Run CHIP-8 programs in a terminal"
	app.Commands = []cli.Command{cmdRun}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
