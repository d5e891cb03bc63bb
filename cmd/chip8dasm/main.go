// Command chip8dasm disassembles a raw CHIP-8 program image, printing
// one decoded instruction per address. Invalid opcodes are printed as
// raw hex rather than aborting the dump.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/urfave/cli"

	"github.com/mwhittington-dev/chip8"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8dasm"
	app.Usage = "Disassemble a CHIP-8 program image"
	app.ArgsUsage = "<input_path>"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("usage: chip8dasm <input_path>", 2)
	}

	data, err := ioutil.ReadFile(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	addr := chip8.ProgramLoadAddr
	for i := 0; i+1 < len(data); i += 2 {
		hi, lo := data[i], data[i+1]
		if op, err := chip8.Decode(hi, lo); err == nil {
			fmt.Printf("0x%04X: %s\n", addr, op)
		} else {
			fmt.Printf("0x%04X: 0x%02X%02X\n", addr, hi, lo)
		}
		addr += 2
	}
	return nil
}
