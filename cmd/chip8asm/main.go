// Command chip8asm assembles CHIP-8 assembly source into a raw binary
// program image.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/urfave/cli"

	"github.com/mwhittington-dev/chip8/internal/assembler"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8asm"
	app.Usage = "Assemble CHIP-8 assembly source into a program image"
	app.ArgsUsage = "<input_path> <output_path>"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "l", Usage: "Dump the token stream to stderr."},
		cli.BoolFlag{Name: "p", Usage: "Dump the parse-result stream to stderr."},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.NewExitError("usage: chip8asm <input_path> <output_path> [-l] [-p]", 2)
	}
	inputPath := c.Args().Get(0)
	outputPath := c.Args().Get(1)

	src, err := ioutil.ReadFile(inputPath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	tokens := assembler.Tokenize(string(src))
	if c.Bool("l") {
		for _, tok := range tokens {
			fmt.Fprintf(os.Stderr, "L: %s %q\n", tok.Kind, tok.Text)
		}
	}

	parser := assembler.NewParser(tokens)
	var results []assembler.ParseResult
	for {
		res, ok := parser.Next()
		if !ok {
			break
		}
		if c.Bool("p") {
			fmt.Fprintf(os.Stderr, "P: %+v\n", res)
		}
		results = append(results, res)
	}

	out, err := assembler.NewResolver(results).Resolve()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("assembly error: %v", err), 1)
	}

	if err := ioutil.WriteFile(outputPath, out, 0o644); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	fmt.Printf("Input file: %s\n", inputPath)
	fmt.Printf("Output file: %s\n", outputPath)
	return nil
}
