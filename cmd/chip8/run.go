package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/mwhittington-dev/chip8"
	"github.com/mwhittington-dev/chip8/internal/term"
)

var cmdRun = cli.Command{
	Name:   "run",
	Usage:  "Run a CHIP-8 program in the terminal",
	Action: runRun,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "log",
			Usage: "If provided, a file to write per-instruction debug output to.",
		},
		cli.IntFlag{
			Name:  "clock",
			Usage: "Clock speed, in Hz, to run at.",
			Value: 500,
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "Pause after every instruction; press Enter to single-step.",
		},
	},
}

func runRun(c *cli.Context) error {
	driver := term.NewDriver()
	if err := driver.Init(); err != nil {
		return err
	}
	defer driver.Close()

	screen := chip8.NewFrameBuffer()
	cpu := chip8.NewCPU(screen, driver)

	if fname := c.String("log"); fname != "" {
		f, err := os.Create(fname)
		if err != nil {
			return err
		}
		defer f.Close()
		cpu.Logger = log.New(f, "", 0)
	}

	if c.Args().Present() {
		program, err := ioutil.ReadFile(c.Args().First())
		if err != nil {
			return err
		}
		if err := cpu.LoadProgram(program); err != nil {
			return err
		}
	} else {
		if err := cpu.LoadProgramFrom(os.Stdin); err != nil {
			return err
		}
	}

	driverErr := make(chan error, 1)
	go func() { driverErr <- driver.Run() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	clockHz := c.Int("clock")
	if clockHz <= 0 {
		clockHz = 500
	}
	ticker := time.NewTicker(time.Second / time.Duration(clockHz))
	defer ticker.Stop()

	debug := c.Bool("debug")

	for {
		select {
		case err := <-driverErr:
			if _, ok := err.(term.ErrQuit); ok {
				return nil
			}
			return err
		case <-sig:
			return nil
		default:
		}

		if debug {
			select {
			case <-driver.Step():
			case err := <-driverErr:
				if _, ok := err.(term.ErrQuit); ok {
					return nil
				}
				return err
			case <-sig:
				return nil
			}
		} else {
			<-ticker.C
		}

		if err := cpu.Step(); err != nil {
			term.Render(screen, fmt.Sprintf("halted: %v", err))
			<-sig
			return err
		}

		if screen.IsPendingDraw() {
			status := ""
			if debug {
				status = cpu.String()
			}
			term.Render(screen, status)
			screen.MarkDrawn()
		}
	}
}
