// Package term drives a terminal window with termbox-go: it renders a
// chip8.FrameBuffer as block characters and turns keyboard events into
// a chip8.Input, mapping the standard QWERTY layout onto the CHIP-8
// hex keypad.
package term

import (
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/mwhittington-dev/chip8"
)

// keyReleaseDelay is how long a key is reported as "still pressed"
// after its last keypress event, since termbox never reports key-up
// for character keys on a terminal.
const keyReleaseDelay = 50 * time.Millisecond

var keyMap = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// ErrQuit is returned from the event loop when the escape key or
// Ctrl+C is pressed.
type ErrQuit struct{}

func (ErrQuit) Error() string { return "term: quit key pressed" }

// Driver owns a termbox session and implements chip8.Input, tracking
// the debounced keypad state. Drawing is done by the package-level
// Render. Init must be called before use, and Close when done.
type Driver struct {
	mu         sync.Mutex
	pressed    byte
	pressedAt  time.Time
	hasPressed bool
	quit       chan struct{}
	events     chan termbox.Event
	step       chan struct{}
}

// NewDriver returns an uninitialized Driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Init starts termbox and the background event pump. Callers must
// call Close to restore the terminal.
func (d *Driver) Init() error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("term: init: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	termbox.Flush()

	d.quit = make(chan struct{})
	d.events = make(chan termbox.Event)
	d.step = make(chan struct{}, 1)
	go d.poll()
	return nil
}

// Step returns the channel that receives a value each time Enter is
// pressed, used to drive single-stepping in debug mode.
func (d *Driver) Step() <-chan struct{} {
	return d.step
}

// Close restores the terminal.
func (d *Driver) Close() {
	if d.quit != nil {
		close(d.quit)
	}
	termbox.Close()
}

func (d *Driver) poll() {
	for {
		event := termbox.PollEvent()
		select {
		case d.events <- event:
		case <-d.quit:
			return
		}
	}
}

// Run drains keyboard events into the debounced press state until
// Close is called, in which case it returns nil, or the escape key or
// Ctrl+C is seen, in which case it returns ErrQuit.
func (d *Driver) Run() error {
	for {
		select {
		case event := <-d.events:
			if event.Type != termbox.EventKey {
				continue
			}
			if event.Key == termbox.KeyEsc || event.Key == termbox.KeyCtrlC {
				return ErrQuit{}
			}
			if event.Key == termbox.KeyEnter {
				select {
				case d.step <- struct{}{}:
				default:
				}
				continue
			}
			key, ok := keyMap[event.Ch]
			if !ok {
				continue
			}
			d.mu.Lock()
			d.pressed = key
			d.pressedAt = time.Now()
			d.hasPressed = true
			d.mu.Unlock()
		case <-d.quit:
			return nil
		}
	}
}

// GetKey implements chip8.Input: the most recently pressed key is
// reported as "pressed" for keyReleaseDelay after its event, after
// which it reads as released.
func (d *Driver) GetKey() (byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasPressed {
		return 0, false
	}
	if time.Since(d.pressedAt) > keyReleaseDelay {
		return 0, false
	}
	return d.pressed, true
}

// Render draws screen's current framebuffer to the terminal, with the
// status line left-aligned one row below it, and flushes.
func Render(screen *chip8.FrameBuffer, status string) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	for y := 0; y < chip8.ScreenHeight; y++ {
		for x := 0; x < chip8.ScreenWidth; x++ {
			if !screen.PixelAt(x, y) {
				continue
			}
			termbox.SetCell(x, y, '█', termbox.ColorDefault, termbox.ColorDefault)
		}
	}

	col := 0
	for _, r := range status {
		termbox.SetCell(col, chip8.ScreenHeight+1, r, termbox.ColorDefault, termbox.ColorDefault)
		col += runewidth.RuneWidth(r)
	}

	termbox.Flush()
}
