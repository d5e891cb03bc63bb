package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCPU() *CPU {
	return NewCPU(NoopScreen, NoopInput)
}

func loadOpcodes(t *testing.T, c *CPU, ops ...Opcode) {
	t.Helper()
	data := make([]byte, 0, len(ops)*2)
	for _, op := range ops {
		hi, lo := op.Encode()
		data = append(data, hi, lo)
	}
	require.NoError(t, c.LoadProgram(data))
}

func stepN(t *testing.T, c *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, c.Step())
	}
}

func TestCPUFontLoadedAtReset(t *testing.T) {
	c := newTestCPU()
	assert.Equal(t, Font[0], c.memory[FontStartAddr])
	assert.Equal(t, Font[len(Font)-1], c.memory[int(FontStartAddr)+len(Font)-1])
}

func TestCPUInvariants(t *testing.T) {
	c := newTestCPU()
	loadOpcodes(t, c, Opcode{Kind: OpLDVxNN, X: 0, NN: 0x12})
	require.NoError(t, c.Step())
	assert.Len(t, c.v, 16)
	assert.Len(t, c.memory, 4096)
	assert.Less(t, c.pc, uint16(0x1000))
}

// SKE should skip the update to V0 but not V1.
func TestScenarioSkipEqual(t *testing.T) {
	c := newTestCPU()
	loadOpcodes(t, c,
		Opcode{Kind: OpLDVxNN, X: 0, NN: 0x12},
		Opcode{Kind: OpLDVxNN, X: 1, NN: 0x12},
		Opcode{Kind: OpSEVxNN, X: 0, NN: 0x12},
		Opcode{Kind: OpADDVxNN, X: 0, NN: 0x03},
		Opcode{Kind: OpSEVxNN, X: 1, NN: 0x13},
		Opcode{Kind: OpADDVxNN, X: 1, NN: 0x03},
	)
	stepN(t, c, 5)
	assert.EqualValues(t, 0x12, c.v[0])
	assert.EqualValues(t, 0x15, c.v[1])
}

// Scenario 2: font lookup via LDF.
func TestScenarioFontLookup(t *testing.T) {
	c := newTestCPU()
	loadOpcodes(t, c,
		Opcode{Kind: OpLDVxNN, X: 0, NN: 0x05},
		Opcode{Kind: OpLDFVx, X: 0},
	)
	stepN(t, c, 2)
	assert.EqualValues(t, 0x69, c.i)
}

// Scenario 3: BCD of 123 at I=0x300.
func TestScenarioBCD(t *testing.T) {
	c := newTestCPU()
	c.v[0] = 123
	c.i = 0x300
	_, err := c.execute(Opcode{Kind: OpLDBVx, X: 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, c.memory[0x300:0x303])
}

// Scenario 4: drawing the "0" font glyph at (0,0) sets the first byte to
// 0xF0 and reports no collision on the first draw.
func TestScenarioDrawFontGlyph(t *testing.T) {
	screen := NewFrameBuffer()
	c := NewCPU(screen, NoopInput)
	c.i = FontStartAddr
	collision, err := c.execute(Opcode{Kind: OpDRW, X: 0, Y: 0, N: 5})
	require.NoError(t, err)
	_ = collision
	assert.Equal(t, byte(0xF0), screen.buf[0])
	assert.EqualValues(t, 0, c.v[0xF])
}

// Scenario 5: CALL then RET restores PC to caller_pc+2 and SP to its
// pre-call value.
func TestScenarioCallReturn(t *testing.T) {
	c := newTestCPU()
	// CALL 0x204 at 0x200, RET at 0x204.
	loadOpcodes(t, c, Opcode{Kind: OpCALL, NNN: 0x204})
	require.NoError(t, c.LoadProgramAt(0x204, []byte{0x00, 0xEE}))
	sp0 := c.sp
	stepN(t, c, 2)
	assert.EqualValues(t, 0x202, c.pc)
	assert.Equal(t, sp0, c.sp)
}

func TestStackUnderflow(t *testing.T) {
	c := newTestCPU()
	loadOpcodes(t, c, Opcode{Kind: OpRET})
	err := c.Step()
	require.Error(t, err)
	var underflow *ErrStackUnderflow
	assert.ErrorAs(t, err, &underflow)
}

func TestSYSIsUnimplemented(t *testing.T) {
	c := newTestCPU()
	loadOpcodes(t, c, Opcode{Kind: OpSYS, NNN: 0x300})
	err := c.Step()
	require.Error(t, err)
	var unimpl *ErrUnimplemented
	assert.ErrorAs(t, err, &unimpl)
}

func TestFX0ABlocksUntilKeyPressed(t *testing.T) {
	pressed := false
	input := FuncInput(func() (byte, bool) {
		if pressed {
			return 0x7, true
		}
		return 0, false
	})
	c := NewCPU(NoopScreen, input)
	loadOpcodes(t, c, Opcode{Kind: OpLDVxK, X: 0})

	require.NoError(t, c.Step())
	assert.EqualValues(t, 0x200, c.pc, "PC must not advance while waiting for a key")

	pressed = true
	require.NoError(t, c.Step())
	assert.EqualValues(t, 0x202, c.pc)
	assert.EqualValues(t, 0x7, c.v[0])
}

func Test8XY4CarryFlag(t *testing.T) {
	for _, tt := range []struct{ a, b, want byte }{
		{0xFF, 0xFF, 1},
		{0x01, 0x01, 0},
	} {
		c := newTestCPU()
		c.v[0], c.v[1] = tt.a, tt.b
		_, err := c.execute(Opcode{Kind: OpADDVxVy, X: 0, Y: 1})
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.v[0xF])
		assert.Equal(t, byte(tt.a+tt.b), c.v[0])
	}
}

func Test8XY5BorrowFlag(t *testing.T) {
	c := newTestCPU()
	c.v[0], c.v[1] = 0x13, 0x12
	_, err := c.execute(Opcode{Kind: OpSUBVxVy, X: 0, Y: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.v[0xF])
	assert.Equal(t, byte(0x13-0x12), c.v[0])

	c.Reset()
	c.v[0], c.v[1] = 0x12, 0x13
	_, err = c.execute(Opcode{Kind: OpSUBVxVy, X: 0, Y: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 0, c.v[0xF])
}

func Test8XY7ReverseBorrowFlag(t *testing.T) {
	c := newTestCPU()
	c.v[0], c.v[1] = 0x12, 0x13
	_, err := c.execute(Opcode{Kind: OpSUBNVxVy, X: 0, Y: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.v[0xF])
	assert.Equal(t, byte(0x13-0x12), c.v[0])
}

func Test8XY1ClearsVF(t *testing.T) {
	c := newTestCPU()
	c.v[0xF] = 1
	c.v[0], c.v[1] = 0x0F, 0xF0
	_, err := c.execute(Opcode{Kind: OpORVxVy, X: 0, Y: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 0, c.v[0xF])
}
