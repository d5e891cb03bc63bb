package assembler

import (
	"strconv"
	"strings"

	"github.com/mwhittington-dev/chip8"
)

// stripHexU8 and stripHexU16 parse an operand's text as hexadecimal,
// with or without a leading "0x": the assembly dialect has no decimal
// numeric literals.
func stripHexU8(s string) (byte, bool) {
	v, ok := parseHex(s, 8)
	return byte(v), ok
}

func stripHexU16(s string) (uint16, bool) {
	v, ok := parseHex(s, 16)
	return uint16(v), ok
}

func parseHex(s string, bits int) (uint64, bool) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	v, err := strconv.ParseUint(s, 16, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}

func nnVal(s string) (byte, bool) {
	v, ok := stripHexU8(s)
	return v & 0xFF, ok
}

func nnnVal(s string) (uint16, bool) {
	v, ok := stripHexU16(s)
	return v & 0x0FFF, ok
}

func regVal(s string) (byte, bool) {
	v, ok := stripHexU8(s)
	return v & 0xF, ok
}

func invalid(stmt Statement, reason string) error {
	return &ErrInvalidStatement{Statement: stmt, Reason: reason}
}

// numberOperands requires exactly n operands, all TokNumber, and
// returns their raw text.
func numberOperands(ops []Token, n int) ([]string, bool) {
	if len(ops) != n {
		return nil, false
	}
	vals := make([]string, n)
	for i, t := range ops {
		if t.Kind != TokNumber {
			return nil, false
		}
		vals[i] = t.Text
	}
	return vals, true
}

func xnn(stmt Statement) (x, nn byte, err error) {
	vals, ok := numberOperands(stmt.Operands, 2)
	if !ok {
		return 0, 0, invalid(stmt, "expected a register and a byte")
	}
	x, xok := regVal(vals[0])
	n, nok := nnVal(vals[1])
	switch {
	case xok && nok:
		return x, n, nil
	case !xok && !nok:
		return 0, 0, invalid(stmt, "invalid register and number")
	case !xok:
		return 0, 0, invalid(stmt, "invalid register")
	default:
		return 0, 0, invalid(stmt, "invalid number")
	}
}

func xy(stmt Statement) (x, y byte, err error) {
	vals, ok := numberOperands(stmt.Operands, 2)
	if !ok {
		return 0, 0, invalid(stmt, "expected two registers")
	}
	x, xok := regVal(vals[0])
	y, yok := regVal(vals[1])
	switch {
	case xok && yok:
		return x, y, nil
	case !xok && !yok:
		return 0, 0, invalid(stmt, "invalid register for x and y")
	case !xok:
		return 0, 0, invalid(stmt, "invalid register for x")
	default:
		return 0, 0, invalid(stmt, "invalid register for y")
	}
}

func xyn(stmt Statement) (x, y, n byte, err error) {
	vals, ok := numberOperands(stmt.Operands, 3)
	if !ok {
		return 0, 0, 0, invalid(stmt, "expected two registers and a nibble")
	}
	x, xok := regVal(vals[0])
	y, yok := regVal(vals[1])
	n, nok := regVal(vals[2])
	if !xok || !yok || !nok {
		return 0, 0, 0, invalid(stmt, "invalid value for x, y, and n")
	}
	return x, y, n, nil
}

func reg1(stmt Statement) (byte, error) {
	vals, ok := numberOperands(stmt.Operands, 1)
	if !ok {
		return 0, invalid(stmt, "expected a single register")
	}
	r, ok := regVal(vals[0])
	if !ok {
		return 0, invalid(stmt, "invalid register")
	}
	return r, nil
}

func nnn1(stmt Statement) (uint16, error) {
	vals, ok := numberOperands(stmt.Operands, 1)
	if !ok {
		return 0, invalid(stmt, "expected a single address")
	}
	addr, ok := nnnVal(vals[0])
	if !ok {
		return 0, invalid(stmt, "invalid number")
	}
	return addr, nil
}

// StatementToOpcode maps a resolved Statement (labels already
// substituted for their addresses) to the opcode it assembles to.
// 8XY7 has no mnemonic here, mirroring a gap in the assembly dialect
// this is grounded on: the CPU executes it, but nothing emits it.
func StatementToOpcode(stmt Statement) (chip8.Opcode, error) {
	switch stmt.Opcode {
	case "SYS":
		nnn, err := nnn1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSYS, NNN: nnn}, nil

	case "CLR":
		if len(stmt.Operands) != 0 {
			return chip8.Opcode{}, invalid(stmt, "CLR takes no operands")
		}
		return chip8.Opcode{Kind: chip8.OpCLS}, nil

	case "RTS":
		if len(stmt.Operands) != 0 {
			return chip8.Opcode{}, invalid(stmt, "RTS takes no operands")
		}
		return chip8.Opcode{Kind: chip8.OpRET}, nil

	case "JUMP":
		nnn, err := nnn1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpJP, NNN: nnn}, nil

	case "CALL":
		nnn, err := nnn1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpCALL, NNN: nnn}, nil

	case "SKE":
		x, nn, err := xnn(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSEVxNN, X: x, NN: nn}, nil

	case "SKNE":
		x, nn, err := xnn(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSNEVxNN, X: x, NN: nn}, nil

	case "SKRE":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSEVxVy, X: x, Y: y}, nil

	case "LOAD":
		x, nn, err := xnn(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDVxNN, X: x, NN: nn}, nil

	case "ADD":
		x, nn, err := xnn(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpADDVxNN, X: x, NN: nn}, nil

	case "MOVE":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDVxVy, X: x, Y: y}, nil

	case "OR":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpORVxVy, X: x, Y: y}, nil

	case "AND":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpANDVxVy, X: x, Y: y}, nil

	case "XOR":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpXORVxVy, X: x, Y: y}, nil

	case "ADDR":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpADDVxVy, X: x, Y: y}, nil

	case "SUB":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSUBVxVy, X: x, Y: y}, nil

	case "SHR":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSHRVxVy, X: x, Y: y}, nil

	case "SHL":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSHLVxVy, X: x, Y: y}, nil

	case "SKRNE":
		x, y, err := xy(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSNEVxVy, X: x, Y: y}, nil

	case "LOADI":
		nnn, err := nnn1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDI, NNN: nnn}, nil

	case "JUMPI":
		nnn, err := nnn1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpJPV0, NNN: nnn}, nil

	case "RAND":
		x, nn, err := xnn(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpRND, X: x, NN: nn}, nil

	case "DRAW":
		x, y, n, err := xyn(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpDRW, X: x, Y: y, N: n}, nil

	case "SKPR":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSKP, X: x}, nil

	case "SKUP":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpSKNP, X: x}, nil

	case "MOVED":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDVxDT, X: x}, nil

	case "KEYD":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDVxK, X: x}, nil

	case "LOADD":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDDTVx, X: x}, nil

	case "LOADS":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDSTVx, X: x}, nil

	case "ADDI":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpADDIVx, X: x}, nil

	case "LDSPR":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDFVx, X: x}, nil

	case "BCD":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDBVx, X: x}, nil

	case "STOR":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDIVx, X: x}, nil

	case "READ":
		x, err := reg1(stmt)
		if err != nil {
			return chip8.Opcode{}, err
		}
		return chip8.Opcode{Kind: chip8.OpLDVxI, X: x}, nil

	default:
		return chip8.Opcode{}, invalid(stmt, "unknown mnemonic")
	}
}
