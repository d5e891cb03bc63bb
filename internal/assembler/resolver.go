package assembler

import "fmt"

// ProgramLoadAddr is the address the resolver assumes the assembled
// image will be loaded at; label addresses are computed relative to
// it, matching chip8.ProgramLoadAddr.
const ProgramLoadAddr = 0x200

// Resolver performs the two-pass label resolution and final encoding
// step: pass one walks the parsed source building a label table and a
// flat statement list, pass two substitutes resolved addresses for
// label operands and encodes every statement to its two-byte opcode.
type Resolver struct {
	source []ParseResult
}

// NewResolver wraps an already-parsed source.
func NewResolver(source []ParseResult) *Resolver {
	return &Resolver{source: source}
}

// Resolve runs both passes and returns the assembled program image.
// It fails with *ErrUnknownLabel if any operand references a label
// with no declaration, or with *ErrInvalidStatement if a statement
// doesn't match any known instruction shape.
func (r *Resolver) Resolve() ([]byte, error) {
	labels := map[string]uint16{}
	var statements []Statement

	currentAddr := func() uint16 {
		return ProgramLoadAddr + uint16(len(statements)*2)
	}

	for _, res := range r.source {
		switch res.Kind {
		case ResultLabel:
			labels[res.Label] = currentAddr()
		case ResultStatement:
			if res.Statement.HasLabel {
				labels[res.Statement.Label] = currentAddr()
			}
			statements = append(statements, res.Statement)
		}
	}

	out := make([]byte, 0, len(statements)*2)
	for _, stmt := range statements {
		resolved := make([]Token, len(stmt.Operands))
		for i, operand := range stmt.Operands {
			if operand.Kind != TokLabel {
				resolved[i] = operand
				continue
			}
			addr, ok := labels[operand.Text]
			if !ok {
				return nil, &ErrUnknownLabel{Label: operand.Text}
			}
			resolved[i] = Token{Kind: TokNumber, Text: fmt.Sprintf("0x%x", addr)}
		}
		stmt.Operands = resolved

		op, err := StatementToOpcode(stmt)
		if err != nil {
			return nil, err
		}
		hi, lo := op.Encode()
		out = append(out, hi, lo)
	}

	return out, nil
}

// Assemble tokenizes, parses, and resolves src in one call.
func Assemble(src string) ([]byte, error) {
	return NewResolver(ParseAll(src)).Resolve()
}
