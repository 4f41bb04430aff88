package dvi

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is wrapped into errors describing a structurally invalid
// command stream (bad operand count, unrecognized opcode mid-stream).
var ErrMalformed = errors.New("dvi: malformed command stream")

// Parser reads a command stream byte-for-byte, the inverse of Writer.
type Parser struct {
	r   *bufio.Reader
	buf [4]byte
}

// NewParser returns a Parser reading from r.
func NewParser(r io.Reader) *Parser { return &Parser{r: bufio.NewReader(r)} }

func (p *Parser) readByte() (byte, error) { return p.r.ReadByte() }

func (p *Parser) readBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("reading %d bytes: %w", n, ErrMalformed)
		}
		return nil, err
	}
	return buf, nil
}

func (p *Parser) readUint(size int) (uint32, error) {
	var full [4]byte
	b, err := p.readBytes(size)
	if err != nil {
		return 0, err
	}
	copy(full[4-size:], b)
	return binary.BigEndian.Uint32(full[:]), nil
}

func (p *Parser) readInt(size int) (int32, error) {
	u, err := p.readUint(size)
	if err != nil {
		return 0, err
	}
	// sign-extend from size bytes
	shift := uint(32 - 8*size)
	return int32(u<<shift) >> shift, nil
}

// Next reads and decodes the next command. It returns io.EOF, cleanly,
// when the opcode byte itself cannot be read because the stream has
// ended.
func (p *Parser) Next() (Command, error) {
	opByte, err := p.readByte()
	if err != nil {
		if err == io.EOF {
			return Command{}, io.EOF
		}
		return Command{}, err
	}
	op := Opcode(opByte)

	switch {
	case op <= opSetCharMax:
		return SetCharN(int32(op)), nil

	case op >= opSet1 && op <= opSet4:
		size := int(op-opSet1) + 1
		// Character codes are unsigned except for the 4-byte form.
		ch, err := p.readUint(size)
		if err != nil {
			return Command{}, err
		}
		return SetN(size, int32(ch)), nil

	case op == opSetRule:
		h, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		w, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		return NewSetRule(h, w), nil

	case op >= opPut1 && op <= opPut4:
		size := int(op-opPut1) + 1
		ch, err := p.readUint(size)
		if err != nil {
			return Command{}, err
		}
		return PutN(size, int32(ch)), nil

	case op == opPutRule:
		h, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		w, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		return NewPutRule(h, w), nil

	case op == opNop:
		return Nop(), nil

	case op == opBop:
		var counters [10]int32
		for i := range counters {
			c, err := p.readInt(4)
			if err != nil {
				return Command{}, err
			}
			counters[i] = c
		}
		ptr, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		return NewBop(counters, ptr), nil

	case op == opEop:
		return Eop(), nil

	case op == opPush:
		return Push(), nil

	case op == opPop:
		return Pop(), nil

	case op >= opRight1 && op <= opRight4:
		size := int(op-opRight1) + 1
		amt, err := p.readInt(size)
		if err != nil {
			return Command{}, err
		}
		return RightN(size, amt), nil

	case op == opW0:
		return W0(), nil
	case op >= opW1 && op <= opW4:
		size := int(op-opW1) + 1
		amt, err := p.readInt(size)
		if err != nil {
			return Command{}, err
		}
		return WN(size, amt), nil

	case op == opX0:
		return X0(), nil
	case op >= opX1 && op <= opX4:
		size := int(op-opX1) + 1
		amt, err := p.readInt(size)
		if err != nil {
			return Command{}, err
		}
		return XN(size, amt), nil

	case op >= opDown1 && op <= opDown4:
		size := int(op-opDown1) + 1
		amt, err := p.readInt(size)
		if err != nil {
			return Command{}, err
		}
		return DownN(size, amt), nil

	case op == opY0:
		return Y0(), nil
	case op >= opY1 && op <= opY4:
		size := int(op-opY1) + 1
		amt, err := p.readInt(size)
		if err != nil {
			return Command{}, err
		}
		return YN(size, amt), nil

	case op == opZ0:
		return Z0(), nil
	case op >= opZ1 && op <= opZ4:
		size := int(op-opZ1) + 1
		amt, err := p.readInt(size)
		if err != nil {
			return Command{}, err
		}
		return ZN(size, amt), nil

	case op >= opFntNumMin && op <= opFntNumMax:
		return FntNumN(int32(op - opFntNumMin)), nil

	case op >= opFnt1 && op <= opFnt4:
		size := int(op-opFnt1) + 1
		num, err := p.readInt(size)
		if err != nil {
			return Command{}, err
		}
		return FntN(size, num), nil

	case op >= opXXX1 && op <= opXXX4:
		size := int(op-opXXX1) + 1
		n, err := p.readUint(size)
		if err != nil {
			return Command{}, err
		}
		data, err := p.readBytes(int(n))
		if err != nil {
			return Command{}, err
		}
		return XXXN(size, data), nil

	case op >= opFntDef1 && op <= opFntDef4:
		size := int(op-opFntDef1) + 1
		num, err := p.readInt(size)
		if err != nil {
			return Command{}, err
		}
		checksum, err := p.readUint(4)
		if err != nil {
			return Command{}, err
		}
		scale, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		designSize, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		areaLen, err := p.readByte()
		if err != nil {
			return Command{}, err
		}
		nameLen, err := p.readByte()
		if err != nil {
			return Command{}, err
		}
		area, err := p.readBytes(int(areaLen))
		if err != nil {
			return Command{}, err
		}
		name, err := p.readBytes(int(nameLen))
		if err != nil {
			return Command{}, err
		}
		return FntDefN(size, num, checksum, scale, designSize, string(area), string(name)), nil

	case op == opPre:
		format, err := p.readByte()
		if err != nil {
			return Command{}, err
		}
		num, err := p.readUint(4)
		if err != nil {
			return Command{}, err
		}
		den, err := p.readUint(4)
		if err != nil {
			return Command{}, err
		}
		mag, err := p.readUint(4)
		if err != nil {
			return Command{}, err
		}
		k, err := p.readByte()
		if err != nil {
			return Command{}, err
		}
		comment, err := p.readBytes(int(k))
		if err != nil {
			return Command{}, err
		}
		return NewPre(format, num, den, mag, comment), nil

	case op == opPost:
		ptr, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		num, err := p.readUint(4)
		if err != nil {
			return Command{}, err
		}
		den, err := p.readUint(4)
		if err != nil {
			return Command{}, err
		}
		mag, err := p.readUint(4)
		if err != nil {
			return Command{}, err
		}
		maxH, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		maxW, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		maxStack, err := p.readUint(2)
		if err != nil {
			return Command{}, err
		}
		numPages, err := p.readUint(2)
		if err != nil {
			return Command{}, err
		}
		return NewPost(ptr, num, den, mag, maxH, maxW, uint16(maxStack), uint16(numPages)), nil

	case op == opPostPost:
		ptr, err := p.readInt(4)
		if err != nil {
			return Command{}, err
		}
		format, err := p.readByte()
		if err != nil {
			return Command{}, err
		}
		tail := 0
		for {
			b, err := p.readByte()
			if err == io.EOF {
				break
			}
			if err != nil {
				return Command{}, err
			}
			if b != 223 {
				return Command{}, fmt.Errorf("dvi: byte %d in PostPost trailer is not 223: %w", b, ErrMalformed)
			}
			tail++
		}
		return NewPostPost(ptr, format, tail), nil

	default:
		return Command{}, fmt.Errorf("dvi: unrecognized opcode %d: %w", op, ErrMalformed)
	}
}

// ReadAll reads every command until a clean end of stream.
func (p *Parser) ReadAll() ([]Command, error) {
	var cmds []Command
	for {
		c, err := p.Next()
		if err == io.EOF {
			return cmds, nil
		}
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, c)
	}
}
