package dvi

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer encodes Commands to their exact byte representation. The zero
// value is not usable; use NewWriter.
type Writer struct {
	w   io.Writer
	buf [4]byte
}

// NewWriter returns a Writer that writes encoded commands to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) writeByte(b byte) error {
	_, err := w.w.Write([]byte{b})
	return err
}

func (w *Writer) writeBytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// writeUint writes the low size bytes of v, big-endian.
func (w *Writer) writeUint(size int, v uint32) error {
	binary.BigEndian.PutUint32(w.buf[:], v)
	_, err := w.w.Write(w.buf[4-size:])
	return err
}

// writeInt writes the low size bytes of v (two's complement), big-endian.
func (w *Writer) writeInt(size int, v int32) error {
	return w.writeUint(size, uint32(v))
}

// Write encodes a single command.
func (w *Writer) Write(c Command) error {
	switch c.Kind {
	case KindSetChar:
		if c.Char < 0 || c.Char > int32(opSetCharMax) {
			return fmt.Errorf("dvi: SetChar code %d out of range", c.Char)
		}
		return w.writeByte(byte(c.Char))

	case KindSet:
		if err := w.writeByte(byte(int(opSet1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.Char)

	case KindPut:
		if err := w.writeByte(byte(int(opPut1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.Char)

	case KindSetRule:
		if err := w.writeByte(byte(opSetRule)); err != nil {
			return err
		}
		if err := w.writeInt(4, c.Height); err != nil {
			return err
		}
		return w.writeInt(4, c.Width)

	case KindPutRule:
		if err := w.writeByte(byte(opPutRule)); err != nil {
			return err
		}
		if err := w.writeInt(4, c.Height); err != nil {
			return err
		}
		return w.writeInt(4, c.Width)

	case KindNop:
		return w.writeByte(byte(opNop))

	case KindBop:
		if err := w.writeByte(byte(opBop)); err != nil {
			return err
		}
		for _, cnt := range c.Counters {
			if err := w.writeInt(4, cnt); err != nil {
				return err
			}
		}
		return w.writeInt(4, c.Pointer)

	case KindEop:
		return w.writeByte(byte(opEop))

	case KindPush:
		return w.writeByte(byte(opPush))

	case KindPop:
		return w.writeByte(byte(opPop))

	case KindRight:
		if err := w.writeByte(byte(int(opRight1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.Amount)

	case KindW0:
		return w.writeByte(byte(opW0))
	case KindW:
		if err := w.writeByte(byte(int(opW1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.Amount)

	case KindX0:
		return w.writeByte(byte(opX0))
	case KindX:
		if err := w.writeByte(byte(int(opX1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.Amount)

	case KindDown:
		if err := w.writeByte(byte(int(opDown1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.Amount)

	case KindY0:
		return w.writeByte(byte(opY0))
	case KindY:
		if err := w.writeByte(byte(int(opY1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.Amount)

	case KindZ0:
		return w.writeByte(byte(opZ0))
	case KindZ:
		if err := w.writeByte(byte(int(opZ1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.Amount)

	case KindFntNum:
		if c.FontNum < 0 || c.FontNum > int32(opFntNumMax-opFntNumMin) {
			return fmt.Errorf("dvi: font number %d out of range for FntNumN", c.FontNum)
		}
		return w.writeByte(byte(int32(opFntNumMin) + c.FontNum))

	case KindFnt:
		if err := w.writeByte(byte(int(opFnt1) + c.Size - 1)); err != nil {
			return err
		}
		return w.writeInt(c.Size, c.FontNum)

	case KindXXX:
		if err := w.writeByte(byte(int(opXXX1) + c.Size - 1)); err != nil {
			return err
		}
		if err := w.writeUint(c.Size, uint32(len(c.Bytes))); err != nil {
			return err
		}
		return w.writeBytes(c.Bytes)

	case KindFntDef:
		if err := w.writeByte(byte(int(opFntDef1) + c.Size - 1)); err != nil {
			return err
		}
		if err := w.writeInt(c.Size, c.FontNum); err != nil {
			return err
		}
		if err := w.writeUint(4, c.Checksum); err != nil {
			return err
		}
		if err := w.writeInt(4, c.Scale); err != nil {
			return err
		}
		if err := w.writeInt(4, c.DesignSize); err != nil {
			return err
		}
		if err := w.writeByte(byte(len(c.Area))); err != nil {
			return err
		}
		if err := w.writeByte(byte(len(c.Name))); err != nil {
			return err
		}
		if err := w.writeBytes([]byte(c.Area)); err != nil {
			return err
		}
		return w.writeBytes([]byte(c.Name))

	case KindPre:
		if err := w.writeByte(byte(opPre)); err != nil {
			return err
		}
		if err := w.writeByte(c.Format); err != nil {
			return err
		}
		if err := w.writeUint(4, c.Num); err != nil {
			return err
		}
		if err := w.writeUint(4, c.Den); err != nil {
			return err
		}
		if err := w.writeUint(4, c.Mag); err != nil {
			return err
		}
		if err := w.writeByte(byte(len(c.Comment))); err != nil {
			return err
		}
		return w.writeBytes(c.Comment)

	case KindPost:
		if err := w.writeByte(byte(opPost)); err != nil {
			return err
		}
		if err := w.writeInt(4, c.Pointer); err != nil {
			return err
		}
		if err := w.writeUint(4, c.Num); err != nil {
			return err
		}
		if err := w.writeUint(4, c.Den); err != nil {
			return err
		}
		if err := w.writeUint(4, c.Mag); err != nil {
			return err
		}
		if err := w.writeInt(4, c.MaxPageHeight); err != nil {
			return err
		}
		if err := w.writeInt(4, c.MaxPageWidth); err != nil {
			return err
		}
		if err := w.writeUint(2, uint32(c.MaxStackDepth)); err != nil {
			return err
		}
		return w.writeUint(2, uint32(c.NumPages))

	case KindPostPost:
		if err := w.writeByte(byte(opPostPost)); err != nil {
			return err
		}
		if err := w.writeInt(4, c.PostPointer); err != nil {
			return err
		}
		if err := w.writeByte(c.Format); err != nil {
			return err
		}
		if c.Tail < 4 {
			return fmt.Errorf("dvi: PostPost requires at least 4 trailing 223 bytes, got %d", c.Tail)
		}
		for i := 0; i < c.Tail; i++ {
			if err := w.writeByte(223); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("dvi: unknown command kind %d", c.Kind)
	}
}

// WriteAll writes every command in cmds in order.
func (w *Writer) WriteAll(cmds []Command) error {
	for _, c := range cmds {
		if err := w.Write(c); err != nil {
			return err
		}
	}
	return nil
}
