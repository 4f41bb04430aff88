// Package dvi implements the device-independent output command set: a
// tagged-opcode binary command stream, a byte-exact writer and parser, and
// a stack-machine interpreter that resolves a command stream into
// positioned glyphs.
//
// Grounded on original_source/src/dvi/{file,file_reader,file_writer,
// parser,interpreter}.rs, with the writer and the full W/X/Y/Z command
// family (the Rust file_writer.rs is a stub, and its interpreter only
// handles W0/W3/Y0/Y3) completed to the classical semantics §4.H.4
// describes for every variant — see DESIGN.md's Open Questions section.
package dvi

import "fmt"

// Opcode is the first byte of every DVI command.
type Opcode byte

const (
	opSetCharMax   Opcode = 127
	opSet1         Opcode = 128
	opSet2         Opcode = 129
	opSet3         Opcode = 130
	opSet4         Opcode = 131
	opSetRule      Opcode = 132
	opPut1         Opcode = 133
	opPut2         Opcode = 134
	opPut3         Opcode = 135
	opPut4         Opcode = 136
	opPutRule      Opcode = 137
	opNop          Opcode = 138
	opBop          Opcode = 139
	opEop          Opcode = 140
	opPush         Opcode = 141
	opPop          Opcode = 142
	opRight1       Opcode = 143
	opRight2       Opcode = 144
	opRight3       Opcode = 145
	opRight4       Opcode = 146
	opW0           Opcode = 147
	opW1           Opcode = 148
	opW2           Opcode = 149
	opW3           Opcode = 150
	opW4           Opcode = 151
	opX0           Opcode = 152
	opX1           Opcode = 153
	opX2           Opcode = 154
	opX3           Opcode = 155
	opX4           Opcode = 156
	opDown1        Opcode = 157
	opDown2        Opcode = 158
	opDown3        Opcode = 159
	opDown4        Opcode = 160
	opY0           Opcode = 161
	opY1           Opcode = 162
	opY2           Opcode = 163
	opY3           Opcode = 164
	opY4           Opcode = 165
	opZ0           Opcode = 166
	opZ1           Opcode = 167
	opZ2           Opcode = 168
	opZ3           Opcode = 169
	opZ4           Opcode = 170
	opFntNumMin    Opcode = 171
	opFntNumMax    Opcode = 234
	opFnt1         Opcode = 235
	opFnt2         Opcode = 236
	opFnt3         Opcode = 237
	opFnt4         Opcode = 238
	opXXX1         Opcode = 239
	opXXX2         Opcode = 240
	opXXX3         Opcode = 241
	opXXX4         Opcode = 242
	opFntDef1      Opcode = 243
	opFntDef2      Opcode = 244
	opFntDef3      Opcode = 245
	opFntDef4      Opcode = 246
	opPre          Opcode = 247
	opPost         Opcode = 248
	opPostPost     Opcode = 249
)

// Kind discriminates the tagged Command union's case.
type Kind int

const (
	KindSetChar Kind = iota
	KindSet
	KindSetRule
	KindPut
	KindPutRule
	KindNop
	KindBop
	KindEop
	KindPush
	KindPop
	KindRight
	KindW0
	KindW
	KindX0
	KindX
	KindDown
	KindY0
	KindY
	KindZ0
	KindZ
	KindFntNum
	KindFnt
	KindXXX
	KindFntDef
	KindPre
	KindPost
	KindPostPost
)

// Command is a single DVI command, represented as a closed sum type: the
// Kind field selects which of the value fields below are meaningful,
// mirroring the classical engine's tagged-enum DVICommand (one Go struct
// dispatching on Kind in place of one variant per Rust enum arm).
type Command struct {
	Kind Kind

	// SetChar/Set/Put: character code.
	Char int32
	// Size is the operand width in bytes for Set/Put/Right/W/X/Down/Y/Z/
	// Fnt/XXX/FntDef, i.e. which of the N-byte variants this command is.
	Size int

	// SetRule/PutRule.
	Height int32
	Width  int32

	// Bop.
	Counters [10]int32
	Pointer  int32

	// Right/W/X/Down/Y/Z.
	Amount int32

	// FntNumN/Fnt*.
	FontNum int32

	// XXX.
	Bytes []byte

	// FntDef.
	Checksum   uint32
	Scale      int32
	DesignSize int32
	Area       string
	Name       string

	// Pre.
	Format  byte
	Num     uint32
	Den     uint32
	Mag     uint32
	Comment []byte

	// Post.
	MaxPageHeight int32
	MaxPageWidth  int32
	MaxStackDepth uint16
	NumPages      uint16

	// PostPost.
	PostPointer int32
	Tail        int
}

// SetCharN builds a SetCharN command (opcode == char code, 0..127).
func SetCharN(ch int32) Command { return Command{Kind: KindSetChar, Char: ch} }

// SetN builds a SetN command of the given operand width (1..4 bytes).
func SetN(size int, ch int32) Command { return Command{Kind: KindSet, Size: size, Char: ch} }

// PutN builds a PutN command of the given operand width.
func PutN(size int, ch int32) Command { return Command{Kind: KindPut, Size: size, Char: ch} }

// NewSetRule builds a SetRule command.
func NewSetRule(height, width int32) Command {
	return Command{Kind: KindSetRule, Height: height, Width: width}
}

// NewPutRule builds a PutRule command.
func NewPutRule(height, width int32) Command {
	return Command{Kind: KindPutRule, Height: height, Width: width}
}

// Nop builds a no-op command.
func Nop() Command { return Command{Kind: KindNop} }

// NewBop builds a Bop command.
func NewBop(counters [10]int32, pointer int32) Command {
	return Command{Kind: KindBop, Counters: counters, Pointer: pointer}
}

// Eop builds an end-of-page command.
func Eop() Command { return Command{Kind: KindEop} }

// Push/Pop build stack commands.
func Push() Command { return Command{Kind: KindPush} }
func Pop() Command  { return Command{Kind: KindPop} }

// RightN builds a RightN command of the given operand width.
func RightN(size int, amount int32) Command { return Command{Kind: KindRight, Size: size, Amount: amount} }

// W0 builds the no-operand W0 command.
func W0() Command { return Command{Kind: KindW0} }

// WN builds a WN command of the given operand width.
func WN(size int, amount int32) Command { return Command{Kind: KindW, Size: size, Amount: amount} }

// X0/XN are the same shape as W0/WN for the x-spacing register.
func X0() Command                       { return Command{Kind: KindX0} }
func XN(size int, amount int32) Command { return Command{Kind: KindX, Size: size, Amount: amount} }

// DownN builds a DownN command of the given operand width.
func DownN(size int, amount int32) Command { return Command{Kind: KindDown, Size: size, Amount: amount} }

// Y0/YN are the same shape as W0/WN for the y-spacing register.
func Y0() Command                       { return Command{Kind: KindY0} }
func YN(size int, amount int32) Command { return Command{Kind: KindY, Size: size, Amount: amount} }

// Z0/ZN are the same shape as W0/WN for the z-spacing register.
func Z0() Command                       { return Command{Kind: KindZ0} }
func ZN(size int, amount int32) Command { return Command{Kind: KindZ, Size: size, Amount: amount} }

// FntNumN builds a FntNumN command (font number == opcode - 171, 0..63).
func FntNumN(num int32) Command { return Command{Kind: KindFntNum, FontNum: num} }

// FntN builds an FntN command of the given operand width.
func FntN(size int, num int32) Command { return Command{Kind: KindFnt, Size: size, FontNum: num} }

// XXXN builds an XXXN special command carrying raw bytes.
func XXXN(size int, data []byte) Command { return Command{Kind: KindXXX, Size: size, Bytes: data} }

// FntDefN builds a font-definition command.
func FntDefN(size int, num int32, checksum uint32, scale, designSize int32, area, name string) Command {
	return Command{
		Kind: KindFntDef, Size: size, FontNum: num, Checksum: checksum,
		Scale: scale, DesignSize: designSize, Area: area, Name: name,
	}
}

// NewPre builds the file-opening Pre command.
func NewPre(format byte, num, den, mag uint32, comment []byte) Command {
	return Command{Kind: KindPre, Format: format, Num: num, Den: den, Mag: mag, Comment: comment}
}

// NewPost builds the Post command that starts the postamble.
func NewPost(pointer int32, num, den, mag uint32, maxPageHeight, maxPageWidth int32, maxStackDepth, numPages uint16) Command {
	return Command{
		Kind: KindPost, Pointer: pointer, Num: num, Den: den, Mag: mag,
		MaxPageHeight: maxPageHeight, MaxPageWidth: maxPageWidth,
		MaxStackDepth: maxStackDepth, NumPages: numPages,
	}
}

// NewPostPost builds the file-closing PostPost command; tail is the count
// of trailing 223 bytes (at least 4).
func NewPostPost(postPointer int32, format byte, tail int) Command {
	return Command{Kind: KindPostPost, PostPointer: postPointer, Format: format, Tail: tail}
}

// ByteSize reports the exact number of bytes Write would emit for c,
// including the opcode byte, mirroring DVICommand::byte_size.
func (c Command) ByteSize() int {
	switch c.Kind {
	case KindSetChar:
		return 1
	case KindSet, KindPut:
		return 1 + c.Size
	case KindSetRule, KindPutRule:
		return 9
	case KindNop, KindEop, KindPush, KindPop:
		return 1
	case KindBop:
		return 45
	case KindRight, KindDown:
		return 1 + c.Size
	case KindW0, KindX0, KindY0, KindZ0:
		return 1
	case KindW, KindX, KindY, KindZ:
		return 1 + c.Size
	case KindFntNum:
		return 1
	case KindFnt:
		return 1 + c.Size
	case KindXXX:
		return 1 + c.Size + len(c.Bytes)
	case KindFntDef:
		return 15 + c.Size + len(c.Area) + len(c.Name)
	case KindPre:
		return 15 + len(c.Comment)
	case KindPost:
		return 29
	case KindPostPost:
		return 6 + c.Tail
	default:
		panic(fmt.Sprintf("dvi: unknown command kind %d", c.Kind))
	}
}
