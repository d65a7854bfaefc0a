// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

// Token is one structural event of a schema-free CBOR walk. The Type
// field discriminates which payload field is meaningful:
//
//	TypeBool                     Bool
//	TypeUint8..TypeUint64        Uint
//	TypeInt8..TypeInt64          Int
//	TypeInt                      Num
//	TypeFloat16..TypeFloat64     Float (widened)
//	TypeBytes                    Bytes
//	TypeString                   String
//	TypeArray, TypeMap           Length (declared count)
//	TypeTag                      Tag
//	TypeSimple                   Simple
//
// Indefinite containers produce a Begin event (TypeArrayIndef,
// TypeMapIndef, TypeBytesIndef, TypeStringIndef) with no length,
// eventually followed by a TypeBreak event. Definite containers carry
// their count and produce no break. TypeNull, TypeUndefined and
// TypeBreak carry no payload.
type Token struct {
	Type   Type
	Bool   bool
	Uint   uint64
	Int    int64
	Num    Int
	Float  float64
	Bytes  []byte
	String string
	Length uint64
	Tag    Tag
	Simple uint8
}

// Tokenizer walks arbitrary, possibly malformed CBOR as a flat token
// sequence without requiring target types. It is the machinery for
// generic inspection: the caller sees every structural event in
// pre-order.
//
//	tk := cbor.NewTokenizer(data)
//	for tk.Next() {
//		process(tk.Token())
//	}
//	if err := tk.Err(); err != nil { ... }
//
// On a decode error the tokenizer moves its cursor to the end of the
// input before reporting, so iteration always terminates: some decode
// errors consume no input, and retrying at the same position would
// otherwise loop forever. After an error or end of input, Next
// permanently returns false.
type Tokenizer struct {
	d   Decoder
	tok Token
	err error
}

// NewTokenizer returns a tokenizer over data.
func NewTokenizer(data []byte) *Tokenizer {
	return &Tokenizer{d: Decoder{buf: data}}
}

// Next advances to the next token. It returns false at end of input or
// on error; check [Tokenizer.Err] to tell the two apart.
func (t *Tokenizer) Next() bool {
	if t.err != nil || t.d.pos >= len(t.d.buf) {
		return false
	}
	tok, err := t.token()
	if err != nil {
		t.err = err
		t.d.pos = len(t.d.buf)
		return false
	}
	t.tok = tok
	return true
}

// Token returns the token produced by the last successful Next.
func (t *Tokenizer) Token() Token {
	return t.tok
}

// Err returns the error that stopped tokenization, or nil at clean end
// of input.
func (t *Tokenizer) Err() error {
	return t.err
}

// Position returns the byte offset of the next token.
func (t *Tokenizer) Position() int {
	return t.d.pos
}

func (t *Tokenizer) token() (Token, error) {
	d := &t.d
	datatype, err := d.Datatype()
	if err != nil {
		return Token{}, err
	}
	switch datatype {
	case TypeBool:
		v, err := d.Bool()
		return Token{Type: datatype, Bool: v}, err
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		v, err := d.Uint64()
		return Token{Type: datatype, Uint: v}, err
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		v, err := d.Int64()
		return Token{Type: datatype, Int: v}, err
	case TypeInt:
		v, err := d.Int()
		return Token{Type: datatype, Num: v}, err
	case TypeFloat16:
		v, err := d.Float16()
		return Token{Type: datatype, Float: float64(v)}, err
	case TypeFloat32:
		v, err := d.Float32()
		return Token{Type: datatype, Float: float64(v)}, err
	case TypeFloat64:
		v, err := d.Float64()
		return Token{Type: datatype, Float: v}, err
	case TypeBytes:
		v, err := d.Bytes()
		return Token{Type: datatype, Bytes: v}, err
	case TypeString:
		v, err := d.String()
		return Token{Type: datatype, String: v}, err
	case TypeArray:
		length, _, err := d.Array()
		return Token{Type: datatype, Length: length}, err
	case TypeMap:
		length, _, err := d.Map()
		return Token{Type: datatype, Length: length}, err
	case TypeTag:
		v, err := d.Tag()
		return Token{Type: datatype, Tag: v}, err
	case TypeSimple:
		v, err := d.Simple()
		return Token{Type: datatype, Simple: v}, err
	case TypeBytesIndef, TypeStringIndef, TypeArrayIndef, TypeMapIndef,
		TypeNull, TypeUndefined, TypeBreak:
		d.pos++
		return Token{Type: datatype}, nil
	default:
		b, _ := d.peek()
		return Token{}, newTypeMismatch(d.pos, classify(b), "unknown initial byte")
	}
}
