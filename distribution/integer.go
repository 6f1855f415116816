package distribution

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"unsafe"
)

// Signed is the constraint for signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the constraint for unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is the constraint for all primitive integer types that the
// uniform samplers support.
type Integer interface {
	Signed | Unsigned
}

// Kind identifies a primitive integer type.
type Kind uint8

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUint
	KindUintptr
)

type kindInfo struct {
	name     string
	bits     uint
	signed   bool
	unsigned Kind
}

// Every signed kind is paired with the unsigned kind of identical width.
var kindInfos = [...]kindInfo{
	KindInvalid: {name: "invalid"},
	KindInt8:    {name: "int8", bits: 8, signed: true, unsigned: KindUint8},
	KindInt16:   {name: "int16", bits: 16, signed: true, unsigned: KindUint16},
	KindInt32:   {name: "int32", bits: 32, signed: true, unsigned: KindUint32},
	KindInt64:   {name: "int64", bits: 64, signed: true, unsigned: KindUint64},
	KindInt:     {name: "int", bits: intSize, signed: true, unsigned: KindUint},
	KindUint8:   {name: "uint8", bits: 8, unsigned: KindUint8},
	KindUint16:  {name: "uint16", bits: 16, unsigned: KindUint16},
	KindUint32:  {name: "uint32", bits: 32, unsigned: KindUint32},
	KindUint64:  {name: "uint64", bits: 64, unsigned: KindUint64},
	KindUint:    {name: "uint", bits: intSize, unsigned: KindUint},
	KindUintptr: {name: "uintptr", bits: uint(8 * unsafe.Sizeof(uintptr(0))), unsigned: KindUintptr},
}

const intSize = 32 << (^uint(0) >> 63)

// Kinds returns all valid kinds.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindInfos)-1)
	for k := KindInt8; int(k) < len(kindInfos); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) info() kindInfo {
	if int(k) >= len(kindInfos) {
		return kindInfos[KindInvalid]
	}
	return kindInfos[k]
}

// String returns the Go type name of the kind.
func (k Kind) String() string {
	return k.info().name
}

// Bits returns the width of the kind in bits.
func (k Kind) Bits() uint {
	return k.info().bits
}

// Signed returns true iff the kind is a signed integer type.
func (k Kind) Signed() bool {
	return k.info().signed
}

// Unsigned returns the unsigned kind with the same width as k. Unsigned
// kinds are their own counterpart.
func (k Kind) Unsigned() Kind {
	return k.info().unsigned
}

// Max returns the largest value of the unsigned counterpart of k, which
// is also the mask of the bits used by k.
func (k Kind) Max() uint64 {
	bits := k.Bits()
	if bits == 0 {
		return 0
	}
	return uint64(math.MaxUint64) >> (64 - bits)
}

// Set sets the kind from its Go type name.
func (k *Kind) Set(s string) error {
	for kind, info := range kindInfos {
		if Kind(kind) != KindInvalid && strings.EqualFold(info.name, s) {
			*k = Kind(kind)
			return nil
		}
	}
	return fmt.Errorf("distribution: unsupported integer kind: '%s'", s)
}

// Type returns the list of supported kinds.
func (k *Kind) Type() string {
	names := make([]string, 0, len(kindInfos)-1)
	for _, kind := range Kinds() {
		names = append(names, kind.String())
	}
	return "[" + strings.Join(names, ",") + "]"
}

// ParseKind parses a Go integer type name.
func ParseKind(s string) (Kind, error) {
	var k Kind
	err := k.Set(s)
	return k, err
}

// KindOf returns the kind of the underlying type of T.
func KindOf[T Integer]() Kind {
	switch reflect.TypeOf(*new(T)).Kind() {
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Int:
		return KindInt
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Uint:
		return KindUint
	case reflect.Uintptr:
		return KindUintptr
	default:
		return KindInvalid
	}
}

// maskOf returns the all-ones bit pattern of T's width, i.e. the maximum
// of T's unsigned counterpart.
func maskOf[T Integer]() uint64 {
	var zero T
	return uint64(math.MaxUint64) >> (64 - 8*unsafe.Sizeof(zero))
}
