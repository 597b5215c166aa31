package classpath

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/c360studio/codeontology/model"
)

const classMagic = 0xCAFEBABE

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type cpEntry struct {
	tag  byte
	utf8 string
	ref  uint16
}

type classReader struct {
	data []byte
	pos  int
	err  error
	pool []cpEntry
}

func (r *classReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

func (r *classReader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.data) {
		r.fail("truncated at offset %d", r.pos)
		return false
	}
	return true
}

func (r *classReader) u1() byte {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *classReader) u2() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *classReader) u4() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *classReader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v
}

func (r *classReader) utf8(index uint16) string {
	if int(index) >= len(r.pool) || r.pool[index].tag != tagUtf8 {
		r.fail("constant %d is not a UTF-8 entry", index)
		return ""
	}
	return r.pool[index].utf8
}

func (r *classReader) className(index uint16) string {
	if index == 0 {
		return ""
	}
	if int(index) >= len(r.pool) || r.pool[index].tag != tagClass {
		r.fail("constant %d is not a class entry", index)
		return ""
	}
	return binaryName(r.utf8(r.pool[index].ref))
}

// binaryName converts an internal name (java/util/Map$Entry) to the dotted
// binary form (java.util.Map$Entry).
func binaryName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

func (r *classReader) readPool() {
	count := int(r.u2())
	r.pool = make([]cpEntry, count)
	for i := 1; i < count && r.err == nil; i++ {
		tag := r.u1()
		e := cpEntry{tag: tag}
		switch tag {
		case tagUtf8:
			n := int(r.u2())
			e.utf8 = decodeModifiedUTF8(r.bytes(n))
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.ref = r.u2()
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.u4()
		case tagLong, tagDouble:
			r.u4()
			r.u4()
			r.pool[i] = e
			i++
			continue
		case tagMethodHandle:
			r.u1()
			r.u2()
		default:
			r.fail("unknown constant pool tag %d at index %d", tag, i)
		}
		r.pool[i] = e
	}
}

// decodeModifiedUTF8 decodes the JVM's modified UTF-8, which encodes NUL as
// two bytes and supplementary characters as surrogate pairs.
func decodeModifiedUTF8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, 0xFFFD)
			i++
		}
	}
	return string(utf16.Decode(units))
}

type rawAttribute struct {
	name string
	data []byte
}

func (r *classReader) attributes() []rawAttribute {
	n := int(r.u2())
	attrs := make([]rawAttribute, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		name := r.utf8(r.u2())
		length := int(r.u4())
		attrs = append(attrs, rawAttribute{name: name, data: r.bytes(length)})
	}
	return attrs
}

func (r *classReader) member() *Member {
	m := &Member{Access: model.Modifiers(r.u2())}
	m.Name = r.utf8(r.u2())
	m.Descriptor = r.utf8(r.u2())
	for _, a := range r.attributes() {
		switch a.name {
		case "Signature":
			m.Signature = r.signatureAttr(a.data)
		case "Exceptions":
			sub := &classReader{data: a.data, pool: r.pool}
			n := int(sub.u2())
			for i := 0; i < n && sub.err == nil; i++ {
				m.Exceptions = append(m.Exceptions, sub.className(sub.u2()))
			}
			if sub.err != nil {
				r.fail("exceptions of %s: %v", m.Name, sub.err)
			}
		case "Synthetic":
			m.Access |= model.AccSynthetic
		}
	}
	return m
}

func (r *classReader) signatureAttr(data []byte) string {
	if len(data) != 2 {
		r.fail("signature attribute has length %d", len(data))
		return ""
	}
	return r.utf8(binary.BigEndian.Uint16(data))
}

// Parse decodes a class file.
func Parse(data []byte) (*Class, error) {
	r := &classReader{data: data}
	if r.u4() != classMagic {
		if r.err != nil {
			return nil, r.err
		}
		return nil, fmt.Errorf("%w: bad magic number", ErrMalformed)
	}
	r.u2() // minor
	r.u2() // major
	r.readPool()

	c := &Class{Access: model.Modifiers(r.u2())}
	c.Name = r.className(r.u2())
	c.SuperName = r.className(r.u2())
	n := int(r.u2())
	for i := 0; i < n && r.err == nil; i++ {
		c.Interfaces = append(c.Interfaces, r.className(r.u2()))
	}
	n = int(r.u2())
	for i := 0; i < n && r.err == nil; i++ {
		c.Fields = append(c.Fields, r.member())
	}
	n = int(r.u2())
	for i := 0; i < n && r.err == nil; i++ {
		c.Methods = append(c.Methods, r.member())
	}
	for _, a := range r.attributes() {
		switch a.name {
		case "Signature":
			c.Signature = r.signatureAttr(a.data)
		case "InnerClasses":
			r.innerClasses(c, a.data)
		case "Synthetic":
			c.Access |= model.AccSynthetic
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

// innerClasses applies the InnerClasses entry that describes c itself: it
// carries the source-level modifiers of a member class and its outer class.
// Entries naming c as their outer class list its member classes.
func (r *classReader) innerClasses(c *Class, data []byte) {
	sub := &classReader{data: data, pool: r.pool}
	n := int(sub.u2())
	for i := 0; i < n && sub.err == nil; i++ {
		inner := sub.u2()
		outer := sub.u2()
		nameIdx := sub.u2()
		flags := model.Modifiers(sub.u2())
		if sub.err != nil || inner == 0 {
			continue
		}
		innerName := sub.className(inner)
		if innerName != c.Name {
			if outer != 0 && nameIdx != 0 && sub.className(outer) == c.Name {
				c.Nested = append(c.Nested, innerName)
			}
			continue
		}
		if outer != 0 {
			c.Outer = sub.className(outer)
		}
		if nameIdx == 0 {
			c.Anonymous = true
		}
		c.Access = flags | (c.Access & model.AccSynthetic)
	}
	if sub.err != nil {
		r.fail("inner classes: %v", sub.err)
	}
}
