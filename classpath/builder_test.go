package classpath

import (
	"bytes"
	"encoding/binary"
)

// classBuilder assembles class files for tests.
type classBuilder struct {
	name      string
	access    uint16
	super     string
	ifaces    []string
	signature string
	fields    []memberSpec
	methods   []memberSpec
	inner     []innerSpec
	withLong  bool

	pool  bytes.Buffer
	count uint16
	index map[string]uint16
}

type memberSpec struct {
	access     uint16
	name       string
	desc       string
	sig        string
	exceptions []string
}

type innerSpec struct {
	inner, outer, name string
	access             uint16
}

func newClass(internalName string) *classBuilder {
	return &classBuilder{
		name:   internalName,
		access: 0x0021, // public super
		super:  "java/lang/Object",
		count:  1,
		index:  make(map[string]uint16),
	}
}

func (b *classBuilder) utf8(s string) uint16 {
	key := "u:" + s
	if i, ok := b.index[key]; ok {
		return i
	}
	b.pool.WriteByte(tagUtf8)
	_ = binary.Write(&b.pool, binary.BigEndian, uint16(len(s)))
	b.pool.WriteString(s)
	i := b.count
	b.count++
	b.index[key] = i
	return i
}

func (b *classBuilder) classRef(internal string) uint16 {
	key := "c:" + internal
	if i, ok := b.index[key]; ok {
		return i
	}
	nameIdx := b.utf8(internal)
	b.pool.WriteByte(tagClass)
	_ = binary.Write(&b.pool, binary.BigEndian, nameIdx)
	i := b.count
	b.count++
	b.index[key] = i
	return i
}

func (b *classBuilder) long() {
	b.pool.WriteByte(tagLong)
	_ = binary.Write(&b.pool, binary.BigEndian, uint64(42))
	b.count += 2
}

func u2(buf *bytes.Buffer, v uint16) { _ = binary.Write(buf, binary.BigEndian, v) }
func u4(buf *bytes.Buffer, v uint32) { _ = binary.Write(buf, binary.BigEndian, v) }

func (b *classBuilder) attribute(buf *bytes.Buffer, name string, data []byte) {
	u2(buf, b.utf8(name))
	u4(buf, uint32(len(data)))
	buf.Write(data)
}

func (b *classBuilder) members(buf *bytes.Buffer, ms []memberSpec) {
	u2(buf, uint16(len(ms)))
	for _, m := range ms {
		u2(buf, m.access)
		u2(buf, b.utf8(m.name))
		u2(buf, b.utf8(m.desc))
		var attrs uint16
		if m.sig != "" {
			attrs++
		}
		if len(m.exceptions) > 0 {
			attrs++
		}
		u2(buf, attrs)
		if m.sig != "" {
			var data bytes.Buffer
			u2(&data, b.utf8(m.sig))
			b.attribute(buf, "Signature", data.Bytes())
		}
		if len(m.exceptions) > 0 {
			var data bytes.Buffer
			u2(&data, uint16(len(m.exceptions)))
			for _, e := range m.exceptions {
				u2(&data, b.classRef(e))
			}
			b.attribute(buf, "Exceptions", data.Bytes())
		}
	}
}

func (b *classBuilder) build() []byte {
	if b.withLong {
		b.long()
	}
	var body bytes.Buffer
	u2(&body, b.access)
	u2(&body, b.classRef(b.name))
	if b.super == "" {
		u2(&body, 0)
	} else {
		u2(&body, b.classRef(b.super))
	}
	u2(&body, uint16(len(b.ifaces)))
	for _, i := range b.ifaces {
		u2(&body, b.classRef(i))
	}
	b.members(&body, b.fields)
	b.members(&body, b.methods)

	var attrs uint16
	var attrBody bytes.Buffer
	if b.signature != "" {
		attrs++
		var data bytes.Buffer
		u2(&data, b.utf8(b.signature))
		b.attribute(&attrBody, "Signature", data.Bytes())
	}
	if len(b.inner) > 0 {
		attrs++
		var data bytes.Buffer
		u2(&data, uint16(len(b.inner)))
		for _, in := range b.inner {
			u2(&data, b.classRef(in.inner))
			if in.outer == "" {
				u2(&data, 0)
			} else {
				u2(&data, b.classRef(in.outer))
			}
			if in.name == "" {
				u2(&data, 0)
			} else {
				u2(&data, b.utf8(in.name))
			}
			u2(&data, in.access)
		}
		b.attribute(&attrBody, "InnerClasses", data.Bytes())
	}
	u2(&body, attrs)
	body.Write(attrBody.Bytes())

	var out bytes.Buffer
	u4(&out, classMagic)
	u2(&out, 0)
	u2(&out, 52)
	u2(&out, b.count)
	out.Write(b.pool.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}
