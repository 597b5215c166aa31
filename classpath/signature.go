package classpath

import (
	"fmt"

	"github.com/c360studio/codeontology/model"
)

// MethodType is the shape of a method: erased when read from a descriptor,
// generic when read from a Signature attribute.
type MethodType struct {
	TypeParameters []*model.TypeParameter
	Parameters     []*model.TypeRef
	Return         *model.TypeRef
	Throws         []*model.TypeRef
}

// ClassSignature is the generic shape of a class header.
type ClassSignature struct {
	TypeParameters []*model.TypeParameter
	Superclass     *model.TypeRef
	Interfaces     []*model.TypeRef
}

var primitives = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

type sigParser struct {
	s   string
	pos int
}

func (p *sigParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: signature %q at %d: %s", ErrMalformed, p.s, p.pos, fmt.Sprintf(format, args...))
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *sigParser) done() error {
	if p.pos != len(p.s) {
		return p.errorf("trailing data")
	}
	return nil
}

// identifier reads up to, not including, any byte in stop.
func (p *sigParser) identifier(stop string) (string, error) {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		for i := 0; i < len(stop); i++ {
			if c == stop[i] {
				if p.pos == start {
					return "", p.errorf("empty identifier")
				}
				return p.s[start:p.pos], nil
			}
		}
		p.pos++
	}
	return "", p.errorf("unterminated identifier")
}

func (p *sigParser) javaType() (*model.TypeRef, error) {
	c := p.peek()
	if kw, ok := primitives[c]; ok {
		p.pos++
		return model.Primitive(kw), nil
	}
	return p.referenceType()
}

func (p *sigParser) referenceType() (*model.TypeRef, error) {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		p.pos++
		name, err := p.identifier(";")
		if err != nil {
			return nil, err
		}
		p.pos++
		return model.TypeVariable(name), nil
	case '[':
		p.pos++
		component, err := p.javaType()
		if err != nil {
			return nil, err
		}
		if component.Kind == model.RefPrimitive && component.Name == "void" {
			return nil, p.errorf("array of void")
		}
		return model.ArrayOf(component), nil
	default:
		return nil, p.errorf("unexpected %q", p.peek())
	}
}

// classType reads L pkg/Outer<..>.Inner<..>; keeping the innermost type
// arguments. Outer arguments of a nested parameterized type are dropped.
func (p *sigParser) classType() (*model.TypeRef, error) {
	if err := p.expect('L'); err != nil {
		return nil, err
	}
	ident, err := p.identifier("<;.")
	if err != nil {
		return nil, err
	}
	ref := model.Named(binaryName(ident))
	for {
		if p.peek() == '<' {
			args, err := p.typeArguments()
			if err != nil {
				return nil, err
			}
			ref.Arguments = args
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
		inner, err := p.identifier("<;.")
		if err != nil {
			return nil, err
		}
		ref = model.Named(ref.Name + "$" + inner)
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	return ref, nil
}

func (p *sigParser) typeArguments() ([]*model.TypeRef, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var args []*model.TypeRef
	for p.peek() != '>' {
		switch p.peek() {
		case 0:
			return nil, p.errorf("unterminated type arguments")
		case '*':
			p.pos++
			args = append(args, &model.TypeRef{Kind: model.RefWildcard})
		case '+', '-':
			kind := model.BoundExtends
			if p.peek() == '-' {
				kind = model.BoundSuper
			}
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			args = append(args, &model.TypeRef{Kind: model.RefWildcard, Bound: bound, BoundKind: kind})
		default:
			arg, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	p.pos++
	if len(args) == 0 {
		return nil, p.errorf("empty type arguments")
	}
	return args, nil
}

func (p *sigParser) typeParameters() ([]*model.TypeParameter, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var params []*model.TypeParameter
	for p.peek() != '>' {
		if p.peek() == 0 {
			return nil, p.errorf("unterminated type parameters")
		}
		name, err := p.identifier(":")
		if err != nil {
			return nil, err
		}
		tp := &model.TypeParameter{Name: name}
		p.pos++
		if c := p.peek(); c == 'L' || c == 'T' || c == '[' {
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, bound)
		}
		for p.peek() == ':' {
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, bound)
		}
		params = append(params, tp)
	}
	p.pos++
	return params, nil
}

func (p *sigParser) methodType() (*MethodType, error) {
	mt := &MethodType{}
	var err error
	if mt.TypeParameters, err = p.typeParameters(); err != nil {
		return nil, err
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek() != ')' {
		if p.peek() == 0 {
			return nil, p.errorf("unterminated parameter list")
		}
		param, err := p.javaType()
		if err != nil {
			return nil, err
		}
		if param.Kind == model.RefPrimitive && param.Name == "void" {
			return nil, p.errorf("void parameter")
		}
		mt.Parameters = append(mt.Parameters, param)
	}
	p.pos++
	if mt.Return, err = p.javaType(); err != nil {
		return nil, err
	}
	for p.peek() == '^' {
		p.pos++
		thrown, err := p.referenceType()
		if err != nil {
			return nil, err
		}
		mt.Throws = append(mt.Throws, thrown)
	}
	return mt, p.done()
}

// ParseFieldDescriptor decodes an erased field descriptor such as
// "[Ljava/lang/String;".
func ParseFieldDescriptor(s string) (*model.TypeRef, error) {
	p := &sigParser{s: s}
	t, err := p.javaType()
	if err != nil {
		return nil, err
	}
	if t.Kind == model.RefPrimitive && t.Name == "void" {
		return nil, p.errorf("void field")
	}
	return t, p.done()
}

// ParseFieldSignature decodes a generic field signature such as
// "Ljava/util/List<Ljava/lang/String;>;".
func ParseFieldSignature(s string) (*model.TypeRef, error) {
	p := &sigParser{s: s}
	t, err := p.referenceType()
	if err != nil {
		return nil, err
	}
	return t, p.done()
}

// ParseMethodDescriptor decodes an erased method descriptor.
func ParseMethodDescriptor(s string) (*MethodType, error) {
	p := &sigParser{s: s}
	return p.methodType()
}

// ParseMethodSignature decodes a generic method signature.
func ParseMethodSignature(s string) (*MethodType, error) {
	p := &sigParser{s: s}
	return p.methodType()
}

// ParseClassSignature decodes a generic class signature.
func ParseClassSignature(s string) (*ClassSignature, error) {
	p := &sigParser{s: s}
	cs := &ClassSignature{}
	var err error
	if cs.TypeParameters, err = p.typeParameters(); err != nil {
		return nil, err
	}
	if cs.Superclass, err = p.classType(); err != nil {
		return nil, err
	}
	for p.peek() == 'L' {
		iface, err := p.classType()
		if err != nil {
			return nil, err
		}
		cs.Interfaces = append(cs.Interfaces, iface)
	}
	return cs, p.done()
}
