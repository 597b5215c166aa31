package model

// Modifiers is a JVM access-flag bitmask.
type Modifiers uint16

// Access flags shared by source front-ends and class files.
const (
	AccPublic       Modifiers = 0x0001
	AccPrivate      Modifiers = 0x0002
	AccProtected    Modifiers = 0x0004
	AccStatic       Modifiers = 0x0008
	AccFinal        Modifiers = 0x0010
	AccSynchronized Modifiers = 0x0020
	AccSuper        Modifiers = 0x0020
	AccVolatile     Modifiers = 0x0040
	AccBridge       Modifiers = 0x0040
	AccTransient    Modifiers = 0x0080
	AccVarargs      Modifiers = 0x0080
	AccNative       Modifiers = 0x0100
	AccInterface    Modifiers = 0x0200
	AccAbstract     Modifiers = 0x0400
	AccStrict       Modifiers = 0x0800
	AccSynthetic    Modifiers = 0x1000
	AccAnnotation   Modifiers = 0x2000
	AccEnum         Modifiers = 0x4000
)

// Modifier is a single decoded modifier.
type Modifier string

// Decoded modifiers.
const (
	Public         Modifier = "public"
	Protected      Modifier = "protected"
	Private        Modifier = "private"
	PackagePrivate Modifier = "package-private"
	Abstract       Modifier = "abstract"
	Final          Modifier = "final"
	Static         Modifier = "static"
	Synchronized   Modifier = "synchronized"
	Volatile       Modifier = "volatile"
	Transient      Modifier = "transient"
	Native         Modifier = "native"
)

// Target selects which flag bits are meaningful, since class files reuse
// bits across element kinds.
type Target int

// Modifier targets.
const (
	TargetType Target = iota
	TargetField
	TargetMethod
	TargetParameter
)

// Has reports whether all bits of flag are set.
func (m Modifiers) Has(flag Modifiers) bool { return m&flag == flag }

// DecodeModifiers decodes m into visibility first, then the remaining
// modifiers in a fixed order. Exactly one visibility is always present,
// except for parameters which have none.
func DecodeModifiers(m Modifiers, target Target) []Modifier {
	var out []Modifier
	if target != TargetParameter {
		switch {
		case m.Has(AccPublic):
			out = append(out, Public)
		case m.Has(AccProtected):
			out = append(out, Protected)
		case m.Has(AccPrivate):
			out = append(out, Private)
		default:
			out = append(out, PackagePrivate)
		}
	}
	if m.Has(AccAbstract) && target != TargetField && target != TargetParameter {
		out = append(out, Abstract)
	}
	if m.Has(AccFinal) {
		out = append(out, Final)
	}
	if m.Has(AccStatic) && target != TargetParameter {
		out = append(out, Static)
	}
	if target == TargetMethod {
		if m.Has(AccSynchronized) {
			out = append(out, Synchronized)
		}
		if m.Has(AccNative) {
			out = append(out, Native)
		}
	}
	if target == TargetField {
		if m.Has(AccVolatile) {
			out = append(out, Volatile)
		}
		if m.Has(AccTransient) {
			out = append(out, Transient)
		}
	}
	return out
}
