package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LiteralType classifies a compiled literal. integer vs number is decided
// at compile time by integral-ness of the source literal; color and url are
// string literals sub-classified by shape.
type LiteralType string

const (
	TypeString  LiteralType = "string"
	TypeInteger LiteralType = "integer"
	TypeNumber  LiteralType = "number"
	TypeBool    LiteralType = "bool"
	TypeColor   LiteralType = "color"
	TypeURL     LiteralType = "url"
	TypeArray   LiteralType = "array"
	TypeObject  LiteralType = "object"
	TypeNull    LiteralType = "null"
)

// LitValue is a sealed interface over the plain JSON values a literal can
// carry. Integer and floating-point members stay distinct all the way to
// serialization so recursive integer/number classification survives.
type LitValue interface {
	litValue()
}

// LitString is a string member of a literal.
type LitString string

// LitInt is an integral numeric member of a literal.
type LitInt int64

// LitFloat is a non-integral numeric member of a literal.
type LitFloat float64

// LitBool is a boolean member of a literal.
type LitBool bool

// LitNull is the null literal value.
type LitNull struct{}

// LitArray is an array literal value, members in source order.
type LitArray []LitValue

// LitField is one entry of an object literal value.
type LitField struct {
	Key   string
	Value LitValue
}

// LitObject is an object literal value. Entries keep source declaration
// order; serialization never reorders them.
type LitObject []LitField

func (LitString) litValue() {}
func (LitInt) litValue()    {}
func (LitFloat) litValue()  {}
func (LitBool) litValue()   {}
func (LitNull) litValue()   {}
func (LitArray) litValue()  {}
func (LitObject) litValue() {}

// MarshalLitValue serializes a literal value as plain JSON.
func MarshalLitValue(v LitValue) ([]byte, error) {
	switch val := v.(type) {
	case LitString:
		return json.Marshal(string(val))
	case LitInt:
		return json.Marshal(int64(val))
	case LitFloat:
		return json.Marshal(float64(val))
	case LitBool:
		return json.Marshal(bool(val))
	case LitNull:
		return []byte("null"), nil
	case LitArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := MarshalLitValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case LitObject:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown literal value type: %T", v)
	}
}

// MarshalJSON emits the object with entries in declaration order.
func (o LitObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		valBytes, err := MarshalLitValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", f.Key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a LitArray) MarshalJSON() ([]byte, error) {
	return MarshalLitValue(a)
}

// ValueExpr is the sealed interface over compiled value expressions.
// Exactly four kinds exist: literal, storeValue, computed, eventData.
type ValueExpr interface {
	valueExpr()
	ValueKind() string
}

// Literal is a compile-time constant value.
type Literal struct {
	Type  LiteralType `json:"type"`
	Value LitValue    `json:"value"`
}

// StoreValue reads keyPath out of a store at execution time. KeyPath is
// always a compile-time string literal.
type StoreValue struct {
	StoreRef StoreRef `json:"storeRef"`
	KeyPath  string   `json:"keyPath"`
}

// Operation is an arithmetic operation of a Computed value.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

// Computed combines operand values arithmetically at execution time.
type Computed struct {
	Operation Operation   `json:"operation"`
	Operands  []ValueExpr `json:"operands"`
}

// EventData references a path into the payload the runtime passes to the
// handler, resolved at compile time only as a dotted path.
type EventData struct {
	Path string `json:"path"`
}

func (*Literal) valueExpr()    {}
func (*StoreValue) valueExpr() {}
func (*Computed) valueExpr()   {}
func (*EventData) valueExpr()  {}

func (*Literal) ValueKind() string    { return "literal" }
func (*StoreValue) ValueKind() string { return "storeValue" }
func (*Computed) ValueKind() string   { return "computed" }
func (*EventData) ValueKind() string  { return "eventData" }

// marshalKinded marshals v (a method-set-stripped alias of a node struct)
// and splices a leading "kind" discriminant in front of its fields.
func marshalKinded(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"kind":"`)
	buf.WriteString(kind)
	buf.WriteByte('"')
	if !bytes.Equal(body, []byte("{}")) {
		buf.WriteByte(',')
		buf.Write(body[1:])
		return buf.Bytes(), nil
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *Literal) MarshalJSON() ([]byte, error) {
	valBytes, err := MarshalLitValue(l.Value)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"kind":"literal","type":"`)
	buf.WriteString(string(l.Type))
	buf.WriteString(`","value":`)
	buf.Write(valBytes)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *StoreValue) MarshalJSON() ([]byte, error) {
	type alias StoreValue
	return marshalKinded("storeValue", (*alias)(s))
}

func (c *Computed) MarshalJSON() ([]byte, error) {
	type alias Computed
	return marshalKinded("computed", (*alias)(c))
}

func (e *EventData) MarshalJSON() ([]byte, error) {
	type alias EventData
	return marshalKinded("eventData", (*alias)(e))
}

// ExprField is one entry of an ordered expression map (request headers,
// navigation params).
type ExprField struct {
	Key   string
	Value ValueExpr
}

// ExprFields is an ordered JSON object whose values are value expressions.
// Source declaration order is preserved because downstream diffing is
// structurally sensitive.
type ExprFields []ExprField

func (f ExprFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		valBytes, err := json.Marshal(field.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
