package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CompareOp is a comparison condition type.
type CompareOp string

const (
	CmpEquals             CompareOp = "equals"
	CmpNotEquals          CompareOp = "notEquals"
	CmpGreaterThan        CompareOp = "greaterThan"
	CmpGreaterThanOrEqual CompareOp = "greaterThanOrEqual"
	CmpLessThan           CompareOp = "lessThan"
	CmpLessThanOrEqual    CompareOp = "lessThanOrEqual"
)

// LogicalOp is a logical combinator type.
type LogicalOp string

const (
	LogicAnd LogicalOp = "and"
	LogicOr  LogicalOp = "or"
)

// Condition is the sealed interface over compiled boolean expressions.
// The serialized discriminant is the "type" field: one of the comparison
// operators or "and"/"or".
type Condition interface {
	condition()
	ConditionType() string
}

// Comparison compares two value expressions.
type Comparison struct {
	Type  CompareOp
	Left  ValueExpr
	Right ValueExpr
}

// Logical combines conditions with one operator. Same-operator chains are
// collapsed into a single flat Conditions list by the compiler, never
// nested pairs.
type Logical struct {
	Type       LogicalOp
	Conditions []Condition
}

func (*Comparison) condition() {}
func (*Logical) condition()    {}

func (c *Comparison) ConditionType() string { return string(c.Type) }
func (l *Logical) ConditionType() string    { return string(l.Type) }

func (c *Comparison) MarshalJSON() ([]byte, error) {
	leftBytes, err := json.Marshal(c.Left)
	if err != nil {
		return nil, fmt.Errorf("comparison left: %w", err)
	}
	rightBytes, err := json.Marshal(c.Right)
	if err != nil {
		return nil, fmt.Errorf("comparison right: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"type":"`)
	buf.WriteString(string(c.Type))
	buf.WriteString(`","left":`)
	buf.Write(leftBytes)
	buf.WriteString(`,"right":`)
	buf.Write(rightBytes)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *Logical) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"`)
	buf.WriteString(string(l.Type))
	buf.WriteString(`","conditions":[`)
	for i, cond := range l.Conditions {
		if i > 0 {
			buf.WriteByte(',')
		}
		condBytes, err := json.Marshal(cond)
		if err != nil {
			return nil, fmt.Errorf("conditions[%d]: %w", i, err)
		}
		buf.Write(condBytes)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}
