package compiler

import (
	"fmt"

	"github.com/reverie-ui/reverie/internal/ast"
	"github.com/reverie-ui/reverie/internal/ir"
	"github.com/reverie-ui/reverie/internal/scope"
)

var comparisonOps = map[string]ir.CompareOp{
	"==": ir.CmpEquals,
	"!=": ir.CmpNotEquals,
	">":  ir.CmpGreaterThan,
	">=": ir.CmpGreaterThanOrEqual,
	"<":  ir.CmpLessThan,
	"<=": ir.CmpLessThanOrEqual,
}

var logicalOps = map[string]ir.LogicalOp{
	"&&": ir.LogicAnd,
	"||": ir.LogicOr,
}

// CompileCondition lowers a boolean-producing expression to the Condition
// IR. Same-operator logical chains collapse into one flat list: a && b && c
// yields a single "and" with three conditions, not right-nested pairs.
func CompileCondition(node ast.Expr, s *scope.Scope) (ir.Condition, error) {
	bin, ok := node.(*ast.Binary)
	if !ok {
		return nil, errShape(ErrCodeNotACondition,
			fmt.Sprintf("%s cannot be used as a condition", ast.ConstructName(node)), node.Pos())
	}

	if op, ok := comparisonOps[bin.Op]; ok {
		left, err := CompileValue(bin.Left, s)
		if err != nil {
			return nil, err
		}
		right, err := CompileValue(bin.Right, s)
		if err != nil {
			return nil, err
		}
		return &ir.Comparison{Type: op, Left: left, Right: right}, nil
	}

	if op, ok := logicalOps[bin.Op]; ok {
		left, err := CompileCondition(bin.Left, s)
		if err != nil {
			return nil, err
		}
		right, err := CompileCondition(bin.Right, s)
		if err != nil {
			return nil, err
		}
		conditions := appendFlattened(nil, left, op)
		conditions = appendFlattened(conditions, right, op)
		return &ir.Logical{Type: op, Conditions: conditions}, nil
	}

	return nil, errShape(ErrCodeNotACondition,
		fmt.Sprintf("operator %q does not produce a condition", bin.Op), bin.Pos())
}

// appendFlattened splices a same-operator logical child in flat instead of
// nesting it.
func appendFlattened(dst []ir.Condition, c ir.Condition, op ir.LogicalOp) []ir.Condition {
	if l, ok := c.(*ir.Logical); ok && l.Type == op {
		return append(dst, l.Conditions...)
	}
	return append(dst, c)
}
