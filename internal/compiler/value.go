package compiler

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/reverie-ui/reverie/internal/ast"
	"github.com/reverie-ui/reverie/internal/ir"
	"github.com/reverie-ui/reverie/internal/scope"
)

// colorPattern matches #rgb, #rgba, #rrggbb and #rrggbbaa hex literals.
var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// classifyString sub-types a string literal by shape.
func classifyString(s string) ir.LiteralType {
	if colorPattern.MatchString(s) {
		return ir.TypeColor
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return ir.TypeURL
	}
	return ir.TypeString
}

// isIntegral reports whether a numeric literal is mathematically integral
// and representable, which makes its compiled type "integer".
func isIntegral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) <= math.MaxInt64
}

// CompileValue lowers a value-producing expression to the Value IR.
func CompileValue(node ast.Expr, s *scope.Scope) (ir.ValueExpr, error) {
	switch n := node.(type) {
	case *ast.StringLit:
		return &ir.Literal{Type: classifyString(n.Value), Value: ir.LitString(n.Value)}, nil

	case *ast.NumberLit:
		if isIntegral(n.Value) {
			return &ir.Literal{Type: ir.TypeInteger, Value: ir.LitInt(int64(n.Value))}, nil
		}
		return &ir.Literal{Type: ir.TypeNumber, Value: ir.LitFloat(n.Value)}, nil

	case *ast.BoolLit:
		return &ir.Literal{Type: ir.TypeBool, Value: ir.LitBool(n.Value)}, nil

	case *ast.NullLit:
		return &ir.Literal{Type: ir.TypeNull, Value: ir.LitNull{}}, nil

	case *ast.ArrayLit:
		val, err := compileLitValue(n)
		if err != nil {
			return nil, err
		}
		return &ir.Literal{Type: ir.TypeArray, Value: val}, nil

	case *ast.ObjectLit:
		val, err := compileLitValue(n)
		if err != nil {
			return nil, err
		}
		return &ir.Literal{Type: ir.TypeObject, Value: val}, nil

	case *ast.Ident:
		return compileReference(n, nil, s)

	case *ast.Member:
		root, path, ok := memberChain(n)
		if !ok {
			return nil, errUnsupported("member expression", n.Pos())
		}
		return compileReference(root, path, s)

	case *ast.Call:
		return compileValueCall(n, s)

	case *ast.Binary:
		op, ok := arithmeticOps[n.Op]
		if !ok {
			return nil, errShape(ErrCodeArgumentShape,
				fmt.Sprintf("operator %q does not produce a value", n.Op), n.Pos())
		}
		left, err := CompileValue(n.Left, s)
		if err != nil {
			return nil, err
		}
		right, err := CompileValue(n.Right, s)
		if err != nil {
			return nil, err
		}
		return &ir.Computed{Operation: op, Operands: []ir.ValueExpr{left, right}}, nil

	default:
		return nil, errUnsupported(ast.ConstructName(node), node.Pos())
	}
}

var arithmeticOps = map[string]ir.Operation{
	"+": ir.OpAdd,
	"-": ir.OpSubtract,
	"*": ir.OpMultiply,
	"/": ir.OpDivide,
}

// memberChain unrolls a member-access chain down to its root identifier.
// Returns ok=false when the chain is not rooted at a bare identifier.
func memberChain(m *ast.Member) (root *ast.Ident, path []string, ok bool) {
	path = []string{m.Property}
	cur := m.Target
	for {
		switch t := cur.(type) {
		case *ast.Ident:
			// path was collected innermost-last; reverse into source order
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return t, path, true
		case *ast.Member:
			path = append(path, t.Property)
			cur = t.Target
		default:
			return nil, nil, false
		}
	}
}

// compileReference lowers a bare identifier or member chain. Only event
// parameters are referenceable as values; the path is the dotted access
// chain starting at the parameter name.
func compileReference(root *ast.Ident, path []string, s *scope.Scope) (ir.ValueExpr, error) {
	b, ok := s.Resolve(root.Name)
	if !ok {
		return nil, errExternalRef(root.Name, root.Pos())
	}
	switch b.(type) {
	case *scope.EventParamBinding:
		full := root.Name
		if len(path) > 0 {
			full += "." + strings.Join(path, ".")
		}
		return &ir.EventData{Path: full}, nil
	case *scope.StoreBinding:
		return nil, errShape(ErrCodeArgumentShape,
			fmt.Sprintf("store %q cannot be used as a value; call %s.get(keyPath)", root.Name, root.Name),
			root.Pos())
	default:
		return nil, errShape(ErrCodeArgumentShape,
			fmt.Sprintf("namespace %q cannot be used as a value", root.Name), root.Pos())
	}
}

// compileValueCall lowers the one value-producing call form,
// <store>.get(<string literal>).
func compileValueCall(call *ast.Call, s *scope.Scope) (ir.ValueExpr, error) {
	switch target := scope.Classify(call, s).(type) {
	case *scope.StoreMethodCall:
		if target.Method != "get" {
			return nil, errShape(ErrCodeUnknownMethod,
				fmt.Sprintf("store method %q does not produce a value", target.Method), call.Pos())
		}
		keyPath, err := literalKeyPath(call, 0)
		if err != nil {
			return nil, err
		}
		return &ir.StoreValue{StoreRef: target.Ref, KeyPath: keyPath}, nil

	case *scope.NamespaceCall:
		return nil, errShape(ErrCodeArgumentShape,
			fmt.Sprintf("%s.%s() does not produce a value", target.Namespace, target.Fn), call.Pos())

	default:
		return nil, unknownCallError(call, s)
	}
}

// literalKeyPath extracts the key-path argument at index i; key paths are
// always compile-time string literals, never runtime-dependent.
func literalKeyPath(call *ast.Call, i int) (string, error) {
	if len(call.Args) <= i {
		return "", errShape(ErrCodeKeyPath, "missing key path argument", call.Pos())
	}
	lit, ok := call.Args[i].(*ast.StringLit)
	if !ok {
		return "", errShape(ErrCodeKeyPath,
			"key path must be a string literal", call.Args[i].Pos())
	}
	return lit.Value, nil
}

// unknownCallError turns an unclassifiable call into the right diagnostic:
// a reference error when the root identifier is unresolved, a capability
// error otherwise.
func unknownCallError(call *ast.Call, s *scope.Scope) error {
	if u, ok := scope.Classify(call, s).(*scope.UnknownCall); ok && u.Name != "" {
		if _, resolved := s.Resolve(u.Name); !resolved {
			return errExternalRef(u.Name, call.Pos())
		}
	}
	return errUnsupported("call expression", call.Pos())
}

// compileLitValue lowers a literal-only expression tree to a plain literal
// value, classifying numeric members integer vs number recursively and
// preserving source order. Non-literal members are rejected.
func compileLitValue(node ast.Expr) (ir.LitValue, error) {
	switch n := node.(type) {
	case *ast.StringLit:
		return ir.LitString(n.Value), nil
	case *ast.NumberLit:
		if isIntegral(n.Value) {
			return ir.LitInt(int64(n.Value)), nil
		}
		return ir.LitFloat(n.Value), nil
	case *ast.BoolLit:
		return ir.LitBool(n.Value), nil
	case *ast.NullLit:
		return ir.LitNull{}, nil
	case *ast.ArrayLit:
		arr := make(ir.LitArray, len(n.Elems))
		for i, elem := range n.Elems {
			v, err := compileLitValue(elem)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case *ast.ObjectLit:
		obj := make(ir.LitObject, len(n.Fields))
		for i, f := range n.Fields {
			v, err := compileLitValue(f.Value)
			if err != nil {
				return nil, err
			}
			obj[i] = ir.LitField{Key: f.Key, Value: v}
		}
		return obj, nil
	default:
		return nil, errShape(ErrCodeArgumentShape,
			fmt.Sprintf("expected a literal value, found %s", ast.ConstructName(node)), node.Pos())
	}
}
