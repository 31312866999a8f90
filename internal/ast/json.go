package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The front-end parser hands modules to the compiler as JSON, one object
// per node with a "node" discriminant. This file is the codec for that
// interchange form; it is what `reverie compile` loads.

// UnmarshalModule decodes a parser-emitted module AST.
func UnmarshalModule(data []byte) (*Module, error) {
	var m Module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode module AST: %w", err)
	}
	return &m, nil
}

// MarshalModule encodes a module AST back to the interchange form.
func MarshalModule(m *Module) ([]byte, error) {
	return json.Marshal(m)
}

// marshalNode marshals v (an alias of a node struct, so the method set is
// stripped) and splices the "node" discriminant in front of its fields.
func marshalNode(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"node":`)
	kindBytes, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	buf.Write(kindBytes)
	if !bytes.Equal(body, []byte("{}")) {
		buf.WriteByte(',')
		buf.Write(body[1:])
		return buf.Bytes(), nil
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeExpr(data []byte) (Expr, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var head struct {
		Node string `json:"node"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Node {
	case "ident":
		n := &Ident{}
		return n, json.Unmarshal(data, n)
	case "string":
		n := &StringLit{}
		return n, json.Unmarshal(data, n)
	case "number":
		n := &NumberLit{}
		return n, json.Unmarshal(data, n)
	case "bool":
		n := &BoolLit{}
		return n, json.Unmarshal(data, n)
	case "null":
		n := &NullLit{}
		return n, json.Unmarshal(data, n)
	case "array":
		n := &ArrayLit{}
		return n, json.Unmarshal(data, n)
	case "object":
		n := &ObjectLit{}
		return n, json.Unmarshal(data, n)
	case "member":
		n := &Member{}
		return n, json.Unmarshal(data, n)
	case "call":
		n := &Call{}
		return n, json.Unmarshal(data, n)
	case "binary":
		n := &Binary{}
		return n, json.Unmarshal(data, n)
	case "unary":
		n := &Unary{}
		return n, json.Unmarshal(data, n)
	case "arrow":
		n := &Arrow{}
		return n, json.Unmarshal(data, n)
	case "assign":
		n := &Assign{}
		return n, json.Unmarshal(data, n)
	default:
		return nil, fmt.Errorf("unknown expression node %q", head.Node)
	}
}

func decodeStmt(data []byte) (Stmt, error) {
	var head struct {
		Node string `json:"node"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Node {
	case "exprStmt":
		n := &ExprStmt{}
		return n, json.Unmarshal(data, n)
	case "if":
		n := &IfStmt{}
		return n, json.Unmarshal(data, n)
	case "var":
		n := &VarDecl{}
		return n, json.Unmarshal(data, n)
	case "return":
		n := &ReturnStmt{}
		return n, json.Unmarshal(data, n)
	case "for":
		n := &ForStmt{}
		return n, json.Unmarshal(data, n)
	case "while":
		n := &WhileStmt{}
		return n, json.Unmarshal(data, n)
	case "try":
		n := &TryStmt{}
		return n, json.Unmarshal(data, n)
	case "switch":
		n := &SwitchStmt{}
		return n, json.Unmarshal(data, n)
	case "import":
		n := &ImportDecl{}
		return n, json.Unmarshal(data, n)
	default:
		return nil, fmt.Errorf("unknown statement node %q", head.Node)
	}
}

func decodeExprList(raws []json.RawMessage) ([]Expr, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]Expr, len(raws))
	for i, raw := range raws {
		e, err := decodeExpr(raw)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

func decodeStmtList(raws []json.RawMessage) ([]Stmt, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]Stmt, len(raws))
	for i, raw := range raws {
		s, err := decodeStmt(raw)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

func (n *Ident) MarshalJSON() ([]byte, error) {
	type alias Ident
	return marshalNode("ident", (*alias)(n))
}

func (n *StringLit) MarshalJSON() ([]byte, error) {
	type alias StringLit
	return marshalNode("string", (*alias)(n))
}

func (n *NumberLit) MarshalJSON() ([]byte, error) {
	type alias NumberLit
	return marshalNode("number", (*alias)(n))
}

func (n *BoolLit) MarshalJSON() ([]byte, error) {
	type alias BoolLit
	return marshalNode("bool", (*alias)(n))
}

func (n *NullLit) MarshalJSON() ([]byte, error) {
	type alias NullLit
	return marshalNode("null", (*alias)(n))
}

func (n *ArrayLit) MarshalJSON() ([]byte, error) {
	type alias ArrayLit
	return marshalNode("array", (*alias)(n))
}

func (n *ArrayLit) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position          `json:"pos"`
		Elems    []json.RawMessage `json:"elems"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	elems, err := decodeExprList(shadow.Elems)
	if err != nil {
		return fmt.Errorf("array elems: %w", err)
	}
	n.Position = shadow.Position
	n.Elems = elems
	return nil
}

func (n *ObjectLit) MarshalJSON() ([]byte, error) {
	type alias ObjectLit
	return marshalNode("object", (*alias)(n))
}

func (n *ObjectLit) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position `json:"pos"`
		Fields   []struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	n.Position = shadow.Position
	n.Fields = make([]ObjectField, len(shadow.Fields))
	for i, f := range shadow.Fields {
		v, err := decodeExpr(f.Value)
		if err != nil {
			return fmt.Errorf("object field %q: %w", f.Key, err)
		}
		n.Fields[i] = ObjectField{Key: f.Key, Value: v}
	}
	return nil
}

func (n *Member) MarshalJSON() ([]byte, error) {
	type alias Member
	return marshalNode("member", (*alias)(n))
}

func (n *Member) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position        `json:"pos"`
		Target   json.RawMessage `json:"target"`
		Property string          `json:"property"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	target, err := decodeExpr(shadow.Target)
	if err != nil {
		return fmt.Errorf("member target: %w", err)
	}
	n.Position = shadow.Position
	n.Target = target
	n.Property = shadow.Property
	return nil
}

func (n *Call) MarshalJSON() ([]byte, error) {
	type alias Call
	return marshalNode("call", (*alias)(n))
}

func (n *Call) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position          `json:"pos"`
		Callee   json.RawMessage   `json:"callee"`
		Args     []json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	callee, err := decodeExpr(shadow.Callee)
	if err != nil {
		return fmt.Errorf("call callee: %w", err)
	}
	args, err := decodeExprList(shadow.Args)
	if err != nil {
		return fmt.Errorf("call args: %w", err)
	}
	n.Position = shadow.Position
	n.Callee = callee
	n.Args = args
	return nil
}

func (n *Binary) MarshalJSON() ([]byte, error) {
	type alias Binary
	return marshalNode("binary", (*alias)(n))
}

func (n *Binary) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position        `json:"pos"`
		Op       string          `json:"op"`
		Left     json.RawMessage `json:"left"`
		Right    json.RawMessage `json:"right"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	left, err := decodeExpr(shadow.Left)
	if err != nil {
		return fmt.Errorf("binary left: %w", err)
	}
	right, err := decodeExpr(shadow.Right)
	if err != nil {
		return fmt.Errorf("binary right: %w", err)
	}
	n.Position = shadow.Position
	n.Op = shadow.Op
	n.Left = left
	n.Right = right
	return nil
}

func (n *Unary) MarshalJSON() ([]byte, error) {
	type alias Unary
	return marshalNode("unary", (*alias)(n))
}

func (n *Unary) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position        `json:"pos"`
		Op       string          `json:"op"`
		Operand  json.RawMessage `json:"operand"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	operand, err := decodeExpr(shadow.Operand)
	if err != nil {
		return fmt.Errorf("unary operand: %w", err)
	}
	n.Position = shadow.Position
	n.Op = shadow.Op
	n.Operand = operand
	return nil
}

func (n *Arrow) MarshalJSON() ([]byte, error) {
	type alias Arrow
	return marshalNode("arrow", (*alias)(n))
}

func (n *Arrow) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position          `json:"pos"`
		Async    bool              `json:"async"`
		Params   []string          `json:"params"`
		Body     []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	body, err := decodeStmtList(shadow.Body)
	if err != nil {
		return fmt.Errorf("arrow body: %w", err)
	}
	n.Position = shadow.Position
	n.Async = shadow.Async
	n.Params = shadow.Params
	n.Body = body
	return nil
}

func (n *Assign) MarshalJSON() ([]byte, error) {
	type alias Assign
	return marshalNode("assign", (*alias)(n))
}

func (n *Assign) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position        `json:"pos"`
		Target   json.RawMessage `json:"target"`
		Value    json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	target, err := decodeExpr(shadow.Target)
	if err != nil {
		return fmt.Errorf("assign target: %w", err)
	}
	value, err := decodeExpr(shadow.Value)
	if err != nil {
		return fmt.Errorf("assign value: %w", err)
	}
	n.Position = shadow.Position
	n.Target = target
	n.Value = value
	return nil
}

func (n *ExprStmt) MarshalJSON() ([]byte, error) {
	type alias ExprStmt
	return marshalNode("exprStmt", (*alias)(n))
}

func (n *ExprStmt) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position        `json:"pos"`
		X        json.RawMessage `json:"expr"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	x, err := decodeExpr(shadow.X)
	if err != nil {
		return fmt.Errorf("expression statement: %w", err)
	}
	n.Position = shadow.Position
	n.X = x
	return nil
}

func (n *IfStmt) MarshalJSON() ([]byte, error) {
	type alias IfStmt
	return marshalNode("if", (*alias)(n))
}

func (n *IfStmt) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position          `json:"pos"`
		Cond     json.RawMessage   `json:"cond"`
		Then     []json.RawMessage `json:"then"`
		Else     []json.RawMessage `json:"else"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	cond, err := decodeExpr(shadow.Cond)
	if err != nil {
		return fmt.Errorf("if cond: %w", err)
	}
	then, err := decodeStmtList(shadow.Then)
	if err != nil {
		return fmt.Errorf("if then: %w", err)
	}
	els, err := decodeStmtList(shadow.Else)
	if err != nil {
		return fmt.Errorf("if else: %w", err)
	}
	n.Position = shadow.Position
	n.Cond = cond
	n.Then = then
	n.Else = els
	return nil
}

func (n *VarDecl) MarshalJSON() ([]byte, error) {
	type alias VarDecl
	return marshalNode("var", (*alias)(n))
}

func (n *VarDecl) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position        `json:"pos"`
		Kind     string          `json:"kind"`
		Name     string          `json:"name"`
		Init     json.RawMessage `json:"init"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	init, err := decodeExpr(shadow.Init)
	if err != nil {
		return fmt.Errorf("declaration of %q: %w", shadow.Name, err)
	}
	n.Position = shadow.Position
	n.Kind = shadow.Kind
	n.Name = shadow.Name
	n.Init = init
	return nil
}

func (n *ReturnStmt) MarshalJSON() ([]byte, error) {
	type alias ReturnStmt
	return marshalNode("return", (*alias)(n))
}

func (n *ReturnStmt) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position        `json:"pos"`
		Result   json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	result, err := decodeExpr(shadow.Result)
	if err != nil {
		return fmt.Errorf("return result: %w", err)
	}
	n.Position = shadow.Position
	n.Result = result
	return nil
}

func (n *ForStmt) MarshalJSON() ([]byte, error) {
	type alias ForStmt
	return marshalNode("for", (*alias)(n))
}

func (n *ForStmt) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position          `json:"pos"`
		Body     []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	body, err := decodeStmtList(shadow.Body)
	if err != nil {
		return fmt.Errorf("for body: %w", err)
	}
	n.Position = shadow.Position
	n.Body = body
	return nil
}

func (n *WhileStmt) MarshalJSON() ([]byte, error) {
	type alias WhileStmt
	return marshalNode("while", (*alias)(n))
}

func (n *WhileStmt) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position          `json:"pos"`
		Cond     json.RawMessage   `json:"cond"`
		Body     []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	cond, err := decodeExpr(shadow.Cond)
	if err != nil {
		return fmt.Errorf("while cond: %w", err)
	}
	body, err := decodeStmtList(shadow.Body)
	if err != nil {
		return fmt.Errorf("while body: %w", err)
	}
	n.Position = shadow.Position
	n.Cond = cond
	n.Body = body
	return nil
}

func (n *TryStmt) MarshalJSON() ([]byte, error) {
	type alias TryStmt
	return marshalNode("try", (*alias)(n))
}

func (n *TryStmt) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position          `json:"pos"`
		Body     []json.RawMessage `json:"body"`
		Handler  []json.RawMessage `json:"handler"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	body, err := decodeStmtList(shadow.Body)
	if err != nil {
		return fmt.Errorf("try body: %w", err)
	}
	handler, err := decodeStmtList(shadow.Handler)
	if err != nil {
		return fmt.Errorf("try handler: %w", err)
	}
	n.Position = shadow.Position
	n.Body = body
	n.Handler = handler
	return nil
}

func (n *SwitchStmt) MarshalJSON() ([]byte, error) {
	type alias SwitchStmt
	return marshalNode("switch", (*alias)(n))
}

func (n *SwitchStmt) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Position Position        `json:"pos"`
		Tag      json.RawMessage `json:"tag"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	tag, err := decodeExpr(shadow.Tag)
	if err != nil {
		return fmt.Errorf("switch tag: %w", err)
	}
	n.Position = shadow.Position
	n.Tag = tag
	return nil
}

func (n *ImportDecl) MarshalJSON() ([]byte, error) {
	type alias ImportDecl
	return marshalNode("import", (*alias)(n))
}

func (p *Prop) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	value, err := decodeExpr(shadow.Value)
	if err != nil {
		return fmt.Errorf("prop %q: %w", shadow.Name, err)
	}
	p.Name = shadow.Name
	p.Value = value
	return nil
}

func (m *Module) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Name string            `json:"name"`
		Body []json.RawMessage `json:"body"`
		Root *Element          `json:"root"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	body, err := decodeStmtList(shadow.Body)
	if err != nil {
		return fmt.Errorf("module body: %w", err)
	}
	m.Name = shadow.Name
	m.Body = body
	m.Root = shadow.Root
	return nil
}
