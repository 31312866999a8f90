package ast

import "fmt"

// Position identifies a location in an authoring module source file.
// The zero value means "position unknown".
type Position struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
}

// IsValid reports whether the position carries real source coordinates.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Node is implemented by every AST node.
type Node interface {
	Pos() Position
}

// Expr is a value-producing node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Ident is a bare identifier reference.
type Ident struct {
	Position Position `json:"pos,omitzero"`
	Name     string   `json:"name"`
}

// StringLit is a string literal.
type StringLit struct {
	Position Position `json:"pos,omitzero"`
	Value    string   `json:"value"`
}

// NumberLit is a numeric literal. The source distinction between integer
// and floating-point forms is not preserved by the front end; integral-ness
// is re-derived from the value during compilation.
type NumberLit struct {
	Position Position `json:"pos,omitzero"`
	Value    float64  `json:"value"`
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Position Position `json:"pos,omitzero"`
	Value    bool     `json:"value"`
}

// NullLit is the null literal.
type NullLit struct {
	Position Position `json:"pos,omitzero"`
}

// ArrayLit is an array literal, elements in source order.
type ArrayLit struct {
	Position Position `json:"pos,omitzero"`
	Elems    []Expr   `json:"elems"`
}

// ObjectField is one key/value entry of an object literal.
type ObjectField struct {
	Key   string `json:"key"`
	Value Expr   `json:"value"`
}

// ObjectLit is an object literal. Fields keep source declaration order,
// which the compiler preserves through to emitted JSON.
type ObjectLit struct {
	Position Position      `json:"pos,omitzero"`
	Fields   []ObjectField `json:"fields"`
}

// Member is a property access: Target.Property.
type Member struct {
	Position Position `json:"pos,omitzero"`
	Target   Expr     `json:"target"`
	Property string   `json:"property"`
}

// Call is a function or method invocation.
type Call struct {
	Position Position `json:"pos,omitzero"`
	Callee   Expr     `json:"callee"`
	Args     []Expr   `json:"args"`
}

// Binary is a binary operation. Op is the source operator token:
// + - * / == != > >= < <= && ||
type Binary struct {
	Position Position `json:"pos,omitzero"`
	Op       string   `json:"op"`
	Left     Expr     `json:"left"`
	Right    Expr     `json:"right"`
}

// Unary is a prefix operation (!, typeof, ...). The compiler never lowers
// these; the node exists so the front end can hand them over for rejection
// with a precise position.
type Unary struct {
	Position Position `json:"pos,omitzero"`
	Op       string   `json:"op"`
	Operand  Expr     `json:"operand"`
}

// Arrow is an arrow-function expression. A concise (expression-bodied)
// arrow is represented as a single ExprStmt body by the front end.
type Arrow struct {
	Position Position `json:"pos,omitzero"`
	Async    bool     `json:"async,omitempty"`
	Params   []string `json:"params"`
	Body     []Stmt   `json:"body"`
}

// Assign is an assignment expression. Not compilable; carried for rejection.
type Assign struct {
	Position Position `json:"pos,omitzero"`
	Target   Expr     `json:"target"`
	Value    Expr     `json:"value"`
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Position Position `json:"pos,omitzero"`
	X        Expr     `json:"expr"`
}

// IfStmt is an if/else statement. Else is nil when absent.
type IfStmt struct {
	Position Position `json:"pos,omitzero"`
	Cond     Expr     `json:"cond"`
	Then     []Stmt   `json:"then"`
	Else     []Stmt   `json:"else,omitempty"`
}

// VarDecl is a const/let declaration with a single declarator. The
// collection pass consumes store-construction declarations structurally;
// anywhere else a declaration is an unsupported construct.
type VarDecl struct {
	Position Position `json:"pos,omitzero"`
	Kind     string   `json:"kind"` // "const" or "let"
	Name     string   `json:"name"`
	Init     Expr     `json:"init"`
}

// ReturnStmt is a return statement. Not compilable inside handlers.
type ReturnStmt struct {
	Position Position `json:"pos,omitzero"`
	Result   Expr     `json:"result,omitempty"`
}

// ForStmt covers all loop forms (for, for-of, for-in). Loops are
// categorically unsupported, so the header is not modeled.
type ForStmt struct {
	Position Position `json:"pos,omitzero"`
	Body     []Stmt   `json:"body"`
}

// WhileStmt is a while loop. Unsupported.
type WhileStmt struct {
	Position Position `json:"pos,omitzero"`
	Cond     Expr     `json:"cond"`
	Body     []Stmt   `json:"body"`
}

// TryStmt is a try/catch. Unsupported.
type TryStmt struct {
	Position Position `json:"pos,omitzero"`
	Body     []Stmt   `json:"body"`
	Handler  []Stmt   `json:"handler,omitempty"`
}

// SwitchStmt is a switch. Unsupported; cases are not modeled.
type SwitchStmt struct {
	Position Position `json:"pos,omitzero"`
	Tag      Expr     `json:"tag"`
}

// ImportDecl names the bindings a module imports from a host-framework
// namespace package, e.g. `import { navigation, ui } from 'reverie'`.
type ImportDecl struct {
	Position Position `json:"pos,omitzero"`
	Names    []string `json:"names"`
	From     string   `json:"from"`
}

// Prop is one attribute of a markup element. Event properties carry an
// Arrow value; everything else is plain data for the tree builder.
type Prop struct {
	Name  string `json:"name"`
	Value Expr   `json:"value"`
}

// Element is one node of the markup tree.
type Element struct {
	Position Position   `json:"pos,omitzero"`
	Type     string     `json:"type"`
	Props    []Prop     `json:"props,omitempty"`
	Children []*Element `json:"children,omitempty"`
}

// Module is one parsed authoring module: top-level statements (imports,
// store declarations, module-scope store calls) plus the markup root.
type Module struct {
	Name string   `json:"name"`
	Body []Stmt   `json:"body,omitempty"`
	Root *Element `json:"root,omitempty"`
}

func (n *Ident) Pos() Position      { return n.Position }
func (n *StringLit) Pos() Position  { return n.Position }
func (n *NumberLit) Pos() Position  { return n.Position }
func (n *BoolLit) Pos() Position    { return n.Position }
func (n *NullLit) Pos() Position    { return n.Position }
func (n *ArrayLit) Pos() Position   { return n.Position }
func (n *ObjectLit) Pos() Position  { return n.Position }
func (n *Member) Pos() Position     { return n.Position }
func (n *Call) Pos() Position       { return n.Position }
func (n *Binary) Pos() Position     { return n.Position }
func (n *Unary) Pos() Position      { return n.Position }
func (n *Arrow) Pos() Position      { return n.Position }
func (n *Assign) Pos() Position     { return n.Position }
func (n *ExprStmt) Pos() Position   { return n.Position }
func (n *IfStmt) Pos() Position     { return n.Position }
func (n *VarDecl) Pos() Position    { return n.Position }
func (n *ReturnStmt) Pos() Position { return n.Position }
func (n *ForStmt) Pos() Position    { return n.Position }
func (n *WhileStmt) Pos() Position  { return n.Position }
func (n *TryStmt) Pos() Position    { return n.Position }
func (n *SwitchStmt) Pos() Position { return n.Position }
func (n *ImportDecl) Pos() Position { return n.Position }
func (n *Element) Pos() Position    { return n.Position }

func (*Ident) exprNode()     {}
func (*StringLit) exprNode() {}
func (*NumberLit) exprNode() {}
func (*BoolLit) exprNode()   {}
func (*NullLit) exprNode()   {}
func (*ArrayLit) exprNode()  {}
func (*ObjectLit) exprNode() {}
func (*Member) exprNode()    {}
func (*Call) exprNode()      {}
func (*Binary) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Arrow) exprNode()     {}
func (*Assign) exprNode()    {}

func (*ExprStmt) stmtNode()   {}
func (*IfStmt) stmtNode()     {}
func (*VarDecl) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*ForStmt) stmtNode()    {}
func (*WhileStmt) stmtNode()  {}
func (*TryStmt) stmtNode()    {}
func (*SwitchStmt) stmtNode() {}
func (*ImportDecl) stmtNode() {}

// ConstructName returns the human-readable construct name used in
// diagnostics for a node the compiler cannot lower.
func ConstructName(n Node) string {
	switch n.(type) {
	case *ForStmt:
		return "for loop"
	case *WhileStmt:
		return "while loop"
	case *TryStmt:
		return "try/catch"
	case *SwitchStmt:
		return "switch statement"
	case *ReturnStmt:
		return "return statement"
	case *VarDecl:
		return "variable declaration"
	case *Assign:
		return "assignment"
	case *Unary:
		return "unary expression"
	case *Arrow:
		return "function expression"
	case *ImportDecl:
		return "import declaration"
	case *Call:
		return "call expression"
	case *Member:
		return "member expression"
	case *Ident:
		return "identifier"
	case *Binary:
		return "binary expression"
	default:
		return fmt.Sprintf("%T", n)
	}
}
