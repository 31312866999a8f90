package compiler

import (
	"fmt"

	"github.com/reverie-ui/reverie/internal/ast"
	"github.com/reverie-ui/reverie/internal/ir"
	"github.com/reverie-ui/reverie/internal/scope"
)

// CompileHandler lowers one event-handler function into a single action
// tree. The result carries no ids yet; the caller assigns the root id.
//
// Lowering is a pure function of the AST fragment and the scope snapshot,
// so handlers of one module may be compiled in any order.
func CompileHandler(fn *ast.Arrow, s *scope.Scope) (ir.Action, error) {
	if fn.Async {
		return nil, errAsyncHandler(fn.Pos())
	}

	child := s.Child()
	for _, param := range fn.Params {
		if err := child.BindEventParam(param); err != nil {
			return nil, errShape(ErrCodeArgumentShape, err.Error(), fn.Pos())
		}
	}

	actions, err := lowerBlock(fn.Body, child)
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, errShape(ErrCodeEmptyHandler, "handler body is empty", fn.Pos())
	}
	return wrapActions(actions), nil
}

// wrapActions applies the uniform wrapping rule: exactly one action is
// returned unwrapped, more than one becomes a serial sequence.
func wrapActions(actions []ir.Action) ir.Action {
	if len(actions) == 1 {
		return actions[0]
	}
	return &ir.Sequence{Strategy: ir.SerialStrategy, Actions: actions}
}

// lowerBlock lowers a statement list, one action per statement, in source
// order.
func lowerBlock(stmts []ast.Stmt, s *scope.Scope) ([]ir.Action, error) {
	actions := make([]ir.Action, 0, len(stmts))
	for _, stmt := range stmts {
		a, err := lowerStmt(stmt, s)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func lowerStmt(stmt ast.Stmt, s *scope.Scope) (ir.Action, error) {
	switch n := stmt.(type) {
	case *ast.ExprStmt:
		call, ok := n.X.(*ast.Call)
		if !ok {
			return nil, errUnsupported(ast.ConstructName(n.X), n.X.Pos())
		}
		return lowerCall(call, s)

	case *ast.IfStmt:
		cond, err := CompileCondition(n.Cond, s)
		if err != nil {
			return nil, err
		}
		then, err := lowerBlock(n.Then, s)
		if err != nil {
			return nil, err
		}
		out := &ir.Conditional{Condition: cond, Then: then}
		if n.Else != nil {
			elseActions, err := lowerBlock(n.Else, s)
			if err != nil {
				return nil, err
			}
			out.Else = elseActions
		}
		return out, nil

	default:
		return nil, errUnsupported(ast.ConstructName(stmt), stmt.Pos())
	}
}

// lowerCall dispatches on the resolved callee classification. Recognition
// lives in scope.Classify; this switch is the single lowering site.
func lowerCall(call *ast.Call, s *scope.Scope) (ir.Action, error) {
	switch target := scope.Classify(call, s).(type) {
	case *scope.StoreMethodCall:
		return lowerStoreMethod(target, call, s)
	case *scope.NamespaceCall:
		return lowerNamespaceCall(target, call, s)
	default:
		return nil, unknownCallError(call, s)
	}
}

func lowerStoreMethod(target *scope.StoreMethodCall, call *ast.Call, s *scope.Scope) (ir.Action, error) {
	switch target.Method {
	case "set":
		keyPath, err := literalKeyPath(call, 0)
		if err != nil {
			return nil, err
		}
		value, err := requiredValueArg(call, 1, s)
		if err != nil {
			return nil, err
		}
		return &ir.StoreSet{StoreRef: target.Ref, KeyPath: keyPath, Value: value}, nil

	case "remove":
		keyPath, err := literalKeyPath(call, 0)
		if err != nil {
			return nil, err
		}
		return &ir.StoreRemove{StoreRef: target.Ref, KeyPath: keyPath}, nil

	case "merge":
		keyPath, err := literalKeyPath(call, 0)
		if err != nil {
			return nil, err
		}
		value, err := requiredValueArg(call, 1, s)
		if err != nil {
			return nil, err
		}
		if lit, ok := value.(*ir.Literal); ok && lit.Type != ir.TypeObject {
			return nil, errShape(ErrCodeArgumentShape,
				fmt.Sprintf("merge value must be an object, found %s", lit.Type), call.Args[1].Pos())
		}
		return &ir.StoreMerge{StoreRef: target.Ref, KeyPath: keyPath, Value: value}, nil

	case "transaction":
		return lowerTransaction(target, call, s)

	case "get":
		return nil, errShape(ErrCodeArgumentShape,
			"get() used as a statement; its value goes nowhere", call.Pos())

	default:
		return nil, errShape(ErrCodeUnknownMethod,
			fmt.Sprintf("unknown store method %q", target.Method), call.Pos())
	}
}

// lowerTransaction lowers <store>.transaction(cb). The callback parameter
// rebinds the same store, so every nested operation is implicitly scoped
// to the transaction's storeRef.
func lowerTransaction(target *scope.StoreMethodCall, call *ast.Call, s *scope.Scope) (ir.Action, error) {
	if len(call.Args) != 1 {
		return nil, errShape(ErrCodeArgumentShape,
			"transaction() takes exactly one callback", call.Pos())
	}
	cb, ok := call.Args[0].(*ast.Arrow)
	if !ok {
		return nil, errShape(ErrCodeArgumentShape,
			"transaction() argument must be a function", call.Args[0].Pos())
	}
	if cb.Async {
		return nil, errAsyncHandler(cb.Pos())
	}

	child := s.Child()
	for _, param := range cb.Params {
		if err := child.BindStore(param, target.Ref); err != nil {
			return nil, errShape(ErrCodeArgumentShape, err.Error(), cb.Pos())
		}
	}

	actions, err := lowerBlock(cb.Body, child)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		if err := checkTransactional(a, target.Ref, cb.Pos()); err != nil {
			return nil, err
		}
	}
	return &ir.StoreTransaction{StoreRef: target.Ref, Actions: actions}, nil
}

// checkTransactional enforces that a transaction groups only plain store
// operations against its own store.
func checkTransactional(a ir.Action, ref ir.StoreRef, pos ast.Position) error {
	var got ir.StoreRef
	switch n := a.(type) {
	case *ir.StoreSet:
		got = n.StoreRef
	case *ir.StoreRemove:
		got = n.StoreRef
	case *ir.StoreMerge:
		got = n.StoreRef
	default:
		return errShape(ErrCodeArgumentShape,
			fmt.Sprintf("transactions may contain only store operations, found %s", a.ActionKind()), pos)
	}
	if got != ref {
		return errShape(ErrCodeArgumentShape,
			fmt.Sprintf("transaction on %s cannot touch store %s", ref, got), pos)
	}
	return nil
}

func lowerNamespaceCall(target *scope.NamespaceCall, call *ast.Call, s *scope.Scope) (ir.Action, error) {
	switch target.Namespace {
	case scope.NamespaceNavigation:
		return lowerNavigation(target.Fn, call, s)
	case scope.NamespaceUI:
		return lowerUI(target.Fn, call, s)
	case scope.NamespaceSystem:
		return lowerSystem(target.Fn, call, s)
	case scope.NamespaceAPI:
		if target.Fn != "request" {
			return nil, errShape(ErrCodeUnknownMethod,
				fmt.Sprintf("unknown api helper %q", target.Fn), call.Pos())
		}
		return lowerRequest(call, s)
	case scope.NamespaceStore:
		return nil, errUnsupported("store declaration inside a handler", call.Pos())
	default:
		return nil, errShape(ErrCodeUnknownMethod,
			fmt.Sprintf("unknown namespace %q", target.Namespace), call.Pos())
	}
}

func lowerNavigation(fn string, call *ast.Call, s *scope.Scope) (ir.Action, error) {
	switch fn {
	case "push", "replace", "modal":
		screenID, err := stringLitArg(call, 0, "screen id")
		if err != nil {
			return nil, err
		}
		params, err := optionalExprFields(call, 1, s)
		if err != nil {
			return nil, err
		}
		switch fn {
		case "push":
			return &ir.NavigationPush{ScreenID: screenID, Params: params}, nil
		case "replace":
			return &ir.NavigationReplace{ScreenID: screenID, Params: params}, nil
		default:
			return &ir.NavigationModal{ScreenID: screenID, Params: params}, nil
		}
	case "pop":
		if err := noArgs(call, "navigation.pop"); err != nil {
			return nil, err
		}
		return &ir.NavigationPop{}, nil
	case "dismissModal":
		if err := noArgs(call, "navigation.dismissModal"); err != nil {
			return nil, err
		}
		return &ir.NavigationDismissModal{}, nil
	default:
		return nil, errShape(ErrCodeUnknownMethod,
			fmt.Sprintf("unknown navigation helper %q", fn), call.Pos())
	}
}

func lowerUI(fn string, call *ast.Call, s *scope.Scope) (ir.Action, error) {
	switch fn {
	case "showToast":
		message, err := requiredValueArg(call, 0, s)
		if err != nil {
			return nil, err
		}
		return &ir.UIShowToast{Message: message}, nil
	case "showAlert":
		title, err := requiredValueArg(call, 0, s)
		if err != nil {
			return nil, err
		}
		out := &ir.UIShowAlert{Title: title}
		if len(call.Args) > 1 {
			message, err := CompileValue(call.Args[1], s)
			if err != nil {
				return nil, err
			}
			out.Message = message
		}
		return out, nil
	case "showSheet":
		sheetID, err := stringLitArg(call, 0, "sheet id")
		if err != nil {
			return nil, err
		}
		return &ir.UIShowSheet{SheetID: sheetID}, nil
	case "dismissSheet":
		if err := noArgs(call, "ui.dismissSheet"); err != nil {
			return nil, err
		}
		return &ir.UIDismissSheet{}, nil
	case "showLoading":
		if err := noArgs(call, "ui.showLoading"); err != nil {
			return nil, err
		}
		return &ir.UIShowLoading{}, nil
	case "hideLoading":
		if err := noArgs(call, "ui.hideLoading"); err != nil {
			return nil, err
		}
		return &ir.UIHideLoading{}, nil
	default:
		return nil, errShape(ErrCodeUnknownMethod,
			fmt.Sprintf("unknown ui helper %q", fn), call.Pos())
	}
}

func lowerSystem(fn string, call *ast.Call, s *scope.Scope) (ir.Action, error) {
	switch fn {
	case "share":
		content, err := requiredValueArg(call, 0, s)
		if err != nil {
			return nil, err
		}
		return &ir.SystemShare{Content: content}, nil
	case "openUrl":
		url, err := requiredValueArg(call, 0, s)
		if err != nil {
			return nil, err
		}
		return &ir.SystemOpenURL{URL: url}, nil
	case "haptic":
		style, err := stringLitArg(call, 0, "haptic style")
		if err != nil {
			return nil, err
		}
		return &ir.SystemHaptic{Style: style}, nil
	case "copyToClipboard":
		text, err := requiredValueArg(call, 0, s)
		if err != nil {
			return nil, err
		}
		return &ir.SystemCopyToClipboard{Text: text}, nil
	case "requestPermission":
		permission, err := stringLitArg(call, 0, "permission")
		if err != nil {
			return nil, err
		}
		return &ir.SystemRequestPermission{Permission: permission}, nil
	default:
		return nil, errShape(ErrCodeUnknownMethod,
			fmt.Sprintf("unknown system helper %q", fn), call.Pos())
	}
}

// lowerRequest lowers api.request({...}) or the direct request helper.
// endpoint and method are required string literals; onSuccess/onError
// callback bodies are lowered recursively under the uniform wrapping rule.
func lowerRequest(call *ast.Call, s *scope.Scope) (ir.Action, error) {
	if len(call.Args) != 1 {
		return nil, errShape(ErrCodeRequestShape,
			"request() takes exactly one configuration object", call.Pos())
	}
	config, ok := call.Args[0].(*ast.ObjectLit)
	if !ok {
		return nil, errShape(ErrCodeRequestShape,
			"request() configuration must be an object literal", call.Args[0].Pos())
	}

	out := &ir.APIRequest{}
	for _, field := range config.Fields {
		switch field.Key {
		case "endpoint":
			lit, ok := field.Value.(*ast.StringLit)
			if !ok {
				return nil, errShape(ErrCodeRequestShape,
					"request endpoint must be a string literal", field.Value.Pos())
			}
			out.Endpoint = lit.Value
		case "method":
			lit, ok := field.Value.(*ast.StringLit)
			if !ok {
				return nil, errShape(ErrCodeRequestShape,
					"request method must be a string literal", field.Value.Pos())
			}
			out.Method = lit.Value
		case "headers":
			obj, ok := field.Value.(*ast.ObjectLit)
			if !ok {
				return nil, errShape(ErrCodeRequestShape,
					"request headers must be an object literal", field.Value.Pos())
			}
			headers, err := compileExprFields(obj, s)
			if err != nil {
				return nil, err
			}
			out.Headers = headers
		case "body":
			body, err := CompileValue(field.Value, s)
			if err != nil {
				return nil, err
			}
			out.Body = body
		case "onSuccess":
			action, err := lowerRequestCallback(field.Value, s)
			if err != nil {
				return nil, err
			}
			out.OnSuccess = action
		case "onError":
			action, err := lowerRequestCallback(field.Value, s)
			if err != nil {
				return nil, err
			}
			out.OnError = action
		default:
			return nil, errShape(ErrCodeRequestShape,
				fmt.Sprintf("unknown request configuration key %q", field.Key), config.Pos())
		}
	}

	if out.Endpoint == "" {
		return nil, errShape(ErrCodeRequestShape, "request is missing required endpoint", config.Pos())
	}
	if out.Method == "" {
		return nil, errShape(ErrCodeRequestShape, "request is missing required method", config.Pos())
	}
	return out, nil
}

func lowerRequestCallback(value ast.Expr, s *scope.Scope) (ir.Action, error) {
	cb, ok := value.(*ast.Arrow)
	if !ok {
		return nil, errShape(ErrCodeRequestShape,
			"request callback must be a function", value.Pos())
	}
	if cb.Async {
		return nil, errAsyncHandler(cb.Pos())
	}

	child := s.Child()
	for _, param := range cb.Params {
		if err := child.BindEventParam(param); err != nil {
			return nil, errShape(ErrCodeArgumentShape, err.Error(), cb.Pos())
		}
	}
	actions, err := lowerBlock(cb.Body, child)
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, errShape(ErrCodeEmptyHandler, "request callback body is empty", cb.Pos())
	}
	return wrapActions(actions), nil
}

// requiredValueArg compiles the argument at index i through the value
// compiler.
func requiredValueArg(call *ast.Call, i int, s *scope.Scope) (ir.ValueExpr, error) {
	if len(call.Args) <= i {
		return nil, errShape(ErrCodeArgumentShape,
			fmt.Sprintf("missing argument %d", i+1), call.Pos())
	}
	return CompileValue(call.Args[i], s)
}

func stringLitArg(call *ast.Call, i int, what string) (string, error) {
	if len(call.Args) <= i {
		return "", errShape(ErrCodeArgumentShape,
			fmt.Sprintf("missing %s argument", what), call.Pos())
	}
	lit, ok := call.Args[i].(*ast.StringLit)
	if !ok {
		return "", errShape(ErrCodeArgumentShape,
			fmt.Sprintf("%s must be a string literal", what), call.Args[i].Pos())
	}
	return lit.Value, nil
}

func noArgs(call *ast.Call, what string) error {
	if len(call.Args) != 0 {
		return errShape(ErrCodeArgumentShape,
			fmt.Sprintf("%s() takes no arguments", what), call.Pos())
	}
	return nil
}

// optionalExprFields compiles an optional object-literal argument into an
// ordered expression map.
func optionalExprFields(call *ast.Call, i int, s *scope.Scope) (ir.ExprFields, error) {
	if len(call.Args) <= i {
		return nil, nil
	}
	obj, ok := call.Args[i].(*ast.ObjectLit)
	if !ok {
		return nil, errShape(ErrCodeArgumentShape,
			"params must be an object literal", call.Args[i].Pos())
	}
	return compileExprFields(obj, s)
}

// compileExprFields compiles an object literal whose values may be any
// compilable value expression, preserving declaration order.
func compileExprFields(obj *ast.ObjectLit, s *scope.Scope) (ir.ExprFields, error) {
	fields := make(ir.ExprFields, 0, len(obj.Fields))
	for _, f := range obj.Fields {
		v, err := CompileValue(f.Value, s)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ir.ExprField{Key: f.Key, Value: v})
	}
	return fields, nil
}
