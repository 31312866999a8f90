package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reverie-ui/reverie/internal/ast"
	"github.com/reverie-ui/reverie/internal/ir"
	"github.com/reverie-ui/reverie/internal/scope"
)

// moduleScope is handlerScope without the event parameter, matching what
// CompileHandler receives from the module pass.
func moduleScope(t *testing.T) *scope.Scope {
	t.Helper()
	s := scope.New()
	for name, b := range scope.FrameworkBindings() {
		require.NoError(t, s.Bind(name, b))
	}
	require.NoError(t, s.BindStore("cart", testStoreRef))
	return s
}

func exprStmt(x ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{X: x}
}

func storeCall(method string, args ...ast.Expr) *ast.Call {
	return &ast.Call{
		Callee: &ast.Member{Target: &ast.Ident{Name: "cart"}, Property: method},
		Args:   args,
	}
}

func helperCall(namespace, fn string, args ...ast.Expr) *ast.Call {
	return &ast.Call{
		Callee: &ast.Member{Target: &ast.Ident{Name: namespace}, Property: fn},
		Args:   args,
	}
}

func str(v string) *ast.StringLit { return &ast.StringLit{Value: v} }
func num(v float64) *ast.NumberLit { return &ast.NumberLit{Value: v} }

func TestCompileHandlerRejectsAsync(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{
		Async:    true,
		Position: ast.Position{File: "broken.rv", Line: 4, Col: 14},
		Body:     []ast.Stmt{exprStmt(helperCall("navigation", "pop"))},
	}, s)
	ce := requireCompileError(t, err, ErrCodeAsyncHandler)
	assert.Equal(t, KindCapability, ce.Kind)
	assert.Equal(t, "Async handlers are not supported", ce.Message)
	assert.Equal(t, "broken.rv:4:14", ce.Pos.String())
}

func TestCompileHandlerRejectsEmptyBody(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{}, s)
	ce := requireCompileError(t, err, ErrCodeEmptyHandler)
	assert.Equal(t, "handler body is empty", ce.Message)
}

func TestCompileHandlerSingleStatementUnwrapped(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "pop")),
	}}, s)
	require.NoError(t, err)
	assert.IsType(t, &ir.NavigationPop{}, a)
}

func TestCompileHandlerMultipleStatementsWrapSerial(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("ui", "showToast", str("Saved"))),
		exprStmt(helperCall("navigation", "pop")),
	}}, s)
	require.NoError(t, err)
	seq, ok := a.(*ir.Sequence)
	require.True(t, ok)
	assert.Equal(t, ir.SerialStrategy, seq.Strategy)
	require.Len(t, seq.Actions, 2)
	assert.IsType(t, &ir.UIShowToast{}, seq.Actions[0])
	assert.IsType(t, &ir.NavigationPop{}, seq.Actions[1])
}

func TestCompileHandlerEventParamInScope(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{
		Params: []string{"event"},
		Body: []ast.Stmt{exprStmt(storeCall("set", str("query"), &ast.Member{
			Target:   &ast.Ident{Name: "event"},
			Property: "text",
		}))},
	}, s)
	require.NoError(t, err)
	set := a.(*ir.StoreSet)
	assert.Equal(t, &ir.EventData{Path: "event.text"}, set.Value)
}

func TestCompileHandlerRejectsUnsupportedStatements(t *testing.T) {
	s := moduleScope(t)
	tests := []struct {
		stmt ast.Stmt
		want string
	}{
		{&ast.ForStmt{}, "for loop"},
		{&ast.WhileStmt{}, "while loop"},
		{&ast.TryStmt{}, "try/catch"},
		{&ast.SwitchStmt{}, "switch statement"},
		{&ast.ReturnStmt{}, "return statement"},
		{&ast.VarDecl{}, "variable declaration"},
	}
	for _, tt := range tests {
		_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{tt.stmt}}, s)
		ce := requireCompileError(t, err, ErrCodeUnsupported)
		assert.Equal(t, tt.want, ce.Construct)
		assert.Equal(t, "Unsupported construct: "+tt.want, ce.Message)
	}
}

func TestCompileHandlerRejectsNonCallExpression(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: num(1)}),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeUnsupported)
	assert.Equal(t, "assignment", ce.Construct)
}

func TestLowerStoreSet(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("set", str("count"), num(5))),
	}}, s)
	require.NoError(t, err)
	set := a.(*ir.StoreSet)
	assert.Equal(t, testStoreRef, set.StoreRef)
	assert.Equal(t, "count", set.KeyPath)
	assert.Equal(t, &ir.Literal{Type: ir.TypeInteger, Value: ir.LitInt(5)}, set.Value)
}

func TestLowerStoreRemove(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("remove", str("draft"))),
	}}, s)
	require.NoError(t, err)
	rm := a.(*ir.StoreRemove)
	assert.Equal(t, "draft", rm.KeyPath)
}

func TestLowerStoreMerge(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("merge", str("profile"), &ast.ObjectLit{Fields: []ast.ObjectField{
			{Key: "name", Value: str("Ada")},
		}})),
	}}, s)
	require.NoError(t, err)
	merge := a.(*ir.StoreMerge)
	assert.Equal(t, "profile", merge.KeyPath)
	assert.Equal(t, ir.TypeObject, merge.Value.(*ir.Literal).Type)
}

func TestLowerStoreMergeRejectsNonObject(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("merge", str("profile"), num(3))),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "merge value must be an object, found integer", ce.Message)
}

func TestLowerStoreGetAsStatement(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("get", str("count"))),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "get() used as a statement; its value goes nowhere", ce.Message)
}

func TestLowerUnknownStoreMethod(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("obliterate")),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeUnknownMethod)
	assert.Equal(t, `unknown store method "obliterate"`, ce.Message)
}

func TestLowerConditional(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		&ast.IfStmt{
			Cond: &ast.Binary{Op: ">", Left: storeGet("count"), Right: num(0)},
			Then: []ast.Stmt{exprStmt(helperCall("navigation", "pop"))},
			Else: []ast.Stmt{exprStmt(helperCall("ui", "showToast", str("empty")))},
		},
	}}, s)
	require.NoError(t, err)
	cond := a.(*ir.Conditional)
	cmp := cond.Condition.(*ir.Comparison)
	assert.Equal(t, ir.CmpGreaterThan, cmp.Type)
	require.Len(t, cond.Then, 1)
	assert.IsType(t, &ir.NavigationPop{}, cond.Then[0])
	require.Len(t, cond.Else, 1)
	assert.IsType(t, &ir.UIShowToast{}, cond.Else[0])
}

func TestLowerConditionalWithoutElse(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		&ast.IfStmt{
			Cond: &ast.Binary{Op: "==", Left: storeGet("ready"), Right: &ast.BoolLit{Value: true}},
			Then: []ast.Stmt{exprStmt(helperCall("navigation", "pop"))},
		},
	}}, s)
	require.NoError(t, err)
	cond := a.(*ir.Conditional)
	assert.Nil(t, cond.Else)
}

func TestLowerTransaction(t *testing.T) {
	s := moduleScope(t)
	cb := &ast.Arrow{
		Params: []string{"tx"},
		Body: []ast.Stmt{
			exprStmt(&ast.Call{
				Callee: &ast.Member{Target: &ast.Ident{Name: "tx"}, Property: "set"},
				Args:   []ast.Expr{str("count"), num(0)},
			}),
			exprStmt(&ast.Call{
				Callee: &ast.Member{Target: &ast.Ident{Name: "tx"}, Property: "remove"},
				Args:   []ast.Expr{str("draft")},
			}),
		},
	}
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("transaction", cb)),
	}}, s)
	require.NoError(t, err)
	txn := a.(*ir.StoreTransaction)
	assert.Equal(t, testStoreRef, txn.StoreRef)
	require.Len(t, txn.Actions, 2)
	// The callback parameter rebinds the enclosing store.
	assert.Equal(t, testStoreRef, txn.Actions[0].(*ir.StoreSet).StoreRef)
	assert.Equal(t, testStoreRef, txn.Actions[1].(*ir.StoreRemove).StoreRef)
}

func TestLowerTransactionRejectsOtherStore(t *testing.T) {
	s := moduleScope(t)
	otherRef := ir.StoreRef{Scope: ir.ScopeScenario, Storage: ir.StorageUserPrefs}
	require.NoError(t, s.BindStore("prefs", otherRef))

	cb := &ast.Arrow{Body: []ast.Stmt{
		exprStmt(&ast.Call{
			Callee: &ast.Member{Target: &ast.Ident{Name: "prefs"}, Property: "set"},
			Args:   []ast.Expr{str("theme"), str("dark")},
		}),
	}}
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("transaction", cb)),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "transaction on app.memory cannot touch store scenario.userPrefs", ce.Message)
}

func TestLowerTransactionRejectsNonStoreAction(t *testing.T) {
	s := moduleScope(t)
	cb := &ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "pop")),
	}}
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("transaction", cb)),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "transactions may contain only store operations, found navigation.pop", ce.Message)
}

func TestLowerTransactionShape(t *testing.T) {
	s := moduleScope(t)

	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("transaction")),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "transaction() takes exactly one callback", ce.Message)

	_, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("transaction", num(3))),
	}}, s)
	ce = requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "transaction() argument must be a function", ce.Message)

	_, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(storeCall("transaction", &ast.Arrow{Async: true})),
	}}, s)
	requireCompileError(t, err, ErrCodeAsyncHandler)
}

func TestLowerNavigationPush(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "push", str("detail"), &ast.ObjectLit{Fields: []ast.ObjectField{
			{Key: "itemId", Value: storeGet("selected")},
		}})),
	}}, s)
	require.NoError(t, err)
	push := a.(*ir.NavigationPush)
	assert.Equal(t, "detail", push.ScreenID)
	require.Len(t, push.Params, 1)
	assert.Equal(t, "itemId", push.Params[0].Key)
	assert.Equal(t, &ir.StoreValue{StoreRef: testStoreRef, KeyPath: "selected"}, push.Params[0].Value)
}

func TestLowerNavigationVariants(t *testing.T) {
	s := moduleScope(t)

	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "replace", str("home"))),
	}}, s)
	require.NoError(t, err)
	assert.Equal(t, "home", a.(*ir.NavigationReplace).ScreenID)
	assert.Nil(t, a.(*ir.NavigationReplace).Params)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "modal", str("settings"))),
	}}, s)
	require.NoError(t, err)
	assert.Equal(t, "settings", a.(*ir.NavigationModal).ScreenID)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "dismissModal")),
	}}, s)
	require.NoError(t, err)
	assert.IsType(t, &ir.NavigationDismissModal{}, a)
}

func TestLowerNavigationShapeErrors(t *testing.T) {
	s := moduleScope(t)

	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "push", num(3))),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "screen id must be a string literal", ce.Message)

	_, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "pop", str("extra"))),
	}}, s)
	ce = requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "navigation.pop() takes no arguments", ce.Message)

	_, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("navigation", "teleport", str("home"))),
	}}, s)
	ce = requireCompileError(t, err, ErrCodeUnknownMethod)
	assert.Equal(t, `unknown navigation helper "teleport"`, ce.Message)
}

func TestLowerUIHelpers(t *testing.T) {
	s := moduleScope(t)

	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("ui", "showToast", str("Saved"))),
	}}, s)
	require.NoError(t, err)
	toast := a.(*ir.UIShowToast)
	assert.Equal(t, &ir.Literal{Type: ir.TypeString, Value: ir.LitString("Saved")}, toast.Message)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("ui", "showAlert", str("Oops"), str("Something broke"))),
	}}, s)
	require.NoError(t, err)
	alert := a.(*ir.UIShowAlert)
	assert.Equal(t, ir.LitString("Oops"), alert.Title.(*ir.Literal).Value)
	assert.Equal(t, ir.LitString("Something broke"), alert.Message.(*ir.Literal).Value)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("ui", "showAlert", str("Oops"))),
	}}, s)
	require.NoError(t, err)
	assert.Nil(t, a.(*ir.UIShowAlert).Message)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("ui", "showSheet", str("filters"))),
	}}, s)
	require.NoError(t, err)
	assert.Equal(t, "filters", a.(*ir.UIShowSheet).SheetID)

	for fn, want := range map[string]ir.Action{
		"dismissSheet": &ir.UIDismissSheet{},
		"showLoading":  &ir.UIShowLoading{},
		"hideLoading":  &ir.UIHideLoading{},
	} {
		a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
			exprStmt(helperCall("ui", fn)),
		}}, s)
		require.NoError(t, err, fn)
		assert.IsType(t, want, a)
	}

	_, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("ui", "confetti")),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeUnknownMethod)
	assert.Equal(t, `unknown ui helper "confetti"`, ce.Message)
}

func TestLowerSystemHelpers(t *testing.T) {
	s := moduleScope(t)

	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("system", "share", str("check this out"))),
	}}, s)
	require.NoError(t, err)
	assert.IsType(t, &ir.SystemShare{}, a)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("system", "openUrl", str("https://example.com"))),
	}}, s)
	require.NoError(t, err)
	open := a.(*ir.SystemOpenURL)
	assert.Equal(t, ir.TypeURL, open.URL.(*ir.Literal).Type)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("system", "haptic", str("medium"))),
	}}, s)
	require.NoError(t, err)
	assert.Equal(t, "medium", a.(*ir.SystemHaptic).Style)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("system", "copyToClipboard", storeGet("inviteCode"))),
	}}, s)
	require.NoError(t, err)
	assert.IsType(t, &ir.StoreValue{}, a.(*ir.SystemCopyToClipboard).Text)

	a, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("system", "requestPermission", str("camera"))),
	}}, s)
	require.NoError(t, err)
	assert.Equal(t, "camera", a.(*ir.SystemRequestPermission).Permission)

	_, err = CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("system", "reboot")),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeUnknownMethod)
	assert.Equal(t, `unknown system helper "reboot"`, ce.Message)
}

func requestConfig(fields ...ast.ObjectField) *ast.Call {
	return helperCall("api", "request", &ast.ObjectLit{Fields: fields})
}

func TestLowerRequest(t *testing.T) {
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(requestConfig(
			ast.ObjectField{Key: "endpoint", Value: str("/cart/checkout")},
			ast.ObjectField{Key: "method", Value: str("POST")},
			ast.ObjectField{Key: "headers", Value: &ast.ObjectLit{Fields: []ast.ObjectField{
				{Key: "X-Session", Value: storeGet("session")},
			}}},
			ast.ObjectField{Key: "body", Value: &ast.ObjectLit{Fields: []ast.ObjectField{
				{Key: "confirm", Value: &ast.BoolLit{Value: true}},
			}}},
			ast.ObjectField{Key: "onSuccess", Value: &ast.Arrow{
				Params: []string{"response"},
				Body: []ast.Stmt{
					exprStmt(storeCall("set", str("receipt"), &ast.Member{
						Target:   &ast.Ident{Name: "response"},
						Property: "receiptId",
					})),
					exprStmt(helperCall("navigation", "pop")),
				},
			}},
			ast.ObjectField{Key: "onError", Value: &ast.Arrow{Body: []ast.Stmt{
				exprStmt(helperCall("ui", "showToast", str("Checkout failed"))),
			}}},
		)),
	}}, s)
	require.NoError(t, err)
	req := a.(*ir.APIRequest)
	assert.Equal(t, "/cart/checkout", req.Endpoint)
	assert.Equal(t, "POST", req.Method)
	require.Len(t, req.Headers, 1)
	assert.Equal(t, "X-Session", req.Headers[0].Key)
	assert.Equal(t, ir.TypeObject, req.Body.(*ir.Literal).Type)

	// Two success statements wrap into a serial sequence; one error
	// statement stays direct.
	success := req.OnSuccess.(*ir.Sequence)
	require.Len(t, success.Actions, 2)
	assert.Equal(t, &ir.EventData{Path: "response.receiptId"},
		success.Actions[0].(*ir.StoreSet).Value)
	assert.IsType(t, &ir.UIShowToast{}, req.OnError)
}

func TestLowerRequestDirectHelper(t *testing.T) {
	// `request({...})` imported directly works the same as api.request.
	s := moduleScope(t)
	a, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(&ast.Call{
			Callee: &ast.Ident{Name: "request"},
			Args: []ast.Expr{&ast.ObjectLit{Fields: []ast.ObjectField{
				{Key: "endpoint", Value: str("/ping")},
				{Key: "method", Value: str("GET")},
			}}},
		}),
	}}, s)
	require.NoError(t, err)
	req := a.(*ir.APIRequest)
	assert.Equal(t, "/ping", req.Endpoint)
	assert.Equal(t, "GET", req.Method)
	assert.Nil(t, req.OnSuccess)
}

func TestLowerRequestShapeErrors(t *testing.T) {
	s := moduleScope(t)
	tests := []struct {
		name string
		call *ast.Call
		want string
	}{
		{
			"no args",
			helperCall("api", "request"),
			"request() takes exactly one configuration object",
		},
		{
			"non-object config",
			helperCall("api", "request", str("/x")),
			"request() configuration must be an object literal",
		},
		{
			"missing endpoint",
			requestConfig(ast.ObjectField{Key: "method", Value: str("GET")}),
			"request is missing required endpoint",
		},
		{
			"missing method",
			requestConfig(ast.ObjectField{Key: "endpoint", Value: str("/x")}),
			"request is missing required method",
		},
		{
			"dynamic endpoint",
			requestConfig(ast.ObjectField{Key: "endpoint", Value: storeGet("url")}),
			"request endpoint must be a string literal",
		},
		{
			"unknown key",
			requestConfig(
				ast.ObjectField{Key: "endpoint", Value: str("/x")},
				ast.ObjectField{Key: "method", Value: str("GET")},
				ast.ObjectField{Key: "retries", Value: num(3)},
			),
			`unknown request configuration key "retries"`,
		},
		{
			"callback not a function",
			requestConfig(
				ast.ObjectField{Key: "endpoint", Value: str("/x")},
				ast.ObjectField{Key: "method", Value: str("GET")},
				ast.ObjectField{Key: "onSuccess", Value: str("later")},
			),
			"request callback must be a function",
		},
	}
	for _, tt := range tests {
		_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{exprStmt(tt.call)}}, s)
		ce := requireCompileError(t, err, ErrCodeRequestShape)
		assert.Equal(t, tt.want, ce.Message, tt.name)
	}
}

func TestLowerRequestEmptyCallback(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(requestConfig(
			ast.ObjectField{Key: "endpoint", Value: str("/x")},
			ast.ObjectField{Key: "method", Value: str("GET")},
			ast.ObjectField{Key: "onSuccess", Value: &ast.Arrow{}},
		)),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeEmptyHandler)
	assert.Equal(t, "request callback body is empty", ce.Message)
}

func TestLowerRequestAsyncCallback(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(requestConfig(
			ast.ObjectField{Key: "endpoint", Value: str("/x")},
			ast.ObjectField{Key: "method", Value: str("GET")},
			ast.ObjectField{Key: "onError", Value: &ast.Arrow{Async: true}},
		)),
	}}, s)
	requireCompileError(t, err, ErrCodeAsyncHandler)
}

func TestLowerStoreDeclarationInsideHandler(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(&ast.Call{
			Callee: &ast.Ident{Name: "createStore"},
			Args: []ast.Expr{&ast.ObjectLit{Fields: []ast.ObjectField{
				{Key: "scope", Value: str("app")},
				{Key: "storage", Value: str("memory")},
			}}},
		}),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeUnsupported)
	assert.Equal(t, "store declaration inside a handler", ce.Construct)
}

func TestLowerUnresolvedCallee(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(&ast.Call{Callee: &ast.Ident{Name: "sendAnalytics"}}),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeExternalRef)
	assert.Equal(t, `Cannot reference external variable "sendAnalytics"`, ce.Message)
}

func TestLowerMissingValueArgument(t *testing.T) {
	s := moduleScope(t)
	_, err := CompileHandler(&ast.Arrow{Body: []ast.Stmt{
		exprStmt(helperCall("ui", "showToast")),
	}}, s)
	ce := requireCompileError(t, err, ErrCodeArgumentShape)
	assert.Equal(t, "missing argument 1", ce.Message)
}
