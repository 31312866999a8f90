package ir

// Action is the sealed interface over compiled action nodes. Every node
// carries a unique id within its tree; the root id is the identifier the
// component tree references from its event property.
type Action interface {
	action()
	ActionKind() string
	ActionID() string
	SetID(id string)
}

// actionID embeds the id field shared by every action node.
type actionID struct {
	ID string `json:"id"`
}

func (a *actionID) ActionID() string { return a.ID }
func (a *actionID) SetID(id string)  { a.ID = id }

// StoreSet writes a value at keyPath in one store.
type StoreSet struct {
	actionID
	StoreRef StoreRef  `json:"storeRef"`
	KeyPath  string    `json:"keyPath"`
	Value    ValueExpr `json:"value"`
}

// StoreRemove deletes keyPath from one store.
type StoreRemove struct {
	actionID
	StoreRef StoreRef `json:"storeRef"`
	KeyPath  string   `json:"keyPath"`
}

// StoreMerge shallow-merges an object value into keyPath of one store.
type StoreMerge struct {
	actionID
	StoreRef StoreRef  `json:"storeRef"`
	KeyPath  string    `json:"keyPath"`
	Value    ValueExpr `json:"value"`
}

// StoreTransaction groups store operations atomically against one store.
type StoreTransaction struct {
	actionID
	StoreRef StoreRef `json:"storeRef"`
	Actions  []Action `json:"actions"`
}

// NavigationPush pushes a screen onto the navigation stack.
type NavigationPush struct {
	actionID
	ScreenID string     `json:"screenId"`
	Params   ExprFields `json:"params,omitempty"`
}

// NavigationPop pops the top screen.
type NavigationPop struct {
	actionID
}

// NavigationReplace replaces the top screen.
type NavigationReplace struct {
	actionID
	ScreenID string     `json:"screenId"`
	Params   ExprFields `json:"params,omitempty"`
}

// NavigationModal presents a screen modally.
type NavigationModal struct {
	actionID
	ScreenID string     `json:"screenId"`
	Params   ExprFields `json:"params,omitempty"`
}

// NavigationDismissModal dismisses the current modal.
type NavigationDismissModal struct {
	actionID
}

// UIShowToast shows a transient toast message.
type UIShowToast struct {
	actionID
	Message ValueExpr `json:"message"`
}

// UIShowAlert shows an alert dialog.
type UIShowAlert struct {
	actionID
	Title   ValueExpr `json:"title"`
	Message ValueExpr `json:"message,omitempty"`
}

// UIShowSheet presents a bottom sheet by id.
type UIShowSheet struct {
	actionID
	SheetID string `json:"sheetId"`
}

// UIDismissSheet dismisses the current sheet.
type UIDismissSheet struct {
	actionID
}

// UIShowLoading shows the loading indicator.
type UIShowLoading struct {
	actionID
}

// UIHideLoading hides the loading indicator.
type UIHideLoading struct {
	actionID
}

// SystemShare opens the platform share sheet with content.
type SystemShare struct {
	actionID
	Content ValueExpr `json:"content"`
}

// SystemOpenURL opens a URL outside the app.
type SystemOpenURL struct {
	actionID
	URL ValueExpr `json:"url"`
}

// SystemHaptic triggers haptic feedback.
type SystemHaptic struct {
	actionID
	Style string `json:"style"`
}

// SystemCopyToClipboard copies text to the clipboard.
type SystemCopyToClipboard struct {
	actionID
	Text ValueExpr `json:"text"`
}

// SystemRequestPermission requests a platform permission.
type SystemRequestPermission struct {
	actionID
	Permission string `json:"permission"`
}

// APIRequest performs a network request. Success and error continuations
// are compiled action trees, not callbacks.
type APIRequest struct {
	actionID
	Endpoint  string     `json:"endpoint"`
	Method    string     `json:"method"`
	Headers   ExprFields `json:"headers,omitempty"`
	Body      ValueExpr  `json:"body,omitempty"`
	OnSuccess Action     `json:"onSuccess,omitempty"`
	OnError   Action     `json:"onError,omitempty"`
}

// Conditional branches on a compiled condition.
type Conditional struct {
	actionID
	Condition Condition `json:"condition"`
	Then      []Action  `json:"then"`
	Else      []Action  `json:"else,omitempty"`
}

// Sequence executes actions in order. The only strategy is "serial".
type Sequence struct {
	actionID
	Strategy string   `json:"strategy"`
	Actions  []Action `json:"actions"`
}

// SerialStrategy is the execution strategy of every Sequence.
const SerialStrategy = "serial"

func (*StoreSet) action()                {}
func (*StoreRemove) action()             {}
func (*StoreMerge) action()              {}
func (*StoreTransaction) action()        {}
func (*NavigationPush) action()          {}
func (*NavigationPop) action()           {}
func (*NavigationReplace) action()       {}
func (*NavigationModal) action()         {}
func (*NavigationDismissModal) action()  {}
func (*UIShowToast) action()             {}
func (*UIShowAlert) action()             {}
func (*UIShowSheet) action()             {}
func (*UIDismissSheet) action()          {}
func (*UIShowLoading) action()           {}
func (*UIHideLoading) action()           {}
func (*SystemShare) action()             {}
func (*SystemOpenURL) action()           {}
func (*SystemHaptic) action()            {}
func (*SystemCopyToClipboard) action()   {}
func (*SystemRequestPermission) action() {}
func (*APIRequest) action()              {}
func (*Conditional) action()             {}
func (*Sequence) action()                {}

func (*StoreSet) ActionKind() string                { return "store.set" }
func (*StoreRemove) ActionKind() string             { return "store.remove" }
func (*StoreMerge) ActionKind() string              { return "store.merge" }
func (*StoreTransaction) ActionKind() string        { return "store.transaction" }
func (*NavigationPush) ActionKind() string          { return "navigation.push" }
func (*NavigationPop) ActionKind() string           { return "navigation.pop" }
func (*NavigationReplace) ActionKind() string       { return "navigation.replace" }
func (*NavigationModal) ActionKind() string         { return "navigation.modal" }
func (*NavigationDismissModal) ActionKind() string  { return "navigation.dismissModal" }
func (*UIShowToast) ActionKind() string             { return "ui.showToast" }
func (*UIShowAlert) ActionKind() string             { return "ui.showAlert" }
func (*UIShowSheet) ActionKind() string             { return "ui.showSheet" }
func (*UIDismissSheet) ActionKind() string          { return "ui.dismissSheet" }
func (*UIShowLoading) ActionKind() string           { return "ui.showLoading" }
func (*UIHideLoading) ActionKind() string           { return "ui.hideLoading" }
func (*SystemShare) ActionKind() string             { return "system.share" }
func (*SystemOpenURL) ActionKind() string           { return "system.openUrl" }
func (*SystemHaptic) ActionKind() string            { return "system.haptic" }
func (*SystemCopyToClipboard) ActionKind() string   { return "system.copyToClipboard" }
func (*SystemRequestPermission) ActionKind() string { return "system.requestPermission" }
func (*APIRequest) ActionKind() string              { return "api.request" }
func (*Conditional) ActionKind() string             { return "conditional" }
func (*Sequence) ActionKind() string                { return "sequence" }

func (a *StoreSet) MarshalJSON() ([]byte, error) {
	type alias StoreSet
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *StoreRemove) MarshalJSON() ([]byte, error) {
	type alias StoreRemove
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *StoreMerge) MarshalJSON() ([]byte, error) {
	type alias StoreMerge
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *StoreTransaction) MarshalJSON() ([]byte, error) {
	type alias StoreTransaction
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *NavigationPush) MarshalJSON() ([]byte, error) {
	type alias NavigationPush
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *NavigationPop) MarshalJSON() ([]byte, error) {
	type alias NavigationPop
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *NavigationReplace) MarshalJSON() ([]byte, error) {
	type alias NavigationReplace
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *NavigationModal) MarshalJSON() ([]byte, error) {
	type alias NavigationModal
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *NavigationDismissModal) MarshalJSON() ([]byte, error) {
	type alias NavigationDismissModal
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *UIShowToast) MarshalJSON() ([]byte, error) {
	type alias UIShowToast
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *UIShowAlert) MarshalJSON() ([]byte, error) {
	type alias UIShowAlert
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *UIShowSheet) MarshalJSON() ([]byte, error) {
	type alias UIShowSheet
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *UIDismissSheet) MarshalJSON() ([]byte, error) {
	type alias UIDismissSheet
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *UIShowLoading) MarshalJSON() ([]byte, error) {
	type alias UIShowLoading
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *UIHideLoading) MarshalJSON() ([]byte, error) {
	type alias UIHideLoading
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *SystemShare) MarshalJSON() ([]byte, error) {
	type alias SystemShare
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *SystemOpenURL) MarshalJSON() ([]byte, error) {
	type alias SystemOpenURL
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *SystemHaptic) MarshalJSON() ([]byte, error) {
	type alias SystemHaptic
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *SystemCopyToClipboard) MarshalJSON() ([]byte, error) {
	type alias SystemCopyToClipboard
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *SystemRequestPermission) MarshalJSON() ([]byte, error) {
	type alias SystemRequestPermission
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *APIRequest) MarshalJSON() ([]byte, error) {
	type alias APIRequest
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *Conditional) MarshalJSON() ([]byte, error) {
	type alias Conditional
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

func (a *Sequence) MarshalJSON() ([]byte, error) {
	type alias Sequence
	return marshalKinded(a.ActionKind(), (*alias)(a))
}

// Walk visits a and every nested action in document order: transaction and
// sequence members, conditional branches, then request continuations.
func Walk(a Action, visit func(Action)) {
	if a == nil {
		return
	}
	visit(a)
	switch n := a.(type) {
	case *StoreTransaction:
		for _, child := range n.Actions {
			Walk(child, visit)
		}
	case *Conditional:
		for _, child := range n.Then {
			Walk(child, visit)
		}
		for _, child := range n.Else {
			Walk(child, visit)
		}
	case *Sequence:
		for _, child := range n.Actions {
			Walk(child, visit)
		}
	case *APIRequest:
		Walk(n.OnSuccess, visit)
		Walk(n.OnError, visit)
	}
}
