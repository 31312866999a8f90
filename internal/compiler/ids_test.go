package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reverie-ui/reverie/internal/ir"
)

func TestAssignIDsPreorder(t *testing.T) {
	tree := &ir.Conditional{
		Condition: &ir.Comparison{Type: ir.CmpEquals},
		Then: []ir.Action{
			&ir.UIShowToast{},
			&ir.Sequence{Strategy: ir.SerialStrategy, Actions: []ir.Action{
				&ir.NavigationPop{},
			}},
		},
		Else: []ir.Action{&ir.UIHideLoading{}},
	}
	assignIDs(tree, "action_3")

	assert.Equal(t, "action_3", tree.ActionID())
	assert.Equal(t, "action_3.1", tree.Then[0].ActionID())
	assert.Equal(t, "action_3.2", tree.Then[1].ActionID())
	nested := tree.Then[1].(*ir.Sequence)
	assert.Equal(t, "action_3.3", nested.Actions[0].ActionID())
	assert.Equal(t, "action_3.4", tree.Else[0].ActionID())
}

func TestAssignIDsRequestContinuations(t *testing.T) {
	req := &ir.APIRequest{
		Endpoint:  "/x",
		Method:    "GET",
		OnSuccess: &ir.UIShowToast{},
		OnError:   &ir.UIShowAlert{},
	}
	assignIDs(req, "action_0")

	assert.Equal(t, "action_0", req.ActionID())
	assert.Equal(t, "action_0.1", req.OnSuccess.ActionID())
	assert.Equal(t, "action_0.2", req.OnError.ActionID())
}

func TestContentID(t *testing.T) {
	ref := ir.StoreRef{Scope: ir.ScopeApp, Storage: ir.StorageUserPrefs}

	assert.Equal(t, "app.userPrefs_set_theme", contentID(ref, "set", "theme"))
	assert.Equal(t, "app.userPrefs_remove_user_profile_name",
		contentID(ref, "remove", "user.profile/name"))
}

func TestNextRootIDStartsAtZero(t *testing.T) {
	ctx := NewContext()
	assert.Equal(t, "action_0", ctx.nextRootID())
	assert.Equal(t, "action_1", ctx.nextRootID())
	assert.Equal(t, "action_2", ctx.nextRootID())
}
