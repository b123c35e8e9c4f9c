package privacy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reizio/reiz/privacy"
)

func TestDenyAnchorType(t *testing.T) {
	rule := privacy.DenyAnchorType("File", "Module")

	err := rule.Eval(context.Background(), &privacy.Request{TypeName: "File"})
	require.True(t, errors.Is(err, privacy.Deny))

	err = rule.Eval(context.Background(), &privacy.Request{TypeName: "Call"})
	require.True(t, errors.Is(err, privacy.Skip))
}

func TestAllowAnchorTypes(t *testing.T) {
	rule := privacy.AllowAnchorTypes("Call", "FunctionDef")

	err := rule.Eval(context.Background(), &privacy.Request{TypeName: "Call"})
	require.True(t, errors.Is(err, privacy.Allow))

	err = rule.Eval(context.Background(), &privacy.Request{TypeName: "Name"})
	require.True(t, errors.Is(err, privacy.Skip))
}

func TestAllowAnchorTypesCombinedWithDefaultDeny(t *testing.T) {
	policy := privacy.Policy{
		privacy.AllowAnchorTypes("Call", "FunctionDef"),
		privacy.AlwaysDenyRule(),
	}

	err := policy.Eval(context.Background(), &privacy.Request{TypeName: "Call"})
	assert.NoError(t, err)

	err = policy.Eval(context.Background(), &privacy.Request{TypeName: "Name"})
	assert.True(t, errors.Is(err, privacy.Deny))
}

func TestRequireLimit(t *testing.T) {
	rule := privacy.RequireLimit(100)

	err := rule.Eval(context.Background(), &privacy.Request{})
	require.True(t, errors.Is(err, privacy.Deny))

	over := 500
	err = rule.Eval(context.Background(), &privacy.Request{Limit: &over})
	require.True(t, errors.Is(err, privacy.Deny))

	under := 10
	err = rule.Eval(context.Background(), &privacy.Request{Limit: &under})
	require.True(t, errors.Is(err, privacy.Skip))
}

func TestIntegratedPolicyChain(t *testing.T) {
	policy := privacy.Policy{
		privacy.DenyAnchorType("File"),
		privacy.RequireLimit(1000),
	}

	limit := 50
	err := policy.Eval(context.Background(), &privacy.Request{TypeName: "Call", Limit: &limit})
	assert.NoError(t, err)

	err = policy.Eval(context.Background(), &privacy.Request{TypeName: "File", Limit: &limit})
	assert.True(t, errors.Is(err, privacy.Deny))

	err = policy.Eval(context.Background(), &privacy.Request{TypeName: "Call"})
	assert.True(t, errors.Is(err, privacy.Deny))
}
