package replication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type change struct {
	old, new int
}

func TestValueSetNotifiesOncePerChange(t *testing.T) {
	ctx := NewContext(RoleDedicatedAuthority)
	v := NewValue(ctx, "test.cell", 0)

	var got []change
	v.Subscribe(func(old, new int) {
		got = append(got, change{old, new})
	})

	v.Set(1)
	v.Set(2)
	v.Set(2) // no change, no notification
	v.Set(3)

	require.Equal(t, []change{{0, 1}, {1, 2}, {2, 3}}, got)
	assert.Equal(t, 3, v.Get())
}

func TestValueInitialValueDoesNotNotify(t *testing.T) {
	ctx := NewContext(RoleHostAuthority)
	fired := false
	v := NewValue(ctx, "test.cell", 42)
	v.Subscribe(func(_, _ int) { fired = true })

	assert.Equal(t, 42, v.Get())
	assert.False(t, fired)
}

func TestValueNonAuthorityWriteIsNoOp(t *testing.T) {
	ctx := NewContext(RoleParticipant)
	v := NewValue(ctx, "test.cell", 7)

	fired := false
	v.Subscribe(func(_, _ int) { fired = true })

	v.Set(99)

	assert.Equal(t, 7, v.Get())
	assert.False(t, fired)
}

func TestValueApplyRemoteDedupesSnapshotRedelivery(t *testing.T) {
	ctx := NewContext(RoleParticipant)
	v := NewValue(ctx, "test.cell", 0)

	var got []change
	v.Subscribe(func(old, new int) {
		got = append(got, change{old, new})
	})

	// Full snapshots re-deliver unchanged values every sync.
	v.ApplyRemote(5)
	v.ApplyRemote(5)
	v.ApplyRemote(5)
	v.ApplyRemote(6)
	v.ApplyRemote(6)

	require.Equal(t, []change{{0, 5}, {5, 6}}, got)
	assert.Equal(t, 6, v.Get())
}

func TestValueUnsubscribeStopsNotifications(t *testing.T) {
	ctx := NewContext(RoleDedicatedAuthority)
	v := NewValue(ctx, "test.cell", 0)

	count := 0
	id := v.Subscribe(func(_, _ int) { count++ })

	v.Set(1)
	v.Unsubscribe(id)
	v.Set(2)

	assert.Equal(t, 1, count)
}

func TestValueMultipleListenersAllFire(t *testing.T) {
	ctx := NewContext(RoleDedicatedAuthority)
	v := NewValue(ctx, "test.cell", "")

	a, b := 0, 0
	v.Subscribe(func(_, _ string) { a++ })
	v.Subscribe(func(_, _ string) { b++ })

	v.Set("x")

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestValueListenerSeesStateAlreadyApplied(t *testing.T) {
	ctx := NewContext(RoleDedicatedAuthority)
	v := NewValue(ctx, "test.cell", 0)

	v.Subscribe(func(old, new int) {
		assert.Equal(t, new, v.Get())
	})
	v.Set(10)
}

func TestContextRoles(t *testing.T) {
	assert.False(t, NewContext(RoleParticipant).IsAuthority())
	assert.True(t, NewContext(RoleHostAuthority).IsAuthority())
	assert.True(t, NewContext(RoleDedicatedAuthority).IsAuthority())

	var nilCtx *Context
	assert.False(t, nilCtx.IsAuthority())
	assert.Equal(t, RoleParticipant, nilCtx.Role())
}
