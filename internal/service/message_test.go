package service

import (
	"context"
	"testing"

	"oneflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct {
	events []string
	rooms  []int
}

func (b *fakeBroadcaster) Broadcast(projectID int, event string, payload any) {
	b.rooms = append(b.rooms, projectID)
	b.events = append(b.events, event)
}

func TestMessagePersistedThenBroadcast(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	rt := &fakeBroadcaster{}
	svc := NewMessageService(db, rt)

	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	member := seedUser(t, db, "member", model.RoleTeamMember)
	p := seedProject(t, db, "alpha", pm.ID)

	m := model.ProjectMessage{ProjectID: p.ID, Text: "standup at 10"}
	require.NoError(t, svc.Create(ctx, asIdentity(member), &m))
	assert.Equal(t, member.ID, m.UserID)
	assert.Equal(t, []string{"new-message"}, rt.events)
	assert.Equal(t, []int{p.ID}, rt.rooms)

	msgs, err := svc.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].User)
	assert.Equal(t, "member", msgs[0].User.Name)

	t.Run("author deletes own message", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, asIdentity(member), m.ID))
		assert.Equal(t, "delete-message", rt.events[len(rt.events)-1])
	})
}

func TestMessageDeleteAuthorization(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewMessageService(db, &fakeBroadcaster{})

	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	author := seedUser(t, db, "author", model.RoleTeamMember)
	stranger := seedUser(t, db, "stranger", model.RoleTeamMember)
	p := seedProject(t, db, "alpha", pm.ID)

	m := model.ProjectMessage{ProjectID: p.ID, Text: "hi"}
	require.NoError(t, svc.Create(ctx, asIdentity(author), &m))

	err := svc.Delete(ctx, asIdentity(stranger), m.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// a project manager may moderate
	require.NoError(t, svc.Delete(ctx, asIdentity(pm), m.ID))
}

func TestEmptyMessageRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db, &fakeBroadcaster{})
	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	p := seedProject(t, db, "alpha", pm.ID)

	err := svc.Create(context.Background(), asIdentity(pm), &model.ProjectMessage{ProjectID: p.ID})
	assert.ErrorIs(t, err, ErrInvalid)
}
