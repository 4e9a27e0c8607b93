package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeClient records delivered messages; failOnSend simulates a dead conn.
type fakeClient struct {
	messages   [][]byte
	failOnSend bool
}

func (f *fakeClient) Send(message []byte) bool {
	if f.failOnSend {
		return false
	}
	f.messages = append(f.messages, message)
	return true
}

func (f *fakeClient) Close() {}

func TestHub_NotifyTaskReachesAllUserClients(t *testing.T) {
	hub := NewHub()
	first := &fakeClient{}
	second := &fakeClient{}
	hub.Register("tech-1", false, first)
	hub.Register("tech-1", false, second)

	hub.NotifyTask("tech-1", TaskEvent{Type: EventTaskApproved, TaskID: "t-1"})

	require.Len(t, first.messages, 1)
	require.Len(t, second.messages, 1)

	var evt TaskEvent
	require.NoError(t, json.Unmarshal(first.messages[0], &evt))
	require.Equal(t, EventTaskApproved, evt.Type)
	require.Equal(t, 1, evt.Version)
}

func TestHub_NotifyAdminsSkipsTechnicians(t *testing.T) {
	hub := NewHub()
	admin := &fakeClient{}
	tech := &fakeClient{}
	hub.Register("admin-1", true, admin)
	hub.Register("tech-1", false, tech)

	hub.NotifyAdmins(TaskEvent{Type: EventTaskSubmitted, TaskID: "t-1"})

	require.Len(t, admin.messages, 1)
	require.Empty(t, tech.messages)
}

func TestHub_DeadClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	dead := &fakeClient{failOnSend: true}
	live := &fakeClient{}
	hub.Register("tech-1", false, dead)
	hub.Register("tech-1", false, live)

	hub.NotifyTask("tech-1", TaskEvent{Type: EventTaskRejected, TaskID: "t-1"})
	require.Len(t, live.messages, 1)
}

func TestHub_UnregisterCleansUp(t *testing.T) {
	hub := NewHub()
	client := &fakeClient{}
	hub.Register("admin-1", true, client)
	hub.Unregister("admin-1", client)

	hub.NotifyAdmins(TaskEvent{Type: EventTaskSubmitted, TaskID: "t-1"})
	require.Empty(t, client.messages)
}
