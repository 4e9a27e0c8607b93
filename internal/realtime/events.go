package realtime

import "encoding/json"

// Task workflow event names pushed over the notification stream.
const (
	EventTaskCreated    = "task_created"
	EventTaskStarted    = "task_started"
	EventTaskSubmitted  = "task_submitted"
	EventTaskApproved   = "task_approved"
	EventTaskRejected   = "task_rejected"
	EventTaskReassigned = "task_reassigned"
)

// TaskEvent is the JSON payload delivered to a technician's or admin's
// open websocket connections after a workflow action commits.
type TaskEvent struct {
	Type      string `json:"type"`
	TaskID    string `json:"taskId"`
	ProjectID string `json:"projectId"`
	Status    string `json:"status"`
	ActorID   string `json:"actorId,omitempty"`
	Version   int    `json:"version"`
}

// NotifyTask marshals and broadcasts a workflow event to every open
// connection of the given user. Marshal failures are silently dropped;
// notification is best-effort by contract.
func (h *Hub) NotifyTask(userID string, evt TaskEvent) {
	if userID == "" {
		return
	}
	bytes, err := marshalEvent(evt)
	if err != nil {
		return
	}
	h.Broadcast(userID, bytes)
}

// NotifyAdmins fans a workflow event out to every connected admin. Used
// when work lands in review and any admin may pick it up.
func (h *Hub) NotifyAdmins(evt TaskEvent) {
	bytes, err := marshalEvent(evt)
	if err != nil {
		return
	}
	h.BroadcastAdmins(bytes)
}

func marshalEvent(evt TaskEvent) ([]byte, error) {
	if evt.Version == 0 {
		evt.Version = 1
	}
	return json.Marshal(evt)
}
