// Package graph implements the streaming execution graph: one session
// at a time flows through orchestrator reasoning, tool dispatch, and
// specialist delegation, pausing whenever a sensitive tool call needs
// the operator's approval and resuming once decisions are supplied.
package graph

// OutputEvent is one tagged event in a turn's output stream. Exactly
// one of the payload fields is set.
type OutputEvent struct {
	Text   string
	Call   *ToolCallFragment
	Result *ToolResult
	Err    error
}

// ToolCallFragment is an incremental piece of a streamed tool call.
// Name is set only on the fragment that announces the call; Arguments
// carries a raw argument fragment that the consumer concatenates per
// call index in arrival order.
type ToolCallFragment struct {
	Index     int
	Name      string
	Arguments string
}

// ToolResult reports a completed tool execution.
type ToolResult struct {
	Name    string
	Content string
}

// ActionRequest is one sensitive tool call awaiting approval.
type ActionRequest struct {
	Name        string
	Args        map[string]interface{}
	Description string
}

// PendingInterrupt groups the sensitive calls from a single pause
// point. It is resolved only as a whole: every action request gets a
// decision before the graph resumes.
type PendingInterrupt struct {
	ID             string
	ActionRequests []ActionRequest
}

// DecisionType is the operator's verdict on one action request.
type DecisionType int

const (
	Approve DecisionType = iota
	Reject
)

// Decision pairs a verdict with an optional rejection reason.
type Decision struct {
	Type    DecisionType
	Message string
}

// ResumePayload maps every pending interrupt ID to its decisions, in
// action-request order. Partial payloads are invalid.
type ResumePayload map[string][]Decision

// State is the session's position in the turn lifecycle.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}
