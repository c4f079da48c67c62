package audit

// Event kinds recorded by the controller.
const (
	EventToolCall   = "tool_call"
	EventModeChange = "mode_change"
)

// Entry is one line in the hash-chained JSONL audit log.
// All fields are scalars so json.Marshal field order is fixed and hashing
// is reproducible.
type Entry struct {
	Timestamp  string `json:"ts"`
	SessionID  string `json:"session_id"`
	Event      string `json:"event"`
	Mode       string `json:"mode"`
	Tool       string `json:"tool,omitempty"`
	Command    string `json:"command,omitempty"`
	Decision   string `json:"decision,omitempty"`
	Reason     string `json:"reason,omitempty"`
	ConfigHash string `json:"config_hash,omitempty"`
	PrevHash   string `json:"prev_hash"`
}

// Recorder accepts audit entries. *Log implements it.
type Recorder interface {
	Record(entry Entry) error
}
