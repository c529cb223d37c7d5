package model

// Issue is a work item fetched from the issue tracker. When the issue is a
// sub-task the tracker usually embeds the parent's key and type; ParentType
// may still be empty if the parent was not expanded, in which case the
// resolver fetches the parent by ParentKey (one hop, sub-tasks never nest).
type Issue struct {
	Key        string
	Type       string
	Subtask    bool
	ParentKey  string
	ParentType string
}
