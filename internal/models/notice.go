package models

// Notice is a one-shot message shown after a form submission.
type Notice struct {
	Kind string `json:"kind"` // "success" or "error"
	Text string `json:"text"`
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Kind == NoticeError
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)
