package domain

// MessageRef identifies a message returned by a mailbox search.
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId,omitempty"`
}

// Message is a decoded mail message. It is never stored verbatim.
type Message struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	Subject  string   `json:"subject"`
	From     string   `json:"from"`
	Date     string   `json:"date"`
	Body     string   `json:"body"`
	Snippet  string   `json:"snippet"`
	LabelIDs []string `json:"labelIds"`
}

// Content returns the body, or the snippet when the body is empty.
func (m *Message) Content() string {
	if m.Body != "" {
		return m.Body
	}
	return m.Snippet
}
