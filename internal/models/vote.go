package models

// VoteCandidate is a list entered into a group challenge.
type VoteCandidate struct {
	ID     string   `json:"id"`
	ListID string   `json:"listId"`
	Votes  []string `json:"votes"`
}

type Group struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	SingleChoice bool            `json:"singleChoice"`
	Candidates   []VoteCandidate `json:"candidates"`
}

// Voter identifies who is voting. An empty UserID means an anonymous device,
// optionally namespaced by Device.
type Voter struct {
	UserID string `json:"user,omitempty"`
	Device string `json:"device,omitempty"`
}

func (v Voter) Anonymous() bool {
	return v.UserID == ""
}

// Identified reports whether the voter names a user or a device.
func (v Voter) Identified() bool {
	return v.UserID != "" || v.Device != ""
}

type VoteRequest struct {
	Group     string `json:"group" validate:"required"`
	Candidate string `json:"candidate" validate:"required"`
	Voter
}
