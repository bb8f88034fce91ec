package voting

type NoticeKind string

const (
	NoticeRecorded     NoticeKind = "vote_recorded"
	NoticeRetracted    NoticeKind = "vote_removed"
	NoticeAlreadyVoted NoticeKind = "already_voted"
	NoticeFailed       NoticeKind = "vote_failed"
	NoticeBusy         NoticeKind = "vote_in_progress"
)

// Notice is a transient, dismissible message for the voter. Retry marks
// failures the voter can recover from by repeating the same action.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	Retry   bool       `json:"retry"`
}

var (
	noticeRecorded     = Notice{Kind: NoticeRecorded, Message: "Vote recorded"}
	noticeRetracted    = Notice{Kind: NoticeRetracted, Message: "Vote removed"}
	noticeAlreadyVoted = Notice{Kind: NoticeAlreadyVoted, Message: "You already voted for another list in this challenge"}
	noticeFailed       = Notice{Kind: NoticeFailed, Message: "Vote failed, try again", Retry: true}
	noticeTimedOut     = Notice{Kind: NoticeFailed, Message: "Vote timed out, try again", Retry: true}
	noticeBusy         = Notice{Kind: NoticeBusy, Message: "Your vote is still being saved"}
)
