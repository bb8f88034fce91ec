package voting

import "errors"

var (
	ErrAlreadyVoted      = errors.New("already voted for another candidate in this group")
	ErrBusy              = errors.New("vote already in flight for this candidate")
	ErrPersistence       = errors.New("vote set update failed")
	ErrUnknownCandidate  = errors.New("unknown candidate")
	ErrInvalidTransition = errors.New("invalid vote state transition")
	ErrNoVoterID         = errors.New("no voter id to cast")
)
