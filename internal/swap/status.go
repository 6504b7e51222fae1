package swap

import (
	"strings"

	"bookswap/internal/apperror"
)

// Status is the lifecycle state of a swap request.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusPending
	StatusAccepted
	StatusReserved
	StatusRejected
	StatusExpired
)

var statusCodes = [...]string{
	StatusUnknown:  "",
	StatusPending:  "PENDING",
	StatusAccepted: "ACCEPTED",
	StatusReserved: "RESERVED",
	StatusRejected: "REJECTED",
	StatusExpired:  "EXPIRED",
}

var statusByCode = func() map[string]Status {
	m := make(map[string]Status, len(statusCodes))
	for s, code := range statusCodes {
		if code != "" {
			m[code] = Status(s)
		}
	}
	return m
}()

// ParseStatus maps a wire code to a Status. Matching ignores case and surrounding space.
func ParseStatus(code string) (Status, error) {
	if s, ok := statusByCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return s, nil
	}
	return StatusUnknown, apperror.BadRequest("invalidSwapStatus", code)
}

func (s Status) String() string {
	if int(s) < len(statusCodes) {
		return statusCodes[s]
	}
	return ""
}

func (s Status) Valid() bool {
	return s != StatusUnknown && int(s) < len(statusCodes)
}

// CanTransitionTo reports whether a request in status s may move to next.
// No transition out of a status is defined yet, so every pair is refused.
func (s Status) CanTransitionTo(next Status) bool {
	return false
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, apperror.BadRequest("invalidSwapStatus", s.String())
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
