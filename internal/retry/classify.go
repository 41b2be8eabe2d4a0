package retry

import (
	"context"
	"errors"
	"net"
	"strings"
)

type Class string

const (
	// ClassAbsent marks a revert that signals the queried token id does
	// not exist. Expected for unminted ids, never retried.
	ClassAbsent Class = "absent"
	// ClassTransient marks an error worth retrying.
	ClassTransient Class = "transient"
	// ClassFatal marks an error that ends the item immediately.
	ClassFatal Class = "fatal"
)

type Decision struct {
	Class  Class
	Reason string
}

func (d Decision) IsTransient() bool {
	return d.Class == ClassTransient
}

// DefaultAbsenceTokens covers the revert strings emitted by the common
// ERC-721 implementations when ownerOf is queried for a nonexistent id.
// Absence-signaling conventions vary per contract, so the set is
// configurable (SNAPSHOT_ABSENCE_TOKENS).
var DefaultAbsenceTokens = []string{
	"invalid token id",
	"owner query for nonexistent token",
	"erc721nonexistenttoken",
	"token does not exist",
}

// Classifier decides how a failed contract call should be handled.
type Classifier struct {
	absenceTokens []string
}

// NewClassifier builds a classifier matching the given absence signatures.
// An empty list falls back to DefaultAbsenceTokens.
func NewClassifier(absenceTokens []string) Classifier {
	if len(absenceTokens) == 0 {
		absenceTokens = DefaultAbsenceTokens
	}
	lowered := make([]string, len(absenceTokens))
	for i, token := range absenceTokens {
		lowered[i] = strings.ToLower(token)
	}
	return Classifier{absenceTokens: lowered}
}

// Classify inspects err and decides between permanent absence, a transient
// failure worth retrying, and a fatal failure. Unrecognized errors default
// to transient so the retry budget decides their fate.
func (c Classifier) Classify(err error) Decision {
	if err == nil {
		return Decision{Class: ClassFatal, Reason: "nil_error"}
	}

	if errors.Is(err, context.Canceled) {
		return Decision{Class: ClassFatal, Reason: "context_canceled"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Decision{Class: ClassTransient, Reason: "context_deadline_exceeded"}
	}

	lower := strings.ToLower(err.Error())
	for _, token := range c.absenceTokens {
		if strings.Contains(lower, token) {
			return Decision{Class: ClassAbsent, Reason: "absence_signature"}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Decision{Class: ClassTransient, Reason: "net_timeout"}
	}

	return Decision{Class: ClassTransient, Reason: "unclassified_transient_default"}
}
