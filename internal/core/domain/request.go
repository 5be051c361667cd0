package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a customer request.
type RequestStatus string

const (
	RequestNew        RequestStatus = "new"
	RequestProcessing RequestStatus = "processing"
	RequestResponded  RequestStatus = "responded"
	RequestDone       RequestStatus = "done"
)

// requestOrder ranks statuses; a request may only move forward.
var requestOrder = map[RequestStatus]int{
	RequestNew:        0,
	RequestProcessing: 1,
	RequestResponded:  2,
	RequestDone:       3,
}

var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

func (s RequestStatus) Valid() bool {
	_, ok := requestOrder[s]
	return ok
}

// CanTransitionTo reports whether a request in status s may be moved to next.
// Forward jumps are allowed and re-applying the current status is a no-op.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	from, ok := requestOrder[s]
	if !ok {
		return false
	}
	to, ok := requestOrder[next]
	if !ok {
		return false
	}
	return to >= from
}

// Request is an inquiry for a part submitted by an anonymous customer.
// It is visible to every merchant.
type Request struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	PartName      string        `json:"partName"`
	CarMake       string        `json:"carMake"`
	CarModel      string        `json:"carModel"`
	CarYear       int           `json:"carYear,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}
