// Package purchase validates a buyer's application, forwards it to the
// fulfillment sink, and records it in the purchase ledger on success.
package purchase

import (
	"context"
	"errors"
	"strings"

	"github.com/Tentennnn/anachaktopup/internal/models"
	"github.com/Tentennnn/anachaktopup/internal/notify"
)

// Platform is the Minecraft edition the buyer plays on.
type Platform string

const (
	PlatformJava    Platform = "java"
	PlatformBedrock Platform = "bedrock"
)

var (
	// ErrMissingFields means the buyer name or proof image is missing. The
	// buyer corrects the form and resubmits; no side effects occurred.
	ErrMissingFields = errors.New("minecraft username and payment proof are required")
	// ErrNotConfigured means no fulfillment endpoint is configured or the
	// store is switched off. Requires operator action, not a buyer retry.
	ErrNotConfigured = errors.New("store is not configured correctly, please contact an admin")
)

// SubmissionError wraps a fulfillment delivery failure. The buyer may retry
// immediately; the ledger was not written.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return "failed to submit purchase: " + e.Err.Error() }

func (e *SubmissionError) Unwrap() error { return e.Err }

// Submission is a buyer's completed purchase application.
type Submission struct {
	BuyerName     string
	Platform      Platform
	DiscordHandle string
	ProofFilename string
	Proof         []byte
	ItemName      string
	ItemPrice     float64
}

// Sink delivers a submission to the fulfillment channel.
type Sink interface {
	Send(ctx context.Context, p notify.Purchase) error
}

// Recorder appends a completed purchase to the activity ledger.
type Recorder interface {
	Append(buyerName, itemName string) models.PurchaseRecord
}

// Pipeline runs one submission end to end. It holds no per-submission state;
// a failed attempt is simply retried with a fresh Submit call.
type Pipeline struct {
	sink     Sink
	ledger   Recorder
	disabled func() bool
}

// New builds a pipeline. sink may be nil when no endpoint is configured;
// disabled may be nil when there is no kill switch.
func New(sink Sink, ledger Recorder, disabled func() bool) *Pipeline {
	return &Pipeline{sink: sink, ledger: ledger, disabled: disabled}
}

// Submit validates, forwards, and records one purchase application.
//
// Validation fails before any network call; an unconfigured store fails
// before any network call; a delivery failure leaves the ledger untouched.
// Only a 2xx from the sink appends to the ledger.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (models.PurchaseRecord, error) {
	buyer := strings.TrimSpace(sub.BuyerName)
	if buyer == "" || len(sub.Proof) == 0 {
		return models.PurchaseRecord{}, ErrMissingFields
	}
	if p.sink == nil || (p.disabled != nil && p.disabled()) {
		return models.PurchaseRecord{}, ErrNotConfigured
	}

	err := p.sink.Send(ctx, notify.Purchase{
		ItemName:      sub.ItemName,
		ItemPrice:     sub.ItemPrice,
		BuyerName:     buyer,
		Platform:      string(sub.Platform),
		DiscordHandle: strings.TrimSpace(sub.DiscordHandle),
		ProofFilename: sub.ProofFilename,
		Proof:         sub.Proof,
	})
	if err != nil {
		return models.PurchaseRecord{}, &SubmissionError{Err: err}
	}

	return p.ledger.Append(buyer, sub.ItemName), nil
}
