package record

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"holdem-hu/holdem"
)

// Replay deals the record's hand again and applies its actions in order,
// returning the record the engine produces. Any step the engine does not
// accept is reported as a *ReplayError.
func Replay(rec holdem.HandRecord) (holdem.HandRecord, error) {
	h, snap, err := holdem.StartHand(rec.Config())
	if err != nil {
		return holdem.HandRecord{}, &ReplayError{StepIndex: -1, Reason: ReasonEngineInit, Message: err.Error()}
	}

	for i, step := range rec.Actions {
		idx := int32(i)
		if snap.Complete() {
			return holdem.HandRecord{}, &ReplayError{
				StepIndex: idx,
				Reason:    ReasonNoActionWanted,
				Message:   "hand is already complete; no further actions are allowed",
			}
		}
		if snap.Street != step.Street {
			return holdem.HandRecord{}, &ReplayError{
				StepIndex: idx,
				Reason:    ReasonStreetMismatch,
				Message:   fmt.Sprintf("expected street %s, got %s", snap.Street, step.Street),
				Expected:  expected(snap),
			}
		}
		if snap.ToAct != step.Seat {
			return holdem.HandRecord{}, &ReplayError{
				StepIndex: idx,
				Reason:    ReasonOutOfTurn,
				Message:   fmt.Sprintf("expected seat %d to act, got %d", snap.ToAct, step.Seat),
				Expected:  expected(snap),
			}
		}
		next, err := h.Apply(step.Action())
		if err != nil {
			return holdem.HandRecord{}, &ReplayError{
				StepIndex: idx,
				Reason:    ReasonActionFailed,
				Message:   err.Error(),
				Expected:  expected(snap),
			}
		}
		snap = next
	}

	out, err := h.Record()
	if err != nil {
		return holdem.HandRecord{}, &ReplayError{
			StepIndex: int32(len(rec.Actions)),
			Reason:    ReasonIncomplete,
			Message:   err.Error(),
			Expected:  expected(snap),
		}
	}
	return out, nil
}

// Verify replays rec and checks that the engine reproduces it exactly.
func Verify(rec holdem.HandRecord) error {
	got, err := Replay(rec)
	if err != nil {
		return err
	}
	if diff := Diff(rec, got); diff != "" {
		return &ReplayError{
			StepIndex: int32(len(rec.Actions)),
			Reason:    ReasonMismatch,
			Message:   "replayed record differs (-recorded +replayed):\n" + diff,
		}
	}
	return nil
}

// Diff reports the differences between two records, empty when they match.
// Nil and empty lists are treated alike.
func Diff(want, got holdem.HandRecord) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

func expected(s holdem.Snapshot) *ExpectedState {
	return &ExpectedState{
		Seat:         s.ToAct,
		Street:       s.Street,
		LegalActions: append([]holdem.ActionType(nil), s.Legal.Actions...),
		CallAmount:   s.Legal.CallAmount,
		MinRaise:     s.Legal.MinRaise,
	}
}
