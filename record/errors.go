package record

import (
	"fmt"

	"holdem-hu/holdem"
)

// ReplayError explains where a record stopped matching the engine.
// StepIndex is the index into Actions, or -1 before the first action.
type ReplayError struct {
	StepIndex int32          `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

// ExpectedState is what the engine was waiting for at the failing step.
type ExpectedState struct {
	Seat         int                 `json:"seat"`
	Street       holdem.Street       `json:"street"`
	LegalActions []holdem.ActionType `json:"legal_actions,omitempty"`
	CallAmount   int64               `json:"call_amount,omitempty"`
	MinRaise     int64               `json:"min_raise,omitempty"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}

const (
	ReasonEngineInit     = "engine_init_failed"
	ReasonNoActionWanted = "no_action_expected"
	ReasonStreetMismatch = "street_mismatch"
	ReasonOutOfTurn      = "out_of_turn"
	ReasonActionFailed   = "action_apply_failed"
	ReasonIncomplete     = "hand_incomplete"
	ReasonMismatch       = "record_mismatch"
)
