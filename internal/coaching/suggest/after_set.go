package suggest

import "fmt"

// SuggestionAfterSet is same-session auto-regulation, a pure function
// of how the just completed set went against its targets. On the last
// set the directive is still computed but flagged as informational for
// the next session.
func (e *Engine) SuggestionAfterSet(in AfterSetInput) (*SetFeedback, error) {
	if err := validateAfterSetInput(in); err != nil {
		return nil, err
	}

	repDiff := in.CompletedReps - in.TargetReps
	rpeDiff := in.RPE - in.TargetRPE

	feedback := &SetFeedback{
		ForNextSession: in.SetNumber == in.TotalSets,
	}

	switch {
	case repDiff <= -3 || (repDiff < 0 && rpeDiff >= 1.5):
		feedback.Directive = DirectiveDecrease
		feedback.WeightChangePct = -0.10
		feedback.Reason = fmt.Sprintf(
			"%d reps under target at RPE %.1f, take roughly 10%% off", -repDiff, in.RPE)
	case repDiff < 0 || rpeDiff >= 2:
		feedback.Directive = DirectiveDecrease
		feedback.WeightChangePct = -0.05
		feedback.Reason = "close to target but the set ran too hard, take a little off"
	case repDiff >= 0 && rpeDiff <= -1:
		feedback.Directive = DirectiveIncrease
		feedback.WeightChangePct = 0.05
		feedback.Reason = fmt.Sprintf(
			"target met at RPE %.1f with room to spare, add a little", in.RPE)
	default:
		feedback.Directive = DirectiveHold
		feedback.Reason = "on target, keep the weight"
	}

	return feedback, nil
}

func validateAfterSetInput(in AfterSetInput) error {
	if in.SetNumber < 1 {
		return fmt.Errorf("%w: set number %d", ErrInvalidInput, in.SetNumber)
	}
	if in.TotalSets < in.SetNumber {
		return fmt.Errorf("%w: set %d of %d", ErrInvalidInput, in.SetNumber, in.TotalSets)
	}
	if in.CompletedReps < 0 || in.TargetReps < 0 {
		return fmt.Errorf("%w: negative rep count", ErrInvalidInput)
	}
	if in.RPE < 1 || in.RPE > 10 {
		return fmt.Errorf("%w: rpe %.1f outside 1-10", ErrInvalidInput, in.RPE)
	}
	if in.TargetRPE < 1 || in.TargetRPE > 10 {
		return fmt.Errorf("%w: target rpe %.1f outside 1-10", ErrInvalidInput, in.TargetRPE)
	}
	return nil
}
