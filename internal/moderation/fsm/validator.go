// Package fsm validates report status transitions with looplab/fsm.
package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"soukscan/internal/moderation"
)

var _ moderation.TransitionValidator = (*Validator)(nil)

var events = buildEvents()

// buildEvents groups transitions sharing an event and destination into one
// EventDesc with several sources.
func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range moderation.Transitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{Name: k.event, Src: grouped[k], Dst: k.dst})
	}
	return out
}

// Validator builds a short-lived machine per call, seeded with the report's
// current status, since looplab/fsm instances are stateful.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Apply returns the destination status for event, or a
// *moderation.TransitionError when the report cannot take it.
func (v *Validator) Apply(ctx context.Context, current moderation.ReportStatus, event moderation.ActionType) (moderation.ReportStatus, error) {
	machine := loopfsm.NewFSM(string(current), events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) {
			return "", &moderation.TransitionError{Event: event, Current: current}
		}
		return "", err
	}
	return moderation.ReportStatus(machine.Current()), nil
}
