// internal/game/errors.go
package game

import (
	"errors"
)

// Rejection sentinels. Every rejected action returns one of these, possibly
// wrapped with detail, and leaves the state untouched.
var (
	ErrNotYourTurn           = errors.New("not_your_turn")
	ErrWrongPhase            = errors.New("wrong_phase")
	ErrAwaitingColorChoice   = errors.New("awaiting_color_choice")
	ErrCardNotInHand         = errors.New("card_not_in_hand")
	ErrIllegalPlay           = errors.New("illegal_play")
	ErrInvalidColorChoice    = errors.New("invalid_color_choice")
	ErrCatchWindowAbsent     = errors.New("catch_window_absent_or_mismatched")
	ErrCatchWindowExpired    = errors.New("catch_window_expired")
	ErrCannotDeclareLastCard = errors.New("cannot_declare_last_card")
	ErrAlreadyDrew           = errors.New("already_drew")
	ErrNothingDrawn          = errors.New("nothing_drawn")
	ErrUnknownPlayer         = errors.New("unknown_player")
	ErrUnknownAction         = errors.New("unknown_action")
)

var rejections = []error{
	ErrNotYourTurn,
	ErrWrongPhase,
	ErrAwaitingColorChoice,
	ErrCardNotInHand,
	ErrIllegalPlay,
	ErrInvalidColorChoice,
	ErrCatchWindowAbsent,
	ErrCatchWindowExpired,
	ErrCannotDeclareLastCard,
	ErrAlreadyDrew,
	ErrNothingDrawn,
	ErrUnknownPlayer,
	ErrUnknownAction,
}

// ReasonCode returns the wire code of the rejection sentinel err wraps, or
// "internal_error" for anything else.
func ReasonCode(err error) string {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return r.Error()
		}
	}
	return "internal_error"
}

// IsRejection reports whether err is a rule rejection rather than an infrastructure failure.
func IsRejection(err error) bool {
	return ReasonCode(err) != "internal_error"
}
