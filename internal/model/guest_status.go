package model

type GuestStatus string

const (
	GuestPending   GuestStatus = "pending"
	GuestConfirmed GuestStatus = "confirmed"
	GuestDeclined  GuestStatus = "declined"
)

// Next advances the RSVP cycle: pending -> confirmed -> declined -> pending.
// Anything unrecognized restarts at pending.
func (s GuestStatus) Next() GuestStatus {
	switch s {
	case GuestPending:
		return GuestConfirmed
	case GuestConfirmed:
		return GuestDeclined
	default:
		return GuestPending
	}
}

func (s GuestStatus) Valid() bool {
	switch s {
	case GuestPending, GuestConfirmed, GuestDeclined:
		return true
	}
	return false
}
