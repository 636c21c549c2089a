package meetup

// Event is a closed set of inbound conversation events. Each variant
// carries only the payload its kind requires; malformed payloads are
// rejected at decode time, before the transition logic runs.
type Event interface {
	isEvent()
}

// StartMeetup begins (or restarts) a meetup flow of the given kind.
type StartMeetup struct {
	Kind      Kind
	Organizer string
}

// SelectLocation picks a location from the catalog while in the location step.
type SelectLocation struct {
	ID string
}

// SelectTime sets an explicit time value while in the time step.
type SelectTime struct {
	Value string
}

// SkipTime marks the time as flexible while in the time step.
type SkipTime struct{}

// ToggleFriend adds or removes a friend while in the friends step.
type ToggleFriend struct {
	ID string
}

// DoneFriends finishes invitee selection and moves to confirmation.
type DoneFriends struct{}

// Confirm finalizes the meetup, producing a Ping.
type Confirm struct{}

// Cancel discards the session from any step.
type Cancel struct{}

func (StartMeetup) isEvent()    {}
func (SelectLocation) isEvent() {}
func (SelectTime) isEvent()     {}
func (SkipTime) isEvent()       {}
func (ToggleFriend) isEvent()   {}
func (DoneFriends) isEvent()    {}
func (Confirm) isEvent()        {}
func (Cancel) isEvent()         {}
