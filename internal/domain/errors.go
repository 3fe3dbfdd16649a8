package domain

import "errors"

var (
	// ErrAssemblyNotFound is returned when an assembly does not exist
	ErrAssemblyNotFound = errors.New("assembly not found")

	// ErrAssemblyClosed is returned when an operation requires an assembly
	// that has not been closed yet
	ErrAssemblyClosed = errors.New("assembly already closed")

	// ErrAgendaItemNotFound is returned when an agenda item does not exist
	// within the addressed assembly
	ErrAgendaItemNotFound = errors.New("agenda item not found")

	// ErrAgendaItemClosed is returned when a vote is cast on an item that is
	// not open at the moment of write
	ErrAgendaItemClosed = errors.New("agenda item is not open for voting")

	// ErrAgendaItemNotPending is returned when opening an item that already
	// left the pending state; closed items can never be reopened
	ErrAgendaItemNotPending = errors.New("agenda item is not pending")

	// ErrAgendaItemAlreadyClosed is returned when closing an item twice
	ErrAgendaItemAlreadyClosed = errors.New("agenda item already closed")

	// ErrAgendaItemNotOpen is returned when closing an item that was never opened
	ErrAgendaItemNotOpen = errors.New("agenda item is not open")

	// ErrAnotherItemOpen is returned when opening an item while another one is
	// open and the assembly does not allow concurrent items
	ErrAnotherItemOpen = errors.New("another agenda item is open")

	// ErrPreviousItemNotClosed is returned when opening an item out of order
	ErrPreviousItemNotClosed = errors.New("previous agenda item is not closed")

	// ErrAttendeeNotFound is returned when the attendee does not exist or does
	// not belong to the addressed assembly
	ErrAttendeeNotFound = errors.New("attendee not found")

	// ErrDuplicateAttendee is returned when an apartment checks in twice for
	// the same assembly
	ErrDuplicateAttendee = errors.New("apartment already checked in")

	// ErrInvalidChoice is returned when the ballot choice is not part of the
	// closed enum
	ErrInvalidChoice = errors.New("invalid vote choice")

	// ErrInvalidMills is returned when an attendee's mills weight is outside
	// (0, total_building_mills]
	ErrInvalidMills = errors.New("mills weight out of range")

	// ErrInvalidQuorum is returned when an agenda item's participation
	// threshold is outside [0, 100]
	ErrInvalidQuorum = errors.New("participation threshold out of range")

	// ErrMillsExceedTotal is returned when a registration would push the sum
	// of attendee mills above the building total
	ErrMillsExceedTotal = errors.New("attendee mills exceed total building mills")

	// ErrFinalResultNotFound is returned when the final result is requested
	// before the item closed
	ErrFinalResultNotFound = errors.New("final result not found")
)
