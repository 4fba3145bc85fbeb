// Package event provides a pub-sub event bus for decoupled inter-component
// communication in coedit.
//
// The session registry publishes lifecycle events as it processes inbound
// messages; the audit logger, the engine hub, and tests subscribe without
// the registry knowing who is listening. Events are dispatched synchronously
// on the publisher's goroutine, so handlers must be fast and must not call
// back into the registry.
//
// # Main Types
//
//   - [Event]: interface all events implement, providing EventType() and Timestamp()
//   - [Bus]: synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: function type for event handlers (func(Event))
//
// # Event Categories
//
// Session lifecycle:
//   - [SessionCreatedEvent]: first participant joined, in-memory state built
//   - [SessionDestroyedEvent]: last participant left, in-memory state discarded
//
// Participants:
//   - [ParticipantJoinedEvent], [ParticipantLeftEvent]
//
// Edits:
//   - [EditAcceptedEvent]: operation transformed and versioned
//   - [EditRejectedEvent]: operation refused, with the wire reason code
//
// Turns:
//   - [TurnChangedEvent]: grant, release, pass, or idle expiry
//   - [TurnDeniedEvent]: request refused while held
//
// Persistence:
//   - [PersistenceFailedEvent]: an async store write failed after broadcast
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	bus.Subscribe("edit.accepted", func(e event.Event) {
//	    accepted := e.(event.EditAcceptedEvent)
//	    log.Printf("%s@v%d", accepted.FilePath, accepted.Version)
//	})
//
//	// Subscribe to all events (useful for audit logging)
//	id := bus.SubscribeAll(auditHandler)
//	defer bus.Unsubscribe(id)
//
// Event types follow the "category.action" pattern: session.created,
// participant.joined, edit.accepted, turn.granted, persistence.failed.
package event
