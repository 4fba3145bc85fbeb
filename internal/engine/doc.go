// Package engine wires the coedit components together: the persistence
// collaborator, the async writer, the event bus, the session registry,
// and the WebSocket transport. The Hub owns their lifecycle so the CLI
// layer only ever starts and stops one object.
package engine
