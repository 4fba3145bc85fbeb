// Package protocol defines the wire format spoken between the coordination
// engine and its participants.
//
// Every WebSocket text message carries one JSON envelope of the form
// {"type": "<kind>", ...payload}. Inbound envelopes are decoded by [Decode]
// into the [Inbound] tagged union with exactly one payload field populated
// per kind. Decoding is exhaustive: an envelope whose type is not a known
// inbound kind fails with [ErrUnknownEvent] and the sender gets an explicit
// error reply, never silence.
//
// Outbound messages are plain structs with their Type field preset by the
// constructor functions ([Joined], [EditAck], [TurnDenied], ...), so a
// handler cannot emit an envelope with a mismatched tag.
//
// Rejections carry a machine-readable reason code (Reason* constants) plus
// enough state — the current turn and file version — for the client to
// recover without a full resync in the common case.
package protocol
