package tui

// connectedMsg reports a completed join handshake.
type connectedMsg struct {
	participantID string
}

// frameMsg carries one raw server frame into the update loop.
type frameMsg struct {
	data []byte
}

// disconnectedMsg reports the connection ending.
type disconnectedMsg struct {
	err error
}
