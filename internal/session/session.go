// Package session models the per-client authenticated-identity state. A
// Manager is a per-request capability: handlers obtain one from the request
// context and pass it to the auth service, which never sees the transport.
package session

import "authgate/internal/domain"

// Manager tracks at most one authenticated identity for a single client.
// Two states: anonymous (Current reports false) and authenticated.
type Manager interface {
	// Start binds the identity to the client, replacing any prior state.
	Start(id domain.Identity) error
	// Current returns the active identity, or false when anonymous.
	Current() (domain.Identity, bool)
	// End clears all session state. Safe to call when already anonymous.
	End() error
}
