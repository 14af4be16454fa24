package session

import "context"

// EventType names a discrete wallet lifecycle notification.
type EventType string

// Wallet event types.
const (
	// EventProviderConfirmed reports a completed connection attempt with
	// the confirmed account and its active chain.
	EventProviderConfirmed EventType = "provider_confirmed"

	// EventProviderRejected reports a failed connection attempt.
	// UserCancelled distinguishes a declined prompt from other errors.
	EventProviderRejected EventType = "provider_rejected"

	// EventAccountChanged reports the active account switching while
	// connected. ChainID carries the new account's active chain.
	EventAccountChanged EventType = "account_changed"

	// EventChainChanged reports the active chain switching.
	EventChainChanged EventType = "chain_changed"

	// EventSwitchResult reports the outcome of a requested network
	// switch.
	EventSwitchResult EventType = "switch_network_result"

	// EventDisconnected reports the wallet disconnecting, for any
	// reason.
	EventDisconnected EventType = "disconnected"
)

// WalletEvent is one notification from the wallet provider. Only the
// fields relevant to the event type are set.
type WalletEvent struct {
	Type          EventType
	Account       string
	ChainID       int64
	Succeeded     bool  // switch_network_result
	UserCancelled bool  // provider_rejected
	Err           error // provider_rejected, switch_network_result
}

// EventSource is the externally-owned wallet provider the machine
// subscribes to. Connection state belongs to the provider; the machine
// only reacts to its events. Tests supply a fake source.
type EventSource interface {
	// Events delivers wallet notifications. Closing the channel stops
	// the machine.
	Events() <-chan WalletEvent

	// RequestConnect asks the provider to open its connection prompt.
	// The outcome arrives as a provider_confirmed or provider_rejected
	// event; an immediate error means the prompt could not be opened.
	RequestConnect(ctx context.Context) error

	// RequestSwitchNetwork asks the provider to switch to chainID. The
	// outcome arrives as a switch_network_result event.
	RequestSwitchNetwork(ctx context.Context, chainID int64) error

	// Disconnect asks the provider to drop the connection.
	Disconnect(ctx context.Context) error
}
