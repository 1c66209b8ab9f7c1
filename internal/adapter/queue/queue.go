package queue

import "time"

// MessageQueue carries the console's domain events (registry updates,
// snapshot refreshes, health pings) between the service and its workers.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// Options tunes reconnect behavior shared by both drivers.
type Options struct {
	// MaxReconnects caps redial attempts after a lost connection.
	// Zero means retry forever.
	MaxReconnects int

	// ReconnectWait is the pause between redial attempts.
	ReconnectWait time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReconnectWait <= 0 {
		o.ReconnectWait = 5 * time.Second
	}
	return o
}
