package kafka

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"
)

// Ping succeeds as soon as one of the brokers accepts a connection.
func Ping(ctx context.Context, brokers []string) error {
	err := errors.New("no brokers configured")
	for _, broker := range brokers {
		conn, dialErr := kafka.DialContext(ctx, "tcp", broker)
		if dialErr != nil {
			err = dialErr
			continue
		}
		return conn.Close()
	}
	return err
}
