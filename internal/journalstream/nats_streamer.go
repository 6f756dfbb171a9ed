package journalstream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// Publisher is the part of *nats.Conn the streamer needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSStreamer publishes every entry as JSON on a subject. Publish only
// buffers in the client, so Stream does not block on the network.
type NATSStreamer struct {
	pub     Publisher
	subject string
	logger  *slog.Logger
}

func NewNATSStreamer(pub Publisher, subject string, logger *slog.Logger) *NATSStreamer {
	return &NATSStreamer{pub: pub, subject: subject, logger: logger}
}

// ConnectNATS dials url with reconnect settings suitable for a long running server.
func ConnectNATS(url, name string, logger *slog.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil && logger != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			if logger != nil {
				logger.Info("nats reconnected", "url", nc.ConnectedUrl())
			}
		}),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

func (s *NATSStreamer) Stream(entry types.JournalEntry) {
	data, err := json.Marshal(entry)
	if err == nil {
		err = s.pub.Publish(s.subject, data)
	}
	if err != nil && s.logger != nil {
		s.logger.Error("failed to publish journal entry", "subject", s.subject, "seq", entry.GetSeq(), "error", err)
	}
}
