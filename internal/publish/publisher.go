// Package publish sends hydrated build reports to NATS.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// Static errors for err113 compliance.
var (
	ErrURLRequired     = errors.New("NATS URL is required")
	ErrSubjectRequired = errors.New("NATS subject is required")
)

// Message headers set on every published report.
const (
	HeaderBuildID     = "Tc-Build-Id"
	HeaderBuildTypeID = "Tc-Build-Type-Id"
	HeaderBuildStatus = "Tc-Build-Status"
)

const defaultConnectTimeout = 5 * time.Second

// Conn is the part of *nats.Conn used by the publisher.
type Conn interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Config describes the NATS connection and target subject.
type Config struct {
	URL     string
	Subject string
	// Name identifies the client connection on the server.
	Name    string
	Timeout time.Duration
}

// Publisher publishes hydrated builds as JSON messages, one per build.
type Publisher struct {
	conn    Conn
	subject string
	logger  tcapi.Logger
}

// Connect dials NATS and returns a publisher for config.Subject.
func Connect(config Config, logger tcapi.Logger) (*Publisher, error) {
	if config.URL == "" {
		return nil, ErrURLRequired
	}

	if config.Subject == "" {
		return nil, ErrSubjectRequired
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := []nats.Option{nats.Timeout(timeout)}
	if config.Name != "" {
		opts = append(opts, nats.Name(config.Name))
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", config.URL, err)
	}

	return NewPublisher(conn, config.Subject, logger)
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, subject string, logger tcapi.Logger) (*Publisher, error) {
	if subject == "" {
		return nil, ErrSubjectRequired
	}

	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}, nil
}

// PublishBuilds publishes every build in order and flushes the connection.
func (p *Publisher) PublishBuilds(ctx context.Context, builds []tcapi.BuildMetadataWithChangeMetadata) error {
	for i := range builds {
		build := &builds[i]

		data, err := json.Marshal(build)
		if err != nil {
			return fmt.Errorf("encoding build %d: %w", build.ID, err)
		}

		msg := nats.NewMsg(p.subject)
		msg.Data = data
		msg.Header.Set(HeaderBuildID, strconv.FormatInt(build.ID, 10))
		msg.Header.Set(HeaderBuildTypeID, build.BuildTypeID)
		msg.Header.Set(HeaderBuildStatus, build.Status)

		err = p.conn.PublishMsg(msg)
		if err != nil {
			return fmt.Errorf("publishing build %d: %w", build.ID, err)
		}
	}

	err := p.conn.FlushWithContext(ctx)
	if err != nil {
		return fmt.Errorf("flushing NATS connection: %w", err)
	}

	if p.logger != nil {
		p.logger.Info("Published builds", map[string]interface{}{
			"subject": p.subject,
			"count":   len(builds),
		})
	}

	return nil
}

// Close closes the underlying connection.
func (p *Publisher) Close() {
	p.conn.Close()
}
