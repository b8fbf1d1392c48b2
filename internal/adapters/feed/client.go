package feed

import (
	"context"
	"errors"

	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const eventBuffer = 64

// Client implements ports.ChangeFeed against a feed Server.
type Client struct {
	target   string
	table    string
	logger   ports.Logger
	dialOpts []grpc.DialOption
}

// NewClient creates a Client for the server at target. An empty target makes
// every Subscribe fail with domain.ErrFeedNotConfigured.
func NewClient(target, table string, logger ports.Logger, opts ...grpc.DialOption) *Client {
	return &Client{
		target:   target,
		table:    table,
		logger:   logger,
		dialOpts: append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...),
	}
}

// Subscribe opens the change stream and waits for the server to confirm it.
func (c *Client) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	if c.target == "" {
		return nil, domain.ErrFeedNotConfigured
	}

	conn, err := grpc.NewClient(c.target, c.dialOpts...)
	if err != nil {
		return nil, c.unavailable(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := conn.NewStream(ctx, &serviceDesc.Streams[0], SubscribeMethod, grpc.ForceCodec(jsonCodec{}))
	if err != nil {
		cancel()
		_ = conn.Close()
		return nil, c.unavailable(err)
	}

	fail := func(err error) (<-chan domain.ChangeEvent, error) {
		cancel()
		_ = conn.Close()
		return nil, c.unavailable(err)
	}

	if err := stream.SendMsg(&SubscribeRequest{Table: c.table}); err != nil {
		return fail(err)
	}
	if err := stream.CloseSend(); err != nil {
		return fail(err)
	}

	var first ChangeMessage
	if err := stream.RecvMsg(&first); err != nil {
		return fail(err)
	}
	if first.Status != StatusSubscribed {
		return fail(zerr.With(zerr.New("subscription not confirmed"), "status", first.Status))
	}

	out := make(chan domain.ChangeEvent, eventBuffer)
	go func() {
		defer close(out)
		defer cancel()
		defer func() { _ = conn.Close() }()

		for {
			var msg ChangeMessage
			if err := stream.RecvMsg(&msg); err != nil {
				if ctx.Err() == nil {
					c.logger.Warn("change feed dropped: " + err.Error())
				}
				return
			}
			if msg.Status != "" {
				continue
			}

			ev, err := msg.ToEvent()
			if err != nil {
				c.logger.Error(err)
				continue
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (c *Client) unavailable(err error) error {
	return zerr.With(errors.Join(domain.ErrFeedUnavailable, err), "target", c.target)
}
