package feed

import (
	"context"
	"net"
	"sync"

	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const subscriberBuffer = 64

// Server fans published change events out to every subscriber.
// A subscriber that falls a full buffer behind is disconnected.
type Server struct {
	table      string
	logger     ports.Logger
	grpcServer *grpc.Server

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan ChangeMessage
}

// NewServer creates a Server streaming changes of table.
func NewServer(table string, logger ports.Logger) *Server {
	s := &Server{
		table:      table,
		logger:     logger,
		grpcServer: grpc.NewServer(grpc.ForceServerCodec(jsonCodec{})),
		subs:       make(map[uint64]chan ChangeMessage),
	}
	s.grpcServer.RegisterService(&serviceDesc, s)
	return s
}

// Serve accepts subscriptions on lis until ctx is done.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.disconnectAll()
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		if err != nil {
			return zerr.Wrap(err, "feed server stopped")
		}
		return nil
	}
}

// Publish sends ev to every subscriber.
func (s *Server) Publish(ev domain.ChangeEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	msg := FromEvent(ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.subs {
		select {
		case ch <- msg:
		default:
			s.logger.Warn("disconnecting slow feed subscriber")
			close(ch)
			delete(s.subs, id)
		}
	}
	return nil
}

// Subscribers returns the number of live subscriptions.
func (s *Server) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscribe implements MenuFeedServer.
func (s *Server) Subscribe(req *SubscribeRequest, stream grpc.ServerStream) error {
	if s.table != "" && req.Table != s.table {
		return status.Errorf(codes.NotFound, "unknown table %q", req.Table)
	}

	id, ch := s.add()
	defer s.remove(id)

	if err := stream.SendMsg(&ChangeMessage{Status: StatusSubscribed}); err != nil {
		return err
	}

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return status.Error(codes.Unavailable, "subscription dropped")
			}
			if err := stream.SendMsg(&msg); err != nil {
				return err
			}
		}
	}
}

func (s *Server) add() (uint64, chan ChangeMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	ch := make(chan ChangeMessage, subscriberBuffer)
	s.subs[s.nextID] = ch
	return s.nextID, ch
}

func (s *Server) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

// disconnectAll ends every subscription so GracefulStop does not wait on them.
func (s *Server) disconnectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}
