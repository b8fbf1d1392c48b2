// Package feed carries realtime menu change events over a gRPC server stream.
//
// Messages are JSON encoded; the service is described by hand instead of by
// generated protobuf code.
package feed

import (
	"encoding/json"

	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
)

const (
	serviceName = "menucache.MenuFeed"
	// SubscribeMethod is the full gRPC method name of the change stream.
	SubscribeMethod = "/" + serviceName + "/Subscribe"
	// StatusSubscribed is sent as the first message of every accepted subscription.
	StatusSubscribed = "SUBSCRIBED"
)

// SubscribeRequest selects the resource whose changes are streamed.
type SubscribeRequest struct {
	Table string `json:"table"`
}

// ChangeMessage is one message on the stream: either a status or a change.
type ChangeMessage struct {
	Status    string           `json:"status,omitempty"`
	EventType string           `json:"eventType,omitempty"`
	New       *domain.MenuItem `json:"new,omitempty"`
	Old       *domain.MenuItem `json:"old,omitempty"`
}

// ToEvent converts a change message into a validated domain event.
func (m ChangeMessage) ToEvent() (domain.ChangeEvent, error) {
	typ, ok := domain.ParseChangeType(m.EventType)
	if !ok {
		return domain.ChangeEvent{}, zerr.With(zerr.Wrap(domain.ErrInvalidChangeEvent, "unknown event type"), "event_type", m.EventType)
	}

	ev := domain.ChangeEvent{Type: typ, New: m.New}
	if m.Old != nil {
		ev.OldID = m.Old.ID
	}
	if err := ev.Validate(); err != nil {
		return domain.ChangeEvent{}, err
	}
	return ev, nil
}

// FromEvent converts a domain event into its wire form.
func FromEvent(ev domain.ChangeEvent) ChangeMessage {
	msg := ChangeMessage{EventType: ev.Type.String(), New: ev.New}
	if ev.OldID != "" {
		msg.Old = &domain.MenuItem{ID: ev.OldID}
	}
	return msg
}

// jsonCodec implements encoding.Codec with encoding/json.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}

// MenuFeedServer is the server side of the change stream.
type MenuFeedServer interface {
	Subscribe(req *SubscribeRequest, stream grpc.ServerStream) error
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	req := new(SubscribeRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(MenuFeedServer).Subscribe(req, stream)
}

// serviceDesc describes the MenuFeed service.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MenuFeedServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "menucache/feed",
}
