package http

import (
	"encoding/json"
	"time"

	"github.com/beixa/Reactivities/internal/core"
	"github.com/beixa/Reactivities/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Activity == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "activity is required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandJoin,
			Activity: join.Activity,
		}, nil, nil
	case proto.InboundTypeLeave:
		var leave proto.JoinData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, nil, err
		}
		if leave.Activity == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "activity is required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandLeave,
			Activity: leave.Activity,
		}, nil, nil
	case proto.InboundTypeComment:
		var comment proto.CommentData
		if err := json.Unmarshal(inbound.Data, &comment); err != nil {
			return nil, nil, err
		}
		// The author field, if present, is dropped here; the hub stamps
		// the connection's verified subject instead.
		return &core.Command{
			Kind:     core.CommandSubmitComment,
			Activity: comment.ActivityID,
			Body:     comment.Body,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventComment:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameComment,
			Data: proto.EventComment{
				ID:         event.Comment.ID,
				ActivityID: event.Comment.ActivityID,
				Author:     event.Comment.Author,
				Body:       event.Comment.Body,
				CreatedAt:  event.Comment.CreatedAt.Format(time.RFC3339Nano),
			},
		}
	case core.EventPresence:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNamePresence,
			Data: proto.EventPresence{
				Activity: event.Activity,
				Text:     event.Text,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeError,
			Error: &proto.Error{
				Code:   event.Error.Code,
				Msg:    event.Error.Message,
				Fields: event.Error.Fields,
			},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
