// Command ws_chat is a small interactive client for the /chat endpoint.
// Lines typed on stdin are submitted as comments to the joined activity.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/beixa/Reactivities/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/chat", "WebSocket address")
	token := flag.String("token", "", "bearer token (required)")
	activity := flag.String("activity", "", "activity id to join")
	flag.Parse()

	if *token == "" {
		return errors.New("-token is required")
	}
	if *activity == "" {
		return errors.New("-activity is required")
	}

	dialURL, err := withAccessToken(*addr, *token)
	if err != nil {
		return err
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, dialURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(v interface{}) {
		if writeErr := wsjson.Write(ctx, conn, v); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	joinPayload, err := json.Marshal(proto.JoinData{Activity: *activity})
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	send(proto.Inbound{Type: proto.InboundTypeJoin, Data: joinPayload})

	fmt.Printf("Connected to %s, activity %s\n", *addr, *activity)
	fmt.Println("Type comments and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		body := strings.TrimSpace(scanner.Text())
		if body == "" {
			continue
		}
		payload, err := json.Marshal(proto.CommentData{ActivityID: *activity, Body: body})
		if err != nil {
			log.Printf("marshal comment: %v", err)
			continue
		}
		send(proto.Inbound{Type: proto.InboundTypeComment, Data: payload})
	}

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func withAccessToken(addr, token string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("parse addr: %w", err)
	}
	q := u.Query()
	q.Set("access_token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			log.Printf("server error [%s]: %s %v", outbound.Error.Code, outbound.Error.Msg, outbound.Error.Fields)
			continue
		}

		raw, err := json.Marshal(outbound.Data)
		if err != nil {
			log.Printf("marshal outbound data: %v", err)
			continue
		}

		switch outbound.Event {
		case proto.EventNameComment:
			var evt proto.EventComment
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal comment: %v", err)
				continue
			}
			fmt.Printf("[%s] %s: %s\n", evt.ActivityID, evt.Author, evt.Body)
		case proto.EventNamePresence:
			var evt proto.EventPresence
			if err := json.Unmarshal(raw, &evt); err != nil {
				log.Printf("unmarshal presence: %v", err)
				continue
			}
			fmt.Printf("[%s] * %s\n", evt.Activity, evt.Text)
		}
	}
}
