package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/wavecall/relay/internal/api"
	"github.com/wavecall/relay/internal/peer_client"
)

// callprobe connects to a relay as a signalling peer and optionally places a
// call, printing every message it receives. Useful for checking a deployment
// end to end without a browser.
func main() {
	url := flag.String("url", "http://localhost:8000", "relay base url")
	peerID := flag.String("peer", "probe", "peer id to register as")
	callee := flag.String("call", "", "peer id to call; empty waits for incoming messages")
	hangupAfter := flag.Duration("hangup-after", 0, "end the placed call after this duration; 0 keeps it ringing")
	flag.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug})))

	client, err := peer_client.Dial(peer_client.Config{SignallingUrl: *url}, *peerID)
	if err != nil {
		slog.Error("can not connect to relay", "url", *url, "error", err)
		os.Exit(1)
	}
	defer func() { _ = client.Close() }()
	slog.Info("registered", "peerId", client.PeerID())

	if *callee != "" {
		callID, peerConnection, err := client.Call(*callee)
		if err != nil {
			slog.Error("call failed", "receiver", *callee, "error", err)
			os.Exit(1)
		}
		defer func() { _ = peerConnection.Close() }()
		slog.Info("call accepted", "callId", callID, "receiver", *callee)

		if *hangupAfter > 0 {
			go func() {
				time.Sleep(*hangupAfter)
				slog.Info("hanging up", "callId", callID)
				if err := client.End(callID); err != nil {
					slog.Warn("hangup failed", "error", err)
				}
			}()
		}
	}

	for {
		message, err := client.Next()
		if err != nil {
			slog.Error("connection closed", "error", err)
			os.Exit(1)
		}
		logMessage(message)
		if message.Event == api.SignalEventEnd {
			slog.Info("call over, exiting")
			return
		}
	}
}

func logMessage(message api.SignalMessage) {
	switch message.Event {
	case api.SignalEventInitiate:
		slog.Info("incoming call", "callId", message.CallID, "caller", message.Initiate.CallerID)
	case api.SignalEventAnswer:
		slog.Info("answer received", "callId", message.CallID)
	case api.SignalEventIce:
		slog.Debug("ice candidate", "callId", message.CallID)
	case api.SignalEventEnd:
		slog.Info("call ended", "callId", message.CallID, "reason", message.End.Reason)
	case api.SignalEventReject:
		slog.Warn("rejected", "code", message.Reject.Code, "message", message.Reject.Message)
	default:
		slog.Info("message", "event", message.Event, "callId", message.CallID)
	}
}
