package walletconnect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
)

// rpcEnvelope is the JSON-RPC 2.0 frame the relay speaks
type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Err() error {
	return fmt.Errorf("relay error %d: %s", e.Code, e.Message)
}

// relay is a long-lived websocket connection to a WalletConnect relay. One
// goroutine owns reads; requests are correlated to responses by id, and
// inbound publishes for subscribed topics are fanned out to topic channels.
type relay struct {
	conn   *websocket.Conn
	logger *slog.Logger

	nextID atomic.Int64

	mu       sync.Mutex
	pending  map[int64]chan *rpcEnvelope
	inbound  map[string]chan json.RawMessage // keyed by topic
	closed   bool
	closeErr error
	done     chan struct{}
}

// dialRelay connects to the relay endpoint and starts the read loop
func dialRelay(ctx context.Context, relayURL string, logger *slog.Logger) (*relay, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: constants.RelayDialTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, relayURL, http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("relay dial failed: %w", err)
	}

	r := &relay{
		conn:    conn,
		logger:  logger,
		pending: make(map[int64]chan *rpcEnvelope),
		inbound: make(map[string]chan json.RawMessage),
		done:    make(chan struct{}),
	}
	go r.readLoop()
	go r.pingLoop()
	return r, nil
}

// request sends a JSON-RPC request and waits for the matching response
func (r *relay) request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s params: %w", method, err)
	}

	id := r.nextID.Add(1)
	envelope := rpcEnvelope{JSONRPC: "2.0", ID: id, Method: method, Params: raw}

	reply := make(chan *rpcEnvelope, 1)
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, r.closeErr
	}
	r.pending[id] = reply
	err = r.conn.WriteJSON(&envelope)
	r.mu.Unlock()
	if err != nil {
		r.dropPending(id)
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	select {
	case resp := <-reply:
		if resp.Error != nil {
			return nil, resp.Error.Err()
		}
		return resp.Result, nil
	case <-r.done:
		return nil, r.closeErr
	case <-ctx.Done():
		r.dropPending(id)
		return nil, ctx.Err()
	}
}

// subscribeParams and publishParams follow the irn relay protocol
type subscribeParams struct {
	Topic string `json:"topic"`
}

type publishParams struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
	TTL     int    `json:"ttl"`
	Tag     int    `json:"tag"`
}

type subscriptionData struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

type subscriptionParams struct {
	ID   string           `json:"id"`
	Data subscriptionData `json:"data"`
}

// subscribe registers interest in a topic and returns the channel inbound
// messages for it arrive on
func (r *relay) subscribe(ctx context.Context, topic string) (<-chan json.RawMessage, error) {
	r.mu.Lock()
	if r.closed {
		err := r.closeErr
		r.mu.Unlock()
		return nil, err
	}
	ch, ok := r.inbound[topic]
	if !ok {
		ch = make(chan json.RawMessage, 8)
		r.inbound[topic] = ch
	}
	r.mu.Unlock()

	if _, err := r.request(ctx, "irn_subscribe", subscribeParams{Topic: topic}); err != nil {
		return nil, err
	}
	return ch, nil
}

// publish sends a message to a topic with the given relay tag
func (r *relay) publish(ctx context.Context, topic, message string, tag int) error {
	_, err := r.request(ctx, "irn_publish", publishParams{
		Topic:   topic,
		Message: message,
		TTL:     300,
		Tag:     tag,
	})
	return err
}

func (r *relay) readLoop() {
	for {
		var envelope rpcEnvelope
		if err := r.conn.ReadJSON(&envelope); err != nil {
			r.shutdown(fmt.Errorf("relay connection lost: %w", err))
			return
		}

		switch {
		case envelope.Method == "irn_subscription":
			var params subscriptionParams
			if err := json.Unmarshal(envelope.Params, &params); err != nil {
				r.logger.Warn("malformed relay subscription message", "error", err)
				continue
			}
			// acknowledge so the relay stops redelivering
			ack := rpcEnvelope{JSONRPC: "2.0", ID: envelope.ID, Result: json.RawMessage("true")}
			r.mu.Lock()
			_ = r.conn.WriteJSON(&ack)
			// delivered under the lock so shutdown cannot close the channel
			// out from under the send
			if ch := r.inbound[params.Data.Topic]; ch != nil && !r.closed {
				select {
				case ch <- json.RawMessage(params.Data.Message):
				default:
					r.logger.Warn("dropping relay message, topic buffer full", "topic", params.Data.Topic)
				}
			}
			r.mu.Unlock()

		case envelope.Method == "":
			r.mu.Lock()
			reply := r.pending[envelope.ID]
			delete(r.pending, envelope.ID)
			r.mu.Unlock()
			if reply != nil {
				reply <- &envelope
			}

		default:
			r.logger.Debug("ignoring relay method", "method", envelope.Method)
		}
	}
}

func (r *relay) pingLoop() {
	ticker := time.NewTicker(constants.RelayPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			if r.closed {
				r.mu.Unlock()
				return
			}
			err := r.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			r.mu.Unlock()
			if err != nil {
				r.shutdown(fmt.Errorf("relay ping failed: %w", err))
				return
			}
		case <-r.done:
			return
		}
	}
}

func (r *relay) dropPending(id int64) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

func (r *relay) shutdown(err error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.closeErr = err
	close(r.done)
	// closing the topic channels unblocks anyone waiting on inbound messages
	for topic, ch := range r.inbound {
		close(ch)
		delete(r.inbound, topic)
	}
	_ = r.conn.Close()
	r.mu.Unlock()
}

// Close implements io.Closer so a relay can ride on wallets.Session.Transport
func (r *relay) Close() error {
	r.shutdown(fmt.Errorf("relay closed"))
	return nil
}
