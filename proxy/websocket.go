package proxy

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/exchange"
	"github.com/skygate/gateway/gatewayerrors"
	"golang.org/x/net/websocket"
)

// websocketGUID is the RFC 6455 handshake magic string used to derive
// Sec-WebSocket-Accept from the client's Sec-WebSocket-Key.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

func acceptKey(clientKey string) string {
	h := sha1.New()
	io.WriteString(h, clientKey+websocketGUID)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// WebSocketFilter is the terminal routing filter for WebSocket upgrades:
// ws/wss-scheme routes, or http/https routes whose client request carries
// a Connection: Upgrade header. It dials the backend as a WebSocket
// client and pumps frames bidirectionally until either side closes.
type WebSocketFilter struct{}

func NewWebSocketFilter() *WebSocketFilter { return &WebSocketFilter{} }

func (f *WebSocketFilter) handles(ex *exchange.Exchange) bool {
	if ex.RequestURL == nil {
		return false
	}
	switch ex.RequestURL.Scheme {
	case "ws", "wss":
		return true
	case "http", "https":
		return isUpgradeRequest(ex.Request)
	}
	return false
}

func (f *WebSocketFilter) Filter(ctx context.Context, ex *exchange.Exchange, next chain.Next) async.Completion[chain.Signal] {
	if ex.AlreadyRouted() || !f.handles(ex) {
		return next(ctx, ex)
	}
	if !ex.MarkAlreadyRouted() {
		return next(ctx, ex)
	}

	return async.Go(ctx, func(ctx context.Context) (chain.Signal, error) {
		if err := f.pump(ex); err != nil {
			return chain.Signal{}, err
		}
		ex.MarkServed()
		c := next(ctx, ex)
		_, err := c.Get(ctx)
		return chain.Signal{}, err
	})
}

func backendURL(ex *exchange.Exchange) string {
	u := *ex.RequestURL
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String()
}

func (f *WebSocketFilter) pump(ex *exchange.Exchange) error {
	origin := "http://" + ex.Request.Host
	cfg, err := websocket.NewConfig(backendURL(ex), origin)
	if err != nil {
		return fmt.Errorf("%w: %v", gatewayerrors.ErrBadGateway, err)
	}
	if proto := getUpgradeRequest(ex.Request); proto != "" {
		cfg.Protocol = []string{proto}
	}

	clientKey := ex.Request.Header.Get("Sec-WebSocket-Key")
	if clientKey == "" {
		return fmt.Errorf("%w: missing Sec-WebSocket-Key", gatewayerrors.ErrBadGateway)
	}

	backend, err := websocket.DialConfig(cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", gatewayerrors.ErrBadGateway, err)
	}
	defer backend.Close()

	client, ok := ex.ResponseWriter.(http.Hijacker)
	if !ok {
		return fmt.Errorf("%w: response writer does not support hijacking", gatewayerrors.ErrBadGateway)
	}

	conn, buf, err := client.Hijack()
	if err != nil {
		return fmt.Errorf("%w: %v", gatewayerrors.ErrBadGateway, err)
	}
	defer conn.Close()

	if err := writeUpgradeResponse(buf, clientKey, cfg.Protocol); err != nil {
		return fmt.Errorf("%w: %v", gatewayerrors.ErrBadGateway, err)
	}

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(backend, buf)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(buf, backend)
		done <- struct{}{}
	}()
	<-done

	return nil
}

// writeUpgradeResponse completes the client-facing handshake on a hijacked
// connection: a 101 Switching Protocols response with Sec-WebSocket-Accept
// derived from the client's key, per RFC 6455 section 4.2.2.
func writeUpgradeResponse(buf *bufio.ReadWriter, clientKey string, protocols []string) error {
	if _, err := buf.WriteString("HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + acceptKey(clientKey) + "\r\n"); err != nil {
		return err
	}
	if len(protocols) > 0 {
		if _, err := buf.WriteString("Sec-WebSocket-Protocol: " + protocols[0] + "\r\n"); err != nil {
			return err
		}
	}
	if _, err := buf.WriteString("\r\n"); err != nil {
		return err
	}
	return buf.Flush()
}

// AsOrdered wraps WebSocketFilter as the chain's WebSocket terminal
// OrderedFilter, at WebSocketPrecedence so it claims upgrade requests
// before the plain HTTP terminal filter runs.
func (f *WebSocketFilter) AsOrdered() chain.OrderedFilter {
	return chain.OrderedFilter{Order: chain.WebSocketPrecedence, Name: "webSocketRouting", Filter: f.Filter}
}
