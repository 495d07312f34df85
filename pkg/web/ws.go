package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/websocket/v2"
	gorilla "github.com/gorilla/websocket"

	"github.com/teslashibe/go-botblocks/pkg/hub"
	"github.com/teslashibe/go-botblocks/pkg/protocol"
)

// hubClient attaches c to h and blocks until the connection closes.
func hubClient(h *hub.Hub, c *websocket.Conn, opts ...hub.ClientOption) {
	hub.NewClient(h, c, opts...).Run()
}

// TailMotorLog connects to a /ws/motors endpoint and writes each motor
// status line to w until ctx is done or the server closes the stream.
func TailMotorLog(ctx context.Context, wsURL string, w io.Writer) error {
	conn, resp, err := gorilla.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return fmt.Errorf("tail %s: %s: %w", wsURL, resp.Status, err)
		}
		return fmt.Errorf("tail %s: %w", wsURL, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("tail %s: %w", wsURL, err)
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil || msg.Type != protocol.TypeMotorStatus {
			continue
		}
		var st protocol.MotorStatusData
		if err := msg.ParseData(&st); err != nil {
			continue
		}
		if _, err := io.WriteString(w, st.Line+"\n"); err != nil {
			return err
		}
	}
}

// ErrEmptyURL is returned by MotorsWSURL for an empty base.
var ErrEmptyURL = errors.New("web: empty server URL")

// MotorsWSURL turns a server base URL ("http://host:8090") into the
// motor stream URL.
func MotorsWSURL(base string) (string, error) {
	if base == "" {
		return "", ErrEmptyURL
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("web: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/motors"
	return u.String(), nil
}
