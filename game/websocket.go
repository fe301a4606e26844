package game

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const pingInterval = 30 * time.Second

type WebsocketConnection interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

type websocketConnection struct {
	socket *websocket.Conn
}

func (wc *websocketConnection) Write(data []byte) error {
	wc.socket.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return wc.socket.WriteMessage(websocket.BinaryMessage, data)
}

func (wc *websocketConnection) Ping() error {
	return wc.socket.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
}

func (wc *websocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *websocketConnection) Close(errCode string) {
	wc.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, errCode))
	wc.socket.Close()
}

func NewWebsocketConnection(conn *websocket.Conn) *websocketConnection {
	conn.SetReadDeadline(time.Now().Add(time.Minute))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(time.Minute))
		return nil
	})
	return &websocketConnection{conn}
}

// streamSnapshots writes every snapshot from updates to conn until the channel
// closes, the peer goes away or ctx ends. Incoming messages are ignored; reading
// only keeps control frames flowing. It returns once the reader has stopped,
// which Close guarantees by closing the socket.
func streamSnapshots(ctx context.Context, conn WebsocketConnection, updates <-chan State, pings <-chan time.Time) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer cancel()
		for {
			if _, err := conn.Read(); err != nil {
				return
			}
		}
	}()

	conn.Close(writeSnapshots(ctx, conn, updates, pings))
	<-readerDone
}

// writeSnapshots returns the close code the connection should end with.
func writeSnapshots(ctx context.Context, conn WebsocketConnection, updates <-chan State, pings <-chan time.Time) string {
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return "session-closed"
			}
			frame, err := EncodeSnapshot(snap)
			if err != nil {
				log.Error().Err(err).Msg("failed to encode snapshot")
				return "internal-error"
			}
			if err := conn.Write(frame); err != nil {
				return "write-failed"
			}

		case <-pings:
			if err := conn.Ping(); err != nil {
				return "ping-failed"
			}

		case <-ctx.Done():
			return "bye"
		}
	}
}
