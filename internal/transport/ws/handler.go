package ws

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
)

type Options struct {
	// SendRate and SendBurst bound send-message events per connection.
	SendRate  float64
	SendBurst int
	// OriginPatterns restricts browser origins; empty or "*" allows any.
	OriginPatterns []string
}

// ServeWS returns an HTTP handler that upgrades to WebSocket. Connections are
// anonymous; a client receives messages after joining its user room.
func ServeWS(hub *Hub, sender MessageSender, opts Options) http.HandlerFunc {
	acceptOpts := &websocket.AcceptOptions{}
	if len(opts.OriginPatterns) == 0 || (len(opts.OriginPatterns) == 1 && opts.OriginPatterns[0] == "*") {
		acceptOpts.InsecureSkipVerify = true
	} else {
		acceptOpts.OriginPatterns = opts.OriginPatterns
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, acceptOpts)
		if err != nil {
			log.Warn().Err(err).Msg("ws accept")
			return
		}

		var limiter *rate.Limiter
		if opts.SendRate > 0 {
			limiter = rate.NewLimiter(rate.Limit(opts.SendRate), max(opts.SendBurst, 1))
		}

		client := NewClient(hub, conn, sender, limiter)
		hub.Register(client)

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}
