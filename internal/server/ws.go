package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/zephyrtronium/shunt"
)

// wsReadSlack is the number of bytes allowed in a websocket message beyond
// those needed for the longest accepted expression.
const wsReadSlack = 1024

// handleWebSocket evaluates each text message on the connection as an
// expression and answers with a Result, in order. One parser serves the whole
// connection since messages are handled one at a time.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := s.reqLogger(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()
	s.metrics.RecordWSOpen()
	defer s.metrics.RecordWSClose()

	logger.Debug().Str("remote", r.RemoteAddr).Msg("websocket connection established")

	if s.cfg.MaxLength > 0 {
		// Four bytes per rune covers any UTF-8 input, plus room for
		// surrounding whitespace.
		conn.SetReadLimit(int64(s.cfg.MaxLength)*4 + wsReadSlack)
	}
	p := shunt.NewParser(shunt.MaxLen(s.cfg.MaxLength), shunt.Logger(*logger))
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
		if typ != websocket.TextMessage {
			logger.Warn().Int("type", typ).Msg("ignoring non-text websocket message")
			continue
		}
		expr := string(data)
		var res Result
		if strings.TrimSpace(expr) == "" {
			s.metrics.RecordRejected()
			res = failure("no expression given")
		} else {
			res = s.evaluate(r.Context(), p, expr)
		}
		if err := conn.WriteJSON(res); err != nil {
			logger.Debug().Err(err).Msg("websocket write error")
			return
		}
	}
}
