package web

import (
	"net/http"
	"time"

	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // localhost only
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	suggestReadLimit    = 4096
	suggestWriteTimeout = 5 * time.Second
)

// suggestFrame is a client query on /api/suggest.
type suggestFrame struct {
	Seq int64  `json:"seq"`
	Q   string `json:"q"`
}

// suggestReply answers the frame with the same Seq.
type suggestReply struct {
	Seq     int64           `json:"seq"`
	Results []catalog.Entry `json:"results"`
	Error   string          `json:"error,omitempty"`
}

// handleSuggest answers typeahead queries over a WebSocket. While a search is
// running, newer frames replace older unanswered ones, and a frame whose seq
// is not above the last answered seq is dropped, so a slow reply can never
// overwrite a newer one on the client.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(suggestReadLimit)

	pending := make(chan suggestFrame, 1)
	go func() {
		defer close(pending)
		for {
			var f suggestFrame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			// Only this goroutine sends, so after draining there is room.
			select {
			case pending <- f:
			default:
				select {
				case <-pending:
				default:
				}
				pending <- f
			}
		}
	}()

	var (
		last     int64
		answered bool
	)
	for f := range pending {
		if answered && f.Seq <= last {
			continue
		}
		reply := suggestReply{Seq: f.Seq, Results: []catalog.Entry{}}
		if f.Q != "" {
			results, err := s.svc.Search(f.Q)
			switch {
			case err != nil:
				s.logger.Error("suggest failed", "query", f.Q, "error", err)
				reply.Error = errLoadFailed
			case results != nil:
				reply.Results = results
			}
		}
		conn.SetWriteDeadline(time.Now().Add(suggestWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
		last, answered = f.Seq, true
	}
}
