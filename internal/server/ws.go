package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	graphql "github.com/golangid/graphql-go"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const protocolGraphQLWS = "graphql-ws"

// graphql-ws protocol message types.
const (
	gqlConnectionInit      = "connection_init"
	gqlConnectionAck       = "connection_ack"
	gqlConnectionTerminate = "connection_terminate"
	gqlStart               = "start"
	gqlStop                = "stop"
	gqlData                = "data"
	gqlError               = "error"
	gqlComplete            = "complete"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	Subprotocols: []string{protocolGraphQLWS},
}

// newWSHandler upgrades requests carrying the graphql-ws subprotocol and
// falls back to the plain HTTP handler otherwise.
func newWSHandler(schema *graphql.Schema, log *zap.SugaredLogger, httpHandler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, subprotocol := range websocket.Subprotocols(r) {
			if subprotocol == protocolGraphQLWS {
				conn, err := upgrader.Upgrade(w, r, nil)
				if err != nil {
					return
				}
				if conn.Subprotocol() != protocolGraphQLWS {
					conn.Close()
					return
				}
				c := &wsConnection{conn: conn, schema: schema, log: log, ops: map[string]context.CancelFunc{}}
				// The request context dies when this handler returns; the
				// connection outlives it.
				go c.run(context.Background())
				return
			}
		}
		httpHandler.ServeHTTP(w, r)
	}
}

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsConnection struct {
	conn   *websocket.Conn
	schema *graphql.Schema
	log    *zap.SugaredLogger

	writeMu sync.Mutex
	opsMu   sync.Mutex
	ops     map[string]context.CancelFunc
}

func (c *wsConnection) run(ctx context.Context) {
	ctx, cancelAll := context.WithCancel(ctx)
	defer func() {
		cancelAll()
		c.conn.Close()
	}()

	for {
		var msg wsMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case gqlConnectionInit:
			c.write(wsMessage{Type: gqlConnectionAck})
		case gqlStart:
			c.start(ctx, msg)
		case gqlStop:
			c.stop(msg.ID)
		case gqlConnectionTerminate:
			return
		}
	}
}

func (c *wsConnection) start(ctx context.Context, msg wsMessage) {
	var params queryParams
	if err := json.Unmarshal(msg.Payload, &params); err != nil {
		c.writeError(msg.ID, err)
		return
	}

	opCtx, cancel := context.WithCancel(ctx)
	c.opsMu.Lock()
	if old, ok := c.ops[msg.ID]; ok {
		old()
	}
	c.ops[msg.ID] = cancel
	c.opsMu.Unlock()

	responses, err := c.schema.Subscribe(opCtx, params.Query, params.OperationName, params.Variables)
	if err != nil {
		c.writeError(msg.ID, err)
		c.stop(msg.ID)
		return
	}

	go func() {
		defer c.stop(msg.ID)
		for resp := range responses {
			payload, err := json.Marshal(resp)
			if err != nil {
				c.log.Errorw("subscription payload marshal", "err", err)
				return
			}
			c.write(wsMessage{ID: msg.ID, Type: gqlData, Payload: payload})
		}
		c.write(wsMessage{ID: msg.ID, Type: gqlComplete})
	}()
}

func (c *wsConnection) stop(id string) {
	c.opsMu.Lock()
	if cancel, ok := c.ops[id]; ok {
		cancel()
		delete(c.ops, id)
	}
	c.opsMu.Unlock()
}

func (c *wsConnection) write(msg wsMessage) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		c.log.Debugw("websocket write", "err", err)
	}
}

func (c *wsConnection) writeError(id string, err error) {
	payload, merr := json.Marshal(map[string]string{"message": err.Error()})
	if merr != nil {
		return
	}
	c.write(wsMessage{ID: id, Type: gqlError, Payload: payload})
}
