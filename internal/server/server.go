package server

import (
	"encoding/json"
	"io"
	"net/http"

	graphql "github.com/golangid/graphql-go"
	"go.uber.org/zap"
)

// NewHandler serves GraphQL on /graphql: POST bodies are executed directly,
// requests negotiating the graphql-ws subprotocol are upgraded to a
// websocket for subscriptions.
func NewHandler(schema *graphql.Schema, log *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", newWSHandler(schema, log, serveQuery(schema)))
	return mux
}

// ListenAndServe runs the HTTP server until it fails.
func ListenAndServe(addr string, schema *graphql.Schema, log *zap.SugaredLogger) error {
	srv := &http.Server{Addr: addr, Handler: NewHandler(schema, log)}
	return srv.ListenAndServe()
}

type queryParams struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func serveQuery(schema *graphql.Schema) http.HandlerFunc {
	return func(resp http.ResponseWriter, req *http.Request) {
		var params queryParams
		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(resp, err.Error(), http.StatusBadRequest)
			return
		}
		if err := json.Unmarshal(body, &params); err != nil {
			params.Query = string(body)
		}

		response := schema.Exec(req.Context(), params.Query, params.OperationName, params.Variables)
		responseJSON, err := json.Marshal(response)
		if err != nil {
			http.Error(resp, err.Error(), http.StatusInternalServerError)
			return
		}

		resp.Header().Set("Content-Type", "application/json")
		resp.Write(responseJSON)
	}
}
