package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"lireddit/internal/httputil"
)

// GraphQLRequest is the standard POST body of a GraphQL request.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type GraphQLHandler struct {
	schema graphql.Schema
}

func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// ServeHTTP handles POST /graphql.
// The session middleware has already put the request session in the context.
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Query == "" {
		httputil.WriteBadRequest(w, "Missing query")
		return
	}

	startTime := time.Now()
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	logrus.WithFields(logrus.Fields{
		"operation": req.OperationName,
		"errors":    len(result.Errors),
		"duration":  time.Since(startTime),
	}).Debug("[GraphQL] Executed")

	// errors travel in the body; the status stays 200
	httputil.WriteJSON(w, http.StatusOK, result)
}
