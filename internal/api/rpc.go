package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/Triage/internal/hermes"
)

// RPCReply wraps a request/reply response so callers can tell failures apart
// without an HTTP status line.
type RPCReply struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// RegisterRPC answers analyze and suggest requests arriving on the bus.
func RegisterRPC(c hermes.Client, h *TasksHandler) error {
	handlers := map[string]string{
		hermes.SubjectRPCAnalyze: opAnalyze,
		hermes.SubjectRPCSuggest: opSuggest,
	}
	for subject, op := range handlers {
		if err := c.Respond(subject, hermes.QueueGroup, h.rpcHandler(op)); err != nil {
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
	}
	return nil
}

func (h *TasksHandler) rpcHandler(op string) hermes.ReplyHandler {
	return func(subject string, data []byte) []byte {
		status, payload := h.process(op, data)
		h.observe(op, "nats", status)

		body, err := json.Marshal(payload)
		if err != nil {
			h.logger.Error("failed to encode reply", "subject", subject, "error", err)
			status = http.StatusInternalServerError
			body = []byte(`{"error":"internal error"}`)
		}
		out, _ := json.Marshal(RPCReply{Status: status, Body: body})
		return out
	}
}
