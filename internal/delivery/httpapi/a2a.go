package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/conversation"
)

const (
	methodMessageSend = "message/send"
	defaultUserID     = "default_user"
	failureText       = "❌ Something went wrong. Please try again."
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  struct {
		Message *message `json:"message"`
	} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  *task           `json:"result,omitempty"`
	Error   *rpcError       `json:"error"`
}

type part struct {
	Kind    string  `json:"kind"`
	Text    string  `json:"text,omitempty"`
	Data    any     `json:"data"`
	FileURL *string `json:"file_url"`
}

type message struct {
	Kind      string         `json:"kind"`
	Role      string         `json:"role"`
	Parts     []part         `json:"parts"`
	MessageID string         `json:"messageId"`
	TaskID    string         `json:"taskId"`
	Metadata  map[string]any `json:"metadata"`
}

type artifact struct {
	ArtifactID string `json:"artifactId"`
	Name       string `json:"name"`
	Parts      []part `json:"parts"`
}

type taskStatus struct {
	State     string  `json:"state"`
	Timestamp string  `json:"timestamp"`
	Message   message `json:"message"`
}

type task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId"`
	Status    taskStatus `json:"status"`
	Artifacts []artifact `json:"artifacts"`
	History   []message  `json:"history"`
	Kind      string     `json:"kind"`
}

func textPart(text string) part {
	return part{Kind: "text", Text: text}
}

// text joins the text parts of a message with single spaces.
func (m *message) text() string {
	texts := make([]string, 0, len(m.Parts))
	for _, p := range m.Parts {
		if p.Kind == "text" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, " ")
}

// userID picks the conversation identity: metadata.userId, then taskId,
// then messageId.
func (m *message) userID() string {
	if id, ok := m.Metadata["userId"].(string); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	if m.TaskID != "" {
		return m.TaskID
	}
	if m.MessageID != "" {
		return m.MessageID
	}
	return defaultUserID
}

func (s *Server) handleA2A(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.rpcFailure(w, nil, codeParseError, "Parse error")
		return
	}
	if len(req.ID) == 0 {
		req.ID = json.RawMessage("null")
	}

	if req.JSONRPC != "2.0" || req.Params.Message == nil {
		s.rpcFailure(w, req.ID, codeInvalidRequest, "Invalid Request")
		return
	}

	if req.Method != methodMessageSend {
		s.rpcFailure(w, req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
		return
	}

	msg := req.Params.Message
	taskID := msg.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	userID := msg.userID()
	text := msg.text()

	s.logger.Info("a2a request",
		zap.String("task_id", taskID),
		zap.String("user_id", userID),
		zap.String("request_id", GetRequestID(r.Context())),
	)

	reply, err := s.dispatch(r.Context(), userID, text)
	if err != nil {
		s.logger.Error("a2a request failed", zap.String("user_id", userID), zap.Error(err))
		s.jsonResponse(w, http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  s.failedTask(taskID, userID, err),
			Error:   &rpcError{Code: codeInternalError, Message: err.Error()},
		})
		return
	}

	// Engine errors are already rendered into reply.Text for the user.
	if reply.Failed() {
		s.logger.Warn("a2a challenge operation failed",
			zap.String("user_id", userID),
			zap.String("error", reply.Calls[len(reply.Calls)-1].Result.Error),
		)
	}

	s.jsonResponse(w, http.StatusOK, rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  s.completedTask(taskID, userID, msg, text, reply),
	})
}

// dispatch runs the dispatcher, turning a panic into an error.
func (s *Server) dispatch(ctx context.Context, userID, text string) (reply conversation.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatcher panic: %v", r)
		}
	}()
	return s.dispatcher.Handle(ctx, userID, text), nil
}

func (s *Server) completedTask(taskID, userID string, in *message, text string, reply conversation.Reply) *task {
	responseText := reply.Text
	if responseText == "" {
		responseText = "No response generated."
	}

	agentMsg := message{
		Kind:      "message",
		Role:      "agent",
		Parts:     []part{textPart(responseText)},
		MessageID: "msg-" + uuid.NewString(),
		TaskID:    taskID,
	}

	artifacts := []artifact{{
		ArtifactID: "artifact-" + uuid.NewString(),
		Name:       "challengeAgentResponse",
		Parts:      []part{textPart(responseText)},
	}}
	if len(reply.Calls) > 0 {
		artifacts = append(artifacts, artifact{
			ArtifactID: "tool-" + uuid.NewString(),
			Name:       "ToolResults",
			Parts:      []part{{Kind: "data", Data: reply.Calls}},
		})
	}

	userMsg := message{
		Kind:      "message",
		Role:      "user",
		Parts:     []part{textPart(text)},
		MessageID: in.MessageID,
		TaskID:    taskID,
	}

	return &task{
		ID:        taskID,
		ContextID: "ctx-" + userID,
		Status: taskStatus{
			State:     "completed",
			Timestamp: s.now().UTC().Format(time.RFC3339Nano),
			Message:   agentMsg,
		},
		Artifacts: artifacts,
		History:   []message{userMsg, agentMsg},
		Kind:      "task",
	}
}

func (s *Server) failedTask(taskID, userID string, err error) *task {
	return &task{
		ID:        taskID,
		ContextID: "ctx-" + userID,
		Status: taskStatus{
			State:     "failed",
			Timestamp: s.now().UTC().Format(time.RFC3339Nano),
			Message: message{
				Kind:      "message",
				Role:      "agent",
				Parts:     []part{textPart(failureText)},
				MessageID: "error-" + uuid.NewString(),
				TaskID:    taskID,
			},
		},
		Artifacts: []artifact{{
			ArtifactID: "error-" + uuid.NewString(),
			Name:       "ErrorDetails",
			Parts:      []part{textPart(err.Error())},
		}},
		History: []message{},
		Kind:    "task",
	}
}

func (s *Server) rpcFailure(w http.ResponseWriter, id json.RawMessage, code int, msg string) {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	s.jsonResponse(w, http.StatusOK, rpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: msg},
	})
}
