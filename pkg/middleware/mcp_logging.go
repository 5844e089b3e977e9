// Package middleware provides net/http middleware for the HTTP transport.
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/logging"
)

// maxLoggedArgLength caps argument text in request logs.
const maxLoggedArgLength = 300

// MCPRequestLogger returns middleware that logs MCP JSON-RPC traffic on the
// HTTP transport at debug level. Arguments are scrubbed for credential
// material before logging. A nil logger disables the middleware entirely.
//
// This complements the tool-call audit hooks: the hooks see tool semantics,
// this sees the wire (including non-tool methods like initialize).
func MCPRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}
		log := logger.Named("mcp-http")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				log.Error("Failed to read MCP request body", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			var rpcReq jsonRPCRequest
			// Not every request body is JSON-RPC (keepalives, garbage);
			// log what parses and pass the rest through untouched.
			_ = json.Unmarshal(bodyBytes, &rpcReq)

			log.Debug("MCP request",
				zap.String("method", rpcReq.Method),
				zap.String("tool", rpcReq.Params.Name),
				zap.String("arguments", summarizeRawArguments(rpcReq.Params.Arguments)),
			)

			recorder := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}}
			start := time.Now()
			next.ServeHTTP(recorder, r)
			duration := time.Since(start)

			var rpcResp jsonRPCResponse
			if err := json.Unmarshal(recorder.body.Bytes(), &rpcResp); err != nil {
				return
			}

			if rpcResp.Error != nil {
				log.Debug("MCP response error",
					zap.String("method", rpcReq.Method),
					zap.String("tool", rpcReq.Params.Name),
					zap.Int("error_code", rpcResp.Error.Code),
					zap.String("error_message", logging.SanitizeString(rpcResp.Error.Message)),
					zap.Duration("duration", duration),
				)
				return
			}
			log.Debug("MCP response",
				zap.String("method", rpcReq.Method),
				zap.String("tool", rpcReq.Params.Name),
				zap.Duration("duration", duration),
			)
		})
	}
}

type jsonRPCRequest struct {
	Method string `json:"method"`
	Params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

type jsonRPCResponse struct {
	Error *jsonRPCError `json:"error"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// responseRecorder tees the response body so it can be parsed after the
// handler runs.
type responseRecorder struct {
	http.ResponseWriter
	body *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func summarizeRawArguments(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return logging.TruncateString(logging.SanitizeString(string(raw)), maxLoggedArgLength)
}
