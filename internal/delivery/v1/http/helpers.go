package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, NewErrorResponse(code, message))
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// requestLogger пишет одну строку на запрос через общий логгер приложения.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.Infof("%s %s %d %dB %s request_id=%s",
					r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
					time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
