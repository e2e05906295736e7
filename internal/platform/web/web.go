package web

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Error는 웹 계층의 커스텀 에러 타입을 정의
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Handler는 에러를 반환하는 핸들러. 에러는 로그로 남기고 {"error": message}로 응답합니다
type Handler func(w http.ResponseWriter, r *http.Request) *Error

func (fn Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		event := log.Error()
		if err.Code < http.StatusInternalServerError {
			event = log.Warn()
		}
		event.
			Err(err.Err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", err.Code).
			Msg(err.Message)

		writeJSON(w, err.Code, map[string]string{"error": err.Message})
	}
}

// JSON은 v를 status와 함께 응답합니다
func JSON(w http.ResponseWriter, status int, v any) *Error {
	data, err := json.Marshal(v)
	if err != nil {
		return &Error{Err: err, Code: http.StatusInternalServerError, Message: "Failed to encode response"}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if err := JSON(w, status, v); err != nil {
		http.Error(w, err.Message, err.Code)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AccessLog는 요청마다 한 줄의 debug 로그를 남깁니다
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("[HTTP] request")
	})
}
