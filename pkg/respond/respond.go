package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope - единый формат всех ответов API
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func Data(w http.ResponseWriter, r *http.Request, code int, data any) {
	JSON(w, r, code, Envelope{Success: true, Data: data})
}

func Message(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, Envelope{Success: true, Message: message})
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, Envelope{Success: false, Message: message})
}
