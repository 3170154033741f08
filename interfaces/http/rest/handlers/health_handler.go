package handlers

import "net/http"

// Health answers GET /fortunasbet/
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Welcome to FortunasBet API"}`))
}
