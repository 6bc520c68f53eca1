package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// GetPageOrDefault читает ?page=. Отсутствующий параметр - страница 1, ok == false.
func GetPageOrDefault(r *http.Request) (page int, ok bool, err error) {
	pageStr := strings.TrimSpace(r.URL.Query().Get("page"))
	if pageStr == "" {
		return 1, false, nil
	}
	page, err = strconv.Atoi(pageStr)
	if err != nil {
		return 1, false, err
	}
	return page, true, nil
}
