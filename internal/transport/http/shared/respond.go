package shared

import (
	"encoding/json"
	"net/http"

	derrors "storefront/pkg/domain-errors"
)

// WriteJSON writes v with the given status. Encoding failures are ignored;
// headers are already gone by then.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders a domain error as a consistent JSON envelope. Auth
// failures carry the login entry point so the presentation layer can redirect.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	body := map[string]string{
		"error":   string(code),
		"message": derrors.MessageOf(err),
	}
	if code == derrors.CodeUnauthorized || code == derrors.CodeForbidden {
		body["redirect_to"] = "/login"
	}
	WriteJSON(w, derrors.ToHTTPStatus(code), body)
}
