package handler

import "net/http"

// openAPIDocument is the hand-maintained OpenAPI description of the API,
// rendered by the swagger UI mounted at /docs.
const openAPIDocument = "./docs/swagger.json"

// handleSwaggerFile serves the raw OpenAPI document.
func (h *Handler) handleSwaggerFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIDocument)
	}
}
