// Package docs serves the OpenAPI description of the API.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var document []byte

// OpenAPI returns the embedded OpenAPI 3 document.
func OpenAPI() []byte {
	return document
}

// Handler serves the OpenAPI document as YAML.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}
