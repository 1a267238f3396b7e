package storage

import (
	"fmt"

	"github.com/Epistemic-Technology/pdfworks/models"
)

// OutputURI is the resource URI of a produced document.
func OutputURI(id string) string {
	return fmt.Sprintf("pdfworks://outputs/%s", id)
}

// SessionURI is the resource URI of an organizer session's state.
func SessionURI(id string) string {
	return fmt.Sprintf("pdfworks://sessions/%s", id)
}

// CalculateResourcePaths lists the resource URIs a client can read after an
// organizer operation: the session state and, when present, the output the
// operation produced.
func CalculateResourcePaths(sessionID string, output *models.Output) []string {
	var resourcePaths []string
	if sessionID != "" {
		resourcePaths = append(resourcePaths, SessionURI(sessionID))
	}
	if output != nil {
		resourcePaths = append(resourcePaths, OutputURI(output.ID))
	}
	return resourcePaths
}
