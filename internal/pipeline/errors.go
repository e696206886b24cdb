package pipeline

import "github.com/rotisserie/eris"

// Sentinel errors returned by Run. Match them with errors.Is.
var (
	ErrInvalidURL       = eris.New("invalid url")
	ErrNotConfigured    = eris.New("extraction service not configured")
	ErrNoPagesExtracted = eris.New("failed to extract data from any pages")
)
