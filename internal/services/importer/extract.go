package importer

// Extractor turns an uploaded ledger photo into raw text. OCR itself is an
// external collaborator; the engine only ever sees the row sequence the
// caller builds from this text.
type Extractor interface {
	ExtractText(path string) (string, error)
}
