// Package richtext converts the markdown dialect used by the documentation hub
// into the editor's structured document model.
//
// Supported blocks are ATX headings, fenced code, flat bulleted or numbered
// lists and single-line paragraphs with **bold** and `code` spans. Conversion
// never fails; anything unrecognised becomes a paragraph. Documents are stored
// as editor JSON (see Marshal) and validated with ValidateJSON before they are
// persisted.
package richtext
