package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Document - Wire Format
// =============================================================================

// Document is the nested hierarchy as delivered by a data source.
//
//	{
//	  "id": "earth",
//	  "name": "Earth systems",
//	  "children": [
//	    {"id": "ocean", "children": [{"id": "currents"}, {"id": "tides"}]}
//	  ]
//	}
type Document struct {
	ID       string         `json:"id" bson:"id" toml:"id"`
	Name     string         `json:"name,omitempty" bson:"name,omitempty" toml:"name,omitempty"`
	Children []Document     `json:"children,omitempty" bson:"children,omitempty" toml:"children,omitempty"`
	Meta     map[string]any `json:"meta,omitempty" bson:"meta,omitempty" toml:"meta,omitempty"`
}

// Count returns the number of items in the document, including itself.
func (d Document) Count() int {
	n := 1
	for _, c := range d.Children {
		n += c.Count()
	}
	return n
}

// =============================================================================
// Serialization API
// =============================================================================

// UnmarshalDocument decodes JSON bytes into a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// MarshalDocument encodes a Document as indented JSON.
func MarshalDocument(d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadDocument decodes a JSON document from r.
func ReadDocument(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// ReadTOMLDocument decodes a TOML document from r.
func ReadTOMLDocument(r io.Reader) (Document, error) {
	var d Document
	if _, err := toml.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode toml: %w", err)
	}
	return d, nil
}

// ReadDocumentFile reads a document from path. Files ending in .toml are
// decoded as TOML, everything else as JSON.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadTOMLDocument(f)
	}
	return ReadDocument(f)
}

// WriteDocument writes d as indented JSON to w.
func WriteDocument(d Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteDocumentFile writes d as JSON to path.
func WriteDocumentFile(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(d, f)
}
