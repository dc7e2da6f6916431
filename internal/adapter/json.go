package adapter

import (
	"encoding/json"

	"github.com/gowebpki/jcs"
)

// JSON encodes cache entries, mutation records and webhook bodies
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	// Canonicalize rewrites a JSON document into RFC 8785 canonical form so signatures survive re-encoding
	Canonicalize(data []byte) ([]byte, error)
}

type stdJSON struct{}

// NewJSON returns the encoding/json codec with jcs canonicalization
func NewJSON() JSON {
	return stdJSON{}
}

func (stdJSON) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (stdJSON) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (stdJSON) Canonicalize(data []byte) ([]byte, error)   { return jcs.Transform(data) }
