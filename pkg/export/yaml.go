package export

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

// RenderYAML serializes p as the same skill document RenderJSON produces,
// in YAML with two-space indentation.
func RenderYAML(p workflow.Project, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{now: time.Now}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(p, r.now())); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode document")
	}
	if err := enc.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode document")
	}
	return buf.Bytes(), nil
}

// ParseYAMLDocument decodes a skill document written by [RenderYAML].
func ParseYAMLDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "decode yaml document")
	}
	return &doc, nil
}

// DecodeYAMLProject is ParseYAMLDocument followed by [Document.Project].
func DecodeYAMLProject(data []byte) (workflow.Project, error) {
	doc, err := ParseYAMLDocument(data)
	if err != nil {
		return workflow.Project{}, err
	}
	return doc.Project()
}
