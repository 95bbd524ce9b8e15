// Package taxonomy loads the taxonomy document, flattens it into the
// keyword index the matcher scans, and owns every write that touches the
// document on disk (backup, atomic save, reload watching).
package taxonomy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// ErrConfiguration marks a taxonomy document that is missing or unparsable
// at load time. Fatal: no classification is possible until it is resolved.
var ErrConfiguration = eris.New("taxonomy: configuration error")

// Load reads and parses the taxonomy document at path. The codec is chosen
// by extension: .yaml/.yml documents are supported with the same structure
// as JSON ones.
func Load(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(ErrConfiguration, "read %s: %v", path, err)
	}

	var doc model.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, eris.Wrapf(ErrConfiguration, "parse %s: %v", path, err)
	}

	if len(doc.Taxonomy.L1Categories) == 0 {
		// Not fatal: an empty tree yields an empty index and every query
		// falls through to the pattern stage.
		zap.L().Warn("taxonomy: document has zero L1 categories",
			zap.String("path", path),
		)
	}

	zap.L().Info("taxonomy: document loaded",
		zap.String("path", path),
		zap.Int("l1_categories", len(doc.Taxonomy.L1Categories)),
		zap.Int("keywords", doc.Taxonomy.KeywordCount()),
	)

	return &doc, nil
}

// marshal encodes doc in the format implied by path's extension.
func marshal(doc *model.Document, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(doc)
	default:
		return json.MarshalIndent(doc, "", "  ")
	}
}
