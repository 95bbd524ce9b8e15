package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// testDoc builds a small two-category tree used across the package tests.
func testDoc() *model.Document {
	return &model.Document{
		System: model.SystemInfo{Version: "1.0", Description: "test tree"},
		Taxonomy: model.Taxonomy{
			L1Categories: []*model.L1Category{
				{
					ID: "L1_001", Name: "Mobile Plans", Slug: "mobile-plans",
					L2Subcategories: []*model.L2Subcategory{
						{
							ID: "L2_001", Name: "Unlimited Plans", Slug: "unlimited-plans",
							L3Intents: []*model.L3Intent{
								{
									ID: "L3_001", IntentCategory: "Transactional", CommercialScore: 90, FunnelStage: "Purchase",
									L4Topics: []*model.L4Topic{
										{
											ID: "L4_001", Topic: "Unlimited Data", Slug: "unlimited-data",
											L5Keywords: []*model.L5Keyword{
												{ID: "L5_001", Keyword: "unlimited data plan", SearchVolume: 5000},
												{ID: "L5_002", Keyword: "verizon unlimited plan", SearchVolume: 3000},
											},
										},
									},
								},
							},
						},
					},
				},
				{
					ID: "L1_002", Name: "Customer Service", Slug: "customer-service",
					L2Subcategories: []*model.L2Subcategory{
						{
							ID: "L2_002", Name: "Carrier Support", Slug: "carrier-support",
							L3Intents: []*model.L3Intent{
								{
									ID: "L3_002", IntentCategory: "Navigational", CommercialScore: 30, FunnelStage: "Retention",
									L4Topics: []*model.L4Topic{
										{
											ID: "L4_002", Topic: "Support Numbers", Slug: "support-numbers",
											L5Keywords: []*model.L5Keyword{
												{ID: "L5_003", Keyword: "att customer service number", SearchVolume: 8000},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// writeDoc persists a document to a temp file and returns its path.
func writeDoc(t *testing.T, doc *model.Document, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, Save(doc, path))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeDoc(t, testDoc(), "taxonomy.json")

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.System.Version)
	require.Len(t, doc.Taxonomy.L1Categories, 2)
	assert.Equal(t, "Mobile Plans", doc.Taxonomy.L1Categories[0].Name)
	assert.Equal(t, 3, doc.Taxonomy.KeywordCount())
}

func TestLoad_YAML(t *testing.T) {
	path := writeDoc(t, testDoc(), "taxonomy.yaml")

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Taxonomy.L1Categories, 2)
	assert.Equal(t, "verizon unlimited plan", doc.Taxonomy.L1Categories[0].L2Subcategories[0].L3Intents[0].L4Topics[0].L5Keywords[1].Keyword)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfiguration))
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfiguration))
}

func TestLoad_EmptyTreeIsNotFatal(t *testing.T) {
	path := writeDoc(t, &model.Document{}, "empty.json")

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, doc.Taxonomy.L1Categories)
}
