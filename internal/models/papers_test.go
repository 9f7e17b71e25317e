package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPaperFlattensSummaries(t *testing.T) {
	category := "Science"
	result := &AnalysisResult{
		Title: "paper.pdf",
		Text:  "body",
		Summaries: map[string]string{
			LevelChild:   "easy",
			LevelCollege: "medium",
			LevelPhD:     "hard",
		},
		Citations:   "[1] Someone",
		KeyFindings: "1. It works",
		Category:    &category,
		Stats:       AnalysisStats{InputTokens: 10, OutputTokens: 5, Cost: 0.0001, ProcessingTime: 42},
		FileKey:     "papers/x/paper.pdf",
	}

	paper := result.ToPaper()

	assert.Equal(t, "easy", paper.ChildSummary)
	assert.Equal(t, "medium", paper.CollegeSummary)
	assert.Equal(t, "hard", paper.PhDSummary)
	assert.Nil(t, paper.FactCheck)
	assert.Equal(t, "Science", *paper.Category)
	assert.Equal(t, int64(42), paper.ProcessingTime)
	assert.Equal(t, "papers/x/paper.pdf", paper.FileKey)
}
