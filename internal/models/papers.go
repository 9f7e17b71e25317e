package models

import (
	"time"
)

// Reading levels, in the order summaries are reported.
const (
	LevelChild   = "child"
	LevelCollege = "college"
	LevelPhD     = "phd"
)

var ReadingLevels = []string{LevelChild, LevelCollege, LevelPhD}

// Paper is one persisted analysis row.
type Paper struct {
	ID             int64     `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Text           string    `json:"text" db:"text"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	ChildSummary   string    `json:"child_summary" db:"child_summary"`
	CollegeSummary string    `json:"college_summary" db:"college_summary"`
	PhDSummary     string    `json:"phd_summary" db:"phd_summary"`
	Citations      string    `json:"citations" db:"citations"`
	KeyFindings    string    `json:"key_findings" db:"key_findings"`
	FactCheck      *string   `json:"fact_check,omitempty" db:"fact_check"`
	Category       *string   `json:"category,omitempty" db:"category"`
	InputTokens    int       `json:"input_tokens" db:"input_tokens"`
	OutputTokens   int       `json:"output_tokens" db:"output_tokens"`
	Cost           float64   `json:"cost" db:"cost"`
	ProcessingTime int64     `json:"processing_time" db:"processing_time"`
	FileKey        string    `json:"file_key,omitempty" db:"file_key"`
}

// AnalysisStats records what one pipeline run consumed.
type AnalysisStats struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	Cost           float64 `json:"cost"`
	ProcessingTime int64   `json:"processing_time"` // milliseconds
}

// AnalysisResult is the output bundle for one processed paper.
type AnalysisResult struct {
	ID          int64             `json:"id,omitempty"`
	Title       string            `json:"title"`
	Text        string            `json:"text"`
	Summaries   map[string]string `json:"summaries"`
	Citations   string            `json:"citations"`
	KeyFindings string            `json:"key_findings"`
	FactCheck   *string           `json:"fact_check,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Stats       AnalysisStats     `json:"stats"`
	FileKey     string            `json:"-"`
}

// ToPaper flattens a result into its storage row.
func (r *AnalysisResult) ToPaper() *Paper {
	return &Paper{
		ID:             r.ID,
		Title:          r.Title,
		Text:           r.Text,
		ChildSummary:   r.Summaries[LevelChild],
		CollegeSummary: r.Summaries[LevelCollege],
		PhDSummary:     r.Summaries[LevelPhD],
		Citations:      r.Citations,
		KeyFindings:    r.KeyFindings,
		FactCheck:      r.FactCheck,
		Category:       r.Category,
		InputTokens:    r.Stats.InputTokens,
		OutputTokens:   r.Stats.OutputTokens,
		Cost:           r.Stats.Cost,
		ProcessingTime: r.Stats.ProcessingTime,
		FileKey:        r.FileKey,
	}
}

// Stats aggregates every stored paper.
type Stats struct {
	TotalPapers       int64   `json:"total_papers" db:"total_papers"`
	AvgProcessingTime float64 `json:"avg_processing_time" db:"avg_processing_time"`
	TotalCost         float64 `json:"total_cost" db:"total_cost"`
	AvgTokens         float64 `json:"avg_tokens" db:"avg_tokens"`
}

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

type ChatRequest struct {
	Message      string `json:"message"`
	PaperContent string `json:"paper_content,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type QueueStatus struct {
	Busy    bool `json:"busy"`
	Waiting int  `json:"waiting"`
}
