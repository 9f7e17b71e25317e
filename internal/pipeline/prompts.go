package pipeline

import (
	"fmt"
	"strings"
)

const (
	levelMaxTokens     = 200
	citationsMaxTokens = 200
	findingsMaxTokens  = 200
	factCheckMaxTokens = 500
	categoryMaxTokens  = 50
	chatMaxTokens      = 500

	// Uncategorized is reported when the category call fails or returns nothing.
	Uncategorized = "Uncategorized"
)

// Categories accepted by the category prompt.
var Categories = []string{
	"Sports", "Medicine", "Technology", "Science", "Business",
	"Psychology", "Education", "Arts", "Environment", "Politics",
}

const factCheckSystemPrompt = "You are a fact-checking assistant specialized in academic papers. " +
	"Focus on: 1) Verifying numerical claims and statistics, 2) Identifying potential inconsistencies or errors, " +
	"3) Flagging unsupported claims or potential misinformation. Be specific and cite the relevant parts of the text."

const chatSystemPrompt = "You are a helpful academic assistant. Answer questions about the paper clearly " +
	"and concisely based on the content provided."

func levelPrompt(level, excerpt string) string {
	return fmt.Sprintf("Summarize this academic paper for a %s level reader: %s", level, excerpt)
}

func citationsPrompt(excerpt string) string {
	return "Extract and list all citations and references from this text. Format them consistently:\n" + excerpt
}

func findingsPrompt(excerpt string) string {
	return "List the 5 most important findings or conclusions from this paper:\n" + excerpt
}

func factCheckPrompt(excerpt string) string {
	return "Analyze this academic paper for numerical accuracy and potential misinformation. " +
		"Focus on statistics, data claims, and any suspicious assertions:\n\n" + excerpt
}

func categorySystemPrompt() string {
	return fmt.Sprintf("You are a research paper categorization assistant. Categorize papers into exactly ONE of these categories: %s. "+
		"Choose the most relevant category based on the content.", strings.Join(Categories, ", "))
}

func categoryPrompt(excerpt string) string {
	return "Categorize this academic paper into one of the predefined categories. " +
		"Analyze the content and provide ONLY the category name, nothing else:\n\n" + excerpt
}

func chatPrompt(excerpt, question string) string {
	return fmt.Sprintf("Here is the paper content: %s\n\nQuestion about this paper: %s", excerpt, question)
}
