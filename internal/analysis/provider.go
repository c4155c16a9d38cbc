// Package analysis wraps the generative-AI endpoints used to explain lab
// reports and prescriptions to patients. Every call is single-shot
// request/response; there is no retry queue or cache.
package analysis

import "context"

// ImageRequest carries one report or prescription image for analysis.
type ImageRequest struct {
	ImageBase64 string
	MimeType    string
}

// Result is the assistant's plain-language explanation.
type Result struct {
	Text  string
	Model string
}

// ImageProvider analyzes a medical document image.
type ImageProvider interface {
	AnalyzeImage(ctx context.Context, req ImageRequest) (Result, error)
}

// TextProvider produces a short plain-language summary of an earlier
// analysis, for the follow-up "explain it simpler" action.
type TextProvider interface {
	Summarize(ctx context.Context, text string) (Result, error)
}

// analysisPrompt instructs the model to behave as a cautious healthcare
// assistant and to name the right kind of doctor to consult.
const analysisPrompt = "You are a healthcare assistant. Analyze this medical test report or prescription image. " +
	"Explain the findings and give advice in simple terms. Also, based on the threats, exactly tell what kind of " +
	"doctor to consult. Keep the response concise and easy to understand."

const summaryPrompt = "You are a healthcare assistant. Rewrite the following analysis of a medical report in " +
	"shorter, simpler language a patient with no medical background can follow. Keep the doctor recommendation."
