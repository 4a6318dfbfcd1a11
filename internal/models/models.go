package models

import "time"

const (
	CaseTypeMediation    = "Mediation"
	CaseTypeConciliation = "Conciliation"
	CaseTypeNegotiation  = "Negotiation"
	CaseTypeArbitration  = "Arbitration"
)

var CaseTypes = []string{CaseTypeMediation, CaseTypeConciliation, CaseTypeNegotiation, CaseTypeArbitration}

func ValidCaseType(v string) bool {
	for _, t := range CaseTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Party struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,oneof=Complainant Respondent"`
	Type string `json:"type" validate:"required,oneof=Individual Organization"`
}

type UploadedDocument struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

type FilingRequest struct {
	DisputeTitle       string             `json:"dispute_title"`
	DisputeDescription string             `json:"dispute_description" validate:"required"`
	CaseType           string             `json:"case_type" validate:"omitempty,oneof=Mediation Conciliation Negotiation Arbitration"`
	Parties            []Party            `json:"parties" validate:"dive"`
	UploadedDocuments  []UploadedDocument `json:"uploaded_documents"`
	EstimatedAmount    *float64           `json:"estimated_amount" validate:"omitempty,gte=0"`
	Jurisdiction       string             `json:"jurisdiction"`
	PreferredProvider  string             `json:"preferred_provider"`
}

type CaseTypeSuggestion struct {
	Recommended  string            `json:"recommended"`
	Confidence   float64           `json:"confidence"`
	Rationale    string            `json:"rationale"`
	Alternatives []CaseAlternative `json:"alternatives,omitempty"`
}

type CaseAlternative struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type DocumentSuggestion struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Reason      string `json:"reason,omitempty"`
}

type FieldHints struct {
	Title             string   `json:"title,omitempty"`
	Jurisdiction      string   `json:"jurisdiction,omitempty"`
	EstimatedTimeline string   `json:"estimatedTimeline,omitempty"`
	SuggestedAmount   *float64 `json:"suggestedAmount,omitempty"`
}

type UrgencyAssessment struct {
	Level      string   `json:"level"`
	Confidence float64  `json:"confidence"`
	Factors    []string `json:"factors"`
}

type FilingSuggestions struct {
	CaseType          CaseTypeSuggestion   `json:"caseType"`
	RequiredDocuments []DocumentSuggestion `json:"requiredDocuments"`
	FieldHints        FieldHints           `json:"fieldHints"`
	Urgency           UrgencyAssessment    `json:"urgency"`
}

type FilingResponse struct {
	RequestID   string            `json:"request_id"`
	Suggestions FilingSuggestions `json:"suggestions"`
	Metadata    map[string]any    `json:"metadata"`
}

type TranscriptionSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type TranscriptionResult struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language"`
	Duration float64                `json:"duration"`
	Segments []TranscriptionSegment `json:"segments"`
}

// HearingAnalysis is the fixed envelope the analysis prompt demands. Each
// section keeps the model's free-form content; presence of all five keys is
// validated at parse time.
type HearingAnalysis struct {
	Summary         map[string]any `json:"summary"`
	Participants    map[string]any `json:"participants"`
	Arguments       map[string]any `json:"arguments"`
	CaseAssessment  map[string]any `json:"case_assessment"`
	Recommendations map[string]any `json:"recommendations"`
}

type TranscriptFormatRequest struct {
	RawText    string `json:"raw_text" validate:"required"`
	FormatType string `json:"format_type" validate:"omitempty,oneof=structured summary key_points"`
	Language   string `json:"language"`
	Provider   string `json:"provider"`
}

type TranscriptFormatResponse struct {
	RequestID           string         `json:"request_id"`
	FormattedTranscript map[string]any `json:"formatted_transcript"`
	Metadata            map[string]any `json:"metadata"`
}

const (
	FileStatusUploaded  = "uploaded"
	FileStatusProcessed = "processed"
	FileStatusDeleted   = "deleted"
)

type UploadedFile struct {
	FileID           string `json:"file_id"`
	OriginalFilename string `json:"original_filename"`
	StoredFilename   string `json:"stored_filename"`
	FilePath         string `json:"file_path"`
	FileSize         int64  `json:"file_size"`
	MimeType         string `json:"mime_type"`
	FileType         string `json:"file_type"`
	Status           string `json:"status"`
}

const (
	ActivityFiling        = "filing"
	ActivityTranscription = "transcription"
	ActivityHearing       = "hearing_analysis"
)

type Activity struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Provider  string    `json:"provider,omitempty"`
	Payload   []byte    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
