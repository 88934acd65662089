package dto

// BatchFileResult records one successfully ingested answer sheet.
type BatchFileResult struct {
	StudentUserID string `json:"student_user_id"`
	Filename      string `json:"filename"`
	FileLink      string `json:"file_link"`
}

// BatchFileError records one rejected answer sheet.
type BatchFileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchIngestResponse itemizes the outcome of a bulk answer-sheet upload.
// Every input filename appears exactly once across Results and Errors.
type BatchIngestResponse struct {
	Uploaded int               `json:"uploaded"`
	Failed   int               `json:"failed"`
	Results  []BatchFileResult `json:"results"`
	Errors   []BatchFileError  `json:"errors"`
}
