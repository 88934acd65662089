package service

import (
	"context"
	"fmt"
)

// BlobStore abstracts durable answer-sheet storage. Put writes the
// payload under the given key and returns a stable locator.
type BlobStore interface {
	Put(ctx context.Context, key string, payload []byte, contentType string) (string, error)
}

// StudentAnswerKey builds the deterministic storage key for a student's
// answer sheet: student-answers/{examID}/{studentUserID}/answer-sheet.pdf.
func StudentAnswerKey(examID uint, studentUserID string) string {
	return fmt.Sprintf("student-answers/%d/%s/answer-sheet.pdf", examID, studentUserID)
}

// ModelAnswerKey builds the deterministic storage key for an exam's
// model answer: model-answers/{examID}/model-answer.pdf.
func ModelAnswerKey(examID uint) string {
	return fmt.Sprintf("model-answers/%d/model-answer.pdf", examID)
}
