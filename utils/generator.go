package utils

import (
	"math/rand"

	"github.com/quizsecure/quizsecure/models"
	"gorm.io/gorm"
)

const paperCodeLength = 6
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePaperCode returns a random human-shareable code of the form
// teachers print on exam papers, e.g. "X7K2QD".
func GeneratePaperCode() string {
	b := make([]byte, paperCodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// GenerateUniquePaperCode keeps drawing codes until one is free. Callers
// still rely on the unique constraint on quizzes.paper_code; this only
// makes collisions unlikely, not impossible.
func GenerateUniquePaperCode(tx *gorm.DB) (string, error) {
	for {
		code := GeneratePaperCode()

		var quiz models.Quiz
		err := tx.Where("paper_code = ?", code).First(&quiz).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
