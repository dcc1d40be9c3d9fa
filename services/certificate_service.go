package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/quizsecure/quizsecure/configs"
	"github.com/quizsecure/quizsecure/database"
	"github.com/quizsecure/quizsecure/models"
)

var certificateTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><style>
body { font-family: Georgia, serif; text-align: center; padding: 60px; }
h1 { font-size: 40px; margin-bottom: 0; }
.score { font-size: 24px; margin-top: 40px; }
</style></head>
<body>
  <h1>Certificate of Completion</h1>
  <p>This certifies that</p>
  <h2>{{.StudentName}}</h2>
  <p>completed the quiz</p>
  <h2>{{.QuizTitle}}</h2>
  <p class="score">Score: {{printf "%.1f" .Score}} / {{printf "%.1f" .Total}}</p>
  <p>{{.IssuedDate}}</p>
</body>
</html>`))

// GenerateResultCertificate renders a printable certificate for a
// persisted quiz result, uploads it, and records the URL. Runs as a
// fire-and-forget follow-up to submission; any failure only logs.
func GenerateResultCertificate(student models.User, quiz models.Quiz, result models.QuizResult) {
	if config.Config("CLOUDINARY_URL") == "" {
		return
	}

	var existing models.Certificate
	if err := database.DB.Where("student_id = ? AND quiz_id = ?", student.ID, quiz.ID).
		First(&existing).Error; err == nil {
		return
	}

	htmlData, err := renderCertificateHTML(student.FullName, quiz.Title, result.Score, result.Total)
	if err != nil {
		log.Printf("🔥 Failed to render certificate HTML: %v", err)
		return
	}

	pdfBytes, err := printPDF(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate PDF: %v", err)
		return
	}

	uploadURL, err := uploadCertificate(pdfBytes, student.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload certificate: %v", err)
		return
	}

	certificate := models.Certificate{
		StudentID:      student.ID,
		QuizID:         quiz.ID,
		CourseTitle:    quiz.Title,
		CertificateURL: uploadURL,
		IssuedAt:       time.Now(),
	}
	if err := database.DB.Create(&certificate).Error; err != nil {
		log.Printf("🔥 Failed to create certificate record for student %s: %v", student.ID, err)
		return
	}
	log.Printf("✅ Generated certificate for student %s on quiz %s.", student.ID, quiz.ID)
}

func renderCertificateHTML(studentName, quizTitle string, score, total float64) (string, error) {
	data := struct {
		StudentName string
		QuizTitle   string
		Score       float64
		Total       float64
		IssuedDate  string
	}{
		StudentName: studentName,
		QuizTitle:   quizTitle,
		Score:       score,
		Total:       total,
		IssuedDate:  time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := certificateTemplate.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func printPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadCertificate(fileBytes []byte, studentID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s_%s", studentID, uuid.New().String()),
		Folder:       "quizsecure_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
