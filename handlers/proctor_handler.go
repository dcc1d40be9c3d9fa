package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	configs "github.com/quizsecure/quizsecure/configs"
	"github.com/quizsecure/quizsecure/database"
	"github.com/quizsecure/quizsecure/models"
	"github.com/quizsecure/quizsecure/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(configs.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// authenticateWs expects the first frame on a fresh connection to be
// {"type":"auth","token":"<jwt>"} and returns the caller's user id.
func authenticateWs(c *websocketcontrib.Conn) (uuid.UUID, bool) {
	var authMsg wsAuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		return uuid.Nil, false
	}
	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		return uuid.Nil, false
	}
	return userID, true
}

// ServeProctorWs receives the exam client's proctoring event stream.
// Each frame is persisted as a RedFlag and relayed to live monitors.
func ServeProctorWs(c *websocketcontrib.Conn) {
	defer c.Close()

	userID, ok := authenticateWs(c)
	if !ok {
		return
	}

	submissionID := c.Params("submissionId")
	var submission models.Submission
	if err := database.DB.Where("id = ? AND student_id = ?", submissionID, userID).
		First(&submission).Error; err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Submission not found"})
		return
	}

	for {
		var payload websocket.FlagPayload
		if err := c.ReadJSON(&payload); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("Proctor stream closed for submission %s: %v", submission.ID, err)
			} else {
				log.Printf("Proctor stream read error for submission %s: %v", submission.ID, err)
			}
			break
		}

		switch payload.FlagType {
		case models.FlagNoFace, models.FlagMultipleFaces, models.FlagTabSwitch:
		default:
			_ = c.WriteJSON(fiber.Map{"error": "Unknown flag type"})
			continue
		}

		flag := models.RedFlag{
			SubmissionID: submission.ID,
			Timestamp:    time.Now(),
			FlagType:     payload.FlagType,
		}
		if err := database.DB.Create(&flag).Error; err != nil {
			log.Printf("Failed to record flag for submission %s: %v", submission.ID, err)
			_ = c.WriteJSON(fiber.Map{"error": "Failed to record flag"})
			continue
		}
		websocket.BroadcastFlag(&flag)
	}
}

// ServeMonitorWs streams a submission's red flags to its quiz creator.
func ServeMonitorWs(c *websocketcontrib.Conn) {
	defer c.Close()

	userID, ok := authenticateWs(c)
	if !ok {
		return
	}

	submissionID := c.Params("submissionId")
	var submission models.Submission
	if err := database.DB.Preload("Quiz").Where("id = ?", submissionID).
		First(&submission).Error; err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Submission not found"})
		return
	}
	if submission.Quiz.CreatedBy != userID {
		_ = c.WriteJSON(fiber.Map{"error": "Only the quiz creator may monitor this submission"})
		return
	}

	monitor := &websocket.Monitor{SubmissionID: submission.ID, Conn: c}
	websocket.Register <- monitor
	defer func() { websocket.Unregister <- monitor }()

	// Drain control frames until the monitor disconnects.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
