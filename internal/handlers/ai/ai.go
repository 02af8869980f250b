package ai

import (
	"context"
	"errors"
	"log"
	"net/http"

	"lorve_back_end/internal/ai"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

type Assistant interface {
	Chat(ctx context.Context, history []models.Message, message string) string
	Recommend(ctx context.Context, viewed []string) ([]models.Product, error)
}

// History returns the server-recorded viewing history of a session.
type History interface {
	ViewingHistory(ctx context.Context, key string) ([]string, error)
}

type Handler struct {
	assistant Assistant
	history   History
}

func NewHandler(a Assistant, h History) *Handler {
	return &Handler{assistant: a, history: h}
}

func (h *Handler) Chat(c *gin.Context) {
	var input struct {
		History []models.Message `json:"history"`
		Message string           `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Message == "" {
		c.JSON(http.StatusOK, gin.H{"reply": ai.MsgGlitch})
		return
	}
	if input.History == nil {
		input.History = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"reply": h.assistant.Chat(c.Request.Context(), input.History, input.Message)})
}

// Recommendations uses the viewing history sent by the client and falls
// back to the one recorded for the session.
func (h *Handler) Recommendations(c *gin.Context) {
	var input struct {
		ViewingHistory []string `json:"viewingHistory"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	viewed := input.ViewingHistory
	if len(viewed) == 0 {
		if key := middleware.CartKey(c); key != "" {
			stored, err := h.history.ViewingHistory(c.Request.Context(), key)
			if err != nil {
				log.Printf("⚠️ Load viewing history: %v", err)
			}
			viewed = stored
		}
	}

	products, err := h.assistant.Recommend(c.Request.Context(), viewed)
	switch {
	case errors.Is(err, ai.ErrNoHistory):
		c.JSON(http.StatusBadRequest, gin.H{"error": ai.MsgNoHistory})
		return
	case err != nil:
		log.Printf("❌ Recommendations: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ai.MsgRecommendFail})
		return
	}

	resp := gin.H{"recommendations": products}
	if len(products) == 0 {
		resp["message"] = ai.MsgNoRecommendation
	}
	c.JSON(http.StatusOK, resp)
}
