package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/option"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

const chatSystemPrompt = `You are a helpful customer support assistant for Mithaas Delights, a premium Indian sweets and snacks online store.

About Mithaas Delights:
- We sell authentic Indian sweets (mithai), savory snacks (namkeen), laddus, Bengali sweets, dry fruit sweets, and festival specials
- We offer premium quality products made with traditional recipes and finest ingredients
- We deliver from Indore and accept both Cash on Delivery and online payments
- Location: 64, Kaveri Nagar, Indore, Madhya Pradesh 452006, India

Help customers with product information, order placement, delivery and payment questions, and order tracking. Be friendly and concise. If you do not know a product detail, suggest browsing the catalog.`

const chatFallbackResponse = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment, browse our catalog, or reach our support team directly."

var chatModel *genai.GenerativeModel

// InitChat wires the Gemini assistant. Without an API key the chat endpoint
// serves fallback responses.
func InitChat(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		log.Warn("GEMINI_API_KEY not set, chat runs in fallback mode")
		return nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return err
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(chatSystemPrompt)}}
	chatModel = model
	return nil
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatMessage answers a support question. Authenticated callers asking
// about their orders get their recent order timeline folded into the
// prompt.
func ChatMessage(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.SessionID == "" || req.Message == "" {
		return detail(c, http.StatusBadRequest, "session_id and message are required")
	}

	userID := currentUserID(c)
	prompt := req.Message
	if userID != "" && mentionsOrders(req.Message) {
		if orderCtx := recentOrderContext(userID); orderCtx != "" {
			prompt = orderCtx + "\n\nCustomer question: " + req.Message
		}
	}

	answer := generateChatResponse(prompt)

	record := models.NewChatMessage(req.SessionID, userID, req.Message, answer)
	ctx, cancel := dbCtx()
	defer cancel()
	if _, err := database.DB.Collection(database.ColChatMessages).InsertOne(ctx, record); err != nil {
		log.WithError(err).Warn("failed to store chat message")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"response":   answer,
		"session_id": req.SessionID,
		"timestamp":  record.CreatedAt,
	})
}

// ChatHistory returns the last 50 exchanges of a session, oldest first.
func ChatHistory(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(50)
	cursor, err := database.DB.Collection(database.ColChatMessages).
		Find(ctx, bson.M{"session_id": c.Param("sessionId")}, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch chat history")
	}
	defer cursor.Close(ctx)

	messages := []models.ChatMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode chat history")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"messages": messages})
}

func mentionsOrders(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range []string{"order", "track", "delivery", "refund", "cancel"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// recentOrderContext summarises the caller's latest orders for the model.
func recentOrderContext(userID string) string {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(3)
	cursor, err := database.DB.Collection(database.ColOrders).
		Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return ""
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil || len(orders) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("The customer's recent orders:")
	for _, o := range orders {
		fmt.Fprintf(&b, "\n- order %s: status %s, payment %s, total ₹%.2f, placed %s",
			o.ID, o.Status, o.PaymentStatus, o.FinalAmount,
			o.CreatedAt.Time.Format("2 Jan 2006"))
	}
	return b.String()
}

func generateChatResponse(prompt string) string {
	if chatModel == nil {
		return chatFallbackResponse
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	resp, err := chatModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.WithError(err).Warn("chat generation failed")
		return chatFallbackResponse
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	if b.Len() == 0 {
		return chatFallbackResponse
	}
	return b.String()
}
