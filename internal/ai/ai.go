// Package ai holds the store assistant: product chat and viewing-history
// recommendations, both backed by a text Generator.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"lorve_back_end/internal/catalog"
	"lorve_back_end/internal/models"
)

// Replies shown to the shopper when the assistant cannot answer.
const (
	MsgGlitch           = "I'm sorry, there was a technical glitch. Please try asking again."
	MsgUnavailable      = "I'm having a bit of trouble connecting at the moment. Please try again shortly."
	MsgNoHistory        = "Browse some products first to get personalized recommendations."
	MsgRecommendFail    = "Could not fetch recommendations at this time. Please try again later."
	MsgNoRecommendation = "We couldn't find any recommendations based on your history. Keep browsing!"
)

var (
	ErrNoHistory   = errors.New(MsgNoHistory)
	ErrUnavailable = errors.New(MsgRecommendFail)
)

// Request is one generation call. When JSONField is set the model must
// answer with an object holding that single string field, whose value is
// returned.
type Request struct {
	System    string
	History   []models.Message
	Prompt    string
	JSONField string
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type ProductSource interface {
	Products(ctx context.Context) ([]models.Product, error)
}

type Assistant struct {
	gen      Generator
	products ProductSource
}

// NewAssistant returns an assistant. A nil generator makes every call
// answer with the unavailable replies.
func NewAssistant(gen Generator, products ProductSource) *Assistant {
	return &Assistant{gen: gen, products: products}
}

const chatSystemPrompt = `You are a helpful and witty AI assistant for LORVÉ, a luxury perfume store. Your name is 'Lorv'.
Your goal is to answer customer questions about perfumes and the brand.
Be friendly, knowledgeable, and slightly sophisticated in your tone.
Use the following product information to answer questions about the store's offerings. If you don't know the answer, say so politely.

AVAILABLE PRODUCTS:
%s`

var validRoles = map[string]bool{
	models.RoleUser:   true,
	models.RoleModel:  true,
	models.RoleSystem: true,
	models.RoleTool:   true,
}

func validHistory(history []models.Message) bool {
	for _, m := range history {
		if !validRoles[m.Role] || m.Content == nil {
			return false
		}
	}
	return true
}

// ProductContext renders one line per product for the system prompt.
func ProductContext(products []models.Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		desc := []rune(p.Description)
		if len(desc) > 100 {
			desc = desc[:100]
		}
		lines = append(lines, fmt.Sprintf("- %s: %s...", p.Name, string(desc)))
	}
	return strings.Join(lines, "\n")
}

// Chat answers message given the prior conversation. It always returns a
// reply; failures become one of the fixed apology messages.
func (a *Assistant) Chat(ctx context.Context, history []models.Message, message string) string {
	if !validHistory(history) {
		log.Println("⚠️ Chat rejected: invalid history")
		return MsgGlitch
	}
	if a.gen == nil {
		return MsgUnavailable
	}

	products, err := a.products.Products(ctx)
	if err != nil {
		log.Printf("❌ Chat product context: %v", err)
		return MsgUnavailable
	}

	reply, err := a.gen.Generate(ctx, Request{
		System:  fmt.Sprintf(chatSystemPrompt, ProductContext(products)),
		History: history,
		Prompt:  message,
	})
	if err != nil {
		log.Printf("❌ Chat generation: %v", err)
		return MsgUnavailable
	}
	return reply
}

const recommendPrompt = `Based on the user's viewing history, suggest perfumes that they might like.

Viewing History: %s

Recommendations:`

// Recommend asks the model for perfumes similar to the viewed ones and
// resolves its comma-separated answer against the catalog.
func (a *Assistant) Recommend(ctx context.Context, viewed []string) ([]models.Product, error) {
	viewed = compact(viewed)
	if len(viewed) == 0 {
		return nil, ErrNoHistory
	}
	if a.gen == nil {
		return nil, ErrUnavailable
	}

	answer, err := a.gen.Generate(ctx, Request{
		Prompt:    fmt.Sprintf(recommendPrompt, strings.Join(viewed, ", ")),
		JSONField: "recommendations",
	})
	if err != nil {
		log.Printf("❌ Recommendation generation: %v", err)
		return nil, ErrUnavailable
	}

	products, err := a.products.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.FindByName(products, strings.Split(answer, ",")), nil
}

func compact(names []string) []string {
	out := []string{}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
