package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"finQuestAPI/internal/expense"
	"finQuestAPI/internal/persona"
	"finQuestAPI/internal/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// companionTimeout bounds the hosted text-generation call. Past it, the
// local persona template takes over and the failure stays invisible.
const companionTimeout = 10 * time.Second

// CompanionService produces persona-voiced commentary. Generation is
// delegated to a hosted webhook when configured; any error, non-200, or
// timeout resolves to a local fallback so this path can never fail a
// user-visible flow.
type CompanionService struct {
	db         *pgxpool.Pool
	webhookURL string
	client     *http.Client

	mu  sync.Mutex
	rng *rand.Rand
}

func NewCompanionService(db *pgxpool.Pool, webhookURL string) *CompanionService {
	return &CompanionService{
		db:         db,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: companionTimeout},
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type generateRequest struct {
	System      string `json:"system"`
	UserMessage string `json:"userMessage"`
	UserName    string `json:"userName"`
}

type generateResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

// ChatMessage is one row of the companion conversation log.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"` // "user" or "companion"
	CreatedAt time.Time `json:"created_at"`
}

// CommentOnExpense voices a reaction to a just-logged expense. The context
// (overspending vs. saving well vs. plain logging) picks the fallback set;
// the hosted service gets the numbers in the prompt.
func (s *CompanionService) CommentOnExpense(ctx context.Context, p *profile.Profile, e *expense.Expense, monthlySpent float64) string {
	fctx := persona.ContextExpenseAdded
	if p.MonthlyBudget > 0 {
		switch ratio := monthlySpent / p.MonthlyBudget; {
		case ratio > 0.9:
			fctx = persona.ContextOverspending
		case ratio < 0.5:
			fctx = persona.ContextSavingWell
		}
	}

	prompt := fmt.Sprintf("The user just spent $%.2f on %s (%s). They have spent $%.2f of their $%.2f monthly budget. React in character.",
		e.Amount, e.Description, e.Category, monthlySpent, p.MonthlyBudget)
	return s.generate(ctx, p, prompt, fctx)
}

// Chat answers a free-text message and records both sides of the exchange.
func (s *CompanionService) Chat(ctx context.Context, p *profile.Profile, message string) (string, error) {
	if err := s.saveMessage(ctx, p.ID, message, "user"); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("The user says: %q. Their current streak is %d days and they are level %d. Reply in character.",
		message, p.CurrentStreak, p.CurrentLevel)
	reply := s.generate(ctx, p, prompt, persona.ContextChat)

	if err := s.saveMessage(ctx, p.ID, reply, "companion"); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *CompanionService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, message, sender, created_at
	FROM companion_messages
	WHERE user_id = $1
	ORDER BY created_at ASC
	LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	var messages []*ChatMessage
	for rows.Next() {
		m := &ChatMessage{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Message, &m.Sender, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *CompanionService) saveMessage(ctx context.Context, userID uuid.UUID, message, sender string) error {
	_, err := s.db.Exec(ctx, `
	INSERT INTO companion_messages (id, user_id, message, sender, created_at)
	VALUES ($1, $2, $3, $4, NOW())`,
		uuid.New(), userID, message, sender)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// generate calls the hosted webhook, falling back to the local persona
// templates on any failure. It never returns an error.
func (s *CompanionService) generate(ctx context.Context, p *profile.Profile, prompt string, fctx persona.FallbackContext) string {
	if s.webhookURL == "" {
		return s.fallback(p.Persona, fctx)
	}

	ctx, cancel := context.WithTimeout(ctx, companionTimeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		System:      p.Persona.SystemPrompt(),
		UserMessage: prompt,
		UserName:    p.CompanionName,
	})
	if err != nil {
		return s.fallback(p.Persona, fctx)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return s.fallback(p.Persona, fctx)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Companion: generation call failed: %v", err)
		return s.fallback(p.Persona, fctx)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Companion: generation returned status %d", resp.StatusCode)
		return s.fallback(p.Persona, fctx)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Printf("Companion: bad generation response: %v", err)
		return s.fallback(p.Persona, fctx)
	}
	if out.Message != "" {
		return out.Message
	}
	if out.Response != "" {
		return out.Response
	}
	return s.fallback(p.Persona, fctx)
}

func (s *CompanionService) fallback(p persona.Persona, fctx persona.FallbackContext) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return persona.Fallback(p, fctx, s.rng)
}
