package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"propertyscout/internal/models"
)

const DefaultAPIURL = "https://api.telegram.org"

var ErrNotConfigured = errors.New("telegram bot token or chat id is not configured")

type Config struct {
	Enabled  bool
	BotToken string
	ChatID   string
	APIURL   string
	MinScore int
}

type Service struct {
	logger *logrus.Logger
	client *http.Client
	config Config
}

func NewService(logger *logrus.Logger, config Config) *Service {
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		config: config,
	}
}

// Enabled reports whether notifications will be sent.
func (s *Service) Enabled() bool {
	return s.config.Enabled
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(ctx context.Context, message string) error {
	if !s.config.Enabled {
		return nil
	}
	if s.config.BotToken == "" || s.config.ChatID == "" {
		return ErrNotConfigured
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(s.config.APIURL, "/"), s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyAnalysis sends a summary of analysis when its score reaches the
// configured minimum. It reports whether a message was sent.
func (s *Service) NotifyAnalysis(ctx context.Context, analysis *models.InvestmentAnalysis) (bool, error) {
	if !s.config.Enabled || analysis == nil {
		return false, nil
	}
	if analysis.InvestmentScore < s.config.MinScore {
		s.logger.WithFields(logrus.Fields{
			"address":   analysis.TargetProperty.Address,
			"score":     analysis.InvestmentScore,
			"min_score": s.config.MinScore,
		}).Debug("Score below notification threshold")
		return false, nil
	}

	if err := s.SendMessage(ctx, FormatAnalysis(analysis)); err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"address": analysis.TargetProperty.Address,
		"score":   analysis.InvestmentScore,
	}).Info("Sent analysis notification")
	return true, nil
}

// FormatAnalysis renders analysis as an HTML Telegram message.
func FormatAnalysis(analysis *models.InvestmentAnalysis) string {
	pa := analysis.PriceAnalysis
	rec := analysis.Recommendations

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n\n", html.EscapeString(rec.Action))
	fmt.Fprintf(&b, "🏠 %s\n", html.EscapeString(analysis.TargetProperty.Address))
	fmt.Fprintf(&b, "📊 Score: %d/100\n", analysis.InvestmentScore)
	fmt.Fprintf(&b, "💰 Asking: %s (%s/SF)\n", models.FormatUSD(pa.AskingPrice), formatPSF(pa.AskingPricePSF))
	fmt.Fprintf(&b, "📐 Estimated value: %s - %s\n", models.FormatUSD(pa.EstimatedValueRange.Low), models.FormatUSD(pa.EstimatedValueRange.High))
	fmt.Fprintf(&b, "💵 Comp average: %s/SF\n", formatPSF(pa.AvgCompPricePSF))
	if rec.SuggestedCounterOffer > 0 {
		fmt.Fprintf(&b, "🤝 Counter-offer: %s\n", models.FormatUSD(rec.SuggestedCounterOffer))
	}
	return b.String()
}

func formatPSF(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
