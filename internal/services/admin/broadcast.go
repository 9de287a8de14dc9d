package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// ErrNoRecipients для рассылки по списку не указан ни один адрес.
var ErrNoRecipients = errors.New("no custom recipients")

// ParseEmails адреса по одному в строке. Пустые строки и строки без @ отбрасываются.
func ParseEmails(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && strings.Contains(line, "@") {
			out = append(out, line)
		}
	}
	return out
}

// Broadcast отправляет рассылку. Список адресов уходит только для получателей custom.
func (s *Service) Broadcast(ctx context.Context, token string, b models.Broadcast) (models.BroadcastResult, error) {
	const op = "admin.Broadcast"
	if b.RecipientType == models.RecipientCustom {
		emails := []string{}
		for _, e := range b.CustomEmails {
			emails = append(emails, ParseEmails(e)...)
		}
		if len(emails) == 0 {
			return models.BroadcastResult{}, ErrNoRecipients
		}
		b.CustomEmails = emails
	} else {
		b.CustomEmails = []string{}
	}

	res, err := s.backend.Broadcast(ctx, token, b)
	if err != nil {
		return models.BroadcastResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("broadcast sent",
		slog.String("op", op),
		slog.String("recipient_type", string(b.RecipientType)),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}
