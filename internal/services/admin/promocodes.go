package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/stealthnet-panel/internal/collection"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// DeletePromoPrompt текст подтверждения удаления промокода.
const DeletePromoPrompt = "Удалить этот промокод?"

// PromoCodes список промокодов.
type PromoCodes = collection.Collection[models.PromoCode]

// PromoCodes загружает промокоды.
func (s *Service) PromoCodes(ctx context.Context, token string) (PromoCodes, error) {
	const op = "admin.PromoCodes"
	codes, err := s.backend.PromoCodes(ctx, token)
	if err != nil {
		return PromoCodes{}, fmt.Errorf("%s: %w", op, err)
	}
	return collection.New(codes), nil
}

// CreatePromoCode создает промокод. Созданный промокод из ответа добавляется в конец
// списка, без него список перечитывается.
func (s *Service) CreatePromoCode(ctx context.Context, token string, list PromoCodes, in models.PromoCodeInput) (PromoCodes, error) {
	const op = "admin.CreatePromoCode"
	in.Code = models.NormalizeCode(in.Code)
	created, err := s.backend.CreatePromoCode(ctx, token, in)
	if err != nil {
		return list, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("promo code created", slog.String("op", op), slog.String("code", in.Code))
	if created != nil {
		return list.Add(*created), nil
	}
	codes, err := s.backend.PromoCodes(ctx, token)
	if err != nil {
		return list, fmt.Errorf("%s: %w", op, err)
	}
	return list.Load(codes), nil
}

// DeletePromoCode удаляет промокод.
func (s *Service) DeletePromoCode(ctx context.Context, token string, list PromoCodes, id int) (PromoCodes, error) {
	const op = "admin.DeletePromoCode"
	if err := s.backend.DeletePromoCode(ctx, token, id); err != nil && !alreadyGone(err) {
		return list, fmt.Errorf("%s: %w", op, err)
	}
	return list.Remove(strconv.Itoa(id)), nil
}
