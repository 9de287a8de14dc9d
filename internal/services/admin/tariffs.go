package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/collection"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/pricing"
)

// squadIDLen сколько символов неизвестного id сквада показывать.
const squadIDLen = 8

// Tariffs список тарифов.
type Tariffs = collection.Collection[models.Tariff]

// TariffsPage состояние страницы тарифов.
type TariffsPage struct {
	Tariffs     Tariffs        `json:"tariffs"`
	Squads      []models.Squad `json:"squads"`
	SquadsError string         `json:"squads_error,omitempty"`
}

// TariffRow строка таблицы тарифов.
type TariffRow struct {
	models.Tariff
	TierName  models.Tier `json:"tier_name"`
	SquadName string      `json:"squad_name"`
}

// SquadName имя сквада тарифа. Неизвестный id показывается обрезанным.
func SquadName(squads []models.Squad, id *string) string {
	if id == nil || *id == "" {
		return ""
	}
	for _, sq := range squads {
		if sq.Key() == *id {
			return sq.DisplayName()
		}
	}
	r := []rune(*id)
	if len(r) <= squadIDLen {
		return *id
	}
	return string(r[:squadIDLen]) + "..."
}

// Rows строки таблицы в порядке сервера.
func (p TariffsPage) Rows() []TariffRow {
	rows := make([]TariffRow, 0, p.Tariffs.Len())
	for _, t := range p.Tariffs.Items {
		rows = append(rows, TariffRow{Tariff: t, TierName: pricing.TierOf(t), SquadName: SquadName(p.Squads, t.SquadID)})
	}
	return rows
}

// TariffsPage загружает тарифы и сквады. Ошибка сквадов не мешает показать тарифы.
func (s *Service) TariffsPage(ctx context.Context, token string) (TariffsPage, error) {
	const op = "admin.TariffsPage"

	type squadsResult struct {
		squads []models.Squad
		err    error
	}
	ch := make(chan squadsResult, 1)
	go func() {
		sq, err := s.backend.Squads(ctx, token)
		ch <- squadsResult{squads: sq, err: err}
	}()

	tariffs, err := s.backend.Tariffs(ctx, token)
	sq := <-ch
	if err != nil {
		return TariffsPage{}, fmt.Errorf("%s: %w", op, err)
	}

	page := TariffsPage{Tariffs: collection.New(tariffs), Squads: sq.squads}
	if sq.err != nil {
		s.log.Warn("failed to load squads", slog.String("op", op), sl.Err(sq.err))
		page.Squads = []models.Squad{}
		page.SquadsError = backend.Message(sq.err)
	}
	return page, nil
}

// CreateTariff создает тариф. Если сервер не вернул тариф, список перечитывается.
func (s *Service) CreateTariff(ctx context.Context, token string, list Tariffs, in models.TariffInput) (Tariffs, error) {
	const op = "admin.CreateTariff"
	created, err := s.backend.CreateTariff(ctx, token, in.Normalize())
	if err != nil {
		return list, fmt.Errorf("%s: %w", op, err)
	}
	if created != nil {
		return list.Add(*created), nil
	}
	tariffs, err := s.backend.Tariffs(ctx, token)
	if err != nil {
		return list, fmt.Errorf("%s: %w", op, err)
	}
	return list.Load(tariffs), nil
}

// UpdateTariff изменяет тариф. Ответ сервера накладывается на старую запись,
// поверх него отредактированные поля.
func (s *Service) UpdateTariff(ctx context.Context, token string, list Tariffs, id int, in models.TariffInput) (Tariffs, error) {
	const op = "admin.UpdateTariff"
	in = in.Normalize()
	echoed, err := s.backend.UpdateTariff(ctx, token, id, in)
	if err != nil {
		return list, fmt.Errorf("%s: %w", op, err)
	}
	return list.Update(strconv.Itoa(id), func(t models.Tariff) models.Tariff {
		if echoed != nil {
			t = *echoed
			t.ID = id
		}
		return in.Apply(t)
	}), nil
}

// DeleteTariff удаляет тариф.
func (s *Service) DeleteTariff(ctx context.Context, token string, list Tariffs, id int) (Tariffs, error) {
	const op = "admin.DeleteTariff"
	if err := s.backend.DeleteTariff(ctx, token, id); err != nil && !alreadyGone(err) {
		return list, fmt.Errorf("%s: %w", op, err)
	}
	return list.Remove(strconv.Itoa(id)), nil
}

// DeleteTariffPrompt текст подтверждения удаления тарифа.
const DeleteTariffPrompt = "Удалить этот тариф?"
