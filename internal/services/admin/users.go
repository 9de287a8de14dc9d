package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/stealthnet-panel/internal/collection"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

const notAvailable = "N/A"

// UserRow строка таблицы пользователей с данными из системы узлов.
type UserRow struct {
	models.User
	Status   string `json:"status"`
	Squad    string `json:"squad"`
	ExpireAt string `json:"expire_at"`
	Expired  bool   `json:"expired"`
}

// Key id пользователя.
func (r UserRow) Key() string { return strconv.Itoa(r.ID) }

// Users список пользователей.
type Users = collection.Collection[UserRow]

type liveData struct {
	Response *struct {
		Status               string `json:"status"`
		ExpireAt             string `json:"expireAt"`
		ActiveInternalSquads []struct {
			Name string `json:"name"`
		} `json:"activeInternalSquads"`
	} `json:"response"`
}

// Row собирает строку таблицы. Время сравнивается с now.
func Row(u models.User, now time.Time) UserRow {
	row := UserRow{User: u, Status: notAvailable, Squad: notAvailable, ExpireAt: notAvailable}
	if u.FetchError {
		row.Status = "Ошибка"
		return row
	}
	var live liveData
	if len(u.LiveData) == 0 || json.Unmarshal(u.LiveData, &live) != nil || live.Response == nil {
		return row
	}
	row.Status = live.Response.Status
	row.Squad = "Нет"
	if len(live.Response.ActiveInternalSquads) > 0 {
		row.Squad = live.Response.ActiveInternalSquads[0].Name
	}
	if exp, err := time.Parse(time.RFC3339, live.Response.ExpireAt); err == nil {
		row.ExpireAt = exp.Local().Format("02.01.2006, 15:04")
		row.Expired = exp.Before(now)
	}
	return row
}

// Users загружает пользователей.
func (s *Service) Users(ctx context.Context, token string) (Users, error) {
	const op = "admin.Users"
	list, err := s.backend.Users(ctx, token)
	if err != nil {
		return Users{}, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now()
	rows := make([]UserRow, 0, len(list))
	for _, u := range list {
		rows = append(rows, Row(u, now))
	}
	return collection.New(rows), nil
}

// DeleteUserPrompt текст подтверждения удаления.
func DeleteUserPrompt(users Users, id int) string {
	if u, ok := users.Get(strconv.Itoa(id)); ok {
		return fmt.Sprintf("Вы уверены, что хотите удалить %s?", u.Email)
	}
	return "Вы уверены, что хотите удалить пользователя?"
}

// DeleteUser удаляет пользователя и убирает его из списка.
// Повторное удаление уже удаленного пользователя ничего не меняет.
func (s *Service) DeleteUser(ctx context.Context, token string, users Users, id int) (Users, string, error) {
	const op = "admin.DeleteUser"
	resp, err := s.backend.DeleteUser(ctx, token, id)
	if err != nil && !alreadyGone(err) {
		return users, "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.String("op", op), slog.Int("user_id", id))
	return users.Remove(strconv.Itoa(id)), resp.Message, nil
}

// RecipientEmails адреса всех пользователей для рассылки.
func (s *Service) RecipientEmails(ctx context.Context, token string) ([]string, error) {
	const op = "admin.RecipientEmails"
	emails, err := s.backend.UserEmails(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}
