// Package models содержит структуры данных панели в том виде, в каком их отдает бэкенд.
// Владелец всех сущностей бэкенд, панель держит только временные копии.
package models

import (
	"fmt"
	"strings"
)

// Role роль владельца сессии. Других значений не бывает: ParseRole их отвергает.
type Role int

const (
	// RoleNone отсутствие роли, сессии нет.
	RoleNone Role = iota
	// RoleClient клиент сервиса.
	RoleClient
	// RoleAdmin администратор.
	RoleAdmin
)

// ParseRole разбирает роль из ответа бэкенда. Регистр не важен.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CLIENT":
		return RoleClient, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return RoleNone, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "CLIENT"
	case RoleAdmin:
		return "ADMIN"
	case RoleNone:
		return ""
	default:
		panic(fmt.Sprintf("models: unexpected role %d", int(r)))
	}
}

// MarshalText сохраняет роль строкой.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText читает роль. Пустая строка дает RoleNone.
func (r *Role) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RoleNone
		return nil
	}
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
