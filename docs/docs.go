// Package docs описание API панели для /docs.
// Полная схема пересобирается командой swag init -g cmd/panel/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "SessionCookie": {
            "type": "apiKey",
            "name": "sid",
            "in": "cookie"
        }
    },
    "paths": {
        "/api/session": {
            "get": {"tags": ["Auth"], "summary": "Состояние сессии", "responses": {"200": {"description": "OK"}}}
        },
        "/api/preference": {
            "post": {"tags": ["Preference"], "summary": "Язык и валюта", "responses": {"200": {"description": "OK"}, "400": {"description": "Неизвестный язык или валюта"}}}
        },
        "/api/public/login": {
            "post": {"tags": ["Auth"], "summary": "Вход", "responses": {"200": {"description": "OK"}, "401": {"description": "Неверный email или пароль"}, "429": {"description": "Слишком много попыток"}}}
        },
        "/api/public/register": {
            "post": {"tags": ["Auth"], "summary": "Регистрация", "responses": {"200": {"description": "OK"}, "422": {"description": "Ошибка валидации"}}}
        },
        "/api/public/verify-email": {
            "post": {"tags": ["Auth"], "summary": "Подтверждение почты", "responses": {"200": {"description": "OK"}}}
        },
        "/api/public/resend-verification": {
            "post": {"tags": ["Auth"], "summary": "Повторное письмо", "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Выход", "responses": {"303": {"description": "На страницу входа"}}}
        },
        "/api/client/me": {
            "get": {"tags": ["Client"], "summary": "Статус подписки", "responses": {"200": {"description": "OK"}, "401": {"description": "Сессия истекла"}}}
        },
        "/api/client/tariffs": {
            "get": {"tags": ["Checkout"], "summary": "Витрина тарифов", "responses": {"200": {"description": "OK"}}}
        },
        "/api/client/payments": {
            "post": {"tags": ["Checkout"], "summary": "Оплатить", "responses": {"303": {"description": "На страницу оплаты"}, "502": {"description": "Шлюз недоступен"}}}
        },
        "/api/client/support/tickets": {
            "get": {"tags": ["Support"], "summary": "Обращения", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Support"], "summary": "Новое обращение", "responses": {"201": {"description": "Created"}}}
        },
        "/api/admin/dashboard": {
            "get": {"tags": ["Admin"], "summary": "Сводка", "responses": {"200": {"description": "OK"}}}
        },
        "/api/admin/users/{id}": {
            "delete": {"tags": ["Admin"], "summary": "Удалить пользователя", "responses": {"200": {"description": "OK"}, "428": {"description": "Нужно подтверждение"}}}
        },
        "/api/admin/tariffs": {
            "get": {"tags": ["Admin"], "summary": "Тарифы", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Admin"], "summary": "Создать тариф", "responses": {"201": {"description": "Created"}}}
        },
        "/api/admin/broadcast": {
            "post": {"tags": ["Admin"], "summary": "Рассылка", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo метаданные API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "StealthNET Panel API",
	Description:      "Сервер панели VPN-подписки: кабинет клиента и панель администратора.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
