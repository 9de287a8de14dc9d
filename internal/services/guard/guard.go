// Package guard решает, что делать с запросом к странице: показать ее,
// перенаправить или показать заглушку загрузки.
//
// Решение зависит только от состояния сессии. Evaluate и Landing не ходят в сеть
// и ничего не меняют, поэтому их можно вызывать на каждый запрос.
package guard

import (
	"fmt"

	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// Адреса, на которые ведут перенаправления.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// Policy правило доступа к группе страниц.
type Policy int

const (
	// ClientOnly страницы клиента.
	ClientOnly Policy = iota + 1
	// AdminOnly страницы администратора.
	AdminOnly
	// GuestOnly вход и регистрация, только без сессии.
	GuestOnly
	// Root корень сайта, выбирает стартовую страницу по роли.
	Root
)

func (p Policy) String() string {
	switch p {
	case ClientOnly:
		return "client_only"
	case AdminOnly:
		return "admin_only"
	case GuestOnly:
		return "guest_only"
	case Root:
		return "root"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Outcome итог проверки.
type Outcome int

const (
	// Render показать страницу.
	Render Outcome = iota
	// Redirect перенаправить на Decision.Location.
	Redirect
	// Loading сессия еще не прочитана, показать заглушку.
	Loading
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Loading:
		return "loading"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision решение по запросу.
type Decision struct {
	Outcome  Outcome
	Location string
}

func render() Decision { return Decision{Outcome: Render} }

func redirect(location string) Decision {
	return Decision{Outcome: Redirect, Location: location}
}

// home стартовая страница роли.
func home(role models.Role) string {
	switch role {
	case models.RoleClient:
		return DashboardPath
	case models.RoleAdmin:
		return AdminPath
	case models.RoleNone:
		return LoginPath
	default:
		panic(fmt.Sprintf("guard: unexpected role %d", int(role)))
	}
}

// Evaluate применяет правило к состоянию сессии.
func Evaluate(p Policy, state session.State) Decision {
	if state.Loading {
		return Decision{Outcome: Loading}
	}
	if p == Root {
		return Landing(state)
	}

	role := state.Role
	if !state.Authenticated() {
		role = models.RoleNone
	}

	switch p {
	case GuestOnly:
		if role == models.RoleNone {
			return render()
		}
		return redirect(home(role))
	case ClientOnly:
		if role == models.RoleClient {
			return render()
		}
		return redirect(home(role))
	case AdminOnly:
		if role == models.RoleAdmin {
			return render()
		}
		return redirect(home(role))
	default:
		panic(fmt.Sprintf("guard: unexpected policy %s", p))
	}
}

// Landing куда вести с корня сайта.
func Landing(state session.State) Decision {
	if state.Loading {
		return Decision{Outcome: Loading}
	}
	if !state.Authenticated() {
		return redirect(LoginPath)
	}
	return redirect(home(state.Role))
}
