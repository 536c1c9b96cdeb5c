// internal/client/guard.go
package client

import "strings"

// Access кто может открыть страницу
type Access int

const (
	// AccessNone страница только для гостей (вход); вошедших отправляет на главную
	AccessNone Access = iota
	AccessAuthenticated
	AccessAdmin
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type Route struct {
	Pattern string
	Access  Access
}

// Decision результат проверки: либо показать страницу, либо перейти на Redirect
type Decision struct {
	Allow    bool
	Redirect string
}

type Guard struct {
	routes []Route
}

// DefaultRoutes маршруты фронтенда каталога
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/", Access: AccessAuthenticated},
		{Pattern: "/games", Access: AccessAuthenticated},
		{Pattern: "/contact", Access: AccessAuthenticated},
		{Pattern: "/game/:id", Access: AccessAuthenticated},
		{Pattern: "/manage-games", Access: AccessAdmin},
		{Pattern: LoginPath, Access: AccessNone},
	}
}

func NewGuard(routes ...Route) *Guard {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	return &Guard{routes: routes}
}

// AccessFor уровень доступа пути; незнакомые пути требуют входа
func (g *Guard) AccessFor(path string) Access {
	for _, r := range g.routes {
		if matchPattern(r.Pattern, path) {
			return r.Access
		}
	}
	return AccessAuthenticated
}

func (g *Guard) Check(path string, s Snapshot) Decision {
	switch g.AccessFor(path) {
	case AccessNone:
		if s.Authenticated {
			return Decision{Redirect: HomePath}
		}
	case AccessAuthenticated:
		if !s.Authenticated {
			return Decision{Redirect: LoginPath}
		}
	case AccessAdmin:
		if !s.Authenticated {
			return Decision{Redirect: LoginPath}
		}
		if !s.IsAdmin {
			return Decision{Redirect: HomePath}
		}
	}
	return Decision{Allow: true}
}

// matchPattern сравнивает по сегментам, ":name" совпадает с любым непустым сегментом
func matchPattern(pattern, path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	ps := splitPath(pattern)
	xs := splitPath(path)
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
