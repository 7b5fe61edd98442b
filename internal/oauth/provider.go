// Package oauth обменивает код авторизации на профиль пользователя у внешних провайдеров
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"suru/internal/errs"
	"suru/internal/logger"
	"suru/internal/service"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Scopes       []string
}

type provider struct {
	config      *oauth2.Config
	userInfoURL string
}

// Registry - набор настроенных провайдеров по имени
type Registry struct {
	providers map[string]provider
	client    *http.Client
}

func NewRegistry(configs map[string]ProviderConfig) *Registry {
	r := &Registry{providers: make(map[string]provider, len(configs)), client: http.DefaultClient}
	for name, c := range configs {
		r.providers[strings.ToLower(name)] = provider{
			config: &oauth2.Config{
				ClientID:     c.ClientID,
				ClientSecret: c.ClientSecret,
				RedirectURL:  c.RedirectURL,
				Scopes:       c.Scopes,
				Endpoint: oauth2.Endpoint{
					AuthURL:  c.AuthURL,
					TokenURL: c.TokenURL,
				},
			},
			userInfoURL: c.UserInfoURL,
		}
	}
	return r
}

// WithHTTPClient подменяет клиента для обмена кода и запроса профиля
func (r *Registry) WithHTTPClient(client *http.Client) *Registry {
	r.client = client
	return r
}

func (r *Registry) lookup(name string) (provider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return provider{}, errs.Validation("provider", errs.RuleEnum, "Unsupported OAuth provider: "+name)
	}
	return p, nil
}

func (r *Registry) AuthURL(name, state string) (string, error) {
	p, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

type userInfo struct {
	Sub   string `json:"sub"`
	ID    any    `json:"id"`
	Email string `json:"email"`
}

// Exchange меняет код на токен и читает профиль по userinfo URL провайдера
func (r *Registry) Exchange(ctx context.Context, name, code string) (service.Identity, error) {
	p, err := r.lookup(name)
	if err != nil {
		return service.Identity{}, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.client)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		logger.Warn("OAuth: Не удалось обменять код", zap.String("provider", name), zap.Error(err))
		return service.Identity{}, errs.Unauthorized("Invalid authorization code")
	}

	resp, err := p.config.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return service.Identity{}, fmt.Errorf("запрос профиля: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warn("OAuth: Провайдер вернул ошибку профиля", zap.String("provider", name), zap.Int("status", resp.StatusCode))
		return service.Identity{}, errs.Unauthorized("Failed to fetch user profile")
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return service.Identity{}, fmt.Errorf("декодирование профиля: %w", err)
	}
	if strings.TrimSpace(info.Email) == "" {
		return service.Identity{}, errs.Unauthorized("OAuth provider did not return an email")
	}

	subject := info.Sub
	if subject == "" && info.ID != nil {
		subject = fmt.Sprint(info.ID)
	}
	return service.Identity{Provider: strings.ToLower(name), Subject: subject, Email: info.Email}, nil
}
