package service

import (
	"strings"
	"suru/internal/errs"
	"suru/internal/models/vo"

	"github.com/google/uuid"
)

// Caller - аутентифицированный пользователь, от имени которого выполняется операция
type Caller struct {
	UserID string
}

func NewCaller(userID string) Caller {
	return Caller{UserID: strings.TrimSpace(userID)}
}

func (c Caller) IsAnonymous() bool {
	return c.UserID == ""
}

func (c Caller) require() error {
	if c.IsAnonymous() {
		return errs.Unauthorized("Authentication required")
	}
	return nil
}

// userUUID нужен auth-сценариям, где пользователь адресуется по UUID
func (c Caller) userUUID() (uuid.UUID, error) {
	if err := c.require(); err != nil {
		return uuid.Nil, err
	}
	id, err := vo.ParseID("User ID", c.UserID)
	if err != nil {
		return uuid.Nil, errs.Unauthorized("Invalid caller identity")
	}
	return id, nil
}
