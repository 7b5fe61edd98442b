package service

import (
	"errors"
	"fmt"
	"strings"
	"suru/internal/errs"
	"suru/internal/logger"
	rep "suru/internal/repository"

	"go.uber.org/zap"
)

// translate переводит ошибки хранилища в ошибки бизнес-логики
func translate(err error, resource, id string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, rep.ErrNotFound):
		logger.Info("Service: Запись не найдена", zap.String("resource", resource), zap.String("target_id", id))
		return errs.NotFound(resource, id)
	case errors.Is(err, rep.ErrVersionConflict):
		logger.Warn("Service: Конфликт версий при сохранении", zap.String("resource", resource), zap.String("target_id", id))
		return versionConflict(resource)
	case errors.Is(err, rep.ErrDuplicate):
		return errs.Conflict(resource+" already exists", err)
	}
	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return fmt.Errorf("%s %s: %w", strings.ToLower(resource), id, err)
}

func versionConflict(resource string) *errs.Error {
	lower := strings.ToLower(resource)
	return errs.Conflict(
		fmt.Sprintf("%s version conflict - %s was modified by another process", resource, lower),
		rep.ErrVersionConflict,
	)
}

// checkVersion сверяет версию клиента с загруженной до вызова мутатора
func checkVersion(resource, id string, expected, actual int) error {
	if expected == actual {
		return nil
	}
	logger.Info("Service: Клиент прислал устаревшую версию",
		zap.String("resource", resource),
		zap.String("target_id", id),
		zap.Int("expected", expected),
		zap.Int("actual", actual),
	)
	return versionConflict(resource)
}

// pageWindow возвращает нормализованные page, limit и offset
func pageWindow(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	limit := rep.NormalizeLimit(pageSize)
	return page, limit, rep.Offset(page, limit)
}
