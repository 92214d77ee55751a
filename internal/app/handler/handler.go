package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"clinic-backend/internal/app/dto"
	"clinic-backend/internal/app/repository"
	"clinic-backend/internal/app/role"
	"clinic-backend/internal/app/tariff"
)

// APIHandler содержит обработчики REST API тарифного движка
type APIHandler struct {
	Repository *repository.Repository
	Engine     *tariff.Engine
}

func NewAPIHandler(r *repository.Repository, e *tariff.Engine) *APIHandler {
	return &APIHandler{
		Repository: r,
		Engine:     e,
	}
}

// Получение текущего пользователя из контекста
func (h *APIHandler) getUserFromContext(c *gin.Context) (uint, role.Role, error) {
	userID, exists := c.Get("userID")
	if !exists {
		logrus.Warn("userID not found in context")
		return 0, role.Staff, fmt.Errorf("user not authenticated")
	}

	userRole, _ := c.Get("userRole")
	r, _ := userRole.(role.Role)

	id, ok := userID.(uint)
	if !ok {
		logrus.Errorf("getUserFromContext: invalid userID type: %T", userID)
		return 0, r, fmt.Errorf("invalid user ID")
	}

	return id, r, nil
}

// Дата расчёта из query-параметра date (по умолчанию — сегодня)
func (h *APIHandler) parseAsOf(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", dateStr)
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// successWithSync — успех мутации с возможным предупреждением синхронизации
// цены (предупреждение не блокирует операцию)
func (h *APIHandler) successWithSync(c *gin.Context, statusCode int, message string, sync *tariff.PriceSync, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	if sync != nil && sync.Warning != "" {
		response.Warning = "цена услуги не пересчитана: " + sync.Warning
	}
	c.JSON(statusCode, response)
}

// engineError переводит бизнес-ошибку движка в HTTP-ответ; инфраструктурные
// ошибки логируются и отдаются как 500 без деталей
func (h *APIHandler) engineError(c *gin.Context, err error) {
	kind, ok := tariff.KindOf(err)
	if !ok {
		logrus.Error("engine error: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	status := http.StatusUnprocessableEntity
	switch kind {
	case tariff.KindValidation:
		status = http.StatusBadRequest
	case tariff.KindNotFound:
		status = http.StatusNotFound
	case tariff.KindDuplicate, tariff.KindConflict:
		status = http.StatusConflict
	}

	resp := dto.ErrorResponse{
		Status:  "fail",
		Message: err.Error(),
	}
	var be *tariff.Error
	if errors.As(err, &be) {
		resp.Fields = be.Fields
	}
	c.JSON(status, resp)
}
