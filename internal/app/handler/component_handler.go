package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-backend/internal/app/ds"
	"clinic-backend/internal/app/dto"
	"clinic-backend/internal/app/tariff"
)

func toComponentResponse(c *ds.ServiceComponent) dto.ComponentResponse {
	return dto.ComponentResponse{
		ID:            c.ID,
		ServiceID:     c.ServiceID,
		ComponentType: string(c.ComponentType),
		Coefficient:   c.Coefficient,
		IsActive:      c.IsActive,
		Version:       c.Version,
	}
}

// ============ ДОМЕН КОМПОНЕНТЫ УСЛУГ ============

// CreateComponent добавляет компонент услуге
// @Summary Добавление компонента услуги
// @Description Добавляет технический или профессиональный компонент; цена услуги пересчитывается в той же транзакции
// @Tags Components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateComponentRequest true "Данные компонента"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/components [post]
func (h *APIHandler) CreateComponent(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	comp, sync, err := h.Engine.AddComponent(tariff.ComponentInput{
		ServiceID:     req.ServiceID,
		ComponentType: ds.FactorType(req.ComponentType),
		Coefficient:   req.Coefficient,
		IsActive:      isActive,
	}, time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	h.successWithSync(c, http.StatusCreated, "Компонент успешно добавлен", sync, toComponentResponse(comp))
}

// UpdateComponent обновляет компонент услуги
// @Summary Обновление компонента услуги
// @Description Изменяет коэффициент или активность компонента; цена услуги пересчитывается в той же транзакции
// @Tags Components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID компонента"
// @Param request body dto.UpdateComponentRequest true "Данные для обновления"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/components/{id} [put]
func (h *APIHandler) UpdateComponent(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID компонента")
		return
	}

	var req dto.UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	comp, sync, err := h.Engine.UpdateComponent(uint(id), tariff.ComponentUpdate{
		ComponentType: ds.FactorType(req.ComponentType),
		Coefficient:   req.Coefficient,
		IsActive:      isActive,
		Version:       req.Version,
	}, time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	h.successWithSync(c, http.StatusOK, "Компонент успешно обновлен", sync, toComponentResponse(comp))
}

// DeleteComponent удаляет компонент услуги
// @Summary Удаление компонента услуги
// @Description Логически удаляет компонент; цена владеющей услуги пересчитывается в той же транзакции
// @Tags Components
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID компонента"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/components/{id} [delete]
func (h *APIHandler) DeleteComponent(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID компонента")
		return
	}

	sync, err := h.Engine.RemoveComponent(uint(id), time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	h.successWithSync(c, http.StatusOK, "Компонент успешно удален", sync, nil)
}
