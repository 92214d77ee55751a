package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"clinic-backend/internal/app/ds"
	"clinic-backend/internal/app/dto"
	"clinic-backend/internal/app/tariff"
)

func toFactorResponse(f *ds.FactorSetting) dto.FactorResponse {
	return dto.FactorResponse{
		ID:            f.ID,
		ComponentType: string(f.ComponentType),
		Scope:         string(f.Scope),
		IsHashtagged:  f.IsHashtagged,
		Value:         f.Value,
		FinancialYear: f.FinancialYear,
		EffectiveFrom: f.EffectiveFrom,
		EffectiveTo:   f.EffectiveTo,
		Description:   f.Description,
		IsActive:      f.IsActive,
		IsFrozen:      f.IsFrozen,
		Version:       f.Version,
	}
}

func factorInputFromRequest(req dto.CreateFactorRequest) tariff.FactorInput {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return tariff.FactorInput{
		ComponentType: ds.FactorType(req.ComponentType),
		Scope:         ds.FactorScope(req.Scope),
		IsHashtagged:  req.IsHashtagged,
		Value:         req.Value,
		FinancialYear: req.FinancialYear,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
		Description:   req.Description,
		IsActive:      isActive,
	}
}

// ============ ДОМЕН ТАРИФНЫЕ КОЭФФИЦИЕНТЫ ============

// CreateFactor создает тарифный коэффициент
// @Summary Создание тарифного коэффициента
// @Description Создает коэффициент для типа компонента, года и признака хэштега (только для администраторов)
// @Tags Factors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFactorRequest true "Данные коэффициента"
// @Success 201 {object} dto.FactorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/factors [post]
func (h *APIHandler) CreateFactor(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	factor, err := h.Engine.CreateFactor(factorInputFromRequest(req), time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toFactorResponse(factor))
}

// UpdateFactor обновляет тарифный коэффициент
// @Summary Обновление тарифного коэффициента
// @Description Обновляет коэффициент; замороженные записи неизменяемы, у используемых в расчётах нельзя менять тип и значение
// @Tags Factors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID коэффициента"
// @Param request body dto.UpdateFactorRequest true "Данные для обновления"
// @Success 200 {object} dto.FactorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/factors/{id} [put]
func (h *APIHandler) UpdateFactor(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID коэффициента")
		return
	}

	var req dto.UpdateFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	upd := tariff.FactorUpdate{
		FactorInput: factorInputFromRequest(req.CreateFactorRequest),
		Version:     req.Version,
	}
	factor, err := h.Engine.UpdateFactor(uint(id), upd, time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, toFactorResponse(factor))
}

// DeleteFactor удаляет тарифный коэффициент
// @Summary Удаление тарифного коэффициента
// @Description Логически удаляет коэффициент; замороженные и используемые в расчётах записи удалить нельзя
// @Tags Factors
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID коэффициента"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/factors/{id} [delete]
func (h *APIHandler) DeleteFactor(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID коэффициента")
		return
	}

	if err := h.Engine.DeleteFactor(uint(id), time.Now(), userID); err != nil {
		h.engineError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Коэффициент успешно удален", nil)
}

// GetFactors возвращает коэффициенты финансового года
// @Summary Список коэффициентов года
// @Description Возвращает все неудалённые коэффициенты указанного финансового года
// @Tags Factors
// @Produce json
// @Security BearerAuth
// @Param year query int true "Финансовый год (иранский календарь)"
// @Success 200 {object} dto.FactorListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/factors [get]
func (h *APIHandler) GetFactors(c *gin.Context) {
	yearStr := c.Query("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil || year == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный финансовый год")
		return
	}

	factors, err := h.Engine.ListFactorsByYear(year)
	if err != nil {
		logrus.Error("Error listing factors: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения коэффициентов")
		return
	}

	dtoFactors := make([]dto.FactorResponse, len(factors))
	for i := range factors {
		dtoFactors[i] = toFactorResponse(&factors[i])
	}

	c.JSON(http.StatusOK, dto.FactorListResponse{
		Factors: dtoFactors,
		Total:   len(dtoFactors),
	})
}

// GetFactorInUse проверяет использование коэффициента в расчётах
// @Summary Проверка использования коэффициента
// @Description Сообщает, разрешается ли коэффициент как активный хотя бы одной услугой
// @Tags Factors
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID коэффициента"
// @Success 200 {object} dto.FactorInUseResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/factors/{id}/in-use [get]
func (h *APIHandler) GetFactorInUse(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID коэффициента")
		return
	}

	used, err := h.Engine.IsFactorUsedInCalculations(uint(id), time.Now())
	if err != nil {
		h.engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FactorInUseResponse{
		FactorID: uint(id),
		InUse:    used,
	})
}

// FreezeYear замораживает финансовый год
// @Summary Заморозка финансового года
// @Description Необратимо замораживает все активные коэффициенты года; повторная заморозка — не ошибка
// @Tags Factors
// @Produce json
// @Security BearerAuth
// @Param year path int true "Финансовый год"
// @Success 200 {object} dto.FreezeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/factors/freeze/{year} [post]
func (h *APIHandler) FreezeYear(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	yearStr := c.Param("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil || year == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный финансовый год")
		return
	}

	frozen, err := h.Engine.FreezeFinancialYear(year, userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FreezeResponse{
		FinancialYear: year,
		FrozenCount:   frozen,
	})
}
