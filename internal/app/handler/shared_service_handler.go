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

func toSharedServiceResponse(ss *ds.SharedService) dto.SharedServiceResponse {
	return dto.SharedServiceResponse{
		ID:                         ss.ID,
		ServiceID:                  ss.ServiceID,
		DepartmentID:               ss.DepartmentID,
		OverrideTechnicalFactor:    ss.OverrideTechnicalFactor,
		OverrideProfessionalFactor: ss.OverrideProfessionalFactor,
		IsActive:                   ss.IsActive,
	}
}

// ============ ДОМЕН РАЗДЕЛЯЕМЫЕ УСЛУГИ ============

// CreateSharedService привязывает услугу к отделению
// @Summary Создание разделяемой услуги
// @Description Привязывает услугу к отделению с опциональными переопределениями коэффициентов (только для администраторов)
// @Tags SharedServices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSharedServiceRequest true "Данные привязки"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/shared-services [post]
func (h *APIHandler) CreateSharedService(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateSharedServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	shared, sync, err := h.Engine.CreateSharedService(tariff.SharedServiceInput{
		ServiceID:                  req.ServiceID,
		DepartmentID:               req.DepartmentID,
		OverrideTechnicalFactor:    req.OverrideTechnicalFactor,
		OverrideProfessionalFactor: req.OverrideProfessionalFactor,
		IsActive:                   true,
	}, time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	h.successWithSync(c, http.StatusCreated, "Разделяемая услуга успешно создана", sync, toSharedServiceResponse(shared))
}

// UpdateSharedServiceOverrides обновляет переопределения коэффициентов
// @Summary Обновление переопределений
// @Description Обновляет переопределения коэффициентов разделяемой услуги (только для администраторов)
// @Tags SharedServices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID разделяемой услуги"
// @Param request body dto.UpdateOverridesRequest true "Новые переопределения"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/shared-services/{id}/overrides [put]
func (h *APIHandler) UpdateSharedServiceOverrides(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID разделяемой услуги")
		return
	}

	var req dto.UpdateOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	shared, sync, err := h.Engine.UpdateSharedServiceOverrides(uint(id), req.OverrideTechnicalFactor, req.OverrideProfessionalFactor, time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	h.successWithSync(c, http.StatusOK, "Переопределения успешно обновлены", sync, toSharedServiceResponse(shared))
}

// DeleteSharedService удаляет привязку услуги к отделению
// @Summary Удаление разделяемой услуги
// @Description Удаляет привязку услуги к отделению (только для администраторов)
// @Tags SharedServices
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID разделяемой услуги"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/shared-services/{id} [delete]
func (h *APIHandler) DeleteSharedService(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID разделяемой услуги")
		return
	}

	sync, err := h.Engine.DeleteSharedService(uint(id), time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	h.successWithSync(c, http.StatusOK, "Разделяемая услуга успешно удалена", sync, nil)
}

// CalculateSharedService рассчитывает цену услуги в отделении
// @Summary Расчет цены в отделении
// @Description Рассчитывает цену услуги с учётом переопределений отделения; явные переопределения в запросе имеют приоритет над сохранёнными
// @Tags SharedServices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SharedCalculationRequest true "Параметры расчёта"
// @Success 200 {object} dto.CalculationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/shared-services/calculate [post]
func (h *APIHandler) CalculateSharedService(c *gin.Context) {
	var req dto.SharedCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	asOf, err := h.parseAsOf(req.Date)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверная дата расчёта")
		return
	}

	calc, err := h.Engine.CalculateSharedServicePrice(req.ServiceID, req.DepartmentID, req.OverrideTechnicalFactor, req.OverrideProfessionalFactor, asOf)
	if err != nil {
		h.engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCalculationResponse(calc))
}
