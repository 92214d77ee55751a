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

func toServiceResponse(s *ds.MedicalService) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:           s.ID,
		Code:         s.Code,
		Name:         s.Name,
		Description:  s.Description,
		IsHashtagged: s.IsHashtagged,
		Price:        s.Price,
		PriceStale:   s.PriceStale,
		PricedAt:     s.PricedAt,
		IsActive:     s.IsActive,
	}
}

func toCalculationResponse(calc *tariff.Calculation) dto.CalculationResponse {
	components := make([]dto.BreakdownItemResponse, len(calc.Components))
	for i, comp := range calc.Components {
		components[i] = dto.BreakdownItemResponse{
			ComponentType: string(comp.ComponentType),
			Coefficient:   comp.Coefficient,
			FactorValue:   comp.FactorValue,
			Source:        comp.Source,
			Contribution:  comp.Contribution,
		}
	}
	return dto.CalculationResponse{
		Reference:     calc.Reference.String(),
		ServiceID:     calc.ServiceID,
		DepartmentID:  calc.DepartmentID,
		FinancialYear: calc.FinancialYear,
		AsOf:          calc.AsOf,
		Components:    components,
		Total:         calc.Total,
	}
}

// ============ ДОМЕН УСЛУГИ ============

// GetServices получает список услуг
// @Summary Получение списка услуг
// @Description Возвращает список услуг с возможностью поиска по наименованию или коду
// @Tags Services
// @Produce json
// @Param query query string false "Поиск по наименованию или коду"
// @Success 200 {object} dto.ServiceListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/services [get]
func (h *APIHandler) GetServices(c *gin.Context) {
	searchQuery := c.Query("query")

	services, err := h.Repository.ListServices(searchQuery)
	if err != nil {
		logrus.Error("Error getting services: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения услуг")
		return
	}

	dtoServices := make([]dto.ServiceResponse, len(services))
	for i := range services {
		dtoServices[i] = toServiceResponse(&services[i])
	}

	c.JSON(http.StatusOK, dto.ServiceListResponse{
		Services: dtoServices,
		Total:    len(dtoServices),
	})
}

// GetService получает одну услугу
// @Summary Получение услуги по ID
// @Description Возвращает услугу вместе с кэшированной ценой
// @Tags Services
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} dto.ServiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/services/{id} [get]
func (h *APIHandler) GetService(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID услуги")
		return
	}

	service, err := h.Repository.GetService(uint(id))
	if err != nil {
		logrus.Error("Error getting service: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения услуги")
		return
	}
	if service == nil {
		h.errorResponse(c, http.StatusNotFound, "Услуга не найдена")
		return
	}

	c.JSON(http.StatusOK, toServiceResponse(service))
}

// CreateService создает новую услугу
// @Summary Создание услуги
// @Description Создает услугу с начальными компонентами и сразу рассчитывает цену (только для администраторов)
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateServiceRequest true "Данные услуги"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/services [post]
func (h *APIHandler) CreateService(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	service, sync, err := h.Engine.CreateService(tariff.ServiceInput{
		Code:              req.Code,
		Name:              req.Name,
		Description:       req.Description,
		IsHashtagged:      req.IsHashtagged,
		TechnicalCoeff:    req.TechnicalCoeff,
		ProfessionalCoeff: req.ProfessionalCoeff,
	}, time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	h.successWithSync(c, http.StatusCreated, "Услуга успешно создана", sync, toServiceResponse(service))
}

// CreateServiceFromTemplate создает услугу по шаблону
// @Summary Создание услуги по шаблону
// @Description Создает услугу с коэффициентами по умолчанию из шаблона (только для администраторов)
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateServiceFromTemplateRequest true "Шаблон и данные услуги"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/services/from-template [post]
func (h *APIHandler) CreateServiceFromTemplate(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateServiceFromTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	service, sync, err := h.Engine.CreateServiceFromTemplate(req.TemplateID, req.Code, req.Name, time.Now(), userID)
	if err != nil {
		h.engineError(c, err)
		return
	}

	h.successWithSync(c, http.StatusCreated, "Услуга успешно создана по шаблону", sync, toServiceResponse(service))
}

// GetServicePrice рассчитывает цену услуги
// @Summary Расчет цены услуги
// @Description Рассчитывает цену услуги на дату с расшифровкой по компонентам
// @Tags Services
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID услуги"
// @Param date query string false "Дата расчёта (формат: 2006-01-02)"
// @Success 200 {object} dto.CalculationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/services/{id}/price [get]
func (h *APIHandler) GetServicePrice(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID услуги")
		return
	}

	asOf, err := h.parseAsOf(c.Query("date"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверная дата расчёта")
		return
	}

	calc, err := h.Engine.CalculatePrice(uint(id), asOf)
	if err != nil {
		h.engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCalculationResponse(calc))
}
