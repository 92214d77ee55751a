package handler

import (
	"clinic-backend/internal/app/middleware"
	"clinic-backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	// REST API маршруты
	api := router.Group("/api")

	// ============ Тарифные коэффициенты (Factors) ============
	factors := api.Group("/factors")
	{
		// Для всех авторизованных пользователей
		factors.GET("", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GetFactors)                 // GET список за год
		factors.GET("/:id/in-use", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GetFactorInUse) // GET признак использования

		// Только для администраторов (управление коэффициентами)
		factors.POST("", authMiddleware.WithAuthCheck(role.Admin), h.CreateFactor)       // POST создание
		factors.PUT("/:id", authMiddleware.WithAuthCheck(role.Admin), h.UpdateFactor)    // PUT изменение
		factors.DELETE("/:id", authMiddleware.WithAuthCheck(role.Admin), h.DeleteFactor) // DELETE удаление

		// Заморозка финансового года (необратимая операция)
		factors.POST("/freeze/:year", authMiddleware.WithAuthCheck(role.Admin), h.FreezeYear)
	}

	// ============ Медицинские услуги (Services) ============
	services := api.Group("/services")
	{
		services.GET("", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GetServices)            // GET список с поиском
		services.GET("/:id", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GetService)         // GET одна запись
		services.GET("/:id/price", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GetServicePrice) // GET расчёт цены

		// Только для администраторов
		services.POST("", authMiddleware.WithAuthCheck(role.Admin), h.CreateService)                             // POST создание
		services.POST("/from-template", authMiddleware.WithAuthCheck(role.Admin), h.CreateServiceFromTemplate) // POST по шаблону
	}

	// ============ Компоненты услуг (Components) ============
	components := api.Group("/components")
	components.Use(authMiddleware.WithAuthCheck(role.Admin))
	{
		components.POST("", h.CreateComponent)       // POST добавление компонента
		components.PUT("/:id", h.UpdateComponent)    // PUT изменение коэффициента
		components.DELETE("/:id", h.DeleteComponent) // DELETE удаление компонента
	}

	// ============ Разделяемые услуги отделений (Shared Services) ============
	sharedServices := api.Group("/shared-services")
	{
		// Расчёт доступен всем авторизованным (что-если сценарии)
		sharedServices.POST("/calculate", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.CalculateSharedService)

		// Только для администраторов
		sharedServices.POST("", authMiddleware.WithAuthCheck(role.Admin), h.CreateSharedService)
		sharedServices.PUT("/:id/overrides", authMiddleware.WithAuthCheck(role.Admin), h.UpdateSharedServiceOverrides)
		sharedServices.DELETE("/:id", authMiddleware.WithAuthCheck(role.Admin), h.DeleteSharedService)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
