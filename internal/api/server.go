package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/eventhub-app/eventhub-api/docs"
	v1 "github.com/eventhub-app/eventhub-api/internal/api/handler/v1"
	"github.com/eventhub-app/eventhub-api/internal/api/middleware"
	"github.com/eventhub-app/eventhub-api/internal/config"
	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	EventService *service.EventService
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	eventHandler := s.initEventHandler(db)
	locationHandler := s.initLocationHandler(db)
	categoryHandler := s.initCategoryHandler(db)
	ticketHandler := s.initTicketHandler(db)
	userHandler := s.initUserHandler(db)
	adminHandler := s.initAdminHandler(db)
	settingHandler := s.initSettingHandler(db)
	contactHandler := v1.NewContactHandler(s.notifier())
	s.MountHandlers(authHandler, eventHandler, locationHandler, categoryHandler, ticketHandler, userHandler, adminHandler, settingHandler, contactHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	categoryRepo := repository.NewCategoryRepository(dao.NewCategoryDAO(db))
	locationRepo := repository.NewLocationRepository(dao.NewLocationDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	notifier := s.notifier()

	svc := service.NewEventService(eventRepo, categoryRepo, locationRepo, userRepo, notifier)
	s.EventService = svc

	regSvc := service.NewRegistrationService(ticketRepo, eventRepo, userRepo, notifier)
	handler := v1.NewEventHandler(svc, regSvc)

	return handler
}

func (s *Server) initLocationHandler(db *gorm.DB) *v1.LocationHandler {
	repo := repository.NewLocationRepository(dao.NewLocationDAO(db))
	svc := service.NewLocationService(repo)
	handler := v1.NewLocationHandler(svc)

	return handler
}

func (s *Server) initCategoryHandler(db *gorm.DB) *v1.CategoryHandler {
	repo := repository.NewCategoryRepository(dao.NewCategoryDAO(db))
	svc := service.NewCategoryService(repo)
	handler := v1.NewCategoryHandler(svc)

	return handler
}

func (s *Server) initTicketHandler(db *gorm.DB) *v1.TicketHandler {
	repo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	svc := service.NewTicketService(repo)
	handler := v1.NewTicketHandler(svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewUserService(userRepo, eventRepo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initAdminHandler(db *gorm.DB) *v1.AdminHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	locationRepo := repository.NewLocationRepository(dao.NewLocationDAO(db))
	categoryRepo := repository.NewCategoryRepository(dao.NewCategoryDAO(db))
	svc := service.NewAdminService(userRepo, eventRepo, locationRepo, categoryRepo)
	handler := v1.NewAdminHandler(svc)

	return handler
}

func (s *Server) initSettingHandler(db *gorm.DB) *v1.SettingHandler {
	repo := repository.NewSettingRepository(dao.NewSettingDAO(db))
	svc := service.NewSettingService(repo)
	handler := v1.NewSettingHandler(svc)

	return handler
}

func (s *Server) notifier() service.Notifier {
	smtp := s.Config.SMTP
	if smtp == nil || smtp.Host == "" {
		return service.NopNotifier{}
	}

	return service.NewEmailNotifier(service.SMTPConfig{
		Host:      smtp.Host,
		Port:      smtp.Port,
		Username:  smtp.Username,
		Password:  smtp.Password,
		From:      smtp.From,
		ContactTo: smtp.ContactTo,
	})
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	eventHandler *v1.EventHandler,
	locationHandler *v1.LocationHandler,
	categoryHandler *v1.CategoryHandler,
	ticketHandler *v1.TicketHandler,
	userHandler *v1.UserHandler,
	adminHandler *v1.AdminHandler,
	settingHandler *v1.SettingHandler,
	contactHandler *v1.ContactHandler,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/settings", settingHandler.HandleGetSettings)
		public.POST("/contact", contactHandler.HandleContact)
		public.GET("/categories", categoryHandler.HandleListCategories)
		public.GET("/categories/:categoryID", categoryHandler.HandleGetCategory)
	}

	// Reads are open to anonymous callers; a token widens what they see.
	browse := s.Router.Group(basePath, authenticator.OptionalJWT())
	{
		browse.GET("/events", eventHandler.HandleListEvents)
		browse.GET("/events/:eventID", eventHandler.HandleGetEvent)
		browse.GET("/locations", locationHandler.HandleListLocations)
		browse.GET("/locations/:locationID", locationHandler.HandleGetLocation)
	}

	authed := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		authed.GET("/events/:eventID/registration", ticketHandler.HandleIsRegistered)

		authed.GET("/tickets/my-tickets", ticketHandler.HandleMyTickets)

		authed.GET("/users/me", userHandler.HandleGetMe)
		authed.PUT("/users/me", userHandler.HandleUpdateMe)
		authed.GET("/users/me/dashboard-stats", userHandler.HandleDashboardStats)
		authed.GET("/users/me/events-with-participants", userHandler.HandleEventsWithParticipants)
		authed.GET("/users/me/participated-events", userHandler.HandleParticipatedEvents)
	}

	// Creating and managing events and venues is an organizer surface;
	// admins share it through their override authority.
	organizer := s.Router.Group(basePath, authenticator.VerifyJWT(),
		middleware.RequireRole(domain.RoleOrganizer, domain.RoleAdmin))
	{
		organizer.POST("/events", eventHandler.HandleCreateEvent)
		organizer.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		organizer.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		organizer.PATCH("/events/:eventID/submit-for-approval", eventHandler.HandleSubmitEvent)
		organizer.PATCH("/events/:eventID/cancel-approval", eventHandler.HandleCancelApproval)
		organizer.PATCH("/events/:eventID/cancel", eventHandler.HandleCancelEvent)
		organizer.PATCH("/events/:eventID/revert-to-draft", eventHandler.HandleRevertToDraft)
		organizer.PATCH("/events/:eventID/revert-from-rejection", eventHandler.HandleRevertRejection)

		organizer.POST("/locations", locationHandler.HandleCreateLocation)
		organizer.PUT("/locations/:locationID", locationHandler.HandleUpdateLocation)
	}

	participant := s.Router.Group(basePath, authenticator.VerifyJWT(),
		middleware.RequireRole(domain.RoleParticipant))
	{
		participant.POST("/events/:eventID/register", eventHandler.HandleRegister)
		participant.POST("/events/:eventID/simulate-payment", eventHandler.HandleSimulatePayment)
		participant.DELETE("/events/:eventID/register", eventHandler.HandleUnregister)
	}

	admin := s.Router.Group(basePath, authenticator.VerifyJWT(), middleware.RequireRole(domain.RoleAdmin))
	{
		admin.PATCH("/events/:eventID/approve", eventHandler.HandleApproveEvent)
		admin.PATCH("/events/:eventID/reject", eventHandler.HandleRejectEvent)
		admin.POST("/admin/events/finish-past", eventHandler.HandleFinishPastEvents)

		admin.PATCH("/locations/:locationID/approve", locationHandler.HandleApproveLocation)
		admin.PATCH("/locations/:locationID/reject", locationHandler.HandleRejectLocation)
		admin.PATCH("/locations/:locationID/set-pending", locationHandler.HandleSetLocationPending)
		admin.DELETE("/locations/:locationID", locationHandler.HandleDeleteLocation)

		admin.POST("/categories", categoryHandler.HandleCreateCategory)
		admin.PUT("/categories/:categoryID", categoryHandler.HandleUpdateCategory)
		admin.DELETE("/categories/:categoryID", categoryHandler.HandleDeleteCategory)

		admin.GET("/admin/users", adminHandler.HandleListUsers)
		admin.PATCH("/admin/users/:userID/role", adminHandler.HandleUpdateUserRole)
		admin.DELETE("/admin/users/:userID", adminHandler.HandleDeleteUser)
		admin.GET("/admin/dashboard", adminHandler.HandleAdminDashboard)
		admin.GET("/admin/event-activity-stats", adminHandler.HandleEventActivityStats)

		admin.PUT("/admin/settings", settingHandler.HandleUpdateSettings)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "EventHub API"
	docs.SwaggerInfo.Description = "Event management platform backend."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
