package routes

import (
	"vigia/internal/handlers"
	"vigia/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	auth middleware.Authorizer,
	authHandler *handlers.AuthHandler,
	onboardingHandler *handlers.OnboardingHandler,
	paymentHandler *handlers.PaymentHandler,
	webhookHandler *handlers.WebhookHandler,
	messageHandler *handlers.MessageHandler,
	cameraHandler *handlers.CameraHandler,
	alertHandler *handlers.AlertHandler,
	communityHandler *handlers.CommunityHandler,
	adminHandler *handlers.AdminHandler,
	cepHandler *handlers.CEPHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Rotas públicas ---
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/admin-login", authHandler.AdminLogin).Methods("POST")
	api.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")

	api.HandleFunc("/payments/webhook", webhookHandler.HandleWebhook).Methods("POST")

	api.HandleFunc("/cep/{cep}", cepHandler.Lookup).Methods("GET")
	api.HandleFunc("/contacts", communityHandler.ListContacts).Methods("GET")

	// --- Autenticado (morador pode ainda não estar aprovado) ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth)

	protected.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	protected.HandleFunc("/profile", authHandler.Profile).Methods("GET")
	protected.HandleFunc("/profile", authHandler.UpdateProfile).Methods("PATCH")

	protected.HandleFunc("/onboarding/charge", onboardingHandler.InitialCharge).Methods("GET")
	protected.HandleFunc("/onboarding/report-payment", onboardingHandler.SelfReportPayment).Methods("POST")

	// --- Somente aprovados ---
	approved := protected.PathPrefix("").Subrouter()
	approved.Use(middleware.OnlyApproved(auth))

	approved.HandleFunc("/payments", paymentHandler.MyCharges).Methods("GET")

	approved.HandleFunc("/messages", messageHandler.Send).Methods("POST")
	approved.HandleFunc("/messages/stream", messageHandler.Stream).Methods("GET")
	approved.HandleFunc("/messages/with/{id:[0-9]+}", messageHandler.Conversation).Methods("GET")
	approved.HandleFunc("/messages/{id}/delivered", messageHandler.ConfirmDelivered).Methods("PATCH")
	approved.HandleFunc("/messages/{id}/read", messageHandler.ConfirmRead).Methods("PATCH")

	approved.HandleFunc("/groups", messageHandler.CreateGroup).Methods("POST")
	approved.HandleFunc("/groups", messageHandler.MyGroups).Methods("GET")
	approved.HandleFunc("/groups/{id:[0-9]+}/messages", messageHandler.GroupMessages).Methods("GET")
	approved.HandleFunc("/groups/{id:[0-9]+}/members", messageHandler.GroupMembers).Methods("GET")
	approved.HandleFunc("/groups/{id:[0-9]+}/join", messageHandler.JoinGroup).Methods("POST")
	approved.HandleFunc("/groups/{id:[0-9]+}/leave", messageHandler.LeaveGroup).Methods("POST")
	approved.HandleFunc("/groups/{id:[0-9]+}", messageHandler.DeleteGroup).Methods("DELETE")

	approved.HandleFunc("/cameras", cameraHandler.List).Methods("GET")
	approved.HandleFunc("/cameras/{id:[0-9]+}", cameraHandler.Get).Methods("GET")

	approved.HandleFunc("/alerts/emergency", alertHandler.Trigger).Methods("POST")
	approved.HandleFunc("/alerts/emergency", alertHandler.ListEmergency).Methods("GET")
	approved.HandleFunc("/alerts/weather", alertHandler.ListWeather).Methods("GET")

	approved.HandleFunc("/pets", communityHandler.RegisterPet).Methods("POST")
	approved.HandleFunc("/pets", communityHandler.ListPets).Methods("GET")
	approved.HandleFunc("/pets/{id:[0-9]+}/status", communityHandler.UpdatePetStatus).Methods("PATCH")
	approved.HandleFunc("/pets/{id:[0-9]+}", communityHandler.DeletePet).Methods("DELETE")

	approved.HandleFunc("/reports", communityHandler.SubmitReport).Methods("POST")

	// --- Back-office ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyAdmin(auth))

	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.UpdateUser).Methods("PATCH")
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/users/{id:[0-9]+}/approve", adminHandler.ApproveUser).Methods("POST")
	admin.HandleFunc("/roles", adminHandler.ListAdmins).Methods("GET")
	admin.HandleFunc("/roles/grant", adminHandler.GrantAdmin).Methods("POST")
	admin.HandleFunc("/roles/revoke", adminHandler.RevokeAdmin).Methods("POST")

	admin.HandleFunc("/payments", paymentHandler.ListAll).Methods("GET")
	admin.HandleFunc("/payments/{id:[0-9]+}", paymentHandler.UpdatePayment).Methods("PATCH")
	admin.HandleFunc("/payments/generate", paymentHandler.GenerateMonthly).Methods("POST")

	admin.HandleFunc("/cameras", cameraHandler.Create).Methods("POST")
	admin.HandleFunc("/cameras/{id:[0-9]+}", cameraHandler.Update).Methods("PATCH")
	admin.HandleFunc("/cameras/{id:[0-9]+}", cameraHandler.Delete).Methods("DELETE")

	admin.HandleFunc("/alerts/{id:[0-9]+}/resolve", alertHandler.Resolve).Methods("PATCH")

	admin.HandleFunc("/reports", communityHandler.ListReports).Methods("GET")
	admin.HandleFunc("/contacts", communityHandler.CreateContact).Methods("POST")
	admin.HandleFunc("/contacts/{id:[0-9]+}", communityHandler.UpdateContact).Methods("PUT")
	admin.HandleFunc("/contacts/{id:[0-9]+}", communityHandler.DeleteContact).Methods("DELETE")

	admin.HandleFunc("/stats", adminHandler.Stats).Methods("GET")
	admin.HandleFunc("/notifications", adminHandler.Notifications).Methods("GET")
	admin.HandleFunc("/notifications/{id:[0-9]+}/read", adminHandler.MarkNotificationRead).Methods("PATCH")
	admin.HandleFunc("/logs", adminHandler.AuditLogs).Methods("GET")
	admin.HandleFunc("/backup", adminHandler.TriggerBackup).Methods("POST")
}
