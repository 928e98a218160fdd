package main

import (
	"fmt"
	"log"
	"os"

	"github.com/theophane330/HABIPRO-NEW/routes"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint - CRITICAL for Render
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/profile", accessTokenVerifierMiddleware, routes.GetProfile)
		user.Patch("/profile", accessTokenVerifierMiddleware, routes.UpdateProfile)
		user.Post("/password", accessTokenVerifierMiddleware, routes.ChangePassword)
		user.Delete("/", accessTokenVerifierMiddleware, routes.DeleteAccount)
		user.Patch("/{id}/pushtoken", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterPushToken)
		user.Patch("/{id}/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AllowsNotifications)
	}

	property := app.Party("/api/property")
	{
		property.Get("/{id}", routes.GetProperty)
		property.Post("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.CreateProperty)
		property.Get("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.GetOwnerProperties)
		property.Patch("/{id}", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.UpdateProperty)
		property.Patch("/{id}/status", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.UpdatePropertyStatus)
		property.Delete("/{id}", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.DeleteProperty)
	}

	tenant := app.Party("/api/tenant", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware)
	{
		tenant.Post("/", routes.CreateTenant)
		tenant.Get("/", routes.GetOwnerTenants)
		tenant.Patch("/{id}", routes.UpdateTenant)
		tenant.Delete("/{id}", routes.DeleteTenant)
		tenant.Get("/{id}/schedule", routes.GetTenantSchedule)
	}

	lease := app.Party("/api/lease", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware)
	{
		lease.Post("/", routes.CreateLease)
		lease.Get("/", routes.GetOwnerLeases)
		lease.Get("/{id}", routes.GetLease)
		lease.Post("/{id}/terminate", routes.TerminateLease)
	}

	contract := app.Party("/api/contract")
	{
		contract.Post("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.CreateContract)
		contract.Get("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.GetOwnerContracts)
		contract.Post("/{id}/sign", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.SignContract)
		contract.Post("/{id}/terminate", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.TerminateContract)
		contract.Get("/mine", accessTokenVerifierMiddleware, utils.TenantOnlyMiddleware, routes.GetTenantContracts)
	}

	payment := app.Party("/api/payment")
	{
		payment.Post("/", accessTokenVerifierMiddleware, utils.TenantOnlyMiddleware, routes.CreatePayment)
		payment.Get("/mine", accessTokenVerifierMiddleware, utils.TenantOnlyMiddleware, routes.GetTenantPayments)
		payment.Get("/mine/statistics", accessTokenVerifierMiddleware, utils.TenantOnlyMiddleware, routes.GetTenantPaymentStatistics)
		payment.Get("/mine/schedule", accessTokenVerifierMiddleware, utils.TenantOnlyMiddleware, routes.GetTenantPaymentSchedule)
		payment.Get("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.GetOwnerPayments)
	}

	maintenance := app.Party("/api/maintenance")
	{
		maintenance.Post("/", accessTokenVerifierMiddleware, utils.TenantOnlyMiddleware, routes.CreateMaintenanceRequest)
		maintenance.Get("/mine", accessTokenVerifierMiddleware, utils.TenantOnlyMiddleware, routes.GetTenantMaintenanceRequests)
		maintenance.Get("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.GetOwnerMaintenanceRequests)
		maintenance.Post("/{id}/assign", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.AssignMaintenanceProvider)
		maintenance.Post("/{id}/start", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.StartMaintenanceWork)
		maintenance.Post("/{id}/resolve", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.ResolveMaintenanceRequest)
		maintenance.Post("/{id}/reject", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.RejectMaintenanceRequest)
	}

	visit := app.Party("/api/visit")
	{
		visit.Post("/", routes.CreateVisitRequest)
		visit.Get("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.GetOwnerVisitRequests)
		visit.Post("/{id}/accept", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.AcceptVisitRequest)
		visit.Post("/{id}/decline", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.DeclineVisitRequest)
	}

	prestataire := app.Party("/api/prestataire", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware)
	{
		prestataire.Post("/", routes.CreatePrestataire)
		prestataire.Get("/", routes.GetOwnerPrestataires)
		prestataire.Patch("/{id}", routes.UpdatePrestataire)
		prestataire.Delete("/{id}", routes.DeletePrestataire)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware)
	{
		notifications.Get("/", routes.GetNotifications)
		notifications.Patch("/{id}/read", routes.MarkNotificationRead)
		notifications.Post("/read-all", routes.MarkAllNotificationsRead)
	}

	dashboard := app.Party("/api/dashboard", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware)
	{
		dashboard.Get("/stats", routes.GetDashboardStats)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/audit", routes.AdminListAuditLogs)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
