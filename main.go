package main

import (
	"os"

	"tripmarket-server/routes"
	"tripmarket-server/storage"
	"tripmarket-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/sirupsen/logrus"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeSupabase()

	app := iris.New()
	app.Validator = validator.New()

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
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Patch("/telegram", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.LinkTelegramChat)
		user.Get("/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserNotifications)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	experience := app.Party("/api/experience")
	{
		experience.Get("/public", routes.GetPublicExperiences)
		experience.Post("/quote", routes.QuoteSelection)
		experience.Get("/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserBookings)
		experience.Get("/host-bookings", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware, routes.GetHostBookings)
		experience.Post("/book", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateBooking)
		experience.Patch("/bookings/{id:uint}/mark-read", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware, routes.MarkBookingAsRead)
		experience.Delete("/bookings/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CancelBooking)

		experience.Get("/mine", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware, routes.GetBusinessExperiences)
		experience.Post("/", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware, routes.CreateExperience)
		experience.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware, routes.UpdateExperience)
		experience.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware, routes.DeleteExperience)
		experience.Get("/{id:uint}/availability", routes.GetExperienceAvailability)
		experience.Get("/{id:uint}", routes.GetExperienceDetails)
	}

	business := app.Party("/api/business", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware)
	{
		business.Get("/stats", routes.BusinessStats)
	}

	reviews := app.Party("/api/reviews")
	{
		reviews.Get("/experience/{id:uint}", routes.GetExperienceReviews)
		reviews.Post("/experience/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateExperienceReview)
	}

	app.Post("/api/payment/webhook", routes.PaymentWebhook)

	upload := app.Party("/api/upload", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware)
	{
		upload.Post("/experience-image", routes.UploadExperienceImage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	logrus.WithField("port", port).Info("starting server")
	if err := app.Listen(":" + port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
