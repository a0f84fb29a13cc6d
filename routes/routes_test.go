package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"tripmarket-server/booking"
	"tripmarket-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestApp creates a minimal iris app with the business party and JWT
// verifier. Handlers behind the middleware are stubbed so no database is
// needed; only the auth path is under test here.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	business := app.Party("/api/business", accessTokenVerifierMiddleware, utils.BusinessOnlyMiddleware)
	{
		business.Get("/stats", func(ctx iris.Context) {
			ctx.JSON(iris.Map{"success": true})
		})
	}
	return app
}

func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func TestBusinessStatsRBAC(t *testing.T) {
	app := buildTestApp()
	require.NoError(t, app.Build())

	req := httptest.NewRequest(http.MethodGet, "/api/business/stats", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	assert.NotEqual(t, http.StatusOK, resp.Code, "missing token must not pass")

	req2 := httptest.NewRequest(http.MethodGet, "/api/business/stats", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	assert.Equal(t, http.StatusForbidden, resp2.Code)

	req3 := httptest.NewRequest(http.MethodGet, "/api/business/stats", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken("business"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	assert.Equal(t, http.StatusOK, resp3.Code)
}

func TestPaymentWebhookRejectsBadSecret(t *testing.T) {
	os.Setenv("PAYMENT_WEBHOOK_SECRET", "topsecret")
	app := iris.New()
	app.Post("/api/payment/webhook", PaymentWebhook)
	require.NoError(t, app.Build())

	body := strings.NewReader(`{"reference":"abc","event":"payment.succeeded"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", body)
	req.Header.Set("X-Webhook-Secret", "wrong")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestPaymentWebhookAcksIgnoredEvents(t *testing.T) {
	os.Setenv("PAYMENT_WEBHOOK_SECRET", "topsecret")
	app := iris.New()
	app.Post("/api/payment/webhook", PaymentWebhook)
	require.NoError(t, app.Build())

	body := strings.NewReader(`{"reference":"abc","event":"payment.failed"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", body)
	req.Header.Set("X-Webhook-Secret", "topsecret")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func quotePackage() []booking.PackageOption {
	adult := booking.AgeCategory{ID: "adult", Label: "Adult", MinAge: 13, Price: 50}
	child := booking.AgeCategory{ID: "child", Label: "Child", MinAge: 4, Price: 30}
	return []booking.PackageOption{{
		Name:       "Standard",
		Categories: []booking.AgeCategory{adult, child},
		TimeSlots:  []booking.TimeSlot{{StartTime: "09:00", EndTime: "12:00"}},
	}}
}

func TestReplaySelectionComputesTotal(t *testing.T) {
	packages := quotePackage()
	date := booking.AvailableDates(nil, nil, 0, time.Now())[0]

	sel, errMsg := replaySelection(packages, 10, 0, date, "09:00", map[string]int{"adult": 2, "child": 1})
	require.Empty(t, errMsg)
	assert.Equal(t, 3, sel.TotalParticipants())
	assert.InDelta(t, 130.0, sel.Total(), 1e-9)
}

func TestReplaySelectionRejectsBadInput(t *testing.T) {
	packages := quotePackage()
	date := booking.AvailableDates(nil, nil, 0, time.Now())[0]

	_, errMsg := replaySelection(packages, 10, 5, date, "09:00", map[string]int{"adult": 1})
	assert.NotEmpty(t, errMsg, "out-of-range package index")

	_, errMsg = replaySelection(packages, 10, 0, date, "15:00", map[string]int{"adult": 1})
	assert.NotEmpty(t, errMsg, "unknown start time")

	_, errMsg = replaySelection(packages, 10, 0, date, "09:00", map[string]int{"adult": 0})
	assert.NotEmpty(t, errMsg, "first tier below its floor")

	_, errMsg = replaySelection(packages, 3, 0, date, "09:00", map[string]int{"adult": 4})
	assert.NotEmpty(t, errMsg, "over the participant cap")

	_, errMsg = replaySelection(packages, 10, 0, date, "09:00", map[string]int{"senior": 1})
	assert.NotEmpty(t, errMsg, "unknown category key")
}
