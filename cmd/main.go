// Backend for the TRAC System admin console authentication
package main

import (
	"fmt"
	"time"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/rcctracs/tracs-auth/config"
	"github.com/rcctracs/tracs-auth/connect"
	"github.com/rcctracs/tracs-auth/controllers"
	"github.com/rcctracs/tracs-auth/services"
	"github.com/rcctracs/tracs-auth/utils"
)

var (
	env  config.Env
	conn connect.Connector
)

func init() {
	env.Load()

	conn.InitDatabase(&env)
	utils.CheckForMigrations(&conn, &env)

	conn.InitRatelimiter(&env)
	conn.InitRedis(&env)
}

func main() {
	app := fiber.New()
	if config.GetDevEnv(&env) == config.Dev {
		app.Use(fiberLogger.New())
	}

	app.Use(cors.New(cors.Config{
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowOrigins:     env.FrontendHostname,
		AllowCredentials: true,
		AllowMethods:     "*",
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusTooManyRequests)
		},
		SkipFailedRequests:     false,
		SkipSuccessfulRequests: false,
		LimiterMiddleware:      limiter.SlidingWindow{},
		Storage:                conn.Ratelimter,
	}))

	authC := controllers.Auth{
		Conn: &conn,
		Env:  &env,
	}
	systemC := controllers.System{
		Conn: &conn,
	}

	app.Route("/auth", func(router fiber.Router) {
		router.Post("/register", authC.RegisterWEmailAndPassword)
		router.Post("/login", authC.LoginWEmailAndPassword)
		router.Post("/otp/request", authC.RequestOtp)
		router.Post("/otp/verify", authC.VerifyOtp)
	})

	app.Route("/system", func(router fiber.Router) {
		router.Get("/health", systemC.Health)
	})

	app.Route("/monitor", func(router fiber.Router) {
		router.Get("/metrics", monitor.New(monitor.Config{
			Title: "Monitor TRACS Auth",
		}))
	})

	if env.OtpSweepInterval > 0 {
		go sweepExpiredOtps()
	}

	logger.Errorf(app.Listen(fmt.Sprintf(":%s", env.Port)))
}

// sweepExpiredOtps periodically deletes OTP rows that are past their expiry.
// Verification never accepts an expired row, the sweep only keeps the table
// small, so its cadence is uncritical.
func sweepExpiredOtps() {
	otpS := services.Otp{
		Conn: &conn,
		Env:  &env,
	}

	for range time.Tick(env.OtpSweepInterval) {
		deleted, err := otpS.Sweep()
		if err != nil {
			logger.Error(err)
			continue
		}

		if deleted > 0 {
			logger.Log(fmt.Sprintf("Swept %d expired OTP codes", deleted))
		}
	}
}
