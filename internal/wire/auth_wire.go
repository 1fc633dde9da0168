package wire

import (
	"venue-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g *guards) {
	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.With(g.limit).Post("/signup", authHandler.SignUp)
		r.With(g.limit).Post("/signin", authHandler.SignIn)
		r.With(g.limit).Post("/verify/resend", authHandler.ResendVerification)
		r.Post("/verify", authHandler.VerifyEmail)
		r.With(g.limit).Post("/password/reset", authHandler.ResetPassword)
		r.Post("/password/confirm", authHandler.ConfirmPasswordReset)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth)

			r.Post("/signout", authHandler.SignOut)
			r.Get("/session", authHandler.Session)
		})
	})
}
