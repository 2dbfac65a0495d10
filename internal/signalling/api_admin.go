package signalling

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/wavecall/relay/internal/api"
	"github.com/wavecall/relay/internal/domain"
)

const recentCallsLimit = 50

func (s *Server) setupAdminApi() {
	s.app.Route("/api/admin", func(router fiber.Router) {
		router.Use(basicauth.New(basicauth.Config{
			Realm: "Forbidden",
			Authorizer: func(user, pass string) bool {
				credential := s.cfg.Get().Security.AdminCredential
				return credential == nil || user == "admin" && pass == *credential
			},
		}))

		router.Get("/peers", func(c *fiber.Ctx) error {
			peers, err := s.peers.GetAll()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Failed to list peers")
			}
			return c.JSON(fiber.Map{"peers": api.ToApiPeers(peers)})
		})

		router.Get("/calls", func(c *fiber.Ctx) error {
			sessions, err := s.calls.Recent(c.Query("peer"), recentCallsLimit)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Failed to list calls")
			}
			return c.JSON(fiber.Map{"calls": api.ToApiCalls(sessions)})
		})

		router.Post("/calls/:id/end", func(c *fiber.Ctx) error {
			callID := c.Params("id")

			session, changed, err := s.calls.End(callID, domain.EndReasonCompleted)
			if errors.Is(err, domain.ErrCallNotFound) {
				return c.Status(fiber.StatusNotFound).SendString("Call not found")
			}
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Failed to end call")
			}

			if changed {
				for _, instr := range s.router.EndNotices(session) {
					s.peerHandler.Deliver(instr)
				}
			}
			return c.JSON(api.ToApiCall(session))
		})
	})
}
