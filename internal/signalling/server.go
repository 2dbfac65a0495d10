package signalling

import (
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wavecall/relay/internal/config"
	"github.com/wavecall/relay/internal/domain"
	"github.com/wavecall/relay/internal/metrics"
	"github.com/wavecall/relay/internal/repository/memory"
	"github.com/wavecall/relay/internal/service"
	"github.com/wavecall/relay/internal/sockets"
	"github.com/wavecall/relay/internal/utils"
)

const endedPurgeInterval = time.Minute

// Server is the signalling relay: it accepts peer WebSocket connections on
// /ws/peers/:id, routes call messages between them, exposes the admin REST
// API and the Prometheus endpoint, and runs the timeout sweep that ends
// ringing calls nobody answered.
type Server struct {
	app *fiber.App
	cfg *config.Manager

	peerSockets *sockets.SocketPool
	peers       *service.PeerService
	calls       *service.CallService
	router      *service.SignallingService

	peerHandler *PeerHandler

	sweeper utils.IntervalTimer
	gc      utils.IntervalTimer
}

func NewServer(cfg *config.Manager, app *fiber.App, dir domain.Directory) *Server {
	pool := sockets.NewSocketPool()
	peers := service.NewPeerService(memory.NewPeerRepository(), pool)
	calls := service.NewCallService(memory.NewCallRepository(), peers, dir)
	router := service.NewSignallingService(calls, peers)
	sessions := NewSessionHandler(peers)

	server := &Server{
		app:         app,
		cfg:         cfg,
		peerSockets: pool,
		peers:       peers,
		calls:       calls,
		router:      router,
		peerHandler: NewPeerHandler(cfg, peers, router, sessions),
	}

	conf := cfg.Get()
	sweepInterval := time.Duration(conf.Signalling.SweepIntervalMsec) * time.Millisecond
	server.sweeper = utils.SetIntervalTimer(sweepInterval, server.sweepStale)
	server.gc = utils.SetIntervalTimer(endedPurgeInterval, server.purgeEnded)

	metrics.StartTime.Set(float64(time.Now().Unix()))

	return server
}

// Close stops the background timers and drops all peer connections. Safe to
// call in a defer on shutdown.
func (s *Server) Close() {
	s.sweeper.Stop()
	s.gc.Stop()
	s.peerSockets.Close()
}

func (s *Server) SetupRoutes() {
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	s.app.Get("/ws/peers/:id", websocket.New(func(c *websocket.Conn) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic in peer socket handler", "error", err)
			}
		}()
		s.peerHandler.HandleSocket(c)
	}))

	s.setupAdminApi()

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// sweepStale ends timed-out sessions and tells both participants. It runs on
// its own schedule and touches each session lock only briefly, never the
// router's message path.
func (s *Server) sweepStale() {
	conf := s.cfg.Get()
	ringingTimeout := time.Duration(conf.Signalling.RingingTimeoutMsec) * time.Millisecond
	activeTimeout := time.Duration(conf.Signalling.ActiveTimeoutMsec) * time.Millisecond

	expired := s.calls.ExpireStale(time.Now(), ringingTimeout, activeTimeout)
	for _, session := range expired {
		for _, instr := range s.router.EndNotices(session) {
			s.peerHandler.Deliver(instr)
		}
	}
}

func (s *Server) purgeEnded() {
	conf := s.cfg.Get()
	retention := time.Duration(conf.Signalling.EndedRetentionMsec) * time.Millisecond
	s.calls.PurgeEnded(time.Now(), retention)
}
