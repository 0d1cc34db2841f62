package main

import (
	"errors"
	"net/http"

	"github.com/strivelab/backend/internal/middleware"
	"github.com/strivelab/backend/pkg/prometheus"
	"github.com/strivelab/backend/pkg/router"
	"github.com/strivelab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadStorage()
	s.loadPubsub()
	s.loadRepos()
	s.loadGateway()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	// These APIs act on behalf of the requesting user.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		router.GET(authRouter, "/getFriendsWithProgress", s.friendsDomain.GetFriendsWithProgress)
		router.GET(authRouter, "/getFriendsGrid", s.friendsDomain.GetFriendsGrid)
		router.GET(authRouter, "/getActivityFeed", s.friendsDomain.GetActivityFeed)

		router.POST(authRouter, "/joinChallenge", s.challengeDomain.JoinChallenge)
		router.POST(authRouter, "/updateProgress", s.challengeDomain.UpdateProgress)
		router.POST(authRouter, "/uploadAvatar", s.userDomain.UploadAvatar)
	}

	// Public API.
	router.GET(s.router, "/getUser", s.userDomain.GetUser)
	router.GET(s.router, "/getUsers", s.userDomain.GetUsers)
	router.GET(s.router, "/getChallenges", s.challengeDomain.GetChallenges)

	wsRouter := s.router.Branch()
	wsRouter.Before(middleware.Authenticate())
	wsRouter.Handle("/ws/friends", http.HandlerFunc(s.serveFriendsWs))

	s.router.Handle("/metrics", prometheus.NewHandler())
}
