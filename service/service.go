package service

import (
	"sync"

	"github.com/anaeze/critica/config"
	"github.com/anaeze/critica/internal/jsonlog"
	"github.com/anaeze/critica/internal/mailer"
	"github.com/anaeze/critica/repository"
)

type Service interface {
	auth
	users
	categories
	genres
	titles
	reviews
	comments
}

// service defines the app's service layer.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	mailer mailer.Mailer
	repo   repository.Repository
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		mailer: mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		repo:   repo,
	}
}
