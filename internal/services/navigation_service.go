package services

import (
	"context"

	"rideadmin/internal/models"
	"rideadmin/pkg/logger"
)

// NavigationService owns the shell state held in a session: the active tab
// and the sidebar flag on narrow viewports.
type NavigationService interface {
	Shell(session *models.Session) models.ShellState
	SelectTab(ctx context.Context, session *models.Session, raw string) (models.ShellState, error)
	SetSidebar(ctx context.Context, session *models.Session, open bool) (models.ShellState, error)
	ToggleSidebar(ctx context.Context, session *models.Session) (models.ShellState, error)
}

type navigationService struct {
	sessions *SessionStore
	logger   *logger.Logger
}

func NewNavigationService(sessions *SessionStore, log *logger.Logger) NavigationService {
	return &navigationService{
		sessions: sessions,
		logger:   log.WithComponent("navigation"),
	}
}

// ShellOf renders the shell for a session. The title always comes from the
// tab lookup.
func ShellOf(session *models.Session) models.ShellState {
	active, _ := models.ResolveTab(string(session.ActiveTab))

	tabs := make([]models.TabInfo, 0, len(models.Tabs))
	for _, t := range models.Tabs {
		tabs = append(tabs, models.TabInfo{
			ID:     t,
			Title:  t.Title(),
			Active: t == active,
		})
	}

	return models.ShellState{
		ActiveTab:   active,
		Title:       active.Title(),
		SidebarOpen: session.SidebarOpen,
		Tabs:        tabs,
	}
}

func (s *navigationService) Shell(session *models.Session) models.ShellState {
	return ShellOf(session)
}

func (s *navigationService) SelectTab(ctx context.Context, session *models.Session, raw string) (models.ShellState, error) {
	tab, known := models.ResolveTab(raw)
	if !known {
		s.logger.WithField("tab", raw).Debug("Unknown tab, falling back to dashboard")
	}

	session.ActiveTab = tab
	return s.save(ctx, session)
}

func (s *navigationService) SetSidebar(ctx context.Context, session *models.Session, open bool) (models.ShellState, error) {
	session.SidebarOpen = open
	return s.save(ctx, session)
}

func (s *navigationService) ToggleSidebar(ctx context.Context, session *models.Session) (models.ShellState, error) {
	session.SidebarOpen = !session.SidebarOpen
	return s.save(ctx, session)
}

func (s *navigationService) save(ctx context.Context, session *models.Session) (models.ShellState, error) {
	if err := s.sessions.Save(ctx, session); err != nil {
		return models.ShellState{}, err
	}
	return ShellOf(session), nil
}
