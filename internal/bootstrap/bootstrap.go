package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	collectorinadapter "flowmodoro/internal/modules/collector/adapter/in"
	collectoroutadapter "flowmodoro/internal/modules/collector/adapter/out"
	collectorservice "flowmodoro/internal/modules/collector/service"
	collectorusecase "flowmodoro/internal/modules/collector/usecase"
	sessioninadapter "flowmodoro/internal/modules/session/adapter/in"
	sessionoutadapter "flowmodoro/internal/modules/session/adapter/out"
	sessionin "flowmodoro/internal/modules/session/port/in"
	sessionservice "flowmodoro/internal/modules/session/service"
	sessionusecase "flowmodoro/internal/modules/session/usecase"
	settingsinadapter "flowmodoro/internal/modules/settings/adapter/in"
	settingsoutadapter "flowmodoro/internal/modules/settings/adapter/out"
	settingsin "flowmodoro/internal/modules/settings/port/in"
	settingsservice "flowmodoro/internal/modules/settings/service"
	settingsusecase "flowmodoro/internal/modules/settings/usecase"
	timerinadapter "flowmodoro/internal/modules/timer/adapter/in"
	timeroutadapter "flowmodoro/internal/modules/timer/adapter/out"
	timerservice "flowmodoro/internal/modules/timer/service"
	timerusecase "flowmodoro/internal/modules/timer/usecase"
	"flowmodoro/internal/platform/clock"
	"flowmodoro/internal/platform/config"
	"flowmodoro/internal/platform/id"
	uiapp "flowmodoro/internal/ui/app"
)

// App is the client-side composition root shared by the CLI and the TUI.
type App struct {
	SessionCLI  sessioninadapter.CLIHandler
	SettingsCLI settingsinadapter.CLIHandler

	cfg        config.Config
	logger     *log.Logger
	clock      clock.Clock
	reconciler *sessionservice.Reconciler
	sessions   sessionin.Usecase
	settings   settingsin.Usecase
}

func New(cfg config.Config, logger *log.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	clk := clock.SystemClock{}

	local := sessionoutadapter.NewFileLocalStore(cfg.SessionsPath())
	remote := sessionoutadapter.NewHTTPRemoteService(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	reconciler := sessionservice.NewReconciler(local, remote, sessionoutadapter.NewFileSyncLock(cfg.SessionsPath()+".lock", sessionoutadapter.DefaultLockTTL), logger)
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewPersistService(clk, id.Provisional{Clock: clk}, cfg.Location, local, remote, logger),
		reconciler,
		sessionservice.NewDayAggregator(local, remote, logger),
		remote,
	)

	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(
		settingsoutadapter.NewYAMLSettingsStore(cfg.SettingsPath()),
		logger,
	))

	return &App{
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		SettingsCLI: settingsinadapter.NewCLIHandler(settingsUC),
		cfg:         cfg,
		logger:      logger,
		clock:       clk,
		reconciler:  reconciler,
		sessions:    sessionUC,
		settings:    settingsUC,
	}, nil
}

// NewTimer builds the timer state machine service. The caller owns Close,
// which waits for in-flight persistence.
func (a *App) NewTimer(ctx context.Context) (timerinadapter.TUIHandler, error) {
	svc, err := timerservice.NewTimerService(ctx,
		a.clock,
		timeroutadapter.NewSessionRecorder(a.sessions),
		timeroutadapter.NewSettingsSource(a.settings),
		timeroutadapter.NewSessionFlowCounter(a.sessions),
		a.logger,
	)
	if err != nil {
		return timerinadapter.TUIHandler{}, fmt.Errorf("new timer: %w", err)
	}
	return timerinadapter.NewTUIHandler(timerusecase.NewInteractor(svc)), nil
}

// RunBackgroundSync reconciles pending records until ctx is cancelled.
func (a *App) RunBackgroundSync(ctx context.Context) {
	a.reconciler.RunPeriodic(ctx, a.cfg.Sync.Interval)
}

// RunTUI starts background sync and the timer, then blocks on the program.
// bell receives the terminal bell when a break begins.
func RunTUI(ctx context.Context, app *App, bell io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer, err := app.NewTimer(ctx)
	if err != nil {
		return err
	}
	defer timer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.RunBackgroundSync(ctx)
	}()

	model := uiapp.NewModel(timer, app.SessionCLI, app.SettingsCLI, app.cfg.Location, bell)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	cancel()
	<-done
	return err
}

// Server is the collector side: the HTTP API over the SQLite database.
type Server struct {
	Handler http.Handler
	repo    *collectoroutadapter.SQLiteSessionRepository
}

func NewServer(cfg config.Config, logger *log.Logger) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Server.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	repo, err := collectoroutadapter.NewSQLiteSessionRepository(cfg.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new session repository: %w", err)
	}
	uc := collectorusecase.NewInteractor(collectorservice.NewCollectorService(repo, logger))
	return &Server{
		Handler: collectorinadapter.NewHTTPHandler(uc, logger).Router(),
		repo:    repo,
	}, nil
}

func (s *Server) Close() error {
	return s.repo.Close()
}
