package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/khanhnv2901/netrax/internal/api"
	jsonrepo "github.com/khanhnv2901/netrax/internal/infrastructure/persistence/json"
	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultJobTimeout = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run NETRA-X as a REST API service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config.Serve
		logger := desugar(appCtx)

		repo, err := newSnapshotRepository(appCtx)
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		jobCtx, cancelJobs := context.WithCancel(context.Background())
		defer cancelJobs()

		jobManager := api.NewJobManager()
		defer jobManager.Close()
		jobs := &jobAPIService{
			manager: jobManager,
			appCtx:  appCtx,
			saver:   repo,
			baseCtx: jobCtx,
			timeout: defaultJobTimeout,
			logger:  logger,
		}

		server := api.NewServer(api.Config{
			Health:      &healthAPIService{appCtx: appCtx},
			Jobs:        jobs,
			Snapshots:   &snapshotAPIService{repo: repo},
			AuthToken:   cfg.AuthToken,
			Logger:      logger,
			CORSOrigins: cfg.CORSOrigins,
			RateLimit:   cfg.RateLimit,
			RateBurst:   cfg.RateBurst,
		})
		defer server.Close()

		httpServer := &http.Server{
			Addr:              cfg.Addr,
			Handler:           server,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s API server listening on %s (results dir: %s)\n", colorInfo("→"), cfg.Addr, appCtx.ResultsDir)
		fmt.Fprintf(cmd.OutOrStdout(), "%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
		return serveUntilDone(ctx, cmd.OutOrStdout(), httpServer, cfg.ShutdownTimeout, func() {
			cancelJobs()
			jobs.Wait()
		})
	},
}

// serveUntilDone runs srv until it fails or ctx is cancelled. stopJobs runs on
// every return path.
func serveUntilDone(ctx context.Context, out io.Writer, srv *http.Server, shutdownTimeout time.Duration, stopJobs func()) error {
	defer stopJobs()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		fmt.Fprintf(out, "\n%s Shutting down...\n", colorInfo("→"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		if closeErr := srv.Close(); closeErr != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
		}
		return fmt.Errorf("failed to gracefully shutdown server: %w", err)
	}

	fmt.Fprintf(out, "%s Server shutdown complete\n", colorSuccess("✓"))
	return nil
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&cliConfig.Serve.Addr, "addr", cliConfig.Serve.Addr, "Address for the API server")
	flags.StringVar(&cliConfig.Serve.AuthToken, "auth-token", "", "Optional shared secret for API requests")
	flags.DurationVar(&cliConfig.Serve.ShutdownTimeout, "shutdown-timeout", cliConfig.Serve.ShutdownTimeout, "Graceful shutdown timeout")
	flags.StringSliceVar(&cliConfig.Serve.CORSOrigins, "cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	flags.IntVar(&cliConfig.Serve.RateLimit, "rate-limit", cliConfig.Serve.RateLimit, "Rate limit per IP (requests/second, 0 = disabled)")
	flags.IntVar(&cliConfig.Serve.RateBurst, "rate-burst", cliConfig.Serve.RateBurst, "Rate limit burst size")
}

type healthAPIService struct {
	appCtx *AppContext
}

func (s *healthAPIService) Check(ctx context.Context) error {
	if s.appCtx.ResultsDir == "" {
		return fmt.Errorf("results directory not configured")
	}
	return nil
}

func (s *healthAPIService) Ready(ctx context.Context) error {
	if err := s.Check(ctx); err != nil {
		return err
	}
	info, err := os.Stat(s.appCtx.ResultsDir)
	if err != nil {
		return fmt.Errorf("results directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("results path %s is not a directory", s.appCtx.ResultsDir)
	}
	return nil
}

type snapshotAPIService struct {
	repo *jsonrepo.SnapshotRepository
}

func (s *snapshotAPIService) ListSnapshots(ctx context.Context) ([]api.Snapshot, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]api.Snapshot, 0, len(items))
	for _, item := range items {
		resp = append(resp, convertSnapshotInfo(item))
	}
	return resp, nil
}

func (s *snapshotAPIService) GetSnapshot(ctx context.Context, id string) (*api.Snapshot, error) {
	snap, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	result := convertSnapshotInfo(snap.SnapshotInfo)
	result.Graph = snap.Graph
	return &result, nil
}

func convertSnapshotInfo(info jsonrepo.SnapshotInfo) api.Snapshot {
	return api.Snapshot{
		ID:        info.ID,
		Domain:    info.Domain,
		CreatedAt: info.CreatedAt,
		NodeCount: info.NodeCount,
		LinkCount: info.LinkCount,
	}
}

// jobAPIService runs graph crawls in the background, one goroutine per job.
type jobAPIService struct {
	manager *api.JobManager
	appCtx  *AppContext
	saver   graphSaver
	baseCtx context.Context
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func (s *jobAPIService) StartGraph(ctx context.Context, req api.GraphRequest) (*api.Job, error) {
	domain, err := sitegraph.NormalizeDomain(req.Domain)
	if err != nil {
		return nil, err
	}
	job := s.manager.CreateJob(api.JobTypeGraph, domain)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(job.ID, domain)
	}()
	return job, nil
}

func (s *jobAPIService) execute(jobID, domain string) {
	now := time.Now().UTC()
	s.manager.UpdateJob(jobID, func(j *api.Job) {
		j.Status = api.JobRunning
		j.StartedAt = &now
	})

	base := s.baseCtx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithTimeout(base, s.timeout)
	defer cancel()

	onDomain := func(name string, index, total int) {
		s.manager.UpdateJob(jobID, func(j *api.Job) {
			j.Progress = &api.JobProgress{Domain: name, Index: index, Total: total}
		})
	}
	crawler, cleanup := newCrawler(s.appCtx, onDomain)
	defer cleanup()

	g, err := crawler.Crawl(ctx, domain)
	snapshotID := ""
	if err == nil && s.saver != nil {
		snapshotID, err = saveGraph(ctx, s.saver, domain, g)
	}

	finished := time.Now().UTC()
	if err != nil {
		s.logger.Warn("graph job failed", zap.String("job_id", jobID), zap.String("domain", domain), zap.Error(err))
		s.manager.UpdateJob(jobID, func(j *api.Job) {
			j.Status = api.JobError
			j.Error = err.Error()
			j.FinishedAt = &finished
		})
		return
	}
	s.manager.UpdateJob(jobID, func(j *api.Job) {
		j.Status = api.JobDone
		j.Graph = g
		j.SnapshotID = snapshotID
		j.FinishedAt = &finished
	})
}

func (s *jobAPIService) GetJob(ctx context.Context, id string) (*api.Job, error) {
	job := s.manager.GetJob(id)
	if job == nil {
		return nil, fmt.Errorf("%w: %s", sharedErrors.ErrJobNotFound, id)
	}
	return job, nil
}

func (s *jobAPIService) ListJobs(ctx context.Context, limit int) ([]api.Job, error) {
	return s.manager.ListJobs(limit), nil
}

func (s *jobAPIService) Subscribe() (chan api.Job, func()) {
	return s.manager.Subscribe()
}

// Wait blocks until every started job has finished.
func (s *jobAPIService) Wait() {
	s.wg.Wait()
}
