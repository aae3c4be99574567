package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	agentdto "mail-calendar-agent/internal/agent/dto"
	"mail-calendar-agent/internal/agent/usecase"
	"mail-calendar-agent/internal/auth/repository"
)

// ProcessJob is a scheduled run for one user.
type ProcessJob struct {
	Email string
}

// AgentScheduler periodically queues a processing run for every user with
// stored tokens. A user already queued or running is not queued again.
// A scheduler is single use: once stopped it cannot be started again.
type AgentScheduler struct {
	agentUsecase usecase.AgentUsecase
	userRepo     repository.UserRepository
	interval     time.Duration
	workerCount  int

	jobQueue chan ProcessJob
	workerWg sync.WaitGroup
	stopChan chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc

	mu       sync.Mutex
	inFlight map[string]bool
	started  bool
	stopped  bool
}

// NewAgentScheduler creates a new scheduler
func NewAgentScheduler(
	agentUsecase usecase.AgentUsecase,
	userRepo repository.UserRepository,
	interval time.Duration,
	workerCount int,
) *AgentScheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if workerCount <= 0 {
		workerCount = 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &AgentScheduler{
		agentUsecase: agentUsecase,
		userRepo:     userRepo,
		interval:     interval,
		workerCount:  workerCount,
		jobQueue:     make(chan ProcessJob, 100),
		stopChan:     make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
		inFlight:     make(map[string]bool),
	}
}

// Start launches the workers and the ticker loop
func (s *AgentScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	if s.stopped {
		log.Println("[AgentScheduler] Start called after Stop, ignoring")
		return
	}
	s.started = true

	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker(i)
	}

	log.Printf("[AgentScheduler] Starting with %d workers (interval: %s)", s.workerCount, s.interval)

	go func() {
		s.enqueueUsers()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.enqueueUsers()
			case <-s.stopChan:
				log.Println("[AgentScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop halts the ticker, cancels running jobs and waits for the workers.
func (s *AgentScheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.stopped = true
	s.mu.Unlock()

	close(s.stopChan)
	s.cancel()
	close(s.jobQueue)
	s.workerWg.Wait()
	log.Println("[AgentScheduler] All workers stopped")
}

func (s *AgentScheduler) enqueueUsers() {
	users, err := s.userRepo.List(0)
	if err != nil {
		log.Printf("[AgentScheduler] Error listing users: %v", err)
		return
	}

	queued := 0
	for _, u := range users {
		if !u.HasTokens() {
			continue
		}
		if s.QueueJob(ProcessJob{Email: u.Email}) {
			queued++
		}
	}
	if queued > 0 {
		log.Printf("[AgentScheduler] Queued %d users for processing", queued)
	}
}

// QueueJob adds a job unless the user is already in flight or the queue is
// full. It never blocks.
func (s *AgentScheduler) QueueJob(job ProcessJob) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.inFlight[job.Email] {
		return false
	}

	select {
	case s.jobQueue <- job:
		s.inFlight[job.Email] = true
		return true
	default:
		return false
	}
}

func (s *AgentScheduler) worker(id int) {
	defer s.workerWg.Done()

	for job := range s.jobQueue {
		s.processJob(job)
	}

	log.Printf("[AgentScheduler] Worker %d stopped", id)
}

func (s *AgentScheduler) processJob(job ProcessJob) {
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, job.Email)
		s.mu.Unlock()
	}()

	if s.ctx.Err() != nil {
		return
	}

	result, err := s.agentUsecase.Process(s.ctx, agentdto.ProcessRequest{Email: job.Email})
	if err != nil {
		log.Printf("[AgentScheduler] Run for %s failed: %v", job.Email, err)
		return
	}
	log.Printf("[AgentScheduler] Run %s for %s: %d processed, %d events, %d errors",
		result.RunID, job.Email, result.Results.Summary.ProcessedEmails,
		result.Results.Summary.CreatedEvents, result.Results.Summary.Errors)
}
