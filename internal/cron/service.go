// Package cron dispatches configured messages on cron schedules and delivers
// the replies to a chat.
package cron

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/config"
	"github.com/skillbox/skillbox/internal/dispatch"
)

// SenderID is the sender of every scheduled dispatch.
const SenderID = "cron"

// Dispatcher runs a message through the skill dispatcher outside the bus.
type Dispatcher interface {
	ProcessDirect(ctx context.Context, senderID, content string) dispatch.Result
}

// Job is one valid schedule entry.
type Job struct {
	Name     string
	Expr     string
	Message  string
	Channel  bus.Channel
	ChatID   string
	schedule robfigcron.Schedule
}

// Next returns the first activation after t.
func (j Job) Next(t time.Time) time.Time { return j.schedule.Next(t) }

// Service owns the scheduler.
type Service struct {
	jobs       []Job
	dispatcher Dispatcher
	outbound   *bus.OutboundBus
	cron       *robfigcron.Cron
}

// NewService parses the configured schedules. Entries with an invalid
// expression or no message are logged and skipped.
func NewService(schedules []config.ScheduleConfig, dispatcher Dispatcher, outbound *bus.OutboundBus) *Service {
	s := &Service{
		dispatcher: dispatcher,
		outbound:   outbound,
		cron:       robfigcron.New(),
	}
	for i, sc := range schedules {
		name := sc.Name
		if name == "" {
			name = "schedule-" + strconv.Itoa(i+1)
		}
		if sc.Message == "" {
			slog.Warn("cron: schedule has no message, skipping", "name", name)
			continue
		}
		sched, err := robfigcron.ParseStandard(sc.Expr)
		if err != nil {
			slog.Warn("cron: invalid expression, skipping", "name", name, "expr", sc.Expr, "err", err)
			continue
		}
		s.jobs = append(s.jobs, Job{
			Name:     name,
			Expr:     sc.Expr,
			Message:  sc.Message,
			Channel:  bus.Channel(sc.Channel),
			ChatID:   sc.ChatID,
			schedule: sched,
		})
	}
	return s
}

// Jobs returns the valid schedule entries sorted by name.
func (s *Service) Jobs() []Job {
	out := make([]Job, len(s.jobs))
	copy(out, s.jobs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Start arms every job and blocks until ctx is cancelled. Running jobs are
// allowed to finish before it returns.
func (s *Service) Start(ctx context.Context) error {
	for _, job := range s.jobs {
		s.cron.Schedule(job.schedule, robfigcron.FuncJob(func() { s.RunJob(ctx, job) }))
	}
	s.cron.Start()
	slog.Info("cron: started", "jobs", len(s.jobs))

	<-ctx.Done()

	<-s.cron.Stop().Done()
	return ctx.Err()
}

// RunJob dispatches the job's message once and publishes a reply, if any.
func (s *Service) RunJob(ctx context.Context, job Job) {
	res := s.dispatcher.ProcessDirect(ctx, SenderID, job.Message)
	if !res.Replied() {
		slog.Warn("cron: no reply", "name", job.Name, "message", job.Message, "path", res.Path)
		return
	}
	if job.Channel == "" || job.ChatID == "" {
		slog.Info("cron: job ran without a destination", "name", job.Name)
		return
	}
	s.outbound.Publish(bus.NewOutboundMessage(job.Channel, job.ChatID, res.Parts))
	slog.Info("cron: delivered", "name", job.Name, "channel", job.Channel, "chat", job.ChatID)
}
