// Package bot wires the Telegram front end and the polling scheduler into a
// runnable server.
package bot

import (
	"context"
	"fmt"

	"mqwatch/bot/job"
	"mqwatch/bot/service"
	"mqwatch/bridge"
	"mqwatch/config"
	"mqwatch/logger"

	"github.com/robfig/cron/v3"
)

// Server owns the Telegram receiver and the cron scheduler driving the
// polling pass.
type Server struct {
	tgbotService service.Tgbot

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// startTask schedules the polling pass: group provisioning first, then limit
// checks, sequentially within one tick. The scheduler never interrupts a
// running pass; per-item failure handling inside the jobs keeps one bad topic
// or user from stopping the rest.
func (s *Server) startTask() {
	bridgeClient := bridge.NewClient(config.GetBridgeAddress(), config.GetBridgePort())
	provisionJob := job.NewProvisionJob(bridgeClient, &s.tgbotService, config.GetAdminIds())
	checkLimitsJob := job.NewCheckLimitsJob(bridgeClient, &s.tgbotService)

	spec := fmt.Sprintf("@every %ds", config.GetPollInterval())
	logger.Infof("Polling pass scheduled at %s", spec)
	s.cron.AddFunc(spec, func() {
		provisionJob.Run()
		checkLimitsJob.Run()
	})
}

// Start launches the Telegram receiver and the scheduler.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New(cron.WithSeconds())
	s.cron.Start()

	if err = s.tgbotService.Start(); err != nil {
		return err
	}

	s.startTask()
	return nil
}

// Stop shuts down the scheduler and the Telegram receiver. A tick already
// running finishes its pass.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.tgbotService.IsRunning() {
		s.tgbotService.Stop()
	}
	return nil
}
