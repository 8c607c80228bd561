package meeting

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// EndStaleMeetings ends every ACTIVE meeting that exceeded the maximum duration
// or sat idle past the inactivity window. It returns how many were ended.
func (s *MeetingService) EndStaleMeetings(ctx context.Context) (int, error) {
	now := s.now()
	stale, err := s.meetingRepo.FindStaleActive(ctx,
		now.Add(-s.cfg.InactivityTimeout),
		now.Add(-s.cfg.MaxDuration),
	)
	if err != nil {
		return 0, err
	}

	ended := 0
	for _, m := range stale {
		reason, ok := m.AutoEndReason(now, s.cfg.InactivityTimeout, s.cfg.MaxDuration)
		if !ok {
			continue
		}
		_, err := s.endMeeting(ctx, m.ID, reason, NotesInput{})
		if err != nil {
			// A user may have ended it between the query and now
			if errors.Is(err, usecaseErrors.ErrMeetingCompleted) || errors.Is(err, usecaseErrors.ErrMeetingNotActive) {
				continue
			}
			s.logger.Error("meeting.auto_end_failed",
				zap.String("meeting_id", m.ID.String()),
				zap.Error(err),
			)
			continue
		}
		ended++
		s.logger.Info("meeting.auto_ended",
			zap.String("meeting_id", m.ID.String()),
			zap.String("reason", string(reason)),
		)
	}
	return ended, nil
}

// RunWatchdog checks for stale meetings on every tick until ctx is done
func (s *MeetingService) RunWatchdog(ctx context.Context) {
	interval := s.cfg.WatchdogInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("meeting.watchdog.started",
		zap.Duration("interval", interval),
		zap.Duration("inactivity_timeout", s.cfg.InactivityTimeout),
		zap.Duration("max_duration", s.cfg.MaxDuration),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("meeting.watchdog.stopped")
			return
		case <-ticker.C:
			if _, err := s.EndStaleMeetings(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("meeting.watchdog.failed", zap.Error(err))
			}
		}
	}
}
