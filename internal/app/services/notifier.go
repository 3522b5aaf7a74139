package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/pkg/email"
	"github.com/yigit/taallocation/internal/pkg/metrics"
)

// AllocationNotice describes a committed allocation or deallocation
type AllocationNotice struct {
	Action     models.LogAction
	Student    models.Student
	Course     *models.Course // nil when the course no longer exists
	Allocator  models.Allocator
	ActorEmail *string
}

// Notifier is told about committed transitions. Implementations must not
// block the caller and must not report failures back.
type Notifier interface {
	Notify(ctx context.Context, notice AllocationNotice)
}

// NoopNotifier discards notices
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, AllocationNotice) {}

// EmailNotifierConfig selects which events are mailed and where
type EmailNotifierConfig struct {
	AdminEmail   string
	OnAllocate   bool
	OnDeallocate bool
	Timeout      time.Duration
}

// EmailNotifier mails allocation notices in the background. Failures are
// logged and counted once, never retried.
type EmailNotifier struct {
	sender email.Sender
	reader repositories.Reader
	cfg    EmailNotifierConfig
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewEmailNotifier creates an EmailNotifier
func NewEmailNotifier(sender email.Sender, reader repositories.Reader, cfg EmailNotifierConfig, logger zerolog.Logger) *EmailNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &EmailNotifier{sender: sender, reader: reader, cfg: cfg, logger: logger}
}

func (n *EmailNotifier) enabled(action models.LogAction) bool {
	switch action {
	case models.ActionAllocated:
		return n.cfg.OnAllocate
	case models.ActionDeallocated:
		return n.cfg.OnDeallocate
	}
	return false
}

// Notify dispatches the notice on its own goroutine. The request context's
// cancellation is dropped so the mail outlives the request.
func (n *EmailNotifier) Notify(ctx context.Context, notice AllocationNotice) {
	if !n.enabled(notice.Action) {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.cfg.Timeout)
		defer cancel()
		if err := n.send(sendCtx, notice); err != nil {
			metrics.NotificationFailed(string(notice.Action))
			n.logger.Warn().Err(err).
				Str("studentID", notice.Student.ID.String()).
				Str("action", string(notice.Action)).
				Msg("Allocation notification failed")
		}
	}()
}

// Wait blocks until every dispatched notice has finished
func (n *EmailNotifier) Wait() {
	n.wg.Wait()
}

func (n *EmailNotifier) send(ctx context.Context, notice AllocationNotice) error {
	evt := email.AllocationEvent{
		Action:       string(notice.Action),
		StudentName:  notice.Student.Name,
		StudentEmail: notice.Student.EmailID,
		RollNo:       notice.Student.RollNo,
		ActorRole:    notice.Allocator.Role,
		AdminEmail:   n.cfg.AdminEmail,
	}
	if notice.ActorEmail != nil {
		evt.ActorEmail = *notice.ActorEmail
	}
	if c := notice.Course; c != nil {
		evt.CourseName = c.Name
		evt.CourseCode = c.Code
		if c.ProfessorID != nil {
			if p, err := n.reader.GetProfessor(ctx, *c.ProfessorID); err == nil {
				evt.ProfessorEmail = p.EmailID
			}
		}
		if c.DepartmentID != nil {
			if jm, err := n.reader.GetCoordinator(ctx, *c.DepartmentID); err == nil {
				evt.CoordinatorEmail = jm.EmailID
			}
		}
	}

	msg, err := email.BuildAllocationMessage(evt)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, msg)
}
