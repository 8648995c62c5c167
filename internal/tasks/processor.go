package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"restaurantadmin/internal/mail"
	"restaurantadmin/internal/metrics"
	"restaurantadmin/internal/queue"
	"restaurantadmin/internal/storage"
)

type Mailer interface {
	SendActivation(ctx context.Context, a mail.Activation) error
}

type AvatarObjects interface {
	ListBefore(ctx context.Context, cutoff time.Time) ([]storage.ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}

// AvatarRefs reports every avatar key still referenced by a user.
type AvatarRefs interface {
	AvatarKeys(ctx context.Context) (map[string]struct{}, error)
}

type Processor struct {
	mailer  Mailer
	objects AvatarObjects
	refs    AvatarRefs
	grace   time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

func NewProcessor(mailer Mailer, objects AvatarObjects, refs AvatarRefs, grace time.Duration, logger zerolog.Logger) *Processor {
	return &Processor{
		mailer:  mailer,
		objects: objects,
		refs:    refs,
		grace:   grace,
		now:     time.Now,
		logger:  logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	taskType := field(msg.Values, "type")

	var err error
	switch taskType {
	case queue.TaskActivationMail:
		err = p.handleActivationMail(ctx, msg.Values)
	case queue.TaskAvatarSweep:
		err = p.handleAvatarSweep(ctx)
	default:
		p.logger.Warn().Str("type", taskType).Str("message_id", msg.ID).Msg("unknown task type")
		return nil
	}

	metrics.ObserveTask(taskType, err)
	return err
}

func (p *Processor) handleActivationMail(ctx context.Context, values map[string]any) error {
	a := mail.Activation{
		Email: field(values, "email"),
		Name:  field(values, "name"),
		Code:  field(values, "code"),
	}
	if a.Email == "" || a.Code == "" {
		// Malformed entries are acked and dropped.
		p.logger.Warn().Msg("activation mail task missing email or code")
		return nil
	}

	if err := p.mailer.SendActivation(ctx, a); err != nil {
		return fmt.Errorf("send activation to %s: %w", a.Email, err)
	}
	p.logger.Info().Str("email", a.Email).Msg("activation mail sent")
	return nil
}

// handleAvatarSweep removes avatar objects that no user references and that
// are older than the grace period, so uploads in flight are left alone.
func (p *Processor) handleAvatarSweep(ctx context.Context) error {
	objects, err := p.objects.ListBefore(ctx, p.now().Add(-p.grace))
	if err != nil {
		return fmt.Errorf("list avatars: %w", err)
	}
	if len(objects) == 0 {
		return nil
	}

	referenced, err := p.refs.AvatarKeys(ctx)
	if err != nil {
		return fmt.Errorf("load avatar refs: %w", err)
	}

	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if err := p.objects.Remove(ctx, obj.Key); err != nil {
			p.logger.Warn().Err(err).Str("key", obj.Key).Msg("remove orphan avatar failed")
			continue
		}
		removed++
	}

	p.logger.Info().Int("scanned", len(objects)).Int("removed", removed).Msg("avatar sweep finished")
	return nil
}

func field(values map[string]any, key string) string {
	v, ok := values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
